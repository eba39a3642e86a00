package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/insights"
)

// InsightsHandler handles analytics requests.
type InsightsHandler struct {
	engine *insights.Engine
	worker *insights.Worker
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(engine *insights.Engine, worker *insights.Worker) *InsightsHandler {
	return &InsightsHandler{engine: engine, worker: worker}
}

// InsightsPeriodRequest carries the shared period query parameter.
type InsightsPeriodRequest struct {
	Period int `form:"period" binding:"omitempty,insight_period"`
}

func bindPeriod(c *gin.Context) (insights.Period, bool) {
	var req InsightsPeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return 0, false
	}
	if req.Period == 0 {
		return insights.PeriodThreeMonths, true
	}
	return insights.Period(req.Period), true
}

// GetTrends returns month-over-month income and expense totals.
func (h *InsightsHandler) GetTrends(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	trends, err := h.engine.Trends(time.Now(), period)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends, "period": period.MonthCount()})
}

// GetCategoryBreakdown returns per-category expense shares for the period.
func (h *InsightsHandler) GetCategoryBreakdown(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	breakdown, err := h.engine.CategoryBreakdown(time.Now(), period)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": breakdown, "period": period.MonthCount()})
}

// GetCategoryTrend compares a category's current month against the previous
// month and the period average.
func (h *InsightsHandler) GetCategoryTrend(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	trend, err := h.engine.CategoryTrendFor(c.Param("id"), time.Now(), period)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

// GetTopExpenses returns the largest individual expenses in the period.
func (h *InsightsHandler) GetTopExpenses(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, "limit must be between 1 and 100"))
			return
		}
		limit = parsed
	}
	expenses, err := h.engine.TopExpenses(time.Now(), period, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_expenses": expenses})
}

// GetSpendingByDayOfWeek returns the expense histogram across weekdays.
func (h *InsightsHandler) GetSpendingByDayOfWeek(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	days, err := h.engine.SpendingByDayOfWeek(time.Now(), period)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// GetSpendingByHour returns the expense histogram across hours of the day.
func (h *InsightsHandler) GetSpendingByHour(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	hours, err := h.engine.SpendingByHour(time.Now(), period)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hours": hours})
}

// GetPatterns mines the transaction history for likely recurring expenses.
func (h *InsightsHandler) GetPatterns(c *gin.Context) {
	patterns, err := h.engine.DetectPatterns()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patterns": patterns})
}

// GetOverview computes the full analytics overview through the worker, so a
// newer request supersedes any still-running computation.
func (h *InsightsHandler) GetOverview(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	overview, err := h.worker.Overview(c.Request.Context(), time.Now(), period)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overview": overview})
}
