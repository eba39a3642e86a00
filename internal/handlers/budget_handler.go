package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moneta/internal/budget"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// BudgetHandler handles budget requests.
type BudgetHandler struct {
	service *budget.Service
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(service *budget.Service) *BudgetHandler {
	return &BudgetHandler{service: service}
}

// CreateBudgetRequest represents the request payload for creating a budget.
// A nil category creates the single process-wide total budget.
type CreateBudgetRequest struct {
	Amount     int64   `json:"amount" binding:"min=0"`
	Period     string  `json:"period" binding:"required,budget_period"`
	CategoryID *string `json:"category_id"`
	StartDate  *string `json:"start_date"`
}

// CreateBudget creates a budget.
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	startDate := time.Now()
	if req.StartDate != nil && *req.StartDate != "" {
		parsed, parseErr := parseFlexibleTime(*req.StartDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, parseErr.Error()))
			return
		}
		startDate = parsed
	}

	created, err := h.service.Create(req.Amount, models.BudgetPeriod(req.Period), req.CategoryID, startDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"budget": created})
}

// ListBudgets lists all budgets.
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	budgets, err := h.service.List()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetBudgetByID returns a single budget.
func (h *BudgetHandler) GetBudgetByID(c *gin.Context) {
	found, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": found})
}

// UpdateBudgetRequest represents the request payload for updating a budget
type UpdateBudgetRequest struct {
	Amount *int64  `json:"amount" binding:"omitempty,min=0"`
	Period *string `json:"period" binding:"omitempty,budget_period"`
}

// UpdateBudget updates a budget's amount or period.
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	var period *models.BudgetPeriod
	if req.Period != nil {
		p := models.BudgetPeriod(*req.Period)
		period = &p
	}

	updated, err := h.service.Update(c.Param("id"), req.Amount, period)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": updated})
}

// DeleteBudget removes a budget.
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetBudgetStatus evaluates spend against the budget's current period.
func (h *BudgetHandler) GetBudgetStatus(c *gin.Context) {
	status, err := h.service.Status(c.Param("id"), time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// GetBudgetPrediction projects period-end spend for the budget.
func (h *BudgetHandler) GetBudgetPrediction(c *gin.Context) {
	prediction, err := h.service.Prediction(c.Param("id"), time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"prediction":                 prediction,
		"usage_percentage":           prediction.UsagePercentage(),
		"predicted_usage_percentage": prediction.PredictedUsagePercentage(),
	})
}
