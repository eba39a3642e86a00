package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/savings"
)

// SavingsHandler handles savings goal requests.
type SavingsHandler struct {
	service *savings.Service
}

// NewSavingsHandler creates a new SavingsHandler.
func NewSavingsHandler(service *savings.Service) *SavingsHandler {
	return &SavingsHandler{service: service}
}

// CreateSavingsGoalRequest represents the request payload for creating a
// savings goal.
type CreateSavingsGoalRequest struct {
	Name         string  `json:"name" binding:"required"`
	TargetAmount int64   `json:"target_amount" binding:"required,gt=0"`
	TargetDate   *string `json:"target_date"`
}

// CreateSavingsGoal creates a savings goal.
func (h *SavingsHandler) CreateSavingsGoal(c *gin.Context) {
	var req CreateSavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	var targetDate *time.Time
	if req.TargetDate != nil && *req.TargetDate != "" {
		parsed, parseErr := parseFlexibleTime(*req.TargetDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, parseErr.Error()))
			return
		}
		targetDate = &parsed
	}

	created, err := h.service.Create(req.Name, req.TargetAmount, targetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"savings_goal": created})
}

// ListSavingsGoals lists all savings goals.
func (h *SavingsHandler) ListSavingsGoals(c *gin.Context) {
	goals, err := h.service.List()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"savings_goals": goals})
}

// GetSavingsGoalByID returns a single savings goal.
func (h *SavingsHandler) GetSavingsGoalByID(c *gin.Context) {
	found, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"savings_goal": found})
}

// AddSavingsProgressRequest represents the request payload for adjusting a
// goal's saved amount.
type AddSavingsProgressRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// AddSavingsProgress adjusts the goal's saved amount by a delta.
func (h *SavingsHandler) AddSavingsProgress(c *gin.Context) {
	var req AddSavingsProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	updated, err := h.service.AddProgress(c.Param("id"), req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"savings_goal": updated})
}

// DeleteSavingsGoal removes a savings goal.
func (h *SavingsHandler) DeleteSavingsGoal(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
