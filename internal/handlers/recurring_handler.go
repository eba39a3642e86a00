package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/recurring"
)

// RecurringHandler handles recurring transaction template requests.
type RecurringHandler struct {
	service   *recurring.Service
	scheduler *recurring.Scheduler
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(service *recurring.Service, scheduler *recurring.Scheduler) *RecurringHandler {
	return &RecurringHandler{service: service, scheduler: scheduler}
}

// CreateRecurringRequest represents the request payload for creating a
// recurring transaction template.
type CreateRecurringRequest struct {
	Amount     int64   `json:"amount" binding:"required,gt=0"`
	Type       string  `json:"type" binding:"required,transaction_type"`
	CategoryID *string `json:"category_id"`
	Note       string  `json:"note"`
	Frequency  string  `json:"frequency" binding:"required,frequency"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    *string `json:"end_date"`
}

// CreateRecurring creates a recurring transaction template.
func (h *RecurringHandler) CreateRecurring(c *gin.Context) {
	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	startDate, err := parseFlexibleTime(req.StartDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, parseErr := parseFlexibleTime(*req.EndDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, parseErr.Error()))
			return
		}
		endDate = &parsed
	}

	created, err := h.service.Create(recurring.CreateParams{
		Amount:     req.Amount,
		Type:       models.TransactionType(req.Type),
		CategoryID: req.CategoryID,
		Note:       req.Note,
		Frequency:  models.Frequency(req.Frequency),
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recurring_transaction": created})
}

// ListRecurring lists recurring templates, optionally only active ones.
func (h *RecurringHandler) ListRecurring(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	templates, err := h.service.List(activeOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recurring_transactions": templates})
}

// GetRecurringByID returns a single recurring template.
func (h *RecurringHandler) GetRecurringByID(c *gin.Context) {
	found, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recurring_transaction": found})
}

// UpdateRecurringRequest represents the request payload for updating a
// recurring transaction template.
type UpdateRecurringRequest struct {
	Amount  *int64  `json:"amount" binding:"omitempty,gt=0"`
	Note    *string `json:"note"`
	EndDate *string `json:"end_date"`
}

// UpdateRecurring updates a recurring template's amount, note or end date.
func (h *RecurringHandler) UpdateRecurring(c *gin.Context) {
	var req UpdateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, parseErr := parseFlexibleTime(*req.EndDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, parseErr.Error()))
			return
		}
		endDate = &parsed
	}

	updated, err := h.service.Update(c.Param("id"), req.Amount, req.Note, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recurring_transaction": updated})
}

// DeactivateRecurring stops future materialization for a template. Templates
// are never deleted so already materialized transactions keep their history.
func (h *RecurringHandler) DeactivateRecurring(c *gin.Context) {
	updated, err := h.service.Deactivate(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recurring_transaction": updated})
}

// ProcessDue materializes all due recurring templates, catching up missed
// occurrences.
func (h *RecurringHandler) ProcessDue(c *gin.Context) {
	created, err := h.scheduler.ProcessAllDue(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}
