package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/ledger"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// TransactionHandler handles ledger transaction requests.
type TransactionHandler struct {
	repo *ledger.Repository
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(repo *ledger.Repository) *TransactionHandler {
	return &TransactionHandler{repo: repo}
}

// LocationRequest carries an optional geotag; all three fields are required
// together.
type LocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Name      string  `json:"name" binding:"required"`
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	Amount     int64            `json:"amount" binding:"required,gt=0"`
	Type       string           `json:"type" binding:"required,transaction_type"`
	CategoryID *string          `json:"category_id"`
	WalletID   *string          `json:"wallet_id"`
	Note       string           `json:"note" binding:"max=500"`
	Date       *string          `json:"date"`
	Currency   string           `json:"currency" binding:"omitempty,iso4217"`
	ReceiptID  *string          `json:"receipt_id"`
	Location   *LocationRequest `json:"location"`
	Tags       []string         `json:"tags"`
}

// CreateTransaction creates a new ledger entry.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	transactionDate := time.Now()
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, parseErr.Error()))
			return
		}
		transactionDate = parsed
	}

	params := ledger.CreateParams{
		Amount:     req.Amount,
		Type:       models.TransactionType(req.Type),
		CategoryID: req.CategoryID,
		WalletID:   req.WalletID,
		Note:       req.Note,
		Date:       transactionDate,
		Currency:   req.Currency,
		ReceiptID:  req.ReceiptID,
		TagNames:   req.Tags,
	}
	if req.Location != nil {
		params.Location = &ledger.Location{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
			Name:      req.Location.Name,
		}
	}

	transaction, err := h.repo.Create(params)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// ListTransactionsRequest holds list query parameters.
type ListTransactionsRequest struct {
	pagination.PageRequest
	From       *string `form:"from"`
	To         *string `form:"to"`
	Day        *string `form:"day"`
	Type       *string `form:"type" binding:"omitempty,transaction_type"`
	CategoryID *string `form:"category_id"`
	WalletID   *string `form:"wallet_id"`
	Query      string  `form:"q"`
	Sort       string  `form:"sort" binding:"omitempty,oneof=date_desc date_asc amount_desc"`
}

// ListTransactions lists ledger entries with optional range, day, type, and
// note-substring filters.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	filter := ledger.Filter{Query: req.Query}
	if req.CategoryID != nil {
		filter.CategoryID = req.CategoryID
	}
	if req.WalletID != nil {
		filter.WalletID = req.WalletID
	}
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		filter.Type = &t
	}
	if req.Day != nil {
		day, err := parseFlexibleTime(*req.Day)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
			return
		}
		filter.FromDate = &day
		filter.ToDate = &day
	} else {
		if req.From != nil {
			from, err := parseFlexibleTime(*req.From)
			if err != nil {
				respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
				return
			}
			filter.FromDate = &from
		}
		if req.To != nil {
			to, err := parseFlexibleTime(*req.To)
			if err != nil {
				respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
				return
			}
			filter.ToDate = &to
		}
	}

	result, err := h.repo.List(req.PageRequest, filter, ledger.SortOrder(req.Sort))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTransactionByID returns a single ledger entry.
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	transaction, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction removes a ledger entry.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	if err := h.repo.Delete(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetStatistics returns range totals and the expense-by-category breakdown.
// Defaults to the current calendar month when no range is given.
func (h *TransactionHandler) GetStatistics(c *gin.Context) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)

	if v := c.Query("from"); v != "" {
		parsed, err := parseFlexibleTime(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
			return
		}
		start = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := parseFlexibleTime(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
			return
		}
		end = parsed
	}

	totals, err := h.repo.RangeTotals(start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}
	byCategory, err := h.repo.ExpenseByCategory(start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}
	totalBalance, err := h.repo.TotalBalance()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totals":              totals,
		"expense_by_category": byCategory,
		"total_balance":       totalBalance,
	})
}
