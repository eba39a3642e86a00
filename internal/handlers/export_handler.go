package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/ledger"
)

// ExportHandler handles ledger snapshot export and import.
type ExportHandler struct {
	repo *ledger.Repository
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(repo *ledger.Repository) *ExportHandler {
	return &ExportHandler{repo: repo}
}

// GetSnapshot exports the full ledger as name-resolved records, oldest first.
func (h *ExportHandler) GetSnapshot(c *gin.Context) {
	records, err := h.repo.Snapshot()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// ImportRequest represents the request payload for importing ledger records.
type ImportRequest struct {
	Records []ledger.SnapshotRecord `json:"records" binding:"required"`
}

// ImportSnapshot recreates transactions from exported records. If a record
// fails, the count of records imported before the failure is still returned.
func (h *ExportHandler) ImportSnapshot(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	imported, err := h.repo.Import(req.Records)
	if err != nil {
		c.JSON(http.StatusMultiStatus, gin.H{"imported": imported, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported})
}
