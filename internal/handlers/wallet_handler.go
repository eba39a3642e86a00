package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/wallet"
)

// WalletHandler handles wallet requests.
type WalletHandler struct {
	service *wallet.Service
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(service *wallet.Service) *WalletHandler {
	return &WalletHandler{service: service}
}

// CreateWalletRequest represents the request payload for creating a wallet
type CreateWalletRequest struct {
	Name      string `json:"name" binding:"required"`
	Currency  string `json:"currency" binding:"required,iso4217"`
	IsDefault bool   `json:"is_default"`
}

// CreateWallet creates a wallet.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	created, err := h.service.Create(req.Name, req.Currency, req.IsDefault)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"wallet": created})
}

// ListWallets lists all wallets, default first.
func (h *WalletHandler) ListWallets(c *gin.Context) {
	wallets, err := h.service.List()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": wallets})
}

// GetWalletByID returns a single wallet.
func (h *WalletHandler) GetWalletByID(c *gin.Context) {
	found, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": found})
}

// SetDefaultWallet marks a wallet as the default.
func (h *WalletHandler) SetDefaultWallet(c *gin.Context) {
	updated, err := h.service.SetDefault(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": updated})
}

// DeleteWallet removes a wallet, nullifying transaction references to it.
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
