package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moneta/internal/category"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// CategoryHandler handles category requests.
type CategoryHandler struct {
	service *category.Service
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *category.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Type      string `json:"type" binding:"required,category_type"`
	Icon      string `json:"icon" binding:"max=50"`
	Color     string `json:"color" binding:"omitempty,hex_color"`
	IsDefault bool   `json:"is_default"`
}

// CreateCategory creates a new category.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	created, err := h.service.Create(req.Name, models.CategoryType(req.Type), req.Icon, req.Color, req.IsDefault)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": created})
}

// ListCategories lists categories, optionally filtered by type.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var categoryType *models.CategoryType
	if v := c.Query("type"); v != "" {
		t := models.CategoryType(v)
		if t != models.CategoryTypeIncome && t != models.CategoryTypeExpense {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, "unknown category type"))
			return
		}
		categoryType = &t
	}

	categories, err := h.service.List(categoryType)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryByID returns a single category.
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	found, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": found})
}

// UpdateCategoryRequest represents the request payload for updating a category
type UpdateCategoryRequest struct {
	Name  string `json:"name" binding:"max=100"`
	Icon  string `json:"icon" binding:"max=50"`
	Color string `json:"color" binding:"omitempty,hex_color"`
}

// UpdateCategory updates a category's display fields.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidData, err.Error()))
		return
	}

	updated, err := h.service.Update(c.Param("id"), req.Name, req.Icon, req.Color)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": updated})
}

// DeleteCategory removes a category, nullifying references on its
// transactions and cascading to its budget.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
