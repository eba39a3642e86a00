// Package category implements category management: creation with per-type
// sort ordering and deletion with the ledger's referential actions (nullify
// transaction and recurring references, cascade-delete the owned budget).
package category

import (
	"errors"

	"gorm.io/gorm"

	"moneta/internal/database"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// Service handles category business logic.
type Service struct {
	db   *gorm.DB
	gate *database.Gate
}

// NewService creates a category Service.
func NewService(db *gorm.DB, gate *database.Gate) *Service {
	return &Service{db: db, gate: gate}
}

// Create creates a new category. SortOrder is assigned as max(existing per
// type)+1 so each type keeps a dense, unique ordering.
func (s *Service) Create(name string, categoryType models.CategoryType, icon, color string, isDefault bool) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "category name is required")
	}
	if categoryType != models.CategoryTypeIncome && categoryType != models.CategoryTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "unknown category type")
	}

	category := &models.Category{
		Name:      name,
		Type:      categoryType,
		Icon:      icon,
		Color:     color,
		IsDefault: isDefault,
	}

	err := s.gate.Write(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var maxOrder int
			if err := tx.Model(&models.Category{}).
				Select("COALESCE(MAX(sort_order), 0)").
				Where("type = ?", categoryType).
				Scan(&maxOrder).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			category.SortOrder = maxOrder + 1

			if err := tx.Create(category).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// GetByID retrieves a category by ID.
func (s *Service) GetByID(id string) (*models.Category, error) {
	var category models.Category
	err := s.gate.Read(func() error {
		return s.db.Where("id = ?", id).First(&category).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return &category, nil
}

// List retrieves all categories, optionally filtered by type, ordered by
// sort order.
func (s *Service) List(categoryType *models.CategoryType) ([]models.Category, error) {
	var categories []models.Category
	err := s.gate.Read(func() error {
		q := s.db.Model(&models.Category{})
		if categoryType != nil {
			q = q.Where("type = ?", *categoryType)
		}
		return q.Order("type ASC, sort_order ASC").Find(&categories).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return categories, nil
}

// Update updates a category's display fields. Type and sort order are fixed
// at creation.
func (s *Service) Update(id, name, icon, color string) (*models.Category, error) {
	category, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if color != "" {
		updates["color"] = color
	}

	if len(updates) > 0 {
		err = s.gate.Write(func() error {
			if err := s.db.Model(category).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return category, nil
}

// Delete removes a category. Transactions and recurring templates that
// reference it keep existing with their category reference nullified; the
// category's budget, if any, is deleted with it. All of it commits as one
// storage transaction.
func (s *Service) Delete(id string) error {
	category, err := s.GetByID(id)
	if err != nil {
		return err
	}

	return s.gate.Write(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Transaction{}).
				Where("category_id = ?", id).
				Update("category_id", nil).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrDeleteFailed, err)
			}
			if err := tx.Model(&models.RecurringTransaction{}).
				Where("category_id = ?", id).
				Update("category_id", nil).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrDeleteFailed, err)
			}
			if err := tx.Where("category_id = ?", id).Delete(&models.Budget{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrDeleteFailed, err)
			}
			if err := tx.Delete(category).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrDeleteFailed, err)
			}
			return nil
		})
	})
}
