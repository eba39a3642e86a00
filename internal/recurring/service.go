package recurring

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"moneta/internal/database"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// Service handles user-facing recurring template management. Templates are
// never deleted once created; deactivation is the terminal state.
type Service struct {
	db   *gorm.DB
	gate *database.Gate
}

// NewService creates a recurring Service.
func NewService(db *gorm.DB, gate *database.Gate) *Service {
	return &Service{db: db, gate: gate}
}

// CreateParams holds the fields for a new recurring template.
type CreateParams struct {
	Amount     int64
	Type       models.TransactionType
	CategoryID *string
	Note       string
	Frequency  models.Frequency
	StartDate  time.Time
	EndDate    *time.Time
}

// Create validates and persists a new recurring template. NextDueDate is
// initialized to the start date.
func (s *Service) Create(params CreateParams) (*models.RecurringTransaction, error) {
	if params.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "amount must be greater than zero")
	}
	if params.Type != models.TransactionTypeIncome && params.Type != models.TransactionTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "unknown transaction type")
	}
	switch params.Frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyBiweekly,
		models.FrequencyMonthly, models.FrequencyYearly:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "unknown frequency")
	}
	if params.StartDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "start date is required")
	}
	if params.EndDate != nil && params.EndDate.Before(params.StartDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "end date precedes start date")
	}

	template := &models.RecurringTransaction{
		Amount:      params.Amount,
		Type:        params.Type,
		CategoryID:  params.CategoryID,
		Note:        params.Note,
		Frequency:   params.Frequency,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		NextDueDate: params.StartDate,
		IsActive:    true,
	}

	err := s.gate.Write(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if params.CategoryID != nil {
				var category models.Category
				if err := tx.Where("id = ?", *params.CategoryID).First(&category).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperrors.ErrCategoryNotFound
					}
					return apperrors.Wrap(apperrors.ErrSaveFailed, err)
				}
			}
			if err := tx.Create(template).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return template, nil
}

// GetByID retrieves a recurring template by ID.
func (s *Service) GetByID(id string) (*models.RecurringTransaction, error) {
	var template models.RecurringTransaction
	err := s.gate.Read(func() error {
		return s.db.Preload("Category").Where("id = ?", id).First(&template).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return &template, nil
}

// List retrieves recurring templates, optionally only active ones, ordered
// by next due date.
func (s *Service) List(activeOnly bool) ([]models.RecurringTransaction, error) {
	var templates []models.RecurringTransaction
	err := s.gate.Read(func() error {
		q := s.db.Preload("Category")
		if activeOnly {
			q = q.Where("is_active = ?", true)
		}
		return q.Order("next_due_date ASC").Find(&templates).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return templates, nil
}

// Update applies a user edit to a template's amount, note, or end date.
func (s *Service) Update(id string, amount *int64, note *string, endDate *time.Time) (*models.RecurringTransaction, error) {
	template, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if amount != nil {
		if *amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "amount must be greater than zero")
		}
		updates["amount"] = *amount
	}
	if note != nil {
		updates["note"] = *note
	}
	if endDate != nil {
		if endDate.Before(template.StartDate) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "end date precedes start date")
		}
		updates["end_date"] = endDate
	}

	if len(updates) > 0 {
		err = s.gate.Write(func() error {
			if err := s.db.Model(template).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return template, nil
}

// Deactivate marks a template inactive. There is no implicit deletion.
func (s *Service) Deactivate(id string) (*models.RecurringTransaction, error) {
	template, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	err = s.gate.Write(func() error {
		if err := s.db.Model(template).Update("is_active", false).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrSaveFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	template.IsActive = false
	return template, nil
}
