// Package savings implements savings goal tracking. Goals are peripheral to
// the ledger: persisted and served, never aggregated by the insights engine.
package savings

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"moneta/internal/database"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// Service handles savings goal business logic.
type Service struct {
	db   *gorm.DB
	gate *database.Gate
}

// NewService creates a savings Service.
func NewService(db *gorm.DB, gate *database.Gate) *Service {
	return &Service{db: db, gate: gate}
}

// Create creates a new savings goal.
func (s *Service) Create(name string, targetAmount int64, targetDate *time.Time) (*models.SavingsGoal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "goal name is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "target amount must be greater than zero")
	}

	goal := &models.SavingsGoal{
		Name:         name,
		TargetAmount: targetAmount,
		TargetDate:   targetDate,
	}

	err := s.gate.Write(func() error {
		if err := s.db.Create(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrSaveFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// GetByID retrieves a savings goal by ID.
func (s *Service) GetByID(id string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	err := s.gate.Read(func() error {
		return s.db.Where("id = ?", id).First(&goal).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return &goal, nil
}

// List retrieves all savings goals, oldest first.
func (s *Service) List() ([]models.SavingsGoal, error) {
	var goals []models.SavingsGoal
	err := s.gate.Read(func() error {
		return s.db.Order("created_at ASC").Find(&goals).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return goals, nil
}

// AddProgress adds a (possibly negative) amount to the goal's current total.
// The total never drops below zero.
func (s *Service) AddProgress(id string, amount int64) (*models.SavingsGoal, error) {
	goal, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	next := goal.CurrentAmount + amount
	if next < 0 {
		next = 0
	}

	err = s.gate.Write(func() error {
		if err := s.db.Model(goal).Update("current_amount", next).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrSaveFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	goal.CurrentAmount = next
	return goal, nil
}

// Delete removes a savings goal.
func (s *Service) Delete(id string) error {
	goal, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.gate.Write(func() error {
		if err := s.db.Delete(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDeleteFailed, err)
		}
		return nil
	})
}
