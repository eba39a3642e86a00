package budget

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"moneta/internal/database"
	apperrors "moneta/internal/errors"
	"moneta/internal/insights"
	"moneta/internal/models"
)

// Service handles budget business logic. Spend lookups scan the transaction
// table through the shared access gate.
type Service struct {
	db               *gorm.DB
	gate             *database.Gate
	warningThreshold float64
}

// NewService creates a budget Service. warningThreshold is the percentage at
// which a budget status flips to warning; pass 0 for the default.
func NewService(db *gorm.DB, gate *database.Gate, warningThreshold float64) *Service {
	if warningThreshold <= 0 {
		warningThreshold = DefaultWarningThreshold
	}
	return &Service{db: db, gate: gate, warningThreshold: warningThreshold}
}

// Create creates a budget for a category, or the single total budget when
// categoryID is nil. At most one budget may exist per category and at most
// one total budget at a time.
func (s *Service) Create(amount int64, period models.BudgetPeriod, categoryID *string, startDate time.Time) (*models.Budget, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "budget amount must not be negative")
	}
	switch period {
	case models.BudgetPeriodWeekly, models.BudgetPeriodMonthly, models.BudgetPeriodYearly:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "unknown budget period")
	}
	if startDate.IsZero() {
		startDate = time.Now()
	}

	budget := &models.Budget{
		Amount:     amount,
		Period:     period,
		CategoryID: categoryID,
		StartDate:  startDate,
	}

	err := s.gate.Write(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if categoryID != nil {
				var category models.Category
				if err := tx.Where("id = ?", *categoryID).First(&category).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperrors.ErrCategoryNotFound
					}
					return apperrors.Wrap(apperrors.ErrSaveFailed, err)
				}
			}

			var count int64
			q := tx.Model(&models.Budget{})
			if categoryID == nil {
				q = q.Where("category_id IS NULL")
			} else {
				q = q.Where("category_id = ?", *categoryID)
			}
			if err := q.Count(&count).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			if count > 0 {
				return apperrors.ErrDuplicateBudget
			}

			if err := tx.Create(budget).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// GetByID retrieves a budget by ID.
func (s *Service) GetByID(id string) (*models.Budget, error) {
	var budget models.Budget
	err := s.gate.Read(func() error {
		return s.db.Preload("Category").Where("id = ?", id).First(&budget).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return &budget, nil
}

// List retrieves all budgets.
func (s *Service) List() ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.gate.Read(func() error {
		return s.db.Preload("Category").Order("created_at ASC").Find(&budgets).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return budgets, nil
}

// Update changes a budget's amount and/or period.
func (s *Service) Update(id string, amount *int64, period *models.BudgetPeriod) (*models.Budget, error) {
	budget, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if amount != nil {
		if *amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "budget amount must not be negative")
		}
		updates["amount"] = *amount
	}
	if period != nil {
		updates["period"] = *period
	}

	if len(updates) > 0 {
		err = s.gate.Write(func() error {
			if err := s.db.Model(budget).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return budget, nil
}

// Delete removes a budget.
func (s *Service) Delete(id string) error {
	budget, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.gate.Write(func() error {
		if err := s.db.Delete(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDeleteFailed, err)
		}
		return nil
	})
}

// SpentInPeriod sums expense amounts against the budget's category (or all
// expenses for the total budget) within the budget period containing now.
func (s *Service) SpentInPeriod(budget *models.Budget, now time.Time) (int64, error) {
	start, end := PeriodWindow(budget.Period, now)

	var spent int64
	err := s.gate.Read(func() error {
		q := s.db.Model(&models.Transaction{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("type = ? AND date BETWEEN ? AND ?", models.TransactionTypeExpense, start, end)
		if budget.CategoryID != nil {
			q = q.Where("category_id = ?", *budget.CategoryID)
		}
		return q.Scan(&spent).Error
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return spent, nil
}

// Status evaluates the budget against its spend in the current period.
func (s *Service) Status(id string, now time.Time) (*Status, error) {
	budget, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	spent, err := s.SpentInPeriod(budget, now)
	if err != nil {
		return nil, err
	}
	status := Evaluate(budget.Amount, spent, s.warningThreshold)
	return &status, nil
}

// Prediction projects the budget's period-end spend from spend-to-date.
func (s *Service) Prediction(id string, now time.Time) (*insights.BudgetPrediction, error) {
	budget, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	spent, err := s.SpentInPeriod(budget, now)
	if err != nil {
		return nil, err
	}

	start, end := PeriodWindow(budget.Period, now)
	daysElapsed := dayCount(start, now)
	daysInPeriod := dayCount(start, end)

	prediction := insights.NewBudgetPrediction(spent, daysElapsed, daysInPeriod, budget.Amount)
	return &prediction, nil
}

// dayCount counts calendar days from a through b inclusive.
func dayCount(a, b time.Time) int {
	startA := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	startB := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, b.Location())
	if startB.Before(startA) {
		return 0
	}
	return int(startB.Sub(startA).Hours()/24) + 1
}
