// Package recurring implements the scheduler that advances recurring
// transaction templates along their calendar schedule and materializes
// concrete ledger entries on their due dates.
package recurring

import (
	"time"

	"gorm.io/gorm"

	"moneta/internal/database"
	apperrors "moneta/internal/errors"
	"moneta/internal/logger"
	"moneta/internal/models"
)

// noteSuffix marks materialized transactions as auto-generated.
const noteSuffix = " (recurring)"

// Scheduler materializes due recurring transactions. It is the only writer
// of NextDueDate, LastProcessedDate, and IsActive outside of user edits.
type Scheduler struct {
	db              *gorm.DB
	gate            *database.Gate
	defaultCurrency string
}

// NewScheduler creates a Scheduler.
func NewScheduler(db *gorm.DB, gate *database.Gate, defaultCurrency string) *Scheduler {
	return &Scheduler{db: db, gate: gate, defaultCurrency: defaultCurrency}
}

// ShouldProcess reports whether the template is due at asOf: it must be
// active, asOf must not be past the end date, and asOf must have reached the
// next due date.
func ShouldProcess(r *models.RecurringTransaction, asOf time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.EndDate != nil && asOf.After(*r.EndDate) {
		return false
	}
	return !asOf.Before(r.NextDueDate)
}

// NextAfter advances a due date by one unit of the frequency using
// calendar-aware arithmetic: month and year steps land on the same
// day-of-month, clamped to the last day of short months.
func NextAfter(frequency models.Frequency, due time.Time) time.Time {
	switch frequency {
	case models.FrequencyDaily:
		return due.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return due.AddDate(0, 0, 7)
	case models.FrequencyBiweekly:
		return due.AddDate(0, 0, 14)
	case models.FrequencyYearly:
		return AddCalendarMonths(due, 12)
	default: // monthly
		return AddCalendarMonths(due, 1)
	}
}

// AddCalendarMonths adds n calendar months (n may be negative), clamping the
// day to the target month's length. time.AddDate would normalize Jan 31 + 1
// month into March; recurring due dates must land in February instead.
func AddCalendarMonths(t time.Time, n int) time.Time {
	months := int(t.Month()) - 1 + n
	year := t.Year() + months/12
	months %= 12
	if months < 0 {
		months += 12
		year--
	}
	month := time.Month(months + 1)

	day := t.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ProcessAllDue materializes one transaction per missed due date for every
// active template, up to asOf. It loops internally until a pass finds
// nothing due, so a dormant period of several cycles catches up in a single
// invocation. The whole catch-up commits as one atomic batch; on failure no
// transaction is created and no template is advanced, leaving the same items
// due for the next invocation. Returns the number of transactions created.
func (s *Scheduler) ProcessAllDue(asOf time.Time) (int, error) {
	created := 0
	err := s.gate.Write(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			for {
				var due []models.RecurringTransaction
				err := tx.Where("is_active = ? AND next_due_date <= ? AND (end_date IS NULL OR end_date >= ?)",
					true, asOf, asOf).
					Find(&due).Error
				if err != nil {
					return apperrors.Wrap(apperrors.ErrFetchFailed, err)
				}
				if len(due) == 0 {
					return nil
				}

				for i := range due {
					if err := s.materialize(tx, &due[i]); err != nil {
						return err
					}
					created++
				}
			}
		})
	})
	if err != nil {
		created = 0
		return 0, err
	}
	if created > 0 {
		logger.Get().Infow("processed recurring transactions",
			"created", created,
			"as_of", asOf.Format("2006-01-02"),
		)
	}
	return created, nil
}

// materialize creates the ledger entry for the template's current due date
// and advances the template's schedule state.
func (s *Scheduler) materialize(tx *gorm.DB, template *models.RecurringTransaction) error {
	dueDate := template.NextDueDate

	// Dated at the scheduled due date, not the processing time, so a late
	// run still records the correct economic date.
	transaction := &models.Transaction{
		Amount:     template.Amount,
		Type:       template.Type,
		CategoryID: template.CategoryID,
		Note:       template.Note + noteSuffix,
		Date:       dueDate,
		Currency:   s.defaultCurrency,
	}
	if err := tx.Create(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}

	template.LastProcessedDate = &dueDate
	template.NextDueDate = NextAfter(template.Frequency, dueDate)
	if template.EndDate != nil && template.NextDueDate.After(*template.EndDate) {
		template.IsActive = false
	}

	updates := map[string]interface{}{
		"last_processed_date": template.LastProcessedDate,
		"next_due_date":       template.NextDueDate,
		"is_active":           template.IsActive,
	}
	if err := tx.Model(template).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}
	return nil
}
