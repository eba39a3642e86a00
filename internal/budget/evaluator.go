// Package budget implements budget management and the pure threshold
// evaluator that maps (budget, spend) to a status.
package budget

import (
	"time"

	"moneta/internal/models"
)

// DefaultWarningThreshold is the percentage at which a budget flips from
// safe to warning when no configured threshold is supplied.
const DefaultWarningThreshold = 80.0

// StatusKind classifies how a budget is tracking.
type StatusKind string

const (
	StatusSafe     StatusKind = "safe"
	StatusWarning  StatusKind = "warning"
	StatusExceeded StatusKind = "exceeded"
)

// Status is the evaluator result. Remaining and Percentage are meaningful for
// safe/warning; Overspent is non-zero only when exceeded.
type Status struct {
	Kind       StatusKind `json:"kind"`
	Remaining  int64      `json:"remaining"`
	Percentage float64    `json:"percentage"`
	Overspent  int64      `json:"overspent"`
}

// Evaluate maps a budget amount and the spend against it to a status. It has
// no side effects and no error cases; a zero budget amount yields zero
// percent instead of dividing by zero.
func Evaluate(budgetAmount, spent int64, warningThreshold float64) Status {
	if warningThreshold <= 0 {
		warningThreshold = DefaultWarningThreshold
	}

	remaining := budgetAmount - spent
	var percentage float64
	if budgetAmount > 0 {
		percentage = float64(spent) / float64(budgetAmount) * 100
	}

	if remaining < 0 {
		return Status{Kind: StatusExceeded, Remaining: remaining, Percentage: percentage, Overspent: -remaining}
	}
	if percentage >= warningThreshold {
		return Status{Kind: StatusWarning, Remaining: remaining, Percentage: percentage}
	}
	return Status{Kind: StatusSafe, Remaining: remaining, Percentage: percentage}
}

// PeriodWindow returns the inclusive bounds of the budget period containing
// now: Monday through Sunday for weekly, the calendar month for monthly, the
// calendar year for yearly.
func PeriodWindow(period models.BudgetPeriod, now time.Time) (time.Time, time.Time) {
	switch period {
	case models.BudgetPeriodWeekly:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday closes the week
		}
		start := time.Date(now.Year(), now.Month(), now.Day()-(weekday-1), 0, 0, 0, 0, now.Location())
		return start, endOfDay(start.AddDate(0, 0, 6))
	case models.BudgetPeriodYearly:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, time.Date(now.Year(), 12, 31, 23, 59, 59, 999999999, now.Location())
	default: // monthly
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, endOfDay(start.AddDate(0, 1, -1))
	}
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
