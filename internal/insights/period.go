// Package insights derives read-only analytics from the ledger: spending
// trends, category breakdowns, top expenses, time-of-day histograms,
// run-rate budget projections, and recurring-pattern detection. Nothing in
// this package mutates the ledger.
package insights

import (
	"time"

	"moneta/internal/recurring"
)

// Period is an analysis window measured in calendar months back from now.
type Period int

const (
	PeriodThreeMonths  Period = 3
	PeriodSixMonths    Period = 6
	PeriodTwelveMonths Period = 12
)

// MonthCount returns the number of months in the window.
func (p Period) MonthCount() int { return int(p) }

// Start returns the window's start: now minus MonthCount calendar months,
// with the day clamped to the target month's length. AddDate would slide a
// May 31 anchor past the end of February and drop the tail of that month
// from the window.
func (p Period) Start(now time.Time) time.Time {
	return recurring.AddCalendarMonths(now, -p.MonthCount())
}

// Valid reports whether p is one of the supported windows.
func (p Period) Valid() bool {
	switch p {
	case PeriodThreeMonths, PeriodSixMonths, PeriodTwelveMonths:
		return true
	}
	return false
}
