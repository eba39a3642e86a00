package recurring

import (
	"strings"
	"testing"
	"time"

	"moneta/internal/database"
	"moneta/internal/models"
	"moneta/internal/testutil"

	"gorm.io/gorm"
)

func newTestScheduler(t *testing.T) (*Scheduler, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return NewScheduler(db, database.NewGate(), "KRW"), db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestShouldProcess(t *testing.T) {
	base := date(2026, 3, 1)

	t.Run("due_today", func(t *testing.T) {
		r := &models.RecurringTransaction{IsActive: true, NextDueDate: base}
		if !ShouldProcess(r, base) {
			t.Error("expected template due on its due date to process")
		}
	})

	t.Run("past_due", func(t *testing.T) {
		r := &models.RecurringTransaction{IsActive: true, NextDueDate: base}
		if !ShouldProcess(r, base.AddDate(0, 0, 10)) {
			t.Error("expected past-due template to process")
		}
	})

	t.Run("not_yet_due", func(t *testing.T) {
		r := &models.RecurringTransaction{IsActive: true, NextDueDate: base}
		if ShouldProcess(r, base.AddDate(0, 0, -1)) {
			t.Error("expected future template not to process")
		}
	})

	t.Run("inactive", func(t *testing.T) {
		r := &models.RecurringTransaction{IsActive: false, NextDueDate: base}
		if ShouldProcess(r, base) {
			t.Error("expected inactive template not to process")
		}
	})

	t.Run("past_end_date", func(t *testing.T) {
		end := base.AddDate(0, 0, 5)
		r := &models.RecurringTransaction{IsActive: true, NextDueDate: base, EndDate: &end}
		if ShouldProcess(r, end.AddDate(0, 0, 1)) {
			t.Error("expected template past its end date not to process")
		}
	})

	t.Run("on_end_date", func(t *testing.T) {
		end := base.AddDate(0, 0, 5)
		r := &models.RecurringTransaction{IsActive: true, NextDueDate: base, EndDate: &end}
		if !ShouldProcess(r, end) {
			t.Error("expected template on its end date to process")
		}
	})
}

func TestNextAfter(t *testing.T) {
	t.Run("daily", func(t *testing.T) {
		got := NextAfter(models.FrequencyDaily, date(2026, 3, 15))
		if !got.Equal(date(2026, 3, 16)) {
			t.Errorf("unexpected next due date: %v", got)
		}
	})

	t.Run("weekly", func(t *testing.T) {
		got := NextAfter(models.FrequencyWeekly, date(2026, 3, 15))
		if !got.Equal(date(2026, 3, 22)) {
			t.Errorf("unexpected next due date: %v", got)
		}
	})

	t.Run("biweekly", func(t *testing.T) {
		got := NextAfter(models.FrequencyBiweekly, date(2026, 3, 15))
		if !got.Equal(date(2026, 3, 29)) {
			t.Errorf("unexpected next due date: %v", got)
		}
	})

	t.Run("monthly_same_day", func(t *testing.T) {
		got := NextAfter(models.FrequencyMonthly, date(2026, 3, 15))
		if !got.Equal(date(2026, 4, 15)) {
			t.Errorf("unexpected next due date: %v", got)
		}
	})

	t.Run("monthly_jan31_clamps_to_feb28", func(t *testing.T) {
		got := NextAfter(models.FrequencyMonthly, date(2026, 1, 31))
		if !got.Equal(date(2026, 2, 28)) {
			t.Errorf("expected Feb 28, got %v", got)
		}
	})

	t.Run("monthly_jan31_leap_year_clamps_to_feb29", func(t *testing.T) {
		got := NextAfter(models.FrequencyMonthly, date(2028, 1, 31))
		if !got.Equal(date(2028, 2, 29)) {
			t.Errorf("expected Feb 29, got %v", got)
		}
	})

	t.Run("monthly_dec_rolls_into_next_year", func(t *testing.T) {
		got := NextAfter(models.FrequencyMonthly, date(2026, 12, 15))
		if !got.Equal(date(2027, 1, 15)) {
			t.Errorf("unexpected next due date: %v", got)
		}
	})

	t.Run("yearly_feb29_clamps_to_feb28", func(t *testing.T) {
		got := NextAfter(models.FrequencyYearly, date(2028, 2, 29))
		if !got.Equal(date(2029, 2, 28)) {
			t.Errorf("expected Feb 28, got %v", got)
		}
	})
}

func TestAddCalendarMonths(t *testing.T) {
	t.Run("negative_months", func(t *testing.T) {
		got := AddCalendarMonths(date(2026, 1, 15), -3)
		if !got.Equal(date(2025, 10, 15)) {
			t.Errorf("unexpected date: %v", got)
		}
	})

	t.Run("negative_months_clamps_to_feb28", func(t *testing.T) {
		got := AddCalendarMonths(date(2026, 5, 31), -3)
		if !got.Equal(date(2026, 2, 28)) {
			t.Errorf("expected Feb 28, got %v", got)
		}
	})

	t.Run("negative_full_year", func(t *testing.T) {
		got := AddCalendarMonths(date(2026, 3, 31), -12)
		if !got.Equal(date(2025, 3, 31)) {
			t.Errorf("unexpected date: %v", got)
		}
	})
}

func TestProcessAllDue(t *testing.T) {
	t.Run("materializes_due_templates", func(t *testing.T) {
		scheduler, db := newTestScheduler(t)
		start := date(2026, 3, 1)
		template := testutil.CreateTestRecurring(t, db, models.FrequencyMonthly, start, nil)

		created, err := scheduler.ProcessAllDue(start)
		testutil.AssertNoError(t, err)
		if created != 1 {
			t.Fatalf("expected 1 created, got %d", created)
		}

		var tx models.Transaction
		if err := db.First(&tx).Error; err != nil {
			t.Fatalf("failed to load materialized transaction: %v", err)
		}
		if !tx.Date.Equal(start) {
			t.Errorf("expected transaction dated at the due date %v, got %v", start, tx.Date)
		}
		if !strings.HasSuffix(tx.Note, " (recurring)") {
			t.Errorf("expected recurring note suffix, got %q", tx.Note)
		}
		if tx.Amount != template.Amount {
			t.Errorf("expected amount %d, got %d", template.Amount, tx.Amount)
		}

		var reloaded models.RecurringTransaction
		if err := db.First(&reloaded, "id = ?", template.ID).Error; err != nil {
			t.Fatalf("failed to reload template: %v", err)
		}
		if !reloaded.NextDueDate.Equal(date(2026, 4, 1)) {
			t.Errorf("expected next due Apr 1, got %v", reloaded.NextDueDate)
		}
		if reloaded.LastProcessedDate == nil || !reloaded.LastProcessedDate.Equal(start) {
			t.Errorf("expected last processed %v, got %v", start, reloaded.LastProcessedDate)
		}
	})

	t.Run("nothing_due", func(t *testing.T) {
		scheduler, db := newTestScheduler(t)
		testutil.CreateTestRecurring(t, db, models.FrequencyMonthly, date(2026, 5, 1), nil)

		created, err := scheduler.ProcessAllDue(date(2026, 4, 30))
		testutil.AssertNoError(t, err)
		if created != 0 {
			t.Errorf("expected nothing created, got %d", created)
		}
	})

	t.Run("idempotent_at_fixed_instant", func(t *testing.T) {
		scheduler, db := newTestScheduler(t)
		asOf := date(2026, 3, 1)
		testutil.CreateTestRecurring(t, db, models.FrequencyMonthly, asOf, nil)

		created, err := scheduler.ProcessAllDue(asOf)
		testutil.AssertNoError(t, err)
		if created != 1 {
			t.Fatalf("expected 1 created on first run, got %d", created)
		}

		created, err = scheduler.ProcessAllDue(asOf)
		testutil.AssertNoError(t, err)
		if created != 0 {
			t.Errorf("expected second run at the same instant to create nothing, got %d", created)
		}
	})

	t.Run("catches_up_missed_occurrences", func(t *testing.T) {
		scheduler, db := newTestScheduler(t)
		// Three months dormant: Mar, Apr, May all due by May 15.
		testutil.CreateTestRecurring(t, db, models.FrequencyMonthly, date(2026, 3, 1), nil)

		created, err := scheduler.ProcessAllDue(date(2026, 5, 15))
		testutil.AssertNoError(t, err)
		if created != 3 {
			t.Fatalf("expected 3 catch-up transactions, got %d", created)
		}

		var transactions []models.Transaction
		if err := db.Order("date ASC").Find(&transactions).Error; err != nil {
			t.Fatalf("failed to load transactions: %v", err)
		}
		want := []time.Time{date(2026, 3, 1), date(2026, 4, 1), date(2026, 5, 1)}
		for i, w := range want {
			if !transactions[i].Date.Equal(w) {
				t.Errorf("expected transaction %d dated %v, got %v", i, w, transactions[i].Date)
			}
		}
	})

	t.Run("daily_catch_up", func(t *testing.T) {
		scheduler, db := newTestScheduler(t)
		testutil.CreateTestRecurring(t, db, models.FrequencyDaily, date(2026, 3, 1), nil)

		created, err := scheduler.ProcessAllDue(date(2026, 3, 7))
		testutil.AssertNoError(t, err)
		if created != 7 {
			t.Errorf("expected 7 daily transactions, got %d", created)
		}
	})

	t.Run("deactivates_past_end_date", func(t *testing.T) {
		scheduler, db := newTestScheduler(t)
		end := date(2026, 3, 10)
		template := testutil.CreateTestRecurring(t, db, models.FrequencyMonthly, date(2026, 3, 1), &end)

		created, err := scheduler.ProcessAllDue(date(2026, 3, 5))
		testutil.AssertNoError(t, err)
		if created != 1 {
			t.Fatalf("expected 1 created, got %d", created)
		}

		var reloaded models.RecurringTransaction
		if err := db.First(&reloaded, "id = ?", template.ID).Error; err != nil {
			t.Fatalf("failed to reload template: %v", err)
		}
		if reloaded.IsActive {
			t.Error("expected template to deactivate once next due date passes end date")
		}
	})

	t.Run("skips_templates_past_end_date", func(t *testing.T) {
		scheduler, db := newTestScheduler(t)
		end := date(2026, 3, 10)
		testutil.CreateTestRecurring(t, db, models.FrequencyMonthly, date(2026, 3, 1), &end)

		created, err := scheduler.ProcessAllDue(date(2026, 4, 1))
		testutil.AssertNoError(t, err)
		if created != 0 {
			t.Errorf("expected no transactions past the end date, got %d", created)
		}
	})

	t.Run("multiple_templates_processed_together", func(t *testing.T) {
		scheduler, db := newTestScheduler(t)
		testutil.CreateTestRecurring(t, db, models.FrequencyMonthly, date(2026, 3, 1), nil)
		testutil.CreateTestRecurring(t, db, models.FrequencyWeekly, date(2026, 3, 1), nil)

		// Weekly: Mar 1, 8, 15; monthly: Mar 1.
		created, err := scheduler.ProcessAllDue(date(2026, 3, 15))
		testutil.AssertNoError(t, err)
		if created != 4 {
			t.Errorf("expected 4 transactions, got %d", created)
		}
	})
}
