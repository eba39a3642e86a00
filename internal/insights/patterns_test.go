package insights

import (
	"testing"
	"time"

	"moneta/internal/models"
	"moneta/internal/testutil"

	"gorm.io/gorm"
)

func createExpenseOn(t *testing.T, db *gorm.DB, categoryID string, amount int64, note string, date time.Time) {
	t.Helper()
	tx := &models.Transaction{
		Amount:     amount,
		Type:       models.TransactionTypeExpense,
		CategoryID: &categoryID,
		Note:       note,
		Date:       date,
		Currency:   "KRW",
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}
}

func TestDetectPatterns(t *testing.T) {
	t.Run("perfectly_regular_monthly_subscription", func(t *testing.T) {
		engine, db := newTestEngine(t)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
		for i := 0; i < 4; i++ {
			createExpenseOn(t, db, category.ID, 9900, "streaming", base.AddDate(0, 0, 30*i))
		}

		patterns, err := engine.DetectPatterns()
		testutil.AssertNoError(t, err)
		if len(patterns) != 1 {
			t.Fatalf("expected 1 pattern, got %d", len(patterns))
		}
		p := patterns[0]
		if p.Frequency != "monthly" {
			t.Errorf("expected monthly, got %s", p.Frequency)
		}
		if p.Occurrences != 4 {
			t.Errorf("expected 4 occurrences, got %d", p.Occurrences)
		}
		if p.Confidence != 1 {
			t.Errorf("expected confidence 1 for perfect regularity, got %f", p.Confidence)
		}
		if p.AverageAmount != 9900 {
			t.Errorf("expected average 9900, got %f", p.AverageAmount)
		}
		if !p.NextExpected.Equal(p.LastOccurrence.AddDate(0, 0, 30)) {
			t.Errorf("expected next occurrence 30 days after the last, got %v", p.NextExpected)
		}
		if p.Note != "streaming" {
			t.Errorf("expected representative note, got %q", p.Note)
		}
	})

	t.Run("tolerates_jitter_within_window", func(t *testing.T) {
		engine, db := newTestEngine(t)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		// Gaps of 28, 31, 33 days: all inside the monthly ±5 tolerance.
		dates := []time.Time{
			time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC),
		}
		for _, d := range dates {
			createExpenseOn(t, db, category.ID, 50000, "gym", d)
		}

		patterns, err := engine.DetectPatterns()
		testutil.AssertNoError(t, err)
		if len(patterns) != 1 {
			t.Fatalf("expected 1 pattern, got %d", len(patterns))
		}
		if patterns[0].Frequency != "monthly" {
			t.Errorf("expected monthly, got %s", patterns[0].Frequency)
		}
		if patterns[0].Confidence <= 0 || patterns[0].Confidence >= 1 {
			t.Errorf("expected confidence strictly between 0 and 1, got %f", patterns[0].Confidence)
		}
	})

	t.Run("weekly_pattern", func(t *testing.T) {
		engine, db := newTestEngine(t)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		base := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			createExpenseOn(t, db, category.ID, 25000, "friday dinner", base.AddDate(0, 0, 7*i))
		}

		patterns, err := engine.DetectPatterns()
		testutil.AssertNoError(t, err)
		if len(patterns) != 1 || patterns[0].Frequency != "weekly" {
			t.Fatalf("expected 1 weekly pattern, got %+v", patterns)
		}
		if patterns[0].Occurrences != 5 {
			t.Errorf("expected 5 occurrences, got %d", patterns[0].Occurrences)
		}
	})

	t.Run("too_few_occurrences", func(t *testing.T) {
		engine, db := newTestEngine(t)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		createExpenseOn(t, db, category.ID, 9900, "streaming", base)
		createExpenseOn(t, db, category.ID, 9900, "streaming", base.AddDate(0, 0, 30))

		patterns, err := engine.DetectPatterns()
		testutil.AssertNoError(t, err)
		if len(patterns) != 0 {
			t.Errorf("expected no patterns for two occurrences, got %d", len(patterns))
		}
	})

	t.Run("irregular_gaps_produce_nothing", func(t *testing.T) {
		engine, db := newTestEngine(t)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		// Gaps of 2 and 50 days match no canonical period.
		base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		createExpenseOn(t, db, category.ID, 9900, "", base)
		createExpenseOn(t, db, category.ID, 9900, "", base.AddDate(0, 0, 2))
		createExpenseOn(t, db, category.ID, 9900, "", base.AddDate(0, 0, 52))

		patterns, err := engine.DetectPatterns()
		testutil.AssertNoError(t, err)
		if len(patterns) != 0 {
			t.Errorf("expected no patterns for irregular gaps, got %d", len(patterns))
		}
	})

	t.Run("uncategorized_expenses_excluded", func(t *testing.T) {
		engine, db := newTestEngine(t)

		base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 4; i++ {
			testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 9900, nil, base.AddDate(0, 0, 30*i))
		}

		patterns, err := engine.DetectPatterns()
		testutil.AssertNoError(t, err)
		if len(patterns) != 0 {
			t.Errorf("expected uncategorized expenses to be ignored, got %d patterns", len(patterns))
		}
	})

	t.Run("patterns_sorted_by_confidence", func(t *testing.T) {
		engine, db := newTestEngine(t)
		regular := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		jittery := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 4; i++ {
			createExpenseOn(t, db, regular.ID, 9900, "rent", base.AddDate(0, 0, 30*i))
		}
		jitter := []int{0, 27, 60, 95}
		amounts := []int64{40000, 55000, 35000, 60000}
		for i, offset := range jitter {
			createExpenseOn(t, db, jittery.ID, amounts[i], "groceries", base.AddDate(0, 0, offset))
		}

		patterns, err := engine.DetectPatterns()
		testutil.AssertNoError(t, err)
		if len(patterns) != 2 {
			t.Fatalf("expected 2 patterns, got %d", len(patterns))
		}
		if patterns[0].CategoryID != regular.ID {
			t.Error("expected the tighter pattern to rank first")
		}
		if patterns[0].Confidence < patterns[1].Confidence {
			t.Error("expected descending confidence order")
		}
	})
}
