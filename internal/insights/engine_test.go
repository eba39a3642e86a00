package insights

import (
	"context"
	"testing"
	"time"

	"moneta/internal/database"
	"moneta/internal/ledger"
	"moneta/internal/models"
	"moneta/internal/testutil"

	"gorm.io/gorm"
)

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	repo := ledger.NewRepository(db, database.NewGate(), "KRW")
	return NewEngine(repo), db
}

func TestTrends(t *testing.T) {
	t.Run("one_entry_per_month_oldest_first", func(t *testing.T) {
		engine, db := newTestEngine(t)
		now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeIncome, 100000, nil,
			time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 30000, nil,
			time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

		trends, err := engine.Trends(now, PeriodThreeMonths)
		testutil.AssertNoError(t, err)
		if len(trends) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(trends))
		}
		if trends[0].Label != "Feb 2026" || trends[2].Label != "Apr 2026" {
			t.Errorf("unexpected labels: %s .. %s", trends[0].Label, trends[2].Label)
		}
		if trends[0].Income != 100000 || trends[0].Balance != 100000 {
			t.Errorf("unexpected Feb totals: %+v", trends[0])
		}
		if trends[1].Expense != 30000 || trends[1].Balance != -30000 {
			t.Errorf("unexpected Mar totals: %+v", trends[1])
		}
	})

	t.Run("first_entry_has_no_change", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

		trends, err := engine.Trends(now, PeriodThreeMonths)
		testutil.AssertNoError(t, err)
		if trends[0].ChangeFromPrevious != nil || trends[0].ChangePercentage != nil {
			t.Error("expected nil change fields on the first entry")
		}
		if trends[1].ChangeFromPrevious == nil {
			t.Error("expected change fields from the second entry on")
		}
	})

	t.Run("change_delta_and_percentage", func(t *testing.T) {
		engine, db := newTestEngine(t)
		now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeIncome, 100000, nil,
			time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeIncome, 150000, nil,
			time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

		trends, err := engine.Trends(now, PeriodThreeMonths)
		testutil.AssertNoError(t, err)
		if *trends[1].ChangeFromPrevious != 50000 {
			t.Errorf("expected change 50000, got %d", *trends[1].ChangeFromPrevious)
		}
		if *trends[1].ChangePercentage != 50 {
			t.Errorf("expected 50%% change, got %f", *trends[1].ChangePercentage)
		}
	})
}

func TestCategoryBreakdown(t *testing.T) {
	t.Run("shares_sum_to_hundred", func(t *testing.T) {
		engine, db := newTestEngine(t)
		now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)
		food := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		transport := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 75000, &food.ID, now.AddDate(0, 0, -3))
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 25000, &transport.ID, now.AddDate(0, 0, -3))

		breakdown, err := engine.CategoryBreakdown(now, PeriodThreeMonths)
		testutil.AssertNoError(t, err)
		if len(breakdown) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(breakdown))
		}
		if breakdown[0].Percentage != 75 || breakdown[1].Percentage != 25 {
			t.Errorf("expected 75/25 split, got %f/%f", breakdown[0].Percentage, breakdown[1].Percentage)
		}
		if breakdown[0].CategoryID != food.ID {
			t.Error("expected largest share first")
		}
	})

	t.Run("uncategorized_spend_dilutes_shares", func(t *testing.T) {
		engine, db := newTestEngine(t)
		now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)
		food := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 60000, &food.ID, now.AddDate(0, 0, -3))
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 40000, nil, now.AddDate(0, 0, -3))

		breakdown, err := engine.CategoryBreakdown(now, PeriodThreeMonths)
		testutil.AssertNoError(t, err)
		if len(breakdown) != 1 {
			t.Fatalf("expected 1 category row, got %d", len(breakdown))
		}
		if breakdown[0].Percentage != 60 {
			t.Errorf("expected 60%% of the full expense total, got %f", breakdown[0].Percentage)
		}
	})

	t.Run("month_end_window_reaches_late_february", func(t *testing.T) {
		engine, db := newTestEngine(t)
		now := time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC)
		food := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 30000, &food.ID,
			time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

		breakdown, err := engine.CategoryBreakdown(now, PeriodThreeMonths)
		testutil.AssertNoError(t, err)
		if len(breakdown) != 1 || breakdown[0].Amount != 30000 {
			t.Fatalf("expected the early-March expense inside the window, got %+v", breakdown)
		}
	})

	t.Run("empty_window", func(t *testing.T) {
		engine, _ := newTestEngine(t)

		breakdown, err := engine.CategoryBreakdown(time.Now(), PeriodThreeMonths)
		testutil.AssertNoError(t, err)
		if len(breakdown) != 0 {
			t.Errorf("expected empty breakdown, got %d rows", len(breakdown))
		}
	})
}

func TestCategoryTrendFor(t *testing.T) {
	t.Run("month_over_month", func(t *testing.T) {
		engine, db := newTestEngine(t)
		now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)
		food := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 100000, &food.ID,
			time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 150000, &food.ID,
			time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC))

		trend, err := engine.CategoryTrendFor(food.ID, now, PeriodThreeMonths)
		testutil.AssertNoError(t, err)
		if trend.CurrentMonth != 150000 || trend.PreviousMonth != 100000 {
			t.Errorf("unexpected month totals: %+v", trend)
		}
		if trend.Change != 50000 || !trend.IsIncreasing {
			t.Errorf("expected increasing by 50000, got %+v", trend)
		}
		if trend.ChangePercentage != 50 {
			t.Errorf("expected 50%% change, got %f", trend.ChangePercentage)
		}
	})
}

func TestTopExpenses(t *testing.T) {
	t.Run("ranked_by_amount", func(t *testing.T) {
		engine, db := newTestEngine(t)
		now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 5000, nil, now.AddDate(0, 0, -1))
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 90000, nil, now.AddDate(0, 0, -2))
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 20000, nil, now.AddDate(0, 0, -3))
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeIncome, 999999, nil, now.AddDate(0, 0, -1))

		top, err := engine.TopExpenses(now, PeriodThreeMonths, 2)
		testutil.AssertNoError(t, err)
		if len(top) != 2 {
			t.Fatalf("expected 2 results, got %d", len(top))
		}
		if top[0].Rank != 1 || top[0].Transaction.Amount != 90000 {
			t.Errorf("unexpected first result: %+v", top[0])
		}
		if top[1].Rank != 2 || top[1].Transaction.Amount != 20000 {
			t.Errorf("unexpected second result: %+v", top[1])
		}
	})

	t.Run("excludes_older_than_window", func(t *testing.T) {
		engine, db := newTestEngine(t)
		now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 90000, nil, now.AddDate(0, -4, 0))

		top, err := engine.TopExpenses(now, PeriodThreeMonths, 10)
		testutil.AssertNoError(t, err)
		if len(top) != 0 {
			t.Errorf("expected no results outside the window, got %d", len(top))
		}
	})
}

func TestSpendingHistograms(t *testing.T) {
	t.Run("day_of_week_buckets", func(t *testing.T) {
		engine, db := newTestEngine(t)
		now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

		// Two Sundays and one Monday.
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 10000, nil,
			time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 30000, nil,
			time.Date(2026, 4, 12, 10, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 5000, nil,
			time.Date(2026, 4, 13, 10, 0, 0, 0, time.UTC))

		buckets, err := engine.SpendingByDayOfWeek(now, PeriodThreeMonths)
		testutil.AssertNoError(t, err)
		if len(buckets) != 7 {
			t.Fatalf("expected 7 buckets, got %d", len(buckets))
		}
		sunday := buckets[0]
		if sunday.DayOfWeek != 1 || sunday.TotalAmount != 40000 || sunday.TransactionCount != 2 {
			t.Errorf("unexpected Sunday bucket: %+v", sunday)
		}
		if sunday.AverageAmount != 20000 {
			t.Errorf("expected Sunday average 20000, got %f", sunday.AverageAmount)
		}
		if buckets[1].TotalAmount != 5000 {
			t.Errorf("unexpected Monday bucket: %+v", buckets[1])
		}
	})

	t.Run("hour_buckets", func(t *testing.T) {
		engine, db := newTestEngine(t)
		now := time.Date(2026, 4, 20, 23, 0, 0, 0, time.UTC)

		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 4500, nil,
			time.Date(2026, 4, 15, 8, 30, 0, 0, time.UTC))
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 12000, nil,
			time.Date(2026, 4, 15, 12, 15, 0, 0, time.UTC))

		buckets, err := engine.SpendingByHour(now, PeriodThreeMonths)
		testutil.AssertNoError(t, err)
		if len(buckets) != 24 {
			t.Fatalf("expected 24 buckets, got %d", len(buckets))
		}
		if buckets[8].TotalAmount != 4500 || buckets[12].TotalAmount != 12000 {
			t.Errorf("unexpected hour buckets: %+v %+v", buckets[8], buckets[12])
		}
		if buckets[0].TransactionCount != 0 {
			t.Errorf("expected empty midnight bucket, got %+v", buckets[0])
		}
	})
}

func TestComputeOverview(t *testing.T) {
	t.Run("all_sections_populated", func(t *testing.T) {
		engine, db := newTestEngine(t)
		now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionOn(t, db, models.TransactionTypeExpense, 10000, nil, now.AddDate(0, 0, -2))

		overview, err := engine.ComputeOverview(context.Background(), now, PeriodSixMonths)
		testutil.AssertNoError(t, err)
		if len(overview.Trends) != 6 {
			t.Errorf("expected 6 trend entries, got %d", len(overview.Trends))
		}
		if len(overview.ByDayOfWeek) != 7 || len(overview.ByHour) != 24 {
			t.Error("expected fully shaped histograms")
		}
		if len(overview.TopExpenses) != 1 {
			t.Errorf("expected 1 top expense, got %d", len(overview.TopExpenses))
		}
	})

	t.Run("cancelled_context", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := engine.ComputeOverview(ctx, time.Now(), PeriodThreeMonths)
		if err == nil {
			t.Error("expected an error from a cancelled context")
		}
	})
}
