package insights

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"moneta/internal/ledger"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// Engine computes analytics over ledger queries. All methods are read-only.
type Engine struct {
	repo *ledger.Repository
}

// NewEngine creates an Engine over the given repository.
func NewEngine(repo *ledger.Repository) *Engine {
	return &Engine{repo: repo}
}

// SpendingTrend summarizes one month of the analysis window. Entries after
// the first carry the balance delta against the previous month.
type SpendingTrend struct {
	Label   string    `json:"label"`
	Income  int64     `json:"income"`
	Expense int64     `json:"expense"`
	Balance int64     `json:"balance"`
	Date    time.Time `json:"date"`

	ChangeFromPrevious *int64   `json:"change_from_previous,omitempty"`
	ChangePercentage   *float64 `json:"change_percentage,omitempty"`
}

// Trends produces one entry per calendar month in the window, oldest first.
func (e *Engine) Trends(now time.Time, period Period) ([]SpendingTrend, error) {
	monthCount := period.MonthCount()
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	trends := make([]SpendingTrend, 0, monthCount)
	for i := monthCount - 1; i >= 0; i-- {
		monthStart := firstOfCurrent.AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, -1)

		totals, err := e.repo.RangeTotals(monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		trends = append(trends, SpendingTrend{
			Label:   monthStart.Format("Jan 2006"),
			Income:  totals.TotalIncome,
			Expense: totals.TotalExpense,
			Balance: totals.Balance,
			Date:    monthStart,
		})
	}

	for i := 1; i < len(trends); i++ {
		prev := trends[i-1].Balance
		change := trends[i].Balance - prev
		trends[i].ChangeFromPrevious = &change

		var pct float64
		if prev != 0 {
			pct = float64(change) / absFloat(float64(prev)) * 100
		}
		trends[i].ChangePercentage = &pct
	}
	return trends, nil
}

// CategorySpending is one category's share of the window's expenses.
type CategorySpending struct {
	CategoryID       string  `json:"category_id"`
	CategoryName     string  `json:"category_name"`
	Amount           int64   `json:"amount"`
	Percentage       float64 `json:"percentage"`
	TransactionCount int64   `json:"transaction_count"`
}

// CategoryBreakdown splits the window's expense total by category, largest
// share first. Percentages are shares of the window's full expense total,
// so uncategorized spending leaves the listed shares summing below 100.
func (e *Engine) CategoryBreakdown(now time.Time, period Period) ([]CategorySpending, error) {
	start := period.Start(now)

	rows, err := e.repo.ExpenseByCategory(start, now)
	if err != nil {
		return nil, err
	}

	total, err := e.repo.TotalExpense(start, now)
	if err != nil {
		return nil, err
	}

	breakdown := make([]CategorySpending, 0, len(rows))
	for _, row := range rows {
		var pct float64
		if total > 0 {
			pct = float64(row.Amount) / float64(total) * 100
		}
		breakdown = append(breakdown, CategorySpending{
			CategoryID:       row.CategoryID,
			CategoryName:     row.CategoryName,
			Amount:           row.Amount,
			Percentage:       pct,
			TransactionCount: row.TransactionCount,
		})
	}
	return breakdown, nil
}

// CategoryTrend compares one category's current calendar month against the
// previous one.
type CategoryTrend struct {
	CategoryID           string  `json:"category_id"`
	CurrentMonth         int64   `json:"current_month"`
	PreviousMonth        int64   `json:"previous_month"`
	Change               int64   `json:"change"`
	ChangePercentage     float64 `json:"change_percentage"`
	IsIncreasing         bool    `json:"is_increasing"`
	AverageMonthlyAmount float64 `json:"average_monthly_amount"`
	TransactionCount     int64   `json:"transaction_count"`
}

// CategoryTrendFor computes the month-over-month trend for one category,
// with the average monthly amount taken over the whole window.
func (e *Engine) CategoryTrendFor(categoryID string, now time.Time, period Period) (*CategoryTrend, error) {
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	currentEnd := currentStart.AddDate(0, 1, -1)
	previousStart := currentStart.AddDate(0, -1, 0)
	previousEnd := currentStart.AddDate(0, 0, -1)

	current, _, err := e.repo.CategoryExpenseStats(categoryID, currentStart, currentEnd)
	if err != nil {
		return nil, err
	}
	previous, _, err := e.repo.CategoryExpenseStats(categoryID, previousStart, previousEnd)
	if err != nil {
		return nil, err
	}
	windowTotal, windowCount, err := e.repo.CategoryExpenseStats(categoryID, period.Start(now), now)
	if err != nil {
		return nil, err
	}

	change := current - previous
	var changePct float64
	if previous != 0 {
		changePct = float64(change) / float64(previous) * 100
	}

	return &CategoryTrend{
		CategoryID:           categoryID,
		CurrentMonth:         current,
		PreviousMonth:        previous,
		Change:               change,
		ChangePercentage:     changePct,
		IsIncreasing:         change > 0,
		AverageMonthlyAmount: float64(windowTotal) / float64(period.MonthCount()),
		TransactionCount:     windowCount,
	}, nil
}

// TopExpense is one of the window's largest expense transactions.
type TopExpense struct {
	Rank        int                `json:"rank"`
	Transaction models.Transaction `json:"transaction"`
}

// TopExpenses returns the limit largest expense transactions in the window,
// 1-based ranked. Equal amounts rank the more recent transaction first.
func (e *Engine) TopExpenses(now time.Time, period Period, limit int) ([]TopExpense, error) {
	if limit <= 0 {
		limit = 10
	}
	start := period.Start(now)
	expenseType := models.TransactionTypeExpense

	page, err := e.repo.List(
		pagination.PageRequest{Page: 1, PageSize: limit},
		ledger.Filter{FromDate: &start, ToDate: &now, Type: &expenseType},
		ledger.SortAmountDesc,
	)
	if err != nil {
		return nil, err
	}

	top := make([]TopExpense, 0, len(page.Data))
	for i, transaction := range page.Data {
		top = append(top, TopExpense{Rank: i + 1, Transaction: transaction})
	}
	return top, nil
}

// DayOfWeekSpending buckets window expenses by calendar day of week,
// 1=Sunday through 7=Saturday.
type DayOfWeekSpending struct {
	DayOfWeek        int     `json:"day_of_week"`
	TotalAmount      int64   `json:"total_amount"`
	AverageAmount    float64 `json:"average_amount"`
	TransactionCount int     `json:"transaction_count"`
}

// HourSpending buckets window expenses by hour of day, 0 through 23.
type HourSpending struct {
	Hour             int     `json:"hour"`
	TotalAmount      int64   `json:"total_amount"`
	AverageAmount    float64 `json:"average_amount"`
	TransactionCount int     `json:"transaction_count"`
}

// SpendingByDayOfWeek returns seven buckets covering the window's expenses.
func (e *Engine) SpendingByDayOfWeek(now time.Time, period Period) ([]DayOfWeekSpending, error) {
	expenses, err := e.windowExpenses(now, period)
	if err != nil {
		return nil, err
	}

	buckets := make([]DayOfWeekSpending, 7)
	for i := range buckets {
		buckets[i].DayOfWeek = i + 1
	}
	for i := range expenses {
		idx := int(expenses[i].Date.Weekday()) // Sunday == 0
		buckets[idx].TotalAmount += expenses[i].Amount
		buckets[idx].TransactionCount++
	}
	for i := range buckets {
		if buckets[i].TransactionCount > 0 {
			buckets[i].AverageAmount = float64(buckets[i].TotalAmount) / float64(buckets[i].TransactionCount)
		}
	}
	return buckets, nil
}

// SpendingByHour returns twenty-four buckets covering the window's expenses.
func (e *Engine) SpendingByHour(now time.Time, period Period) ([]HourSpending, error) {
	expenses, err := e.windowExpenses(now, period)
	if err != nil {
		return nil, err
	}

	buckets := make([]HourSpending, 24)
	for i := range buckets {
		buckets[i].Hour = i
	}
	for i := range expenses {
		hour := expenses[i].Date.Hour()
		buckets[hour].TotalAmount += expenses[i].Amount
		buckets[hour].TransactionCount++
	}
	for i := range buckets {
		if buckets[i].TransactionCount > 0 {
			buckets[i].AverageAmount = float64(buckets[i].TotalAmount) / float64(buckets[i].TransactionCount)
		}
	}
	return buckets, nil
}

// Overview aggregates the window's analytics in one result.
type Overview struct {
	Trends      []SpendingTrend            `json:"trends"`
	Categories  []CategorySpending         `json:"categories"`
	TopExpenses []TopExpense               `json:"top_expenses"`
	ByDayOfWeek []DayOfWeekSpending        `json:"by_day_of_week"`
	ByHour      []HourSpending             `json:"by_hour"`
	Patterns    []DetectedRecurringPattern `json:"patterns"`
}

// ComputeOverview computes all sections concurrently. It returns early when
// ctx is cancelled.
func (e *Engine) ComputeOverview(ctx context.Context, now time.Time, period Period) (*Overview, error) {
	var overview Overview
	g, ctx := errgroup.WithContext(ctx)

	run := func(fn func() error) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}

	run(func() (err error) { overview.Trends, err = e.Trends(now, period); return })
	run(func() (err error) { overview.Categories, err = e.CategoryBreakdown(now, period); return })
	run(func() (err error) { overview.TopExpenses, err = e.TopExpenses(now, period, 10); return })
	run(func() (err error) { overview.ByDayOfWeek, err = e.SpendingByDayOfWeek(now, period); return })
	run(func() (err error) { overview.ByHour, err = e.SpendingByHour(now, period); return })
	run(func() (err error) { overview.Patterns, err = e.DetectPatterns(); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (e *Engine) windowExpenses(now time.Time, period Period) ([]models.Transaction, error) {
	transactions, err := e.repo.InRange(period.Start(now), now)
	if err != nil {
		return nil, err
	}
	expenses := transactions[:0]
	for i := range transactions {
		if transactions[i].Type == models.TransactionTypeExpense {
			expenses = append(expenses, transactions[i])
		}
	}
	return expenses, nil
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
