package ledger

import (
	"time"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// CategoryExpense is one row of the expense-by-category breakdown.
type CategoryExpense struct {
	CategoryID       string `json:"category_id"`
	CategoryName     string `json:"category_name"`
	Amount           int64  `json:"amount"`
	TransactionCount int64  `json:"transaction_count"`
}

// Totals holds range statistics computed in a single pass.
//
// Amounts are summed in their stored minor units with no currency
// conversion; mixing currencies in one ledger skews these figures.
type Totals struct {
	TotalIncome  int64 `json:"total_income"`
	TotalExpense int64 `json:"total_expense"`
	Balance      int64 `json:"balance"`
}

// TotalIncome sums income amounts over the inclusive range [start, end].
func (r *Repository) TotalIncome(start, end time.Time) (int64, error) {
	return r.sumByType(models.TransactionTypeIncome, start, end)
}

// TotalExpense sums expense amounts over the inclusive range [start, end].
func (r *Repository) TotalExpense(start, end time.Time) (int64, error) {
	return r.sumByType(models.TransactionTypeExpense, start, end)
}

// RangeTotals computes income, expense, and balance over [start, end] in one
// scan of the range.
func (r *Repository) RangeTotals(start, end time.Time) (*Totals, error) {
	var totals Totals
	err := r.gate.Read(func() error {
		return r.db.Model(&models.Transaction{}).
			Select(
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_income, "+
					"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_expense",
				models.TransactionTypeIncome, models.TransactionTypeExpense).
			Where("date BETWEEN ? AND ?", StartOfDay(start), EndOfDay(end)).
			Scan(&totals).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	totals.Balance = totals.TotalIncome - totals.TotalExpense
	return &totals, nil
}

// TotalBalance sums the signed amount of every transaction in the ledger.
func (r *Repository) TotalBalance() (int64, error) {
	var balance int64
	err := r.gate.Read(func() error {
		return r.db.Model(&models.Transaction{}).
			Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)",
				models.TransactionTypeIncome).
			Scan(&balance).Error
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return balance, nil
}

// ExpenseByCategory groups expense amounts in [start, end] by category,
// sorted by summed amount descending. Transactions without a category are
// excluded. Ties order by category ID for determinism.
func (r *Repository) ExpenseByCategory(start, end time.Time) ([]CategoryExpense, error) {
	var rows []CategoryExpense
	err := r.gate.Read(func() error {
		return r.db.Model(&models.Transaction{}).
			Select("transactions.category_id AS category_id, categories.name AS category_name, SUM(transactions.amount) AS amount, COUNT(*) AS transaction_count").
			Joins("JOIN categories ON categories.id = transactions.category_id").
			Where("transactions.type = ?", models.TransactionTypeExpense).
			Where("transactions.date BETWEEN ? AND ?", StartOfDay(start), EndOfDay(end)).
			Group("transactions.category_id, categories.name").
			Order("amount DESC, category_id ASC").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return rows, nil
}

// CategoryExpenseStats sums expense amount and counts transactions for one
// category over [start, end].
func (r *Repository) CategoryExpenseStats(categoryID string, start, end time.Time) (int64, int64, error) {
	var row struct {
		Amount int64
		Count  int64
	}
	err := r.gate.Read(func() error {
		return r.db.Model(&models.Transaction{}).
			Select("COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count").
			Where("type = ? AND category_id = ? AND date BETWEEN ? AND ?",
				models.TransactionTypeExpense, categoryID, StartOfDay(start), EndOfDay(end)).
			Scan(&row).Error
	})
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return row.Amount, row.Count, nil
}

func (r *Repository) sumByType(t models.TransactionType, start, end time.Time) (int64, error) {
	var total int64
	err := r.gate.Read(func() error {
		return r.db.Model(&models.Transaction{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("type = ? AND date BETWEEN ? AND ?", t, StartOfDay(start), EndOfDay(end)).
			Scan(&total).Error
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return total, nil
}
