package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"moneta/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	n := nextID()
	category := &models.Category{
		Name:      fmt.Sprintf("Test Category %d", n),
		Type:      categoryType,
		SortOrder: int(n),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestWallet creates a wallet.
func CreateTestWallet(t *testing.T, db *gorm.DB) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		Name:     fmt.Sprintf("Test Wallet %d", nextID()),
		Currency: "KRW",
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}

// CreateTestTransaction creates a transaction of the given type and amount
// (in minor units) dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, txType models.TransactionType, amount int64, categoryID *string) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOn(t, db, txType, amount, categoryID, time.Now())
}

// CreateTestTransactionOn creates a transaction dated at the given time.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, txType models.TransactionType, amount int64, categoryID *string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Amount:     amount,
		Type:       txType,
		CategoryID: categoryID,
		Note:       fmt.Sprintf("test transaction %d", nextID()),
		Date:       date,
		Currency:   "KRW",
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a monthly budget for the given category (nil for
// the total budget).
func CreateTestBudget(t *testing.T, db *gorm.DB, categoryID *string, amount int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Amount:     amount,
		Period:     models.BudgetPeriodMonthly,
		CategoryID: categoryID,
		StartDate:  time.Now().Truncate(24 * time.Hour),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestRecurring creates an active recurring template with the given
// frequency and start date; NextDueDate starts at the start date.
func CreateTestRecurring(t *testing.T, db *gorm.DB, frequency models.Frequency, startDate time.Time, endDate *time.Time) *models.RecurringTransaction {
	t.Helper()

	template := &models.RecurringTransaction{
		Amount:      10000,
		Type:        models.TransactionTypeExpense,
		Note:        fmt.Sprintf("test recurring %d", nextID()),
		Frequency:   frequency,
		StartDate:   startDate,
		EndDate:     endDate,
		NextDueDate: startDate,
		IsActive:    true,
	}
	if err := db.Create(template).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	return template
}
