package wallet

import (
	"testing"

	"moneta/internal/database"
	"moneta/internal/models"
	"moneta/internal/testutil"

	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return NewService(db, database.NewGate()), db
}

func TestCreateWallet(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc, _ := newTestService(t)

		wallet, err := svc.Create("Cash", "KRW", false)
		testutil.AssertNoError(t, err)
		if wallet.ID == "" {
			t.Error("expected non-empty wallet ID")
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create("", "KRW", false)
		testutil.AssertAppError(t, err, "INVALID_DATA")
	})

	t.Run("bad_currency", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create("Cash", "WON", false)
		testutil.AssertNoError(t, err)

		_, err = svc.Create("Cash", "KR", false)
		testutil.AssertAppError(t, err, "INVALID_DATA")
	})

	t.Run("default_flag_moves_to_newest", func(t *testing.T) {
		svc, _ := newTestService(t)

		first, err := svc.Create("Cash", "KRW", true)
		testutil.AssertNoError(t, err)
		_, err = svc.Create("Bank", "KRW", true)
		testutil.AssertNoError(t, err)

		reloaded, err := svc.GetByID(first.ID)
		testutil.AssertNoError(t, err)
		if reloaded.IsDefault {
			t.Error("expected original default flag to be cleared")
		}
	})
}

func TestSetDefaultWallet(t *testing.T) {
	t.Run("moves_flag", func(t *testing.T) {
		svc, _ := newTestService(t)
		first, err := svc.Create("Cash", "KRW", true)
		testutil.AssertNoError(t, err)
		second, err := svc.Create("Bank", "KRW", false)
		testutil.AssertNoError(t, err)

		updated, err := svc.SetDefault(second.ID)
		testutil.AssertNoError(t, err)
		if !updated.IsDefault {
			t.Error("expected wallet to become default")
		}

		reloaded, err := svc.GetByID(first.ID)
		testutil.AssertNoError(t, err)
		if reloaded.IsDefault {
			t.Error("expected previous default to be cleared")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.SetDefault("0198a5e0-0000-7000-8000-000000000040")
		testutil.AssertAppError(t, err, "WALLET_NOT_FOUND")
	})
}

func TestDeleteWallet(t *testing.T) {
	t.Run("nullifies_transaction_references", func(t *testing.T) {
		svc, db := newTestService(t)
		wallet, err := svc.Create("Cash", "KRW", false)
		testutil.AssertNoError(t, err)

		tx := testutil.CreateTestTransaction(t, db, models.TransactionTypeExpense, 5000, nil)
		if err := db.Model(tx).Update("wallet_id", wallet.ID).Error; err != nil {
			t.Fatalf("failed to link transaction: %v", err)
		}

		testutil.AssertNoError(t, svc.Delete(wallet.ID))

		var reloaded models.Transaction
		if err := db.First(&reloaded, "id = ?", tx.ID).Error; err != nil {
			t.Fatalf("transaction must survive wallet deletion: %v", err)
		}
		if reloaded.WalletID != nil {
			t.Error("expected wallet reference to be nullified")
		}
	})
}
