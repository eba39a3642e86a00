package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"moneta/internal/database"
	"moneta/internal/ledger"
	"moneta/internal/models"
	"moneta/internal/testutil"
	"moneta/internal/validator"

	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Register()
	m.Run()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func setupTransactionRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	repo := ledger.NewRepository(db, database.NewGate(), "KRW")
	handler := NewTransactionHandler(repo)

	r := gin.New()
	r.POST("/transactions", handler.CreateTransaction)
	r.GET("/transactions", handler.ListTransactions)
	r.GET("/transactions/statistics", handler.GetStatistics)
	r.GET("/transactions/:id", handler.GetTransactionByID)
	r.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r, db
}

func TestTransactionHandler_Create(t *testing.T) {
	t.Run("returns_201_on_success", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		rec := doRequest(r, "POST", "/transactions",
			`{"amount":4500,"type":"expense","note":"coffee","date":"2026-04-10"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeBody(t, rec)
		tx, ok := body["transaction"].(map[string]interface{})
		if !ok {
			t.Fatalf("expected transaction in response, got %s", rec.Body.String())
		}
		if tx["amount"].(float64) != 4500 {
			t.Errorf("unexpected amount: %v", tx["amount"])
		}
		if tx["currency"].(string) != "KRW" {
			t.Errorf("expected default currency, got %v", tx["currency"])
		}
	})

	t.Run("rejects_missing_amount", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		rec := doRequest(r, "POST", "/transactions", `{"type":"expense"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "INVALID_DATA" {
			t.Errorf("expected INVALID_DATA, got %s", code)
		}
	})

	t.Run("rejects_unknown_type", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		rec := doRequest(r, "POST", "/transactions", `{"amount":100,"type":"transfer"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects_bad_currency", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		rec := doRequest(r, "POST", "/transactions", `{"amount":100,"type":"expense","currency":"WONS"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects_bad_date", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		rec := doRequest(r, "POST", "/transactions", `{"amount":100,"type":"expense","date":"04/10/2026"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing_category_returns_404", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		rec := doRequest(r, "POST", "/transactions",
			`{"amount":100,"type":"expense","category_id":"0198a5e0-0000-7000-8000-000000000060"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "CATEGORY_NOT_FOUND" {
			t.Errorf("expected CATEGORY_NOT_FOUND, got %s", code)
		}
	})
}

func TestTransactionHandler_List(t *testing.T) {
	t.Run("returns_paginated_list", func(t *testing.T) {
		r, db := setupTransactionRouter(t)
		testutil.CreateTestTransaction(t, db, models.TransactionTypeExpense, 1000, nil)
		testutil.CreateTestTransaction(t, db, models.TransactionTypeIncome, 2000, nil)

		rec := doRequest(r, "GET", "/transactions?type=expense", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeBody(t, rec)
		if body["total_items"].(float64) != 1 {
			t.Errorf("expected 1 expense, got %v", body["total_items"])
		}
		if _, ok := body["data"].([]interface{}); !ok {
			t.Fatalf("expected data array, got %s", rec.Body.String())
		}
	})

	t.Run("rejects_bad_sort", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		rec := doRequest(r, "GET", "/transactions?sort=sideways", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetAndDelete(t *testing.T) {
	t.Run("get_then_delete", func(t *testing.T) {
		r, db := setupTransactionRouter(t)
		created := testutil.CreateTestTransaction(t, db, models.TransactionTypeExpense, 1000, nil)

		rec := doRequest(r, "GET", "/transactions/"+created.ID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		rec = doRequest(r, "DELETE", "/transactions/"+created.ID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		rec = doRequest(r, "GET", "/transactions/"+created.ID, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", rec.Code)
		}
	})
}
