// Package ledger implements the transaction repository: persistence,
// time-range and statistical queries over the durable collection of
// transactions. All storage access goes through the single-writer gate.
package ledger

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"moneta/internal/database"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// SortOrder selects the ordering of fetched transactions.
type SortOrder string

const (
	SortDateDesc   SortOrder = "date_desc"
	SortDateAsc    SortOrder = "date_asc"
	SortAmountDesc SortOrder = "amount_desc"
)

// Repository handles transaction persistence and queries.
type Repository struct {
	db              *gorm.DB
	gate            *database.Gate
	defaultCurrency string
}

// NewRepository creates a Repository. The gate must be shared with every
// other component that touches the same store.
func NewRepository(db *gorm.DB, gate *database.Gate, defaultCurrency string) *Repository {
	return &Repository{db: db, gate: gate, defaultCurrency: defaultCurrency}
}

// Location is an optional geotag for a transaction. All three fields travel
// together.
type Location struct {
	Latitude  float64
	Longitude float64
	Name      string
}

// CreateParams holds the fields for a new transaction.
type CreateParams struct {
	Amount     int64
	Type       models.TransactionType
	CategoryID *string
	WalletID   *string
	Note       string
	Date       time.Time
	Currency   string
	ReceiptID  *string
	Location   *Location
	TagNames   []string
}

// Create validates and persists a new transaction atomically.
func (r *Repository) Create(params CreateParams) (*models.Transaction, error) {
	if params.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "amount must be greater than zero")
	}
	if params.Type != models.TransactionTypeIncome && params.Type != models.TransactionTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "unknown transaction type")
	}
	if params.Date.IsZero() {
		params.Date = time.Now()
	}
	if params.Currency == "" {
		params.Currency = r.defaultCurrency
	}

	transaction := &models.Transaction{
		Amount:     params.Amount,
		Type:       params.Type,
		CategoryID: params.CategoryID,
		WalletID:   params.WalletID,
		Note:       params.Note,
		Date:       params.Date,
		Currency:   params.Currency,
		ReceiptID:  params.ReceiptID,
	}
	if params.Location != nil {
		transaction.Latitude = &params.Location.Latitude
		transaction.Longitude = &params.Location.Longitude
		transaction.LocationName = &params.Location.Name
	}

	err := r.gate.Write(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			if params.CategoryID != nil {
				var category models.Category
				if err := tx.Where("id = ?", *params.CategoryID).First(&category).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperrors.ErrCategoryNotFound
					}
					return apperrors.Wrap(apperrors.ErrSaveFailed, err)
				}
				if string(category.Type) != string(params.Type) {
					return apperrors.WithMessage(apperrors.ErrInvalidData, "category direction does not match transaction type")
				}
			}
			if params.WalletID != nil {
				var wallet models.Wallet
				if err := tx.Where("id = ?", *params.WalletID).First(&wallet).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperrors.ErrWalletNotFound
					}
					return apperrors.Wrap(apperrors.ErrSaveFailed, err)
				}
			}

			for _, name := range params.TagNames {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				var tag models.Tag
				if err := tx.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrSaveFailed, err)
				}
				transaction.Tags = append(transaction.Tags, tag)
			}

			if err := tx.Create(transaction).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, asAppError(err, apperrors.ErrSaveFailed)
	}
	return transaction, nil
}

// GetByID retrieves a transaction by ID.
func (r *Repository) GetByID(id string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.gate.Read(func() error {
		return r.db.Preload("Category").Preload("Wallet").Preload("Tags").
			Where("id = ?", id).First(&transaction).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return &transaction, nil
}

// Delete removes a transaction and its tag associations.
func (r *Repository) Delete(id string) error {
	transaction, err := r.GetByID(id)
	if err != nil {
		return err
	}

	err = r.gate.Write(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(transaction).Association("Tags").Clear(); err != nil {
				return apperrors.Wrap(apperrors.ErrDeleteFailed, err)
			}
			if err := tx.Delete(transaction).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrDeleteFailed, err)
			}
			return nil
		})
	})
	if err != nil {
		return asAppError(err, apperrors.ErrDeleteFailed)
	}
	return nil
}

// Filter holds optional filter parameters for listing transactions.
type Filter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	WalletID   *string
	MinAmount  *int64
	MaxAmount  *int64
	Query      string
}

// List retrieves a paginated, filtered list of transactions sorted by the
// given order.
func (r *Repository) List(page pagination.PageRequest, filter Filter, sort SortOrder) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var totalItems int64
	var transactions []models.Transaction
	err := r.gate.Read(func() error {
		base := applyFilters(r.db.Model(&models.Transaction{}), filter)
		if err := base.Count(&totalItems).Error; err != nil {
			return err
		}
		return base.Preload("Category").
			Scopes(pagination.Paginate(page)).
			Order(orderClause(sort)).
			Find(&transactions).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// All retrieves every transaction, default sorted by date descending.
func (r *Repository) All(sort SortOrder) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.gate.Read(func() error {
		return r.db.Preload("Category").Order(orderClause(sort)).Find(&transactions).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return transactions, nil
}

// OnDay retrieves transactions within a single calendar day, using inclusive
// start-of-day and end-of-day bounds.
func (r *Repository) OnDay(day time.Time) ([]models.Transaction, error) {
	start := StartOfDay(day)
	return r.InRange(start, start)
}

// InRange retrieves transactions within an inclusive date range. The range is
// widened to full days: start is truncated to start-of-day, end extended to
// end-of-day.
func (r *Repository) InRange(start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.gate.Read(func() error {
		return r.db.Preload("Category").
			Where("date BETWEEN ? AND ?", StartOfDay(start), EndOfDay(end)).
			Order("date DESC").
			Find(&transactions).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return transactions, nil
}

// CurrentMonth retrieves transactions in the calendar month containing now.
func (r *Repository) CurrentMonth(now time.Time) ([]models.Transaction, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	return r.InRange(start, end)
}

// SearchNote retrieves transactions whose note contains the query as a
// case-insensitive substring.
func (r *Repository) SearchNote(query string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.gate.Read(func() error {
		return r.db.Preload("Category").
			Where("LOWER(note) LIKE ?", "%"+strings.ToLower(query)+"%").
			Order("date DESC").
			Find(&transactions).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return transactions, nil
}

func applyFilters(q *gorm.DB, f Filter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", StartOfDay(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", EndOfDay(*f.ToDate))
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.WalletID != nil {
		q = q.Where("wallet_id = ?", *f.WalletID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if f.Query != "" {
		q = q.Where("LOWER(note) LIKE ?", "%"+strings.ToLower(f.Query)+"%")
	}
	return q
}

func orderClause(sort SortOrder) string {
	switch sort {
	case SortDateAsc:
		return "date ASC"
	case SortAmountDesc:
		return "amount DESC, date DESC"
	default:
		return "date DESC"
	}
}

// StartOfDay returns midnight of the given day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of the given day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// asAppError returns err as-is when it already carries an AppError, otherwise
// wraps it in the given sentinel.
func asAppError(err error, sentinel *apperrors.AppError) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(sentinel, err)
}
