package ledger

import (
	"time"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// SnapshotRecord is one exported transaction with category, wallet, and tag
// references resolved to names. The export/backup collaborator consumes
// these; the file format it writes is its own concern.
type SnapshotRecord struct {
	ID           string                 `json:"id"`
	Amount       int64                  `json:"amount"`
	Type         models.TransactionType `json:"type"`
	CategoryName string                 `json:"category_name,omitempty"`
	WalletName   string                 `json:"wallet_name,omitempty"`
	TagNames     []string               `json:"tag_names,omitempty"`
	Note         string                 `json:"note"`
	Date         time.Time              `json:"date"`
	Currency     string                 `json:"currency"`
}

// Snapshot returns the full ledger as an ordered (date ascending) list of
// records with resolved names.
func (r *Repository) Snapshot() ([]SnapshotRecord, error) {
	var transactions []models.Transaction
	err := r.gate.Read(func() error {
		return r.db.Preload("Category").Preload("Wallet").Preload("Tags").
			Order("date ASC").
			Find(&transactions).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}

	records := make([]SnapshotRecord, 0, len(transactions))
	for i := range transactions {
		t := &transactions[i]
		record := SnapshotRecord{
			ID:       t.ID,
			Amount:   t.Amount,
			Type:     t.Type,
			Note:     t.Note,
			Date:     t.Date,
			Currency: t.Currency,
		}
		if t.Category != nil {
			record.CategoryName = t.Category.Name
		}
		if t.Wallet != nil {
			record.WalletName = t.Wallet.Name
		}
		for _, tag := range t.Tags {
			record.TagNames = append(record.TagNames, tag.Name)
		}
		records = append(records, record)
	}
	return records, nil
}

// Import creates one transaction per record and returns the number imported.
// Category and wallet names that do not resolve to an existing entity are
// dropped rather than recreated. Import stops at the first failed create and
// reports the count up to that point.
func (r *Repository) Import(records []SnapshotRecord) (int, error) {
	imported := 0
	for i := range records {
		record := &records[i]
		params := CreateParams{
			Amount:   record.Amount,
			Type:     record.Type,
			Note:     record.Note,
			Date:     record.Date,
			Currency: record.Currency,
			TagNames: record.TagNames,
		}
		if record.CategoryName != "" {
			if id, ok := r.categoryIDByName(record.CategoryName, record.Type); ok {
				params.CategoryID = &id
			}
		}
		if record.WalletName != "" {
			if id, ok := r.walletIDByName(record.WalletName); ok {
				params.WalletID = &id
			}
		}
		if _, err := r.Create(params); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (r *Repository) categoryIDByName(name string, txType models.TransactionType) (string, bool) {
	var category models.Category
	err := r.gate.Read(func() error {
		return r.db.Where("name = ? AND type = ?", name, string(txType)).First(&category).Error
	})
	if err != nil {
		return "", false
	}
	return category.ID, true
}

func (r *Repository) walletIDByName(name string) (string, bool) {
	var wallet models.Wallet
	err := r.gate.Read(func() error {
		return r.db.Where("name = ?", name).First(&wallet).Error
	})
	if err != nil {
		return "", false
	}
	return wallet.ID, true
}
