package models

import "time"

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single ledger entry. Amount is stored in the
// currency's minor units and is always strictly positive; the sign is derived
// from Type via SignedAmount. Date is the economic date of the transaction,
// distinct from the record's CreatedAt.
type Transaction struct {
	Base
	Amount     int64           `gorm:"type:bigint;not null" json:"amount"`
	Type       TransactionType `gorm:"not null" json:"type"`
	CategoryID *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	WalletID   *string         `gorm:"type:uuid" json:"wallet_id,omitempty"`
	Note       string          `json:"note"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Currency   string          `gorm:"size:3;not null" json:"currency"`
	ReceiptID  *string         `json:"receipt_id,omitempty"`

	// Geolocation is all-or-nothing: either all three fields are set or none.
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	LocationName *string  `json:"location_name,omitempty"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Wallet   *Wallet   `gorm:"foreignKey:WalletID" json:"wallet,omitempty"`
	Tags     []Tag     `gorm:"many2many:transaction_tags" json:"tags,omitempty"`
}

// SignedAmount returns the amount with its sign derived from the type:
// positive for income, negative for expense.
func (t *Transaction) SignedAmount() int64 {
	if t.Type == TransactionTypeIncome {
		return t.Amount
	}
	return -t.Amount
}

// HasLocation reports whether the transaction carries a geolocation.
func (t *Transaction) HasLocation() bool {
	return t.Latitude != nil && t.Longitude != nil && t.LocationName != nil
}
