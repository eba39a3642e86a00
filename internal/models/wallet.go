package models

// Wallet represents a money container (cash, bank account, card) that
// transactions can be attributed to. The engine stores and resolves wallets
// but does not aggregate across them.
type Wallet struct {
	Base
	Name      string `gorm:"not null" json:"name"`
	Currency  string `gorm:"size:3;not null" json:"currency"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
}
