package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. A category is valid for exactly
// one transaction direction. SortOrder is a unique ordering key per type,
// assigned as max(existing)+1 on creation.
type Category struct {
	Base
	Name      string       `gorm:"not null" json:"name"`
	Type      CategoryType `gorm:"not null" json:"type"`
	Icon      string       `json:"icon"`
	Color     string       `json:"color"`
	IsDefault bool         `gorm:"default:false" json:"is_default"`
	SortOrder int          `gorm:"not null;default:0" json:"sort_order"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budget       *Budget       `gorm:"foreignKey:CategoryID" json:"budget,omitempty"`
}
