package models

import "time"

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Budget represents a spending limit for one category, or the single
// process-wide total budget when CategoryID is nil. At most one budget exists
// per category and at most one total budget at a time; the repository
// enforces this, not the schema.
type Budget struct {
	Base
	Amount     int64        `gorm:"type:bigint;not null" json:"amount"`
	Period     BudgetPeriod `gorm:"not null" json:"period"`
	CategoryID *string      `gorm:"type:uuid" json:"category_id,omitempty"`
	StartDate  time.Time    `gorm:"not null" json:"start_date"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// IsTotal reports whether this is the process-wide total budget.
func (b *Budget) IsTotal() bool { return b.CategoryID == nil }
