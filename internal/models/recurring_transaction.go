package models

import "time"

// Frequency represents how often a recurring transaction materializes
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
)

// RecurringTransaction is a template that the scheduler materializes into
// concrete transactions on a calendar schedule. NextDueDate starts at
// StartDate; the scheduler is the only writer of NextDueDate,
// LastProcessedDate, and IsActive outside of explicit user edits.
// Deactivation is the terminal state; templates are never implicitly deleted.
type RecurringTransaction struct {
	Base
	Amount            int64           `gorm:"type:bigint;not null" json:"amount"`
	Type              TransactionType `gorm:"not null" json:"type"`
	CategoryID        *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Note              string          `json:"note"`
	Frequency         Frequency       `gorm:"not null" json:"frequency"`
	StartDate         time.Time       `gorm:"not null" json:"start_date"`
	EndDate           *time.Time      `json:"end_date,omitempty"`
	NextDueDate       time.Time       `gorm:"not null;index" json:"next_due_date"`
	IsActive          bool            `gorm:"default:true" json:"is_active"`
	LastProcessedDate *time.Time      `json:"last_processed_date,omitempty"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
