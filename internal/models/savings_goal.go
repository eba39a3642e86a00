package models

import "time"

// SavingsGoal tracks progress toward a saving target. Peripheral to the
// ledger: persisted and served, never aggregated by the insights engine.
type SavingsGoal struct {
	Base
	Name          string     `gorm:"not null" json:"name"`
	TargetAmount  int64      `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64      `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
}
