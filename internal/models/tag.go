package models

// Tag is a free-form label attached to transactions.
type Tag struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
