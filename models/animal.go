package models

import "time"

// Animal represents a shelter animal. Every descriptive column is
// nullable: intake creates the row empty and the fields are filled in
// later from the edit form.
type Animal struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Name                 *string    `gorm:"size:255" json:"name"`
	Birthday             *time.Time `json:"birthday"`
	Description          *string    `gorm:"size:255" json:"description"`
	Status               *string    `gorm:"size:255" json:"status"`
	ChipNumber           *string    `gorm:"size:255;column:chip_number" json:"chip_number"`
	ChipRegisteredWithUs *bool      `gorm:"column:chip_registered_with_us" json:"chip_registered_with_us"`
}

// TableName keeps the table name used by the production schema.
func (Animal) TableName() string {
	return "animals"
}
