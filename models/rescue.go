package models

import "time"

// AnimalRescue is a rescue event. Intake populates only the rescue
// date (which may itself be null); the rest is filled in later.
type AnimalRescue struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	RankNr        *int       `gorm:"column:rank_nr" json:"rank_nr"`
	RescueDate    *time.Time `gorm:"column:rescue_date" json:"rescue_date"`
	Location      *string    `gorm:"size:255" json:"location"`
	LocationNotes *string    `gorm:"size:255;column:location_notes" json:"location_notes"`
}

func (AnimalRescue) TableName() string {
	return "animal_rescues"
}

// AnimalToAnimalRescue links animals and rescue events many-to-many.
// Rows are written once at intake and never mutated.
type AnimalToAnimalRescue struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	AnimalID       uint `gorm:"column:animal_id" json:"animal_id"`
	AnimalRescueID uint `gorm:"column:animal_rescue_id" json:"animal_rescue_id"`
}

func (AnimalToAnimalRescue) TableName() string {
	return "animals_to_animal_rescues"
}
