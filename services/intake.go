// Package services holds the intake, photo ingestion and dashboard
// workflows. External collaborators are injected behind small
// interfaces so the workflows can be exercised without live Google
// resources.
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/PMark-est/catshelp/models"
	"github.com/PMark-est/catshelp/utils"
)

// RowAppender appends a row of values to a spreadsheet range.
type RowAppender interface {
	Append(ctx context.Context, spreadsheetID, rng string, values []any) error
}

// IntakeService registers a new animal together with its rescue event
// and mirrors the submitted form into the shared spreadsheet.
type IntakeService struct {
	db            *gorm.DB
	sheets        RowAppender
	spreadsheetID string
	sheetRange    string
}

func NewIntakeService(db *gorm.DB, sheets RowAppender, spreadsheetID, sheetRange string) *IntakeService {
	return &IntakeService{
		db:            db,
		sheets:        sheets,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
	}
}

// Intake runs the intake sequence: insert an empty animal row, mirror
// the form (animal id first, photo field stripped) to the spreadsheet,
// insert the rescue event, link the two, commit. Every database step
// runs in one transaction; any failure rolls it back. The spreadsheet
// append is not transactional — once it succeeded, a failure in a later
// step leaves the mirrored row behind, which is logged but not undone.
// Returns the generated rescue event id.
func (s *IntakeService) Intake(ctx context.Context, form *models.IntakeForm) (uint, error) {
	var rescueID uint
	var mirrored bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		animal := models.Animal{}
		if err := tx.Create(&animal).Error; err != nil {
			return fmt.Errorf("insert animal: %w", err)
		}

		if err := s.sheets.Append(ctx, s.spreadsheetID, s.sheetRange, form.SheetValues(animal.ID)); err != nil {
			return fmt.Errorf("mirror intake row: %w", err)
		}
		mirrored = true

		rescue := models.AnimalRescue{RescueDate: form.RescueDate()}
		if err := tx.Create(&rescue).Error; err != nil {
			return fmt.Errorf("insert rescue event: %w", err)
		}

		link := models.AnimalToAnimalRescue{AnimalID: animal.ID, AnimalRescueID: rescue.ID}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("link animal to rescue event: %w", err)
		}

		rescueID = rescue.ID
		return nil
	})

	if err != nil {
		if mirrored && utils.Sugar != nil {
			// No cross-system rollback exists for the append.
			utils.Sugar.Warnw("intake rolled back after spreadsheet append; mirrored row is orphaned", "error", err)
		}
		return 0, err
	}
	return rescueID, nil
}
