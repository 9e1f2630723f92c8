package main

import (
	"context"

	"github.com/PMark-est/catshelp/config"
	"github.com/PMark-est/catshelp/google"
	"github.com/PMark-est/catshelp/models"
	"github.com/PMark-est/catshelp/routes"
	"github.com/PMark-est/catshelp/services"
	"github.com/PMark-est/catshelp/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Animal{}, &models.AnimalRescue{}, &models.AnimalToAnimalRescue{})

	// One authenticated client shared by both gateways for the process lifetime.
	httpClient, err := google.NewServiceClient(context.Background(), cfg.GoogleCredentialsFile,
		google.ScopeSpreadsheets, google.ScopeDrive)
	if err != nil {
		utils.Sugar.Fatalf("google credentials: %v", err)
	}
	sheets := google.NewSheetsClient(httpClient, cfg.GoogleAPIKey)
	drive := google.NewDriveClient(httpClient, cfg.DriveParentFolderID, cfg.DriveID)

	svc := routes.Services{
		Intake:    services.NewIntakeService(db, sheets, cfg.SheetsID, cfg.SheetRange),
		Photos:    services.NewPhotoService(drive, cfg.AwaitUploads),
		Dashboard: services.NewDashboardService(sheets, drive, cfg.SheetsID, cfg.SheetRange, cfg.FosterHome, cfg.PublicDir),
	}

	r := routes.SetupRouter(db, svc)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
