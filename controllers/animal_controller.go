package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PMark-est/catshelp/models"
	"github.com/PMark-est/catshelp/services"
	"github.com/PMark-est/catshelp/utils"
)

const dashboardCacheKey = "cache:dashboard"

// AnimalController serves the intake, dashboard and profile endpoints.
type AnimalController struct {
	db        *gorm.DB
	intake    *services.IntakeService
	dashboard *services.DashboardService
}

func NewAnimalController(db *gorm.DB, intake *services.IntakeService, dashboard *services.DashboardService) *AnimalController {
	return &AnimalController{db: db, intake: intake, dashboard: dashboard}
}

// Intake registers a new animal from the add-cat form and answers with
// the generated rescue event id.
func (a *AnimalController) Intake(ctx *gin.Context) {
	var form models.IntakeForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid intake form")
		return
	}

	rescueID, err := a.intake.Intake(ctx.Request.Context(), &form)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": rescueID})
}

// Dashboard returns the foster home's animal with its staged image.
// The result is cached briefly since the sheet changes rarely.
func (a *AnimalController) Dashboard(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(dashboardCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	cat, err := a.dashboard.FosterHomeCat(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoFosterHomeMatch) {
			utils.Error(ctx, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	utils.CacheSetJSON(dashboardCacheKey, cat, time.Minute)
	ctx.JSON(http.StatusOK, cat)
}

// GetAnimal returns one animal with its rescue events for the profile page.
func (a *AnimalController) GetAnimal(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, "invalid animal id")
		return
	}

	var animal models.Animal
	if err := a.db.First(&animal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "animal not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	var rescues []models.AnimalRescue
	if err := a.db.
		Joins("JOIN animals_to_animal_rescues ON animals_to_animal_rescues.animal_rescue_id = animal_rescues.id").
		Where("animals_to_animal_rescues.animal_id = ?", animal.ID).
		Find(&rescues).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"animal": animal, "rescues": rescues})
}

// UpdateAnimal fills in the descriptive fields created empty at intake.
func (a *AnimalController) UpdateAnimal(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, "invalid animal id")
		return
	}

	var req struct {
		Name                 *string    `json:"name"`
		Birthday             *time.Time `json:"birthday"`
		Description          *string    `json:"description"`
		Status               *string    `json:"status"`
		ChipNumber           *string    `json:"chip_number"`
		ChipRegisteredWithUs *bool      `json:"chip_registered_with_us"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	var animal models.Animal
	if err := a.db.First(&animal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "animal not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Name != nil {
		animal.Name = req.Name
	}
	if req.Birthday != nil {
		animal.Birthday = req.Birthday
	}
	if req.Description != nil {
		clean := utils.Sanitize(*req.Description)
		animal.Description = &clean
	}
	if req.Status != nil {
		animal.Status = req.Status
	}
	if req.ChipNumber != nil {
		animal.ChipNumber = req.ChipNumber
	}
	if req.ChipRegisteredWithUs != nil {
		animal.ChipRegisteredWithUs = req.ChipRegisteredWithUs
	}

	if err := a.db.Save(&animal).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"animal": animal})
}
