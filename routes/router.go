package routes

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PMark-est/catshelp/config"
	"github.com/PMark-est/catshelp/controllers"
	"github.com/PMark-est/catshelp/middleware"
	"github.com/PMark-est/catshelp/services"
	"github.com/PMark-est/catshelp/utils"
)

// Services bundles the workflow services the router wires into handlers.
type Services struct {
	Intake    *services.IntakeService
	Photos    *services.PhotoService
	Dashboard *services.DashboardService
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, svc Services) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Cat-Name"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/public", cfg.PublicDir)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController()
	animalController := controllers.NewAnimalController(db, svc.Intake, svc.Dashboard)
	photoController := controllers.NewPhotoController(svc.Photos, cfg.AwaitUploads)

	api := r.Group("/api")

	api.POST("/login", middleware.RateLimitMiddleware(), authController.Login)
	api.GET("/verify", authController.Verify)

	api.GET("/animals/dashboard", animalController.Dashboard)
	api.POST("/animals", animalController.Intake)
	api.GET("/animals/:id", animalController.GetAnimal)
	api.PUT("/animals/:id", middleware.AuthRequired(), animalController.UpdateAnimal)

	api.POST("/pilt/lisa", photoController.Upload)

	// SPA fallback for page routes (/dashboard, /add-cat, ...)
	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/public/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		ctx.Status(http.StatusOK)
		ctx.File(filepath.Join(cfg.PublicDir, "index.html"))
	})

	return r
}
