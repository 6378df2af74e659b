package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"medcredhub/internal/adapters/http/middleware"
	"medcredhub/internal/adapters/http/routes"
	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/adapters/persistence/repositories"
	"medcredhub/internal/config"
	"medcredhub/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "medcredhub/docs" // Swagger docs
)

// @title MedCredHub API
// @version 1.0
// @description Physician credential and CME compliance tracking API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@medcredhub.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.medcredhub.com
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed admin user and master data
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed users: %v", err)
	}
	if err := config.SeedMasterData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed master data: %v", err)
	}

	// Wire the alert pipeline; the cron scanner and the HTTP routes share
	// the same AlertService instance so scheduled scans and on-demand
	// requests see identical state
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	credentialRepo := repositories.NewCredentialRepository(db)
	cmeRepo := repositories.NewCMERepository(db)
	masterRepo := repositories.NewMasterRepository(db)
	settingsRepo := repositories.NewAlertSettingsRepository(db)

	notifyService := services.NewNotificationService(cfg.Notify.WebhookURL, cfg.Notify.WebhookToken)
	complianceService := services.NewComplianceService(userRepo, cmeRepo, masterRepo, settingsRepo)
	alertService := services.NewAlertService(userRepo, credentialRepo, cmeRepo, settingsRepo, complianceService, notifyService)

	// Start Cron Service for scheduled alert scans (08:30 daily)
	cronService := services.NewCronService(alertService, refreshTokenRepo)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MedCredHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, alertService, notifyService)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
