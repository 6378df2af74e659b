package routes

import (
	"time"

	"medcredhub/internal/adapters/http/handlers"
	"medcredhub/internal/adapters/http/middleware"
	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/adapters/persistence/repositories"
	"medcredhub/internal/config"
	"medcredhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application. The alert and
// notification services are built in main and shared with the cron
// scheduler.
func Setup(
	app *fiber.App,
	db *gorm.DB,
	cfg *config.Config,
	alertService *services.AlertService,
	notifyService *services.NotificationService,
) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	credentialRepo := repositories.NewCredentialRepository(db)
	cmeRepo := repositories.NewCMERepository(db)
	masterRepo := repositories.NewMasterRepository(db)
	settingsRepo := repositories.NewAlertSettingsRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	credentialService := services.NewCredentialService(credentialRepo)
	cmeService := services.NewCMEService(cmeRepo)
	complianceService := services.NewComplianceService(userRepo, cmeRepo, masterRepo, settingsRepo)
	masterService := services.NewMasterService(masterRepo)
	cvService := services.NewCVService(userRepo, credentialRepo, cmeRepo)
	dashboardService := services.NewDashboardService(credentialService, cmeService, complianceService, alertService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	cmeHandler := handlers.NewCMEHandler(cmeService)
	complianceHandler := handlers.NewComplianceHandler(complianceService)
	alertHandler := handlers.NewAlertHandler(alertService, notifyService)
	masterHandler := handlers.NewMasterHandler(masterService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	cvHandler := handlers.NewCVHandler(cvService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate-limited)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Profile routes
	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Credential section routes
	credentialRoutes := apiV1.Group("/credentials")
	credentialRoutes.Use(middleware.AuthMiddleware(cfg))
	setupCredentialRoutes(credentialRoutes, credentialService)

	// CME routes
	cmeRoutes := apiV1.Group("/cme")
	cmeRoutes.Use(middleware.AuthMiddleware(cfg))
	cmeRoutes.Get("/", cmeHandler.List)
	cmeRoutes.Post("/", cmeHandler.Create)
	cmeRoutes.Get("/:id", cmeHandler.Get)
	cmeRoutes.Put("/:id", cmeHandler.Update)
	cmeRoutes.Delete("/:id", cmeHandler.Delete)

	// Compliance routes
	complianceRoutes := apiV1.Group("/compliance")
	complianceRoutes.Use(middleware.AuthMiddleware(cfg))
	complianceRoutes.Use(middleware.NoCacheHeaders())
	complianceRoutes.Get("/", complianceHandler.GetAll)
	complianceRoutes.Get("/:state", complianceHandler.GetForState)

	// Alert routes
	alertRoutes := apiV1.Group("/alerts")
	alertRoutes.Use(middleware.AuthMiddleware(cfg))
	alertRoutes.Get("/", middleware.NoCacheHeaders(), alertHandler.Get)
	alertRoutes.Get("/stream", alertHandler.Stream)
	alertRoutes.Get("/settings", alertHandler.GetSettings)
	alertRoutes.Put("/settings", alertHandler.UpdateSettings)
	alertRoutes.Post("/snooze", alertHandler.Snooze)
	alertRoutes.Delete("/snooze", alertHandler.Unsnooze)

	// Master data routes: public lookups are cached, maintenance is
	// admin-only
	masterRoutes := apiV1.Group("/master")
	masterRoutes.Get("/state-requirements", middleware.MasterDataCache(), masterHandler.ListStateRequirements)
	masterRoutes.Get("/state-requirements/:state", middleware.MasterDataCache(), masterHandler.GetStateRequirement)
	masterRoutes.Get("/cpt/search", middleware.MasterDataCache(), masterHandler.SearchCPT)

	masterRoutes.Post("/state-requirements", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), masterHandler.CreateStateRequirement)
	masterRoutes.Post("/cpt", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), masterHandler.ImportCPT)
	masterRoutes.Get("/stats", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), middleware.NoCacheHeaders(), masterHandler.Stats)

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/", dashboardHandler.Get)

	// CV routes (per-user output, privately cacheable)
	cvRoutes := apiV1.Group("/cv")
	cvRoutes.Use(middleware.AuthMiddleware(cfg))
	cvRoutes.Get("/", middleware.PrivateCacheHeaders(5*time.Minute), cvHandler.Generate)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate-limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", middleware.StrictRateLimiter(), handler.ChangePassword)
}

// setupCredentialRoutes mounts the six credential sections, each on its own
// sub-path with the shared CRUD surface
func setupCredentialRoutes(router fiber.Router, credentialService *services.CredentialService) {
	handlers.NewSectionHandler(credentialService.Licenses(), "License",
		func(r *models.License, userID, id uint) { r.UserID = userID; r.ID = id },
	).Register(router.Group("/licenses"))

	handlers.NewSectionHandler(credentialService.Privileges(), "Privilege",
		func(r *models.Privilege, userID, id uint) { r.UserID = userID; r.ID = id },
	).Register(router.Group("/privileges"))

	handlers.NewSectionHandler(credentialService.Insurance(), "Insurance policy",
		func(r *models.InsurancePolicy, userID, id uint) { r.UserID = userID; r.ID = id },
	).Register(router.Group("/insurance"))

	handlers.NewSectionHandler(credentialService.Education(), "Education",
		func(r *models.Education, userID, id uint) { r.UserID = userID; r.ID = id },
	).Register(router.Group("/education"))

	handlers.NewSectionHandler(credentialService.HealthRecords(), "Health record",
		func(r *models.HealthRecord, userID, id uint) { r.UserID = userID; r.ID = id },
	).Register(router.Group("/health-records"))

	handlers.NewSectionHandler(credentialService.WorkEntries(), "Work entry",
		func(r *models.WorkEntry, userID, id uint) { r.UserID = userID; r.ID = id },
	).Register(router.Group("/work-entries"))
}
