package routes

import (
	"svs-schoolpay/internal/adapters/http/handlers"
	"svs-schoolpay/internal/adapters/http/middleware"
	"svs-schoolpay/internal/adapters/persistence/repositories"
	"svs-schoolpay/internal/config"
	"svs-schoolpay/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	studentRepo := repositories.NewStudentRepository(db)
	masterRepo := repositories.NewMasterRepository(db)
	feeItemRepo := repositories.NewFeeItemRepository(db)
	feeStructureRepo := repositories.NewFeeStructureRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	studentService := services.NewStudentService(studentRepo)
	catalogService := services.NewCatalogService(feeItemRepo, feeStructureRepo, masterRepo, cfg)
	notifyService := services.NewNotificationService()
	billingService := services.NewBillingService(
		enrollmentRepo,
		feeStructureRepo,
		studentRepo,
		masterRepo,
		notifyService,
	)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	studentHandler := handlers.NewStudentHandler(studentService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	enrollmentHandler := handlers.NewEnrollmentHandler(billingService)
	masterHandler := handlers.NewMasterHandler(masterRepo)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Master routes (authenticated)
	masterRoutes := apiV1.Group("/master")
	masterRoutes.Use(middleware.AuthMiddleware(cfg))
	setupMasterRoutes(masterRoutes, masterHandler)

	// Student routes (authenticated)
	studentRoutes := apiV1.Group("/students")
	studentRoutes.Use(middleware.AuthMiddleware(cfg))
	setupStudentRoutes(studentRoutes, studentHandler)

	// Catalog routes (authenticated, writes admin only)
	feeItemRoutes := apiV1.Group("/fee-items")
	feeItemRoutes.Use(middleware.AuthMiddleware(cfg))
	feeStructureRoutes := apiV1.Group("/fee-structures")
	feeStructureRoutes.Use(middleware.AuthMiddleware(cfg))
	setupCatalogRoutes(feeItemRoutes, feeStructureRoutes, catalogHandler)

	// Enrollment routes (authenticated, billing writes bursar/admin)
	enrollmentRoutes := apiV1.Group("/enrollments")
	enrollmentRoutes.Use(middleware.AuthMiddleware(cfg))
	setupEnrollmentRoutes(enrollmentRoutes, enrollmentHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Post("/register", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.Register)
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupMasterRoutes configures master data routes
func setupMasterRoutes(router fiber.Router, handler *handlers.MasterHandler) {
	router.Get("/classes", handler.ListClasses)
	router.Get("/classes/:id", handler.GetClass)
	router.Get("/academic-years", handler.ListAcademicYears)
	router.Get("/academic-years/:id", handler.GetAcademicYear)
}

// setupStudentRoutes configures student registry routes
func setupStudentRoutes(router fiber.Router, handler *handlers.StudentHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Post("/", middleware.BursarOrAdmin(), handler.Register)
}

// setupCatalogRoutes configures fee catalog and fee structure routes
func setupCatalogRoutes(feeItems fiber.Router, feeStructures fiber.Router, handler *handlers.CatalogHandler) {
	// Fee catalog
	feeItems.Get("/", handler.ListFeeItems)
	feeItems.Get("/:id", handler.GetFeeItem)
	feeItems.Post("/", middleware.AdminOnly(), handler.CreateFeeItem)
	feeItems.Put("/:id", middleware.AdminOnly(), handler.UpdateFeeItem)
	feeItems.Delete("/:id", middleware.AdminOnly(), handler.DeactivateFeeItem)

	// Fee structures
	feeStructures.Get("/", handler.ListFeeStructures)
	feeStructures.Get("/:id", handler.GetFeeStructure)
	feeStructures.Post("/", middleware.AdminOnly(), handler.CreateFeeStructure)
	feeStructures.Delete("/:id", middleware.AdminOnly(), handler.DeactivateFeeStructure)
	feeStructures.Post("/:id/items", middleware.AdminOnly(), handler.AddStructureItem)
	feeStructures.Put("/:id/items/:fee_item_id", middleware.AdminOnly(), handler.RepriceStructureItem)
	feeStructures.Delete("/:id/items/:fee_item_id", middleware.AdminOnly(), handler.RemoveStructureItem)
}

// setupEnrollmentRoutes configures enrollment billing routes
func setupEnrollmentRoutes(router fiber.Router, handler *handlers.EnrollmentHandler) {
	// Reads (any authenticated staff)
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Get("/:id/balance", handler.GetBalance)

	// Enrollment lifecycle (Bursar/Admin)
	writes := router.Group("")
	writes.Use(middleware.BursarOrAdmin())

	writes.Post("/", handler.Enroll)
	writes.Put("/:id/transfer", handler.Transfer)
	writes.Post("/:id/promote", handler.Promote)
	writes.Delete("/:id", handler.Deactivate)

	// Scholarships
	writes.Post("/:id/scholarships", handler.GrantScholarship)
	writes.Delete("/:id/scholarships/:scholarship_id", handler.RevokeScholarship)

	// Optional fees
	writes.Post("/:id/optional-fees/:fee_item_id", handler.SelectOptionalFee)
	writes.Delete("/:id/optional-fees/:fee_item_id", handler.RemoveOptionalFee)

	// Payments
	writes.Post("/:id/payments", handler.RecordPayment)
	writes.Put("/:id/payments/:payment_id", handler.UpdatePayment)
}
