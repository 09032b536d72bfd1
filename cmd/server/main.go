package main

import (
	"context"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/maktab/maktab/internal/auth"
	"github.com/maktab/maktab/internal/handler"
	"github.com/maktab/maktab/internal/middleware"
	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/internal/organization"
	"github.com/maktab/maktab/internal/school"
	"github.com/maktab/maktab/internal/student"
	"github.com/maktab/maktab/internal/user"
	"github.com/maktab/maktab/pkg/config"
	"github.com/maktab/maktab/pkg/database"
	"github.com/maktab/maktab/pkg/jwtutil"
	"github.com/maktab/maktab/pkg/logger"
	"github.com/maktab/maktab/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("maktab")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting school management service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.Organization{},
		&model.School{},
		&model.User{},
		&model.Student{},
	); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed")

	// Initialize JWT utility
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	// Initialize Prometheus metrics
	prometheus.InitMetrics()
	log.Info("Prometheus metrics initialized")

	// Wire repositories and services
	userRepo := user.NewRepository(db)
	userSvc := user.NewService(userRepo)
	authSvc := auth.NewService(auth.NewRepository(db), jwtUtil,
		cfg.Auth.MaxLoginAttempts, cfg.Auth.LockoutWindow)
	orgSvc := organization.NewService(organization.NewRepository(db))
	schoolSvc := school.NewService(school.NewRepository(db))
	studentSvc := student.NewService(student.NewRepository(db))

	// Bootstrap the first platform admin on an empty user table
	seeded, err := user.SeedPlatformAdmin(context.Background(), userRepo,
		cfg.Auth.SeedAdminEmail, cfg.Auth.SeedAdminPass)
	if err != nil {
		log.Fatal("Failed to seed platform admin", zap.Error(err))
	}
	if seeded {
		log.Info("Platform admin seeded", zap.String("email", cfg.Auth.SeedAdminEmail))
	}

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	orgHandler := handler.NewOrganizationHandler(orgSvc)
	schoolHandler := handler.NewSchoolHandler(schoolSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, schoolSvc)

	// Initialize Echo framework
	e := echo.New()
	e.Validator = handler.NewValidator()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.Metrics)

	authGroup := e.Group("/auth")
	authGroup.POST("/login", authHandler.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(jwtUtil))

	// Organization management - platform admins only, no tenant scope needed
	orgs := api.Group("/organizations")
	orgs.Use(middleware.RequireRoles(model.RolePlatformAdmin))
	orgs.POST("", orgHandler.Create)
	orgs.GET("", orgHandler.List)
	orgs.GET("/:id", orgHandler.Get)
	orgs.PATCH("/:id", orgHandler.Update)
	orgs.DELETE("/:id", orgHandler.Delete)

	// Everything below requires a resolvable tenant scope
	scoped := api.Group("", middleware.TenantGuard())

	users := scoped.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.DELETE("/:id", userHandler.Suspend)

	schools := scoped.Group("/schools")
	schools.POST("", schoolHandler.Create,
		middleware.RequireRoles(model.RolePlatformAdmin, model.RoleOrgAdmin))
	schools.GET("", schoolHandler.List)
	schools.GET("/:id", schoolHandler.Get)
	schools.PATCH("/:id", schoolHandler.Update,
		middleware.RequireRoles(model.RolePlatformAdmin, model.RoleOrgAdmin))
	schools.DELETE("/:id", schoolHandler.Delete,
		middleware.RequireRoles(model.RolePlatformAdmin, model.RoleOrgAdmin))

	// Student records: front-office staff may create and update, deletion
	// stays with school leadership, and reads cover all staff roles.
	// Parents and students never reach these handlers.
	studentRead := middleware.RequireRoles(
		model.RolePlatformAdmin, model.RoleOrgAdmin, model.RoleSchoolAdmin,
		model.RolePrincipal, model.RoleVicePrincipal, model.RoleTeacher,
		model.RoleAccountant, model.RoleReceptionist, model.RoleLibrarian,
		model.RoleHR,
	)
	studentWrite := middleware.RequireRoles(
		model.RolePlatformAdmin, model.RoleOrgAdmin, model.RoleSchoolAdmin,
		model.RolePrincipal, model.RoleVicePrincipal, model.RoleReceptionist,
	)
	studentDelete := middleware.RequireRoles(
		model.RolePlatformAdmin, model.RoleOrgAdmin, model.RoleSchoolAdmin,
		model.RolePrincipal,
	)

	students := scoped.Group("/students")
	students.POST("", studentHandler.Create, studentWrite)
	students.GET("", studentHandler.List, studentRead)
	students.GET("/:id", studentHandler.Get, studentRead)
	students.PATCH("/:id", studentHandler.Update, studentWrite)
	students.DELETE("/:id", studentHandler.Delete, studentDelete)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
