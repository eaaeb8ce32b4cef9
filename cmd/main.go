package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"projecthub-service/internal/handler"
	"projecthub-service/internal/identity"
	"projecthub-service/internal/middleware"
	"projecthub-service/internal/model"
	"projecthub-service/internal/resolver"
	"projecthub-service/internal/seed"
	"projecthub-service/pkg/config"
	"projecthub-service/pkg/database"
	"projecthub-service/pkg/jwtutil"
	"projecthub-service/pkg/logger"
	"projecthub-service/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	conf, err := config.Load("projecthub")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.Info("Starting projecthub-service", conf.LogConfig()...)

	// Initialize database connection; tenancy callbacks are installed here
	db, err := database.InitDB(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Run migrations for all models
	if err := database.MigrateModels(db,
		&model.Tenant{}, &model.Role{}, &model.User{}, &model.Project{}, &model.Task{}); err != nil {
		log.Fatal("Failed to migrate database models", zap.Error(err))
	}

	// Initialize JWT utility
	jwtutil.Initialize(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	// Identity provider: password policy and hashing
	provider := identity.NewLocalProvider(identity.DefaultPolicy())

	// Seed initial data
	if conf.Seed.Enabled {
		if err := seed.Run(db, provider, &conf.Seed); err != nil {
			log.Fatal("Failed to seed database", zap.Error(err))
		}
		log.Info("Database seeding complete")
	}

	// Build the GraphQL schema
	schema, err := resolver.New(db, provider).Schema()
	if err != nil {
		log.Fatal("Failed to build GraphQL schema", zap.Error(err))
	}
	gql := handler.NewGraphQLHandler(schema)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	// The single GraphQL endpoint - requires authentication
	e.POST("/graphql", gql.Execute, middleware.AuthMiddleware)

	// Start server
	log.Info("Starting server", zap.String("port", conf.Server.Port))
	if err := e.Start(":" + conf.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
