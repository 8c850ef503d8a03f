// Package main provides the entrypoint for the MealMeter API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mealmeter/mealmeter/internal/api"
	"github.com/mealmeter/mealmeter/internal/api/middleware"
	"github.com/mealmeter/mealmeter/internal/auth"
	"github.com/mealmeter/mealmeter/internal/database"
	"github.com/mealmeter/mealmeter/internal/foodlog"
	"github.com/mealmeter/mealmeter/internal/foodsearch"
	"github.com/mealmeter/mealmeter/internal/foodsearch/apininjas"
	"github.com/mealmeter/mealmeter/internal/nutrition"
	"github.com/mealmeter/mealmeter/internal/profile"
	"github.com/mealmeter/mealmeter/internal/provider/resilience"
	"github.com/mealmeter/mealmeter/internal/telemetry"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	const serviceName = "mealmeter-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().Msg("starting MealMeter API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryCfg := telemetry.ConfigFromEnv(serviceName, Version)

	tp, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryCfg.Enabled {
		log.Info().
			Str("otlp_endpoint", telemetryCfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database and apply schema
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database schema")
	}
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
	})

	// Wire repositories and services. The nutrition service recomputes
	// insights whenever the profile service completes or updates a
	// profile, and supplies the daily calorie target to the food log.
	profileRepo := profile.NewPostgresRepository(pool)
	nutritionService := nutrition.NewService(nutrition.NewPostgresRepository(pool), profileRepo)
	profileService := profile.NewService(profileRepo, nutritionService)
	foodLogService := foodlog.NewService(foodlog.NewPostgresRepository(pool), nutritionService)
	log.Info().Msg("profile, nutrition, and food log services initialized")

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		UserRepo:    auth.NewPostgresUserRepository(pool),
		RefreshRepo: auth.NewPostgresRefreshTokenRepository(pool),
		Mailer:      auth.NewLogMailer(log, baseURL),
		Profiles:    profileService,
	})
	log.Info().Msg("auth service initialized")

	// Food search against API Ninjas, behind a circuit breaker
	registry := resilience.NewRegistry()
	searchClient := resilience.NewClient(resilience.DefaultClientConfig(apininjas.ProviderName))
	registry.Register(apininjas.ProviderName, searchClient)

	apiNinjasKey := os.Getenv("API_NINJAS_KEY")
	if apiNinjasKey == "" {
		log.Warn().Msg("API_NINJAS_KEY not set - food search will fail")
	}
	searchProvider := apininjas.NewClient(apininjas.ClientConfig{
		APIKey:     apiNinjasKey,
		HTTPClient: searchClient,
		Logger:     log,
	})
	searchService := foodsearch.NewService(searchProvider, registry)
	log.Info().Msg("food search service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:           Version,
		Logger:            log,
		Metrics:           metrics,
		Pool:              pool,
		Registry:          registry,
		AuthService:       authService,
		ProfileService:    profileService,
		NutritionService:  nutritionService,
		FoodLogService:    foodLogService,
		FoodSearchService: searchService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
