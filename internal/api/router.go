// Package api provides the HTTP API for MealMeter.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mealmeter/mealmeter/internal/api/handler"
	"github.com/mealmeter/mealmeter/internal/api/middleware"
	"github.com/mealmeter/mealmeter/internal/auth"
	"github.com/mealmeter/mealmeter/internal/foodlog"
	"github.com/mealmeter/mealmeter/internal/foodsearch"
	"github.com/mealmeter/mealmeter/internal/nutrition"
	"github.com/mealmeter/mealmeter/internal/profile"
	"github.com/mealmeter/mealmeter/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version           string
	Logger            zerolog.Logger
	Metrics           *middleware.Metrics
	Pool              *pgxpool.Pool
	Registry          *resilience.Registry
	AuthService       *auth.Service
	ProfileService    *profile.Service
	NutritionService  *nutrition.Service
	FoodLogService    *foodlog.Service
	FoodSearchService *foodsearch.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID) // Generate/propagate request ID first
	r.Use(middleware.Tracing()) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	registry := cfg.Registry
	if registry == nil {
		registry = resilience.NewRegistry()
	}

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.Pool, registry)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)
	insightsHandler := handler.NewInsightsHandler(cfg.NutritionService)
	foodLogHandler := handler.NewFoodLogHandler(cfg.FoodLogService)
	foodSearchHandler := handler.NewFoodSearchHandler(cfg.FoodSearchService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)     // 10 req/min
	searchRateLimit := middleware.RateLimitByIP(middleware.SearchRateLimit) // 30 req/min
	userRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/signup", authHandler.Signup)
			r.Get("/verify-email", authHandler.VerifyEmail)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			// logout-all requires authentication
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Food search - external provider lookups, strict rate limiting
		r.Route("/food", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(searchRateLimit)
			r.Get("/search", foodSearchHandler.Search)
		})

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(userRateLimit) // 100 req/min per user

			// Profile
			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.GetProfile)
				r.Post("/", profileHandler.CreateProfile)
				r.Put("/", profileHandler.UpdateProfile)
			})

			// Nutrition insights
			r.Get("/insights/nutrition", insightsHandler.GetNutrition)

			// Food log
			r.Route("/food-log", func(r chi.Router) {
				r.Get("/", foodLogHandler.ListLogs)
				r.Post("/", foodLogHandler.LogFood)
				r.Get("/{date}", foodLogHandler.GetDailyLog)
			})
		})
	})

	return r
}
