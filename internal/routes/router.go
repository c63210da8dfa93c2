package routes

import (
	"net/http"

	"auth-backend/internal/config"
	"auth-backend/internal/delivery/http/handler"
	"auth-backend/internal/domain/identity"
	"auth-backend/internal/infrastructure/database/postgres"
	"auth-backend/internal/logger"
	"auth-backend/internal/middleware"
	"auth-backend/internal/usecase/auth"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	Health() error
}

func SetupRoutes(
	cfg *config.Config,
	health HealthChecker,
	authService *auth.Service,
	providers ...identity.IdentityProvider,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, request size limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware("/health"))
	router.Use(middleware.SecurityHeadersMiddleware(cfg.Server.Environment))
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Security.MaxRequestSizeBytes))

	router.GET("/health", func(c *gin.Context) {
		if err := health.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	authHandler := handler.NewAuthHandler(authService)
	oauthHandler := handler.NewOAuthHandler(authService, cfg, providers...)

	public := router.Group("")
	{
		authHandler.RegisterRoutes(public)
		oauthHandler.RegisterRoutes(public)
	}

	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		authHandler.RegisterProfileRoutes(protected)
	}

	logger.Info("All routes initialized")
	return router
}

var _ HealthChecker = (*postgres.DB)(nil)
