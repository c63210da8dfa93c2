package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auth-backend/internal/config"
	"auth-backend/internal/domain/identity"
	"auth-backend/internal/infrastructure/database/postgres"
	"auth-backend/internal/infrastructure/mail"
	"auth-backend/internal/infrastructure/oauth"
	"auth-backend/internal/logger"
	"auth-backend/internal/routes"
	"auth-backend/internal/usecase/auth"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), time.Minute)
	err = db.Migrate(migrateCtx)
	migrateCancel()
	if err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	mailer, err := mail.NewMailer(cfg)
	if err != nil {
		logger.Fatal("Failed to configure mailer", zap.Error(err))
	}

	authService := auth.NewService(postgres.NewUserRepository(db), mailer, cfg)

	var providers []identity.IdentityProvider
	if cfg.OAuth.Google.Enabled() {
		providers = append(providers, oauth.NewGoogleProvider(cfg.OAuth.Google))
	}
	if cfg.OAuth.GitHub.Enabled() {
		providers = append(providers, oauth.NewGitHubProvider(cfg.OAuth.GitHub))
	}
	for _, p := range providers {
		logger.Info("OAuth provider enabled", zap.String("provider", string(p.Provider())))
	}

	router := routes.SetupRoutes(cfg, db, authService, providers...)

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go authService.StartResetTokenSweeper(sweepCtx, cfg.Security.ResetSweepInterval)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	sweepCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}
