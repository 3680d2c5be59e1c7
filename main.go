package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/postpilot/backend/internal/client"
	"github.com/postpilot/backend/internal/config"
	"github.com/postpilot/backend/internal/crypto"
	"github.com/postpilot/backend/internal/db"
	"github.com/postpilot/backend/internal/handler"
	"github.com/postpilot/backend/internal/logging"
	"github.com/postpilot/backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(cfg.Log)

	// The credential cipher key and the session signing key are validated
	// here, at startup, not lazily on first use.
	key, err := crypto.DeriveKey(cfg.Auth.CredentialSecret)
	if err != nil {
		return err
	}
	cipher, err := crypto.NewCipher(key)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := db.RunMigrations(ctx, cfg.Postgres.DatabaseURL); err != nil {
		return err
	}

	database, err := db.NewPostgres(ctx, cfg.Postgres.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureProvisioned(ctx); err != nil {
		return err
	}

	authService, err := service.NewAuthService(database, database, cfg.Auth)
	if err != nil {
		return err
	}
	credentialService := service.NewCredentialService(database, cipher)
	publishService := service.NewPublishService(credentialService, client.NewXClient(cfg.X))

	router := gin.Default()
	handler.RegisterRoutes(router, handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, cfg.Auth),
		Credentials: handler.NewCredentialHandler(credentialService),
		Publish:     handler.NewPublishHandler(publishService),
		Drafts:      handler.NewDraftHandler(client.NewAgentClient(cfg.Agent)),
		AuthService: authService,
	}, cfg.AllowedOriginList())

	slog.Info("starting server", "port", cfg.Port)
	return router.Run(":" + cfg.Port)
}
