package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/acme-invoices/config"
	"github.com/yourusername/acme-invoices/handlers"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	created, err := config.SeedUser(db, cfg)
	if err != nil {
		logger.Error("failed to seed user", slog.Any("error", err))
		os.Exit(1)
	}
	if created {
		logger.Info("seed user created", slog.String("email", cfg.SeedUserEmail))
	}

	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := handlers.NewRouter(cfg, db, logger)
	if err != nil {
		logger.Error("failed to build router", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting acme invoices dashboard", slog.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
