package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/emirozbir/alert2jira/internal/api"
	"github.com/emirozbir/alert2jira/internal/config"
	"github.com/emirozbir/alert2jira/internal/database"
	"github.com/emirozbir/alert2jira/internal/dispatcher"
	"github.com/emirozbir/alert2jira/internal/jira"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if err := cfg.Jira.Validate(); err != nil {
		logger.Fatal("Invalid config", zap.Error(err))
	}

	logger.Info("Starting alert2jira server",
		zap.String("version", "0.1.0"),
		zap.String("jira", cfg.Jira.URL),
		zap.String("project", cfg.Jira.ProjectKey),
	)

	// Ticket history is optional
	var (
		db      *database.DB
		history dispatcher.HistoryStore
	)
	if cfg.Database.Path != "" {
		db, err = database.New(cfg.Database.Path)
		if err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer db.Close()
		history = db
		logger.Info("Database initialized", zap.String("path", cfg.Database.Path))
	}

	d := dispatcher.New(jira.NewClient(cfg.Jira, logger), history, logger)

	// Setup HTTP server
	handler := api.NewHandler(d, logger, db)
	router := api.SetupRoutes(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("Server listening", zap.String("address", addr))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
