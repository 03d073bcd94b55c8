package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kidchores/kidchores-be/internal/api"
	"github.com/kidchores/kidchores-be/internal/auth"
	"github.com/kidchores/kidchores-be/internal/config"
	"github.com/kidchores/kidchores-be/internal/database"
	"github.com/kidchores/kidchores-be/internal/logger"
	"github.com/kidchores/kidchores-be/internal/monitoring"
	"github.com/kidchores/kidchores-be/internal/services"
	"github.com/kidchores/kidchores-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Ensure the directory holding the database file exists
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directory")
	}

	// Set up the database: build it from scratch when missing, verify it
	// against the declared schema otherwise. This blocks until done; no
	// request is served before the schema state is known.
	adminHash, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash bootstrap admin password")
	}
	setup, err := database.Setup(
		cfg.DatabasePath,
		cfg.BootstrapSQL,
		database.DefaultDeclaration(),
		database.DefaultSeed(cfg.AdminUsername, adminHash),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer setup.DB.Close()

	switch {
	case setup.Rebuilt:
		log.Info().Str("path", cfg.DatabasePath).Msg("Database rebuilt and seeded")
	case setup.Verification.Valid():
		log.Info().Msg("Database matches the declared schema")
	default:
		// Keep the process alive for operators; the router refuses data
		// routes until the schema is repaired.
		for _, d := range setup.Verification.Discrepancies {
			log.Error().Str("kind", string(d.Kind)).Str("table", d.Table).Str("detail", d.Detail).Msg("Schema discrepancy")
		}
		log.Error().Msg("Database does not match schema; data routes disabled. Consider rebuilding.")
	}

	// Signing material: config vars on a PaaS, key files otherwise.
	var keySource auth.KeySource
	if cfg.KeysFromEnv() {
		keySource = auth.EnvKeySource{PrivateKeyVar: cfg.PrivateKeyEnv, PublicKeyVar: cfg.PublicKeyEnv}
	} else {
		keySource = auth.FileKeySource{PrivateKeyPath: cfg.PrivateKeyFile, PublicKeyPath: cfg.PublicKeyFile}
	}
	tokens, err := auth.NewTokenService(keySource, cfg.TokenIssuer, cfg.TokenAudience, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load token signing keys")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(setup.DB, cfg.BcryptCost)
	taskService := services.NewTaskService(setup.DB)

	// Set up and run the nightly completion summary
	summary, err := monitoring.NewSummary(taskService, cfg.SummarySpec)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.SummarySpec).Msg("Invalid summary cron expression")
	}
	go summary.Run()

	// Set up router
	router := api.NewRouter(cfg.AllowedOrigins, tokens, userService, taskService, hub, setup.Verification)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	summary.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
