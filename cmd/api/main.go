package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-profile-builder/config"
	_ "go-profile-builder/docs" // Important for Swagger
	v1 "go-profile-builder/internal/delivery/http/v1"
	"go-profile-builder/internal/domain"
	"go-profile-builder/internal/repository/memory"
	"go-profile-builder/internal/repository/postgres"
	"go-profile-builder/internal/repository/redisstore"
	"go-profile-builder/internal/repository/upstream"
	"go-profile-builder/internal/usecase"
	"go-profile-builder/pkg/database"
	"go-profile-builder/pkg/logger"
	"go-profile-builder/pkg/redis"
	"go-profile-builder/pkg/validation"
)

// @title           Profile Builder API
// @version         1.0
// @description     Backend for the multi-step career profile wizard using Clean Architecture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting profile builder backend", "port", cfg.Port)

	// 3. Setup Redis (optional; stores fall back to in-memory)
	var wizardStore domain.WizardStateStore
	var sessionStore domain.SessionStore
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory stores", "error", err)
		}
	}
	if client := redis.Client(); client != nil {
		wizardStore = redisstore.NewWizardStore(client)
		sessionStore = redisstore.NewSessionStore(client)
		defer redis.Close()
	} else {
		wizardStore = memory.NewWizardStore()
		sessionStore = memory.NewSessionStore()
	}

	// 4. Setup Address Pool (Postgres when configured, static pool otherwise)
	var addressPool domain.AddressPoolRepository
	if cfg.DBUrl != "" {
		dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		addressPool = postgres.NewAddressPoolRepository(dbPool)
	} else {
		addressPool = memory.NewAddressPool()
	}

	// 5. Setup Upstream Profile Gateway
	gateway := upstream.NewClient(
		upstream.WithBaseURL(cfg.UpstreamAPIURL),
		upstream.WithToken(cfg.UpstreamAPIToken),
		upstream.WithTimeout(cfg.UpstreamTimeout),
	)

	// 6. Setup UseCases
	validate := validation.New()
	wizardUC := usecase.NewWizardUsecase(wizardStore, gateway, validate, domain.SavePolicy(cfg.SavePolicy))
	addressUC := usecase.NewAddressUsecase(addressPool, gateway, wizardStore, usecase.AddressConfig{
		MatchMode:     domain.MatchMode(cfg.AddressMatchMode),
		MinQueryLen:   cfg.AddressMinQueryLen,
		SearchTimeout: cfg.AddressSearchTimeout,
		DefaultLimit:  cfg.AddressSearchLimit,
	})
	sessionUC := usecase.NewSessionUsecase(sessionStore, cfg.SessionJWTSecret, cfg.SessionTTL)
	resumeUC := usecase.NewResumeUsecase(gateway, wizardUC, cfg.ResumeUploadMaxSizeBytes, cfg.ResumeImageMaxDimensionPx)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		SessionUC: sessionUC,
		WizardUC:  wizardUC,
		AddressUC: addressUC,
		ResumeUC:  resumeUC,
		Config:    cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
