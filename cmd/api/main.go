package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glamora/backoffice-system/internal/api"
	"github.com/glamora/backoffice-system/internal/core/service"
	mongodb "github.com/glamora/backoffice-system/internal/infrastructure/db/mongo"
	redisdb "github.com/glamora/backoffice-system/internal/infrastructure/db/redis"
	"github.com/glamora/backoffice-system/internal/infrastructure/queue"
	"github.com/glamora/backoffice-system/internal/pkg/config"
	"github.com/glamora/backoffice-system/pkg/logger"
)

// @title        Glamora Back-office API
// @version      1.0
// @description  Credential and role-authorization service for the Glamora administrative back office.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// The unique email index must exist before the first insert.
	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// Audit trail runs off the request path behind the dispatcher.
	auditRepo := mongodb.NewAuditRepository(db)
	auditService := service.NewAuditTrailService(auditRepo, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	hasher := service.NewPasswordHasher(0, log)
	bootstrap := service.NewBootstrapService(userRepo, hasher, dispatcher, cfg.AdminEmail, cfg.AdminPassword, log)
	if err := bootstrap.EnsureDefaultAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	e := api.NewRouter(db, rdb, cfg, dispatcher, auditService, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("back-office API listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
