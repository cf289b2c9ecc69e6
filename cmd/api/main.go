package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/xpanvictor/portfolio/internal/app"
	"github.com/xpanvictor/portfolio/internal/config"
	"github.com/xpanvictor/portfolio/internal/database"
	"github.com/xpanvictor/portfolio/pkg/Logger"
)

// @title Portfolio API
// @version 1.0
// @description Portfolio backend: streaming chat assistant, blog, analytics and lead capture.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger := Logger.New(cfg.Debug)
	defer logger.Sync()
	logger.Infof("Logger initialized (env=%s)", cfg.Env)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.MigrateDB(db); err != nil {
		logger.Fatalf("%v", err)
	}

	rc, err := database.NewRedis(cfg.Redis)
	if err != nil {
		// caches fall back to memory
		logger.Warnf("redis unavailable: %v", err)
		rc = nil
	}
	if rc != nil {
		defer rc.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, logger, db, rc)
	if err != nil {
		logger.Fatalf("Failed to build application: %v", err)
	}
	if err := application.SeedAdmin(ctx); err != nil {
		logger.Errorf("Failed to seed admin: %v", err)
	}
	application.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           application.HTTPHandler(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server exiting: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	// 5 secs then cancel
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown err: %v", err)
	}
	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Failed to drain application: %v", err)
	}
	logger.Info("Shutdown system")
}
