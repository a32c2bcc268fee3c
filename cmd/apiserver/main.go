package main

// @title           FreshMart API
// @version         1.0
// @description     Grocery ordering backend: catalog, checkout, order tracking and status updates.

// @host      localhost:5000
// @BasePath  /api

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"freshmart/internal/app/config"
	"freshmart/internal/app/pkg/logger"
)

var configPath = flag.String("config", "config/config.yaml", "config file path")

func main() {
	flag.Parse()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. logger
	appLogger, err := logger.NewZapLogger(cfg.App.LogLevel, cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	if cfg.App.Env == "prod" || cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. application (HTTP engine and, when embedded, the event consumers)
	app, cleanup, err := InitializeApp(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("Starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if app.Consumers != nil {
		g.Go(func() error {
			return app.Consumers.Run(gctx)
		})
	}

	// graceful shutdown once a signal arrives or a component fails
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Application stopped with error", "error", err)
		cleanup()
		_ = appLogger.Sync()
		os.Exit(1)
	}
	appLogger.Info("Application stopped")
}
