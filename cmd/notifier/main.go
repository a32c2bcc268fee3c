package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"freshmart/internal/app/config"
	"freshmart/internal/app/consumer"
	"freshmart/internal/app/domains/modules/mdorder"
	"freshmart/internal/app/domains/repo/rporder"
	"freshmart/internal/app/domains/services/svnotify"
	"freshmart/internal/app/infra/mq/lmstfy"
	"freshmart/internal/app/infra/persistence/mysql"
	"freshmart/internal/app/infra/persistence/redis"
	"freshmart/internal/app/pkg/logger"
)

var configPath = flag.String("config", "config/config.yaml", "config file path")

// notifier consumes order events from lmstfy, notifies the customer and republishes
// a summary on the redis order feed.
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
	appLogger.Info("Starting order notifier...", "workers", cfg.Notifier.Workers)

	// 3. infrastructure
	db, err := mysql.Open(cfg.MySQL, appLogger)
	if err != nil {
		appLogger.Error("Failed to init database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Failed to get sql.DB", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()
	appLogger.Info("Database connected")

	redisClient, err := redis.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Error("Failed to init redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	appLogger.Info("Redis connected")

	lmstfyClient := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)

	// 4. repository, module, service
	orderModule := mdorder.NewOrderModule(rporder.NewOrderRepository(db))
	dispatchService := svnotify.NewDispatchService(orderModule, redisClient, appLogger)

	// 5. consumers
	pool := consumer.NewPool(cfg.Notifier.Workers, lmstfyClient, dispatchService, consumer.Config{
		QueueName: cfg.Lmstfy.Queue,
		Timeout:   cfg.Lmstfy.ConsumeTimeout,
		TTR:       cfg.Lmstfy.TTR,
	}, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pool.Run(ctx); err != nil {
		appLogger.Error("Notifier stopped with error", "error", err)
		stop()
		_ = redisClient.Close()
		_ = sqlDB.Close()
		_ = appLogger.Sync()
		os.Exit(1)
	}
	appLogger.Info("Notifier stopped gracefully")
}
