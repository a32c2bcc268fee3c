package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"freshmart/internal/app/config"
	"freshmart/internal/app/consumer"
	"freshmart/internal/app/domains/entity/etorder"
	"freshmart/internal/app/domains/modules/mdcatalog"
	"freshmart/internal/app/domains/modules/mdnotify"
	"freshmart/internal/app/domains/modules/mdorder"
	"freshmart/internal/app/domains/repo/rporder"
	"freshmart/internal/app/domains/repo/rpproduct"
	"freshmart/internal/app/domains/services/svnotify"
	"freshmart/internal/app/domains/services/svorder"
	"freshmart/internal/app/domains/services/svproduct"
	"freshmart/internal/app/infra/mq/lmstfy"
	"freshmart/internal/app/infra/persistence/mysql"
	"freshmart/internal/app/infra/persistence/redis"
	"freshmart/internal/app/pkg/logger"
	"freshmart/internal/app/pkg/metrics"
	"freshmart/internal/app/server/handlers/order"
	"freshmart/internal/app/server/handlers/product"
	"freshmart/internal/app/server/routers"
)

// App wired application
type App struct {
	Engine *gin.Engine
	// Consumers is nil unless the notifier runs embedded
	Consumers *consumer.Pool
}

// InitializeApp connects the infrastructure and wires repositories, modules, services and
// handlers. cleanup closes every connection opened here.
func InitializeApp(cfg *config.Config, log logger.Logger) (*App, func(), error) {
	db, err := mysql.Open(cfg.MySQL, log)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if err := mysql.Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	log.Info("Database connected")

	redisClient, err := redis.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to init redis: %w", err)
	}
	log.Info("Redis connected")

	lmstfyClient := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	log.Info("Lmstfy client initialized", "queue", cfg.Lmstfy.Queue)

	cleanup := func() {
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Repository
	orderRepo := rporder.NewOrderRepository(db)
	productRepo := rpproduct.NewProductRepository(db)

	// Module
	orderModule := mdorder.NewOrderModule(orderRepo)
	catalogModule := mdcatalog.NewCatalogModule(productRepo, cfg.Catalog.CacheSize, cfg.Catalog.CacheTTL)
	notifyModule := mdnotify.NewNotifyModule(lmstfyClient, redisClient, cfg.Lmstfy.Queue)

	// Service
	var transitions etorder.TransitionPolicy = etorder.PermissivePolicy{}
	if cfg.Order.StrictTransitions {
		transitions = etorder.StrictPolicy{}
	}
	orderService := svorder.NewOrderService(orderModule, catalogModule, notifyModule, log,
		svorder.WithDeliveryPolicy(svorder.DeliveryPolicy{
			ImmediateSurcharge: cfg.Order.ImmediateSurcharge,
			AllowClientCharge:  cfg.Order.AllowClientDeliveryCharge,
		}),
		svorder.WithTransitionPolicy(transitions),
		svorder.WithMetrics(metrics.NewOrderMetrics(registry)),
	)
	productService := svproduct.NewProductService(catalogModule, log)

	// Handler
	engine := routers.SetupRoutes(
		order.NewOrderHandler(orderService),
		product.NewProductHandler(productService),
		log,
		routers.Options{
			ServiceName:    cfg.App.Name,
			RequestTimeout: cfg.Server.RequestTimeout,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Gatherer:       registry,
			ServerMetrics:  metrics.NewServerMetrics(registry, "api"),
			HealthChecks: map[string]routers.HealthChecker{
				"mysql": func(ctx context.Context) error { return mysql.Ping(ctx, db) },
				"redis": redisClient.Ping,
			},
		},
	)

	app := &App{Engine: engine}
	if cfg.Notifier.Embedded {
		dispatch := svnotify.NewDispatchService(orderModule, redisClient, log)
		app.Consumers = consumer.NewPool(cfg.Notifier.Workers, lmstfyClient, dispatch, consumer.Config{
			QueueName: cfg.Lmstfy.Queue,
			Timeout:   cfg.Lmstfy.ConsumeTimeout,
			TTR:       cfg.Lmstfy.TTR,
		}, log)
	}

	return app, cleanup, nil
}
