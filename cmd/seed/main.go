package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"freshmart/internal/app/config"
	"freshmart/internal/app/domains/entity/etproduct"
	"freshmart/internal/app/domains/modules/mdcatalog"
	"freshmart/internal/app/domains/repo/rpproduct"
	"freshmart/internal/app/domains/services/svproduct"
	"freshmart/internal/app/infra/persistence/mysql"
	"freshmart/internal/app/pkg/logger"
)

var configPath = flag.String("config", "config/config.yaml", "config file path")

// upserter catalog write used by seed (svproduct.ProductService)
type upserter interface {
	UpsertByName(ctx context.Context, in svproduct.CreateProductInput) (*etproduct.Product, bool, error)
}

// seed upserts every product and stops at the first failure
func seed(ctx context.Context, svc upserter, products []svproduct.CreateProductInput, log logger.Logger) (created, updated int, err error) {
	for _, in := range products {
		p, isNew, err := svc.UpsertByName(ctx, in)
		if err != nil {
			return created, updated, err
		}
		if isNew {
			created++
			log.Infof(ctx, "added %s (id=%d)", p.Name, p.ID)
		} else {
			updated++
			log.Infof(ctx, "updated %s (id=%d)", p.Name, p.ID)
		}
	}
	return created, updated, nil
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.MySQL.DSN == "" {
		log.Fatalf("mysql dsn is required")
	}

	appLogger, err := logger.NewZapLogger(cfg.App.LogLevel, cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := mysql.Open(cfg.MySQL, appLogger)
	if err != nil {
		appLogger.Error("Failed to init database", "error", err)
		os.Exit(1)
	}
	if err := mysql.Migrate(db); err != nil {
		appLogger.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	catalog := mdcatalog.NewCatalogModule(rpproduct.NewProductRepository(db), cfg.Catalog.CacheSize, cfg.Catalog.CacheTTL)
	service := svproduct.NewProductService(catalog, appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	created, updated, err := seed(ctx, service, starterCatalog, appLogger)
	if err != nil {
		appLogger.Error("Seeding failed", "error", err, "created", created, "updated", updated)
		os.Exit(1)
	}
	appLogger.Info("Seeding completed", "created", created, "updated", updated)
}
