package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/repository/state"
	"storefront/internal/seed"
)

func main() {
	scope := flag.String("scope", seed.DefaultScope, "Session id to write the demo state under")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New("storefront-seed", cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.StateBackend == config.BackendMemory {
		logger.Fatal("seeding needs a persistent STATE_BACKEND (redis or postgres)")
	}

	ctx := context.Background()
	backend, err := state.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open state backend", zap.Error(err))
	}
	defer backend.Close()

	products := catalog.DefaultDataset().Products
	if cfg.CatalogFallbackFile != "" {
		ds, err := catalog.LoadDatasetFile(cfg.CatalogFallbackFile)
		if err != nil {
			logger.Fatal("load fallback catalog", zap.Error(err))
		}
		products = ds.Products
	}

	s, err := seed.Apply(ctx, backend, *scope, products)
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
	logger.Info("seed applied",
		zap.String("scope", *scope),
		zap.Int("cart_lines", len(s.Cart)),
		zap.Int("wishlist", len(s.Wishlist)),
	)
}
