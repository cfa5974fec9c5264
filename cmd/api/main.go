package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	"storefront/internal/repository/state"
	"storefront/internal/service/checkout"
	"storefront/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New("storefront-api", cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	backend, err := state.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open state backend", zap.String("backend", cfg.StateBackend), zap.Error(err))
	}
	defer backend.Close()

	sessions, err := store.NewManager(backend, cfg.SessionCacheSize, logger)
	if err != nil {
		logger.Fatal("init session manager", zap.Error(err))
	}
	defer sessions.Close()

	fallback := catalog.DefaultDataset()
	if cfg.CatalogFallbackFile != "" {
		fallback, err = catalog.LoadDatasetFile(cfg.CatalogFallbackFile)
		if err != nil {
			logger.Fatal("load fallback catalog", zap.String("file", cfg.CatalogFallbackFile), zap.Error(err))
		}
	}

	clientCfg := catalog.DefaultClientConfig()
	clientCfg.BaseURL = cfg.CatalogBaseURL
	provider := catalog.NewProvider(
		catalog.NewClient(clientCfg, nil, logger),
		fallback,
		logger,
		catalog.WithCacheTTL(cfg.CatalogCacheTTL()),
	)

	warmup := provider.Start(ctx)
	go func() {
		snap := warmup.Wait()
		logger.Info("catalog loaded",
			zap.String("source", string(snap.Source())),
			zap.Int("products", len(snap.Products)),
			zap.Int("categories", len(snap.Categories)),
		)
	}()

	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions: sessions,
		Catalog:  provider,
		Checkout: checkout.New(logger),
		Backend:  backend,
	}, httpserver.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}
	warmup.Cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
