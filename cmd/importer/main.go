package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/importer"
	"storefront/internal/logging"
)

func main() {
	var (
		filePath string
		remote   bool
		outPath  string
	)
	flag.StringVar(&filePath, "file", "", "Path to a product CSV export")
	flag.BoolVar(&remote, "remote", false, "Snapshot the remote catalog instead of reading a CSV file")
	flag.StringVar(&outPath, "out", "", "Where to write the fallback catalog JSON (default stdout)")
	flag.Parse()

	if (filePath == "") == !remote {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New("storefront-importer", cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	builder := importer.NewDatasetBuilder()
	start := time.Now()

	var ds catalog.Dataset
	if remote {
		clientCfg := catalog.DefaultClientConfig()
		clientCfg.BaseURL = cfg.CatalogBaseURL
		ds, err = importer.ImportRemote(ctx, catalog.NewClient(clientCfg, nil, logger), builder)
		if err != nil {
			logger.Fatal("import remote catalog", zap.String("baseURL", cfg.CatalogBaseURL), zap.Error(err))
		}
	} else {
		f, err := os.Open(filePath)
		if err != nil {
			logger.Fatal("open file", zap.String("file", filePath), zap.Error(err))
		}
		defer f.Close()

		if _, err := importer.NewCSVImporter(f, builder).Run(ctx); err != nil {
			logger.Fatal("import failed", zap.String("file", filePath), zap.Error(err))
		}
		ds = builder.Dataset()
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			logger.Fatal("create output", zap.String("out", outPath), zap.Error(err))
		}
		defer f.Close()
		out = f
	}
	if err := importer.WriteDataset(out, ds); err != nil {
		logger.Fatal("write dataset", zap.Error(err))
	}

	logger.Info("import complete",
		zap.Int("products", len(ds.Products)),
		zap.Int("categories", len(ds.Categories)),
		zap.Duration("took", time.Since(start)),
	)
}
