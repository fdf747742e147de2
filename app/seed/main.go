package main

import (
	"context"
	"flag"
	"log"
	"time"

	"flagCompare/business/similarity"
	"flagCompare/domain"
	fileRepo "flagCompare/internal/repository/file"
	psqlRepo "flagCompare/internal/repository/postgres"
	sqliteRepo "flagCompare/internal/repository/sqlite"
	"flagCompare/pkg/config"
	"flagCompare/pkg/database"
	"flagCompare/pkg/logger"
)

type datasetWriter interface {
	SaveDataset(ctx context.Context, ds domain.Dataset) error
}

// seed imports the file dataset (DATA_FLAGS_PATH, DATA_FEATURES_PATH,
// DATA_GALLERY_PATH) into the store selected by DATA_SOURCE.
func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "import timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	ds, err := fileRepo.NewDatasetRepository(fileRepo.Config{
		FlagsPath:    cfg.Data.FlagsPath,
		FeaturesPath: cfg.Data.FeaturesPath,
		GalleryPath:  cfg.Data.GalleryPath,
	}).LoadDataset(ctx)
	if err != nil {
		logger.Fatal("Failed to read dataset files", "error", err)
	}

	// Reject a dataset the engine would refuse before touching the store.
	if _, err := similarity.NewRegistry(ds.Features); err != nil {
		logger.Fatal("Invalid feature weights", "error", err)
	}

	var writer datasetWriter
	switch cfg.Data.Source {
	case config.DataSourceSQLite:
		db, err := database.InitSQLite(cfg.Data.SQLitePath)
		if err != nil {
			logger.Fatal("Failed to open sqlite", "error", err)
		}
		defer db.Close()

		repo := sqliteRepo.NewDatasetRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate sqlite", "error", err)
		}
		writer = repo

	case config.DataSourcePostgres:
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}

		repo := psqlRepo.NewDatasetRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
		writer = repo

	default:
		logger.Fatal("DATA_SOURCE must be sqlite or postgres to seed", "source", cfg.Data.Source)
	}

	if err := writer.SaveDataset(ctx, ds); err != nil {
		logger.Fatal("Failed to save dataset", "error", err)
	}

	version, _ := similarity.DatasetVersion(ds)
	logger.Info("Dataset imported",
		"source", cfg.Data.Source,
		"version", version,
		"flags", len(ds.Flags),
		"features", len(ds.Features),
		"gallery", len(ds.Gallery),
	)
}
