package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xanter/salesboard/db"
	"github.com/xanter/salesboard/internal/dataset"
	"github.com/xanter/salesboard/internal/handler"
	"github.com/xanter/salesboard/internal/report"
	"github.com/xanter/salesboard/internal/storage/postgres"
)

func main() {
	var (
		databaseURL  string
		datasetFile  string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&datasetFile, "dataset", "", "path to a dataset JSON file (defaults to the embedded demo dataset)")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or SALESBOARD_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or SALESBOARD_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("SALESBOARD_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or SALESBOARD_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("SALESBOARD_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, datasetFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, datasetFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	data, err := loadDataset(datasetFile)
	if err != nil {
		return errors.Wrap(err, "load dataset")
	}

	if err := seedDataset(ctx, pool, data); err != nil {
		return errors.Wrap(err, "seed dataset")
	}

	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

// loadDataset reads the dataset from path, or falls back to the embedded demo
// dataset when path is empty.
func loadDataset(path string) (*report.Dataset, error) {
	if path == "" {
		slog.Info("using embedded demo dataset")
		return dataset.DecodeBytes(db.SeedDataset)
	}
	slog.Info("reading dataset file", slog.String("path", path))
	return dataset.Load(path)
}

func seedDataset(ctx context.Context, pool *pgxpool.Pool, data *report.Dataset) error {
	sellerRepo := postgres.NewSellerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	recordRepo := postgres.NewRecordRepository(pool)

	slog.Info("upserting sellers", slog.Int("count", len(data.Sellers)))
	for _, s := range data.Sellers {
		if err := sellerRepo.Upsert(ctx, s); err != nil {
			return errors.Wrapf(err, "upsert seller %s", s.ID)
		}
	}

	slog.Info("upserting products", slog.Int("count", len(data.Products)))
	for _, p := range data.Products {
		if err := productRepo.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.SKU)
		}
	}

	slog.Info("inserting purchase records", slog.Int("count", len(data.PurchaseRecords)))
	if err := recordRepo.CreateBatch(ctx, data.PurchaseRecords); err != nil {
		return errors.Wrap(err, "insert purchase records")
	}

	return nil
}

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding default API key")

	keyHash := handler.HashKey([]byte(pepper), apiKey)

	apikeys := postgres.NewAPIKeyRepository(pool)
	if err := apikeys.Upsert(ctx, "default", keyHash, "Default test key", true); err != nil {
		return errors.Wrap(err, "upsert default API key")
	}

	slog.Info("upserted API key", slog.String("id", "default"), slog.String("name", "Default test key"))

	return nil
}
