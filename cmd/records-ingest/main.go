// Command records-ingest bulk-loads purchase records from gzipped JSONL
// receipt exports into PostgreSQL. Each line is one receipt object. Files are
// parsed concurrently; a bloom filter skips receipts already seen during the
// run, and the insert's conflict clause catches anything the filter misses.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xanter/salesboard/internal/dataset"
	"github.com/xanter/salesboard/internal/domain/purchase"
	"github.com/xanter/salesboard/internal/storage/postgres"
)

const (
	bloomCapacity = 50_000_000
	bloomFPR      = 0.001
	batchSize     = 500
	progressEvery = 100_000
)

func main() {
	var (
		dataDir     string
		pattern     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing receipt export files")
	flag.StringVar(&pattern, "pattern", "receipts*.jsonl.gz", "glob pattern for receipt files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, pattern, databaseURL); err != nil {
		slog.Error("records ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("records ingest completed successfully")
}

func run(ctx context.Context, dataDir, pattern, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, pattern))
	if err != nil {
		return errors.Wrap(err, "glob receipt files")
	}
	if len(files) == 0 {
		return errors.Errorf("no files matching %s in %s", pattern, dataDir)
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	records := make(chan purchase.Record, batchSize*2)

	g, ctx := errgroup.WithContext(ctx)

	// One parser goroutine per file.
	parsers, parserCtx := errgroup.WithContext(ctx)
	for _, f := range files {
		parsers.Go(parseFile(parserCtx, f, records))
	}
	g.Go(func() error {
		defer close(records)
		return parsers.Wait()
	})

	// Single writer: dedupe by receipt ID and insert in batches.
	repo := postgres.NewRecordRepository(pool)
	g.Go(writeRecords(ctx, repo, records))

	return g.Wait()
}

// parseFile streams one gzipped JSONL file and sends decoded records to out.
func parseFile(ctx context.Context, path string, out chan<- purchase.Record) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		var lines uint64
		scanner := bufio.NewScanner(gz)
		scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			rec, err := dataset.DecodeRecord(line)
			if err != nil {
				return errors.Wrapf(err, "parse line %d of %s", lines+1, path)
			}

			select {
			case out <- rec:
			case <-ctx.Done():
				return ctx.Err()
			}

			lines++
			if lines%progressEvery == 0 {
				slog.Info("parse progress", slog.String("file", path), slog.Uint64("records", lines))
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("parse complete", slog.String("file", path), slog.Uint64("records", lines))
		return nil
	}
}

// writeRecords drains the channel, skipping receipts whose ID the bloom
// filter has already seen, and inserts the rest in batches. A filter false
// positive drops a record at the configured rate; the receipt table's
// conflict clause keeps genuine duplicates out regardless.
func writeRecords(ctx context.Context, repo *postgres.RecordRepository, in <-chan purchase.Record) func() error {
	return func() error {
		seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		batch := make([]purchase.Record, 0, batchSize)

		var written, skipped uint64
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := repo.CreateBatch(ctx, batch); err != nil {
				return errors.Wrap(err, "insert batch")
			}
			written += uint64(len(batch))
			batch = batch[:0]
			return nil
		}

		for rec := range in {
			if seen.TestString(rec.ReceiptID) {
				skipped++
				continue
			}
			seen.AddString(rec.ReceiptID)

			batch = append(batch, rec)
			if len(batch) == batchSize {
				if err := flush(); err != nil {
					return err
				}
				if written%progressEvery == 0 {
					slog.Info("write progress", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
				}
			}
		}
		if err := flush(); err != nil {
			return err
		}

		slog.Info("write complete", slog.Uint64("written", written), slog.Uint64("duplicates_skipped", skipped))
		return nil
	}
}
