// Command menu-ingest imports bulk menu catalogs exported by restaurant
// partners. Each export is a gzip-compressed CSV with one menu item per line:
//
//	restaurant_id,name,description,price,category,image_url,available
//
// Exports overlap (partners resend full catalogs), so a bloom filter screens
// out lines already ingested in the same run before they reach the database.
// Files are parsed concurrently; writes happen from a single goroutine.
package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dashideliverycorporation/dashi/internal/storage/postgres"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	batchSize     = 500
	progressEvery = 10_000
)

// menuRow is one parsed catalog line.
type menuRow struct {
	id           string
	restaurantID string
	name         string
	description  string
	price        decimal.Decimal
	category     string
	imageURL     string
	available    bool
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.csv.gz catalog exports")
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

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("menu ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("menu ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.csv.gz"))
	if err != nil {
		return errors.Wrap(err, "glob catalog files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.csv.gz files in %s", dataDir)
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

	slog.Info("parsing catalog exports", slog.Int("files", len(files)))

	rows := make(chan menuRow, batchSize)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		parsers, parseCtx := errgroup.WithContext(ctx)
		for _, f := range files {
			parsers.Go(parseCatalog(parseCtx, f, rows))
		}
		err := parsers.Wait()
		close(rows)
		return err
	})

	var ingested, skipped int
	g.Go(func() error {
		n, dup, err := writeRows(ctx, pool, rows)
		ingested, skipped = n, dup
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("ingest summary", slog.Int("ingested", ingested), slog.Int("duplicates_skipped", skipped))
	return nil
}

// parseCatalog streams one gzipped CSV export into the rows channel.
func parseCatalog(ctx context.Context, path string, rows chan<- menuRow) func() error {
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

		reader := csv.NewReader(bufio.NewReader(gz))
		reader.FieldsPerRecord = 7

		var count int
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}

			row, err := parseRecord(record)
			if err != nil {
				slog.Warn("skipping malformed line",
					slog.String("file", filepath.Base(path)),
					slog.String("error", err.Error()),
				)
				continue
			}

			select {
			case rows <- row:
			case <-ctx.Done():
				return ctx.Err()
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("parse progress", slog.String("file", filepath.Base(path)), slog.Int("lines", count))
			}
		}

		slog.Info("parse complete", slog.String("file", filepath.Base(path)), slog.Int("lines", count))
		return nil
	}
}

func parseRecord(record []string) (menuRow, error) {
	restaurantID := strings.TrimSpace(record[0])
	name := strings.TrimSpace(record[1])
	if restaurantID == "" || name == "" {
		return menuRow{}, errors.New("restaurant_id and name required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(record[3]))
	if err != nil {
		return menuRow{}, errors.Wrap(err, "parse price")
	}
	if price.IsNegative() {
		return menuRow{}, errors.New("negative price")
	}

	available, err := strconv.ParseBool(strings.TrimSpace(record[6]))
	if err != nil {
		return menuRow{}, errors.Wrap(err, "parse available")
	}

	return menuRow{
		// Deterministic per restaurant+name so resent catalogs update in
		// place.
		id:           uuid.NewSHA1(uuid.NameSpaceURL, []byte(restaurantID+"/"+name)).String(),
		restaurantID: restaurantID,
		name:         name,
		description:  strings.TrimSpace(record[2]),
		price:        price.Round(2),
		category:     strings.TrimSpace(record[4]),
		imageURL:     strings.TrimSpace(record[5]),
		available:    available,
	}, nil
}

const upsertMenuItemSQL = `INSERT INTO menu_items (id, restaurant_id, name, description, price, category, image_url, available)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET description = EXCLUDED.description,
		price = EXCLUDED.price, category = EXCLUDED.category,
		image_url = EXCLUDED.image_url, available = EXCLUDED.available`

// writeRows batches upserts, screening duplicates with a bloom filter. The
// filter can rarely flag a fresh item as seen; the loss of one catalog line
// until the next export is acceptable for this tool.
func writeRows(ctx context.Context, pool interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}, rows <-chan menuRow) (ingested, skipped int, err error) {
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	batch := &pgx.Batch{}

	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := pool.SendBatch(ctx, batch).Close(); err != nil {
			return errors.Wrap(err, "flush batch")
		}
		batch = &pgx.Batch{}
		return nil
	}

	for row := range rows {
		if seen.TestString(row.id) {
			skipped++
			continue
		}
		seen.AddString(row.id)

		batch.Queue(upsertMenuItemSQL,
			row.id, row.restaurantID, row.name, row.description,
			row.price, row.category, row.imageURL, row.available,
		)
		ingested++

		if batch.Len() >= batchSize {
			if err := flush(); err != nil {
				return ingested, skipped, err
			}
		}
	}
	return ingested, skipped, flush()
}
