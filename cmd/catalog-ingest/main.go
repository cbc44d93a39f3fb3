// Command catalog-ingest loads bulk product feeds from suppliers into the
// catalog. Feeds are gzip-compressed text files, one record per line:
//
//	sku|name|name_fr|category_id|price|stock
//
// Suppliers overlap heavily, so SKUs are deduplicated across feeds with one
// bloom filter per file before anything touches the database. The first feed
// listing a SKU wins; later duplicates are dropped.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kamga/mokolo/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 1_000_000
	fieldCount    = 6
)

// record is one parsed feed line.
type record struct {
	sku      string
	name     string
	nameFR   string
	category string
	price    decimal.Decimal
	stock    int
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.gz supplier feeds")
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
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.gz"))
	if err != nil {
		return errors.Wrap(err, "list feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no .gz feeds found in %s", dataDir)
	}

	slog.Info("pass 1: building per-feed bloom filters", slog.Int("files", len(files)))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	slog.Info("pass 2: collecting deduplicated records")

	records, err := collectRecords(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "collect records")
	}

	slog.Info("deduplicated records", slog.Int("count", len(records)))

	if len(records) == 0 {
		slog.Info("nothing to ingest")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := writeProducts(ctx, pool, records); err != nil {
		return errors.Wrap(err, "write products to database")
	}

	return nil
}

// buildBloomFilters creates one bloom filter of SKUs per feed, concurrently.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamGzFile(ctx, path, func(line string) {
			sku, _, ok := strings.Cut(line, "|")
			if !ok || sku == "" {
				return
			}
			filter.AddString(sku)
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.Int("file", idx+1),
					slog.Uint64("skus", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for file %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("file", idx+1),
			slog.Uint64("skus", count),
		)

		filters[idx] = filter
		return nil
	}
}

// collectRecords walks the feeds in order. A SKU is kept the first time it
// appears; records whose SKU tests positive in an earlier feed's filter are
// dropped. The earlier-filter test is a fast pre-check, the per-run seen set
// is the exact guard against bloom false negatives within one feed.
func collectRecords(ctx context.Context, files []string, filters []*bloom.BloomFilter) ([]record, error) {
	seen := make(map[string]struct{})
	var out []record

	for idx, path := range files {
		var kept, dropped uint64

		if err := streamGzFile(ctx, path, func(line string) {
			rec, err := parseLine(line)
			if err != nil {
				dropped++
				return
			}
			if _, ok := seen[rec.sku]; ok {
				dropped++
				return
			}
			// Only consult earlier feeds' filters: the first feed to list a
			// SKU owns it.
			for j := 0; j < idx; j++ {
				if filters[j].TestString(rec.sku) {
					dropped++
					return
				}
			}
			seen[rec.sku] = struct{}{}
			out = append(out, rec)
			kept++
		}); err != nil {
			return nil, errors.Wrapf(err, "scan feed %s", path)
		}

		slog.Info("pass 2 complete",
			slog.Int("file", idx+1),
			slog.Uint64("kept", kept),
			slog.Uint64("dropped", dropped),
		)
	}

	return out, nil
}

func parseLine(line string) (record, error) {
	fields := strings.Split(line, "|")
	if len(fields) != fieldCount {
		return record{}, errors.Errorf("expected %d fields, got %d", fieldCount, len(fields))
	}

	price, err := decimal.NewFromString(fields[4])
	if err != nil {
		return record{}, errors.Wrap(err, "parse price")
	}
	stock, err := strconv.Atoi(fields[5])
	if err != nil {
		return record{}, errors.Wrap(err, "parse stock")
	}
	if fields[0] == "" || fields[1] == "" {
		return record{}, errors.New("sku and name are required")
	}

	return record{
		sku:      fields[0],
		name:     fields[1],
		nameFR:   fields[2],
		category: fields[3],
		price:    price,
		stock:    stock,
	}, nil
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line string)) error {
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

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

const upsertProductSQL = `
INSERT INTO products (id, name, name_fr, price, category_id, stock, active)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, TRUE)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	name_fr = EXCLUDED.name_fr,
	price = EXCLUDED.price,
	category_id = EXCLUDED.category_id,
	stock = EXCLUDED.stock,
	updated_at = NOW()`

// writeProducts upserts all deduplicated records into the catalog.
func writeProducts(ctx context.Context, pool *pgxpool.Pool, records []record) error {
	slog.Info("writing products to database", slog.Int("count", len(records)))

	for i, rec := range records {
		if _, err := pool.Exec(ctx, upsertProductSQL,
			rec.sku, rec.name, rec.nameFR, rec.price, rec.category, rec.stock,
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", rec.sku)
		}

		if (i+1)%100 == 0 || i+1 == len(records) {
			slog.Info("write progress", slog.Int("written", i+1), slog.Int("total", len(records)))
		}
	}

	return nil
}
