package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/kamga/mokolo/internal/domain/product"
	"github.com/kamga/mokolo/internal/domain/profile"
	"github.com/kamga/mokolo/internal/storage/postgres"
)

type categoryJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	NameFR string `json:"name_fr"`
}

type productJSON struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	NameFR             string          `json:"name_fr"`
	Description        string          `json:"description"`
	DescriptionFR      string          `json:"description_fr"`
	Price              decimal.Decimal `json:"price"`
	CategoryID         string          `json:"category_id"`
	ImageURL           string          `json:"image_url"`
	Stock              int             `json:"stock"`
	DiscountPercentage int             `json:"discount_percentage"`
	Featured           bool            `json:"featured"`
}

type catalogJSON struct {
	Categories []categoryJSON `json:"categories"`
	Products   []productJSON  `json:"products"`
}

func main() {
	var (
		databaseURL string
		catalogFile string
		adminID     string
		adminEmail  string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.StringVar(&adminID, "admin-id", "", "user ID to grant the admin flag (or MOKOLO_SEED_ADMIN_ID env)")
	flag.StringVar(&adminEmail, "admin-email", "", "email for the admin profile")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminID == "" {
		adminID = os.Getenv("MOKOLO_SEED_ADMIN_ID")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, adminID, adminEmail); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile, adminID, adminEmail string) error {
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

	repo := postgres.NewProductRepository(pool)

	if err := seedCatalog(ctx, repo, catalogFile); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	if adminID != "" {
		if err := seedAdmin(ctx, postgres.NewProfileRepository(pool), adminID, adminEmail); err != nil {
			return errors.Wrap(err, "seed admin profile")
		}
	}

	return nil
}

func seedCatalog(ctx context.Context, repo *postgres.ProductRepository, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var catalog catalogJSON
	if err := json.Unmarshal(data, &catalog); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	existing, err := repo.ListCategories(ctx)
	if err != nil {
		return errors.Wrap(err, "list categories")
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.ID] = true
	}

	slog.Info("upserting categories", slog.Int("count", len(catalog.Categories)))

	for _, c := range catalog.Categories {
		if known[c.ID] {
			continue
		}
		if err := repo.CreateCategory(ctx, &product.Category{
			ID:     c.ID,
			Name:   c.Name,
			NameFR: c.NameFR,
		}); err != nil {
			return errors.Wrapf(err, "create category %s", c.ID)
		}
		slog.Info("created category", slog.String("id", c.ID), slog.String("name", c.Name))
	}

	slog.Info("upserting products", slog.Int("count", len(catalog.Products)))

	for _, p := range catalog.Products {
		prod := product.Product{
			ID:                 p.ID,
			Name:               p.Name,
			NameFR:             p.NameFR,
			Description:        p.Description,
			DescriptionFR:      p.DescriptionFR,
			Price:              p.Price,
			CategoryID:         p.CategoryID,
			ImageURL:           p.ImageURL,
			Stock:              p.Stock,
			Active:             true,
			DiscountPercentage: p.DiscountPercentage,
			Featured:           p.Featured,
		}

		if _, err := repo.GetByID(ctx, p.ID); err == nil {
			if err := repo.Update(ctx, &prod); err != nil {
				return errors.Wrapf(err, "update product %s", p.ID)
			}
		} else if errors.Is(err, product.ErrNotFound) {
			if err := repo.Create(ctx, &prod); err != nil {
				return errors.Wrapf(err, "create product %s", p.ID)
			}
		} else {
			return errors.Wrapf(err, "check product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedAdmin(ctx context.Context, repo *postgres.ProfileRepository, adminID, adminEmail string) error {
	slog.Info("seeding admin profile", slog.String("id", adminID))

	if _, err := repo.Get(ctx, adminID); err == nil {
		slog.Info("admin profile already exists", slog.String("id", adminID))
		return nil
	} else if !errors.Is(err, profile.ErrNotFound) {
		return errors.Wrap(err, "check admin profile")
	}

	if err := repo.Create(ctx, &profile.Profile{
		ID:      adminID,
		Email:   adminEmail,
		IsAdmin: true,
	}); err != nil {
		return errors.Wrap(err, "create admin profile")
	}

	slog.Info("created admin profile", slog.String("id", adminID))
	return nil
}
