package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/THARU12342000/CMS/internal/domain/product"
	"github.com/THARU12342000/CMS/internal/repository"
)

type seedProduct struct {
	name        string
	description string
	price       string
	category    string
	stock       int
}

var sampleProducts = []seedProduct{
	{"Premium Laptop", "High-performance laptop with 16GB RAM and 512GB SSD", "1299.99", "Electronics", 25},
	{"Wireless Headphones", "Noise-cancelling wireless headphones with 30-hour battery life", "199.99", "Electronics", 120},
	{"Smart Watch", "Fitness tracker and smartwatch with heart rate monitor", "249.99", "Electronics", 80},
	{"Coffee Maker", "Programmable coffee maker with thermal carafe", "89.99", "Home", 60},
	{"Yoga Mat", "Non-slip yoga mat with carrying strap", "29.99", "Fitness", 200},
	{"Blender", "High-speed blender for smoothies and food processing", "79.99", "Home", 45},
	{"Running Shoes", "Lightweight running shoes with cushioned soles", "119.99", "Fitness", 150},
	{"Desk Lamp", "LED desk lamp with adjustable brightness", "39.99", "Home", 90},
}

func main() {
	var databaseURL string
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

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Start from a clean catalog so reseeding stays deterministic.
	if _, err := pool.Exec(ctx, `DELETE FROM products`); err != nil {
		return errors.Wrap(err, "clear products")
	}

	repo := repository.NewProductRepository(pool)

	slog.Info("inserting products", slog.Int("count", len(sampleProducts)))

	for _, sp := range sampleProducts {
		price, err := decimal.NewFromString(sp.price)
		if err != nil {
			return errors.Wrapf(err, "parse price for %s", sp.name)
		}
		p := &product.Product{
			ID:          uuid.New().String(),
			Name:        sp.name,
			Description: sp.description,
			Price:       price,
			Category:    sp.category,
			Stock:       sp.stock,
			Images:      []string{},
			IsActive:    true,
		}
		if err := repo.Create(ctx, p); err != nil {
			return errors.Wrapf(err, "insert product %s", sp.name)
		}

		slog.Info("inserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}
