// Команда seed записывает стартовую коллекцию заказов в выбранное
// хранилище. Существующие данные не перезаписываются без -force.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
	"github.com/vladislavdragonenkov/signal-orders/internal/seed"
	"github.com/vladislavdragonenkov/signal-orders/internal/storage/edgeconfig"
	"github.com/vladislavdragonenkov/signal-orders/internal/storage/file"
	"github.com/vladislavdragonenkov/signal-orders/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

func main() {
	var (
		backend string
		path    string
		url     string
		dsn     string
		force   bool
	)

	flag.StringVar(&backend, "store", "file", "storage backend: file|edgeconfig|postgres")
	flag.StringVar(&path, "file", "data/orders.json", "path to the orders file (file backend)")
	flag.StringVar(&url, "url", "", "edge config URL (fallback: SIGNAL_EDGE_CONFIG_URL)")
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: SIGNAL_POSTGRES_DSN)")
	flag.BoolVar(&force, "force", false, "overwrite existing orders")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger := log.WithField("component", "seed")

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var (
		store   domain.Storage
		cleanup = func() {}
	)

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "file":
		store = file.NewStore(path, logger)
	case "edgeconfig":
		if url == "" {
			url = strings.TrimSpace(os.Getenv("SIGNAL_EDGE_CONFIG_URL"))
		}
		if url == "" {
			fail("SIGNAL_EDGE_CONFIG_URL (or -url) is required")
		}
		store = edgeconfig.NewStore(url, logger)
	case "postgres":
		if dsn == "" {
			dsn = strings.TrimSpace(os.Getenv("SIGNAL_POSTGRES_DSN"))
		}
		if dsn == "" {
			fail("SIGNAL_POSTGRES_DSN (or -dsn) is required")
		}
		pg, err := postgres.Open(ctx, dsn)
		if err != nil {
			fail("open postgres store: %v", err)
		}
		cleanup = func() { _ = pg.Close() }
		store = pg
	default:
		fail("unknown storage backend: %s", backend)
	}
	defer cleanup()

	if !force {
		if orders, err := store.Load(ctx); err == nil && len(orders) > 0 {
			fail("storage already contains %d orders, use -force to overwrite", len(orders))
		} else if err != nil && !errors.Is(err, domain.ErrStorageUnavailable) {
			fail("check existing orders: %v", err)
		}
	}

	orders := seed.Orders()
	if err := store.Save(ctx, orders); err != nil {
		fail("seed failed: %v", err)
	}

	fmt.Printf("seeded %d orders\n", len(orders))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
