// Package app wires configuration into the services shared by the API
// server and the terminal client.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/granja/internal/config"
	"github.com/MrJamesThe3rd/granja/internal/database"
	"github.com/MrJamesThe3rd/granja/internal/importer"
	"github.com/MrJamesThe3rd/granja/internal/importer/supplier"
	"github.com/MrJamesThe3rd/granja/internal/inventory"
	"github.com/MrJamesThe3rd/granja/internal/inventory/memory"
	"github.com/MrJamesThe3rd/granja/internal/inventory/store"
	"github.com/MrJamesThe3rd/granja/internal/lock"
	"github.com/MrJamesThe3rd/granja/internal/matching"
	matchingMemory "github.com/MrJamesThe3rd/granja/internal/matching/memory"
	matchingStore "github.com/MrJamesThe3rd/granja/internal/matching/store"
	"github.com/MrJamesThe3rd/granja/internal/report"
)

type App struct {
	Inventory *inventory.Service
	Importer  *importer.Service
	Aliases   *matching.Service
	Reports   *report.Service

	closers []func() error
}

// New opens the configured store and, when REDIS_ADDR is set, the job lock.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	ledgerCfg, err := cfg.LedgerConfig()
	if err != nil {
		return nil, err
	}

	a := &App{}
	opts := []inventory.Option{inventory.WithConfig(ledgerCfg)}

	var (
		repo    inventory.Repository
		aliases matching.Repository
	)

	switch cfg.Store.Driver {
	case "memory":
		slog.Warn("using in-memory store, data is lost on exit")

		repo = memory.New()
		aliases = matchingMemory.New()
	default:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, err
		}

		a.closers = append(a.closers, db.Close)

		if cfg.DB.Migrate {
			if err := database.Migrate(ctx, db); err != nil {
				a.Close()
				return nil, err
			}
		}

		repo = store.New(db)
		aliases = matchingStore.New(db)
	}

	if cfg.Redis.Addr != "" {
		rdb, err := lock.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting job lock: %w", err)
		}

		a.closers = append(a.closers, rdb.Close)
		opts = append(opts, inventory.WithLocker(lock.NewRedis(rdb, cfg.Redis.LockTTL, slog.Default())))
	}

	a.Inventory = inventory.NewService(repo, opts...)
	a.Aliases = matching.NewService(aliases, a.Inventory, supplier.Fold)
	a.Importer = importer.NewService(a.Inventory, map[importer.Format]importer.Parser{
		importer.FormatSupplierCSV:  supplier.NewParser(),
		importer.FormatSupplierXLSX: supplier.NewXLSXParser(),
	}, supplier.Fold, importer.WithAliases(a.Aliases))
	a.Reports = report.NewService(a.Inventory, ledgerCfg.NearExpiryDays)

	return a, nil
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("failed to close resource", "error", err)
		}
	}
}
