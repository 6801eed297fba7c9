package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/granja/internal/app"
	"github.com/MrJamesThe3rd/granja/internal/config"
	granjaHttp "github.com/MrJamesThe3rd/granja/internal/http"
	alertHandler "github.com/MrJamesThe3rd/granja/internal/http/alert"
	cashHandler "github.com/MrJamesThe3rd/granja/internal/http/cash"
	exportHandler "github.com/MrJamesThe3rd/granja/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/granja/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/granja/internal/http/matching"
	partyHandler "github.com/MrJamesThe3rd/granja/internal/http/party"
	productHandler "github.com/MrJamesThe3rd/granja/internal/http/product"
	purchaseHandler "github.com/MrJamesThe3rd/granja/internal/http/purchase"
	saleHandler "github.com/MrJamesThe3rd/granja/internal/http/sale"
	wasteHandler "github.com/MrJamesThe3rd/granja/internal/http/waste"
	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.Auth.JWTSecret == "" {
		slog.Warn("AUTH_JWT_SECRET is empty, sale cancellation is unavailable")
	}

	svc := a.Inventory

	router := granjaHttp.New(granjaHttp.Handlers{
		Products:  productHandler.NewHandler(svc),
		Sales:     saleHandler.NewHandler(svc),
		Purchases: purchaseHandler.NewHandler(svc),
		Waste:     wasteHandler.NewHandler(svc),
		Cash:      cashHandler.NewHandler(svc),
		Alerts:    alertHandler.NewHandler(svc, time.Now),
		Parties:   partyHandler.NewHandler(svc),
		Reports:   exportHandler.NewHandler(a.Reports, time.Now),
		Import:    importHandler.NewHandler(a.Importer),
		Aliases:   matchingHandler.NewHandler(a.Aliases),
	}, granjaHttp.Options{
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	if cfg.Ledger.SweepInterval > 0 {
		go sweepEvery(ctx, svc, cfg.Ledger.SweepInterval)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "store", cfg.Store.Driver)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// sweepEvery runs the expiry sweep on a ticker until ctx is done. Another
// replica holding the job lock is not an error.
func sweepEvery(ctx context.Context, svc *inventory.Service, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := svc.SweepExpiry(ctx, time.Now())
			switch {
			case errors.Is(err, inventory.ErrJobInProgress):
				slog.Info("expiry sweep skipped, already running elsewhere")
			case err != nil:
				slog.Error("expiry sweep failed", "error", err)
			default:
				slog.Info("expiry sweep", "checked", res.Checked, "transitions", res.Transitions, "alerts", len(res.Alerts))
			}
		}
	}
}
