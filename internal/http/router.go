package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/granja/internal/http/alert"
	"github.com/MrJamesThe3rd/granja/internal/http/auth"
	"github.com/MrJamesThe3rd/granja/internal/http/cash"
	"github.com/MrJamesThe3rd/granja/internal/http/export"
	"github.com/MrJamesThe3rd/granja/internal/http/importcsv"
	"github.com/MrJamesThe3rd/granja/internal/http/matching"
	"github.com/MrJamesThe3rd/granja/internal/http/party"
	"github.com/MrJamesThe3rd/granja/internal/http/product"
	"github.com/MrJamesThe3rd/granja/internal/http/purchase"
	"github.com/MrJamesThe3rd/granja/internal/http/sale"
	"github.com/MrJamesThe3rd/granja/internal/http/waste"
)

type Handlers struct {
	Products  *product.Handler
	Sales     *sale.Handler
	Purchases *purchase.Handler
	Waste     *waste.Handler
	Cash      *cash.Handler
	Alerts    *alert.Handler
	Parties   *party.Handler
	Reports   *export.Handler
	Import    *importcsv.Handler
	Aliases   *matching.Handler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.JWTSecret))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))

			r.Route("/products", h.Products.Routes)
			r.Route("/lots", h.Products.LotRoutes)
			r.Route("/sales", h.Sales.Routes)
			r.Route("/purchases", h.Purchases.Routes)
			r.Route("/waste", h.Waste.Routes)
			r.Route("/cash", h.Cash.Routes)
			r.Route("/alerts", h.Alerts.Routes)
			r.Route("/jobs", h.Alerts.JobRoutes)
			r.Route("/customers", h.Parties.CustomerRoutes)
			r.Route("/suppliers", h.Parties.SupplierRoutes)
			r.Route("/aliases", h.Aliases.Routes)
		})

		r.Route("/reports", h.Reports.Routes)
		r.Route("/import", h.Import.Routes)
	})

	return router
}
