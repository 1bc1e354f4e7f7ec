package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andescargo/cargoview/internal/documents"
	"github.com/andescargo/cargoview/internal/invoices"
	"github.com/andescargo/cargoview/internal/quotes"
	"github.com/andescargo/cargoview/internal/shipments"
	"github.com/andescargo/cargoview/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	InvoicesHandler  *invoices.Handler
	ShipmentsHandler *shipments.Handler
	QuotesHandler    *quotes.Handler
	DocumentsHandler *documents.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with cargoview defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		if params.InvoicesHandler != nil {
			r.Route("/reports", params.InvoicesHandler.MountRoutes)
			r.Route("/admin/reports", params.InvoicesHandler.MountAdminRoutes)
		}
		if params.ShipmentsHandler != nil {
			r.Route("/shipments", func(r chi.Router) {
				params.ShipmentsHandler.MountRoutes(r)
				if params.DocumentsHandler != nil {
					params.DocumentsHandler.MountRoutes(r)
				}
			})
		}
		if params.QuotesHandler != nil {
			r.Route("/quotes", params.QuotesHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
