package shipments

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/andescargo/cargoview/internal/shared"
)

// Handler serves the shipment listing endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers the shipment routes. The kind segment stays literal
// so it cannot collide with the {shipmentID} document routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ground", h.listKind(KindGround))
	r.Post("/ground/refresh", h.refreshKind(KindGround))
	r.Get("/ocean", h.listKind(KindOcean))
	r.Post("/ocean/refresh", h.refreshKind(KindOcean))
}

type listQuery struct {
	Departure string `validate:"omitempty,datetime=2006-01-02"`
	Page      int    `validate:"omitempty,min=1"`
	PerPage   int    `validate:"omitempty,min=1,max=200"`
}

func (h *Handler) listKind(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds := shared.CredentialsFromContext(r.Context())
		if !creds.Valid() {
			shared.WriteError(w, shared.ErrMissingCredentials)
			return
		}

		values := r.URL.Query()
		q := listQuery{Departure: values.Get("departure")}
		q.Page, _ = strconv.Atoi(values.Get("page"))
		q.PerPage, _ = strconv.Atoi(values.Get("perPage"))
		if err := h.validate.Struct(q); err != nil {
			shared.WriteValidationError(w, err)
			return
		}

		query := Query{
			Number:      values.Get("number"),
			Consignee:   values.Get("consignee"),
			Origin:      values.Get("origin"),
			Destination: values.Get("destination"),
			Carrier:     values.Get("carrier"),
			Mode:        values.Get("mode"),
			Pieces:      values.Get("pieces"),
		}
		if q.Departure != "" {
			if day, err := time.ParseInLocation("2006-01-02", q.Departure, time.Local); err == nil {
				query.Departure = day
			}
		}

		page := q.Page
		if page <= 0 {
			page = 1
		}
		listing, err := h.service.List(r.Context(), creds, kind, query, page, q.PerPage)
		if err != nil {
			h.logger.Error("list shipments", slog.String("kind", string(kind)), slog.Any("error", err))
			shared.WriteError(w, err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, listing)
	}
}

func (h *Handler) refreshKind(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds := shared.CredentialsFromContext(r.Context())
		if !creds.Valid() {
			shared.WriteError(w, shared.ErrMissingCredentials)
			return
		}
		listing, err := h.service.Refresh(r.Context(), creds, kind)
		if err != nil {
			h.logger.Error("refresh shipments", slog.String("kind", string(kind)), slog.Any("error", err))
			shared.WriteError(w, err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, map[string]int{"count": listing.Pagination.Total})
	}
}
