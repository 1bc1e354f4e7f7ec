package invoices

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/andescargo/cargoview/internal/shared"
)

// Handler serves the invoice report endpoints.
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

// MountRoutes registers the user-scoped report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/invoices", h.report)
	r.Post("/invoices/refresh", h.refresh)
	r.Post("/invoices/pages", h.loadMore)
}

// MountAdminRoutes registers the administrative report routes.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/invoices", h.adminReport)
	r.Post("/invoices/refresh", h.adminRefresh)
}

type reportQuery struct {
	Period    string `validate:"omitempty,oneof=month 3months 6months year all"`
	Status    string `validate:"omitempty,oneof=all paid pending overdue"`
	Consignee string
	CompareA  string
	CompareB  string `validate:"required_with=CompareA"`
	Departure string `validate:"omitempty,datetime=2006-01-02"`
	Page      int    `validate:"omitempty,min=1"`
	PerPage   int    `validate:"omitempty,min=1,max=200"`

	Number      string
	Origin      string
	Destination string
	Carrier     string
	Mode        string
	Pieces      string
}

func (h *Handler) parseQuery(r *http.Request) (reportQuery, error) {
	values := r.URL.Query()
	q := reportQuery{
		Period:      values.Get("period"),
		Status:      values.Get("status"),
		Consignee:   values.Get("consignee"),
		CompareA:    values.Get("compareA"),
		CompareB:    values.Get("compareB"),
		Departure:   values.Get("departure"),
		Number:      values.Get("number"),
		Origin:      values.Get("origin"),
		Destination: values.Get("destination"),
		Carrier:     values.Get("carrier"),
		Mode:        values.Get("mode"),
		Pieces:      values.Get("pieces"),
	}
	q.Page, _ = strconv.Atoi(values.Get("page"))
	q.PerPage, _ = strconv.Atoi(values.Get("perPage"))
	if err := h.validate.Struct(q); err != nil {
		return reportQuery{}, err
	}
	return q, nil
}

func (q reportQuery) filter() Filter {
	f := Filter{
		Period:    Period(q.Period),
		Status:    q.Status,
		Consignee: q.Consignee,
		Shipment: ShipmentQuery{
			Number:      q.Number,
			Origin:      q.Origin,
			Destination: q.Destination,
			Carrier:     q.Carrier,
			Mode:        q.Mode,
			Pieces:      q.Pieces,
		},
	}
	if q.Period == "" {
		f.Period = PeriodAll
	}
	if q.CompareA != "" && q.CompareB != "" {
		f.Compare = [2]string{q.CompareA, q.CompareB}
	}
	if q.Departure != "" {
		if day, err := time.ParseInLocation("2006-01-02", q.Departure, time.Local); err == nil {
			f.Shipment.Departure = day
		}
	}
	return f
}

// page returns the page to serve: any active filter resets the listing to
// the first page unless the client asked for one explicitly.
func (q reportQuery) page() int {
	if q.Page <= 0 {
		return 1
	}
	return q.Page
}

func (h *Handler) userScope(r *http.Request) (shared.Credentials, Scope, bool) {
	creds := shared.CredentialsFromContext(r.Context())
	if !creds.Valid() {
		return creds, Scope{}, false
	}
	return creds, Scope{Username: creds.Username, Consignee: creds.Username}, true
}

func (h *Handler) adminScope(r *http.Request) (shared.Credentials, Scope, bool) {
	creds := shared.CredentialsFromContext(r.Context())
	if !creds.Valid() {
		return creds, Scope{}, false
	}
	return creds, Scope{Admin: true}, true
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, h.userScope)
}

func (h *Handler) adminReport(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, h.adminScope)
}

func (h *Handler) serveReport(w http.ResponseWriter, r *http.Request, scopeOf func(*http.Request) (shared.Credentials, Scope, bool)) {
	creds, scope, ok := scopeOf(r)
	if !ok {
		shared.WriteError(w, shared.ErrMissingCredentials)
		return
	}
	q, err := h.parseQuery(r)
	if err != nil {
		shared.WriteValidationError(w, err)
		return
	}
	report, err := h.service.BuildReport(r.Context(), creds, scope, q.filter(), q.page(), q.PerPage)
	if err != nil {
		h.logger.Error("build invoice report", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	h.serveRefresh(w, r, h.userScope)
}

func (h *Handler) adminRefresh(w http.ResponseWriter, r *http.Request) {
	h.serveRefresh(w, r, h.adminScope)
}

func (h *Handler) serveRefresh(w http.ResponseWriter, r *http.Request, scopeOf func(*http.Request) (shared.Credentials, Scope, bool)) {
	creds, scope, ok := scopeOf(r)
	if !ok {
		shared.WriteError(w, shared.ErrMissingCredentials)
		return
	}
	records, hasMore, err := h.service.Refresh(r.Context(), creds, scope)
	if err != nil {
		h.logger.Error("refresh invoices", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"count":   len(records),
		"hasMore": hasMore,
	})
}

func (h *Handler) loadMore(w http.ResponseWriter, r *http.Request) {
	creds, scope, ok := h.userScope(r)
	if !ok {
		shared.WriteError(w, shared.ErrMissingCredentials)
		return
	}
	records, hasMore, err := h.service.LoadMore(r.Context(), creds, scope)
	if err != nil {
		h.logger.Error("load more invoices", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"count":   len(records),
		"hasMore": hasMore,
	})
}
