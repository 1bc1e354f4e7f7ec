package quotes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andescargo/cargoview/internal/shared"
)

// Handler serves quote lookups.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the quote routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{number}", h.find)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	creds := shared.CredentialsFromContext(r.Context())
	quotes, err := h.service.List(r.Context(), creds)
	if err != nil {
		h.logger.Error("list quotes", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request) {
	creds := shared.CredentialsFromContext(r.Context())
	number := chi.URLParam(r, "number")
	quote, err := h.service.FindByNumber(r.Context(), creds, number)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("find quote", slog.String("number", number), slog.Any("error", err))
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, quote)
}
