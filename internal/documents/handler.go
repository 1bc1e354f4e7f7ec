package documents

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/shared"
)

// Handler serves shipment document endpoints.
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

// MountRoutes registers routes under /shipments/{shipmentID}/documents.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/{shipmentID}/documents", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.upload)
		r.Get("/{documentID}", h.download)
		r.Delete("/{documentID}", h.delete)
	})
}

type uploadRequest struct {
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
	Content     string `json:"content" validate:"required,base64"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	creds := shared.CredentialsFromContext(r.Context())
	docs, err := h.service.List(r.Context(), creds, chi.URLParam(r, "shipmentID"))
	if err != nil {
		h.logger.Error("list documents", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	creds := shared.CredentialsFromContext(r.Context())
	doc, err := h.service.Download(r.Context(), creds, chi.URLParam(r, "shipmentID"), chi.URLParam(r, "documentID"))
	if err != nil {
		h.logger.Error("download document", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	creds := shared.CredentialsFromContext(r.Context())
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteValidationError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.WriteValidationError(w, err)
		return
	}
	doc, err := h.service.Upload(r.Context(), creds, chi.URLParam(r, "shipmentID"), provider.DocumentUpload{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Content:     req.Content,
	})
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrTypeNotAllowed) || errors.Is(err, ErrInvalidContent) {
			shared.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Error("upload document", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	creds := shared.CredentialsFromContext(r.Context())
	err := h.service.Delete(r.Context(), creds, chi.URLParam(r, "shipmentID"), chi.URLParam(r, "documentID"))
	if err != nil {
		h.logger.Error("delete document", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
