// Package documents manages shipment file attachments: upload, download and
// deletion against the provider document store, with local size and type
// enforcement before any payload leaves the service.
package documents

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"

	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/shared"
)

// MaxFileSize caps the decoded upload payload at 5 MB.
const MaxFileSize = 5 << 20

var (
	// ErrFileTooLarge rejects uploads over MaxFileSize.
	ErrFileTooLarge = errors.New("file exceeds the 5 MB limit")
	// ErrTypeNotAllowed rejects uploads outside the MIME allow-list.
	ErrTypeNotAllowed = errors.New("file type not allowed")
	// ErrInvalidContent rejects uploads that are not valid base64.
	ErrInvalidContent = errors.New("file content is not valid base64")
)

// allowedTypes is the document MIME allow-list: pdf, xls/xlsx, doc/docx.
var allowedTypes = map[string]struct{}{
	"application/pdf":          {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// ProviderPort is the slice of the provider client the service depends on.
type ProviderPort interface {
	Documents(ctx context.Context, creds shared.Credentials, shipmentID string) ([]provider.Document, error)
	DownloadDocument(ctx context.Context, creds shared.Credentials, shipmentID, documentID string) (provider.Document, error)
	UploadDocument(ctx context.Context, creds shared.Credentials, shipmentID string, upload provider.DocumentUpload) (provider.Document, error)
	DeleteDocument(ctx context.Context, creds shared.Credentials, shipmentID, documentID string) error
}

// Service validates and forwards document operations.
type Service struct {
	provider ProviderPort
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(p ProviderPort, logger *slog.Logger) *Service {
	return &Service{provider: p, logger: logger}
}

// List returns the documents attached to a shipment.
func (s *Service) List(ctx context.Context, creds shared.Credentials, shipmentID string) ([]provider.Document, error) {
	if !creds.Valid() {
		return nil, shared.ErrMissingCredentials
	}
	return s.provider.Documents(ctx, creds, shipmentID)
}

// Download returns one document with its base64 content.
func (s *Service) Download(ctx context.Context, creds shared.Credentials, shipmentID, documentID string) (provider.Document, error) {
	if !creds.Valid() {
		return provider.Document{}, shared.ErrMissingCredentials
	}
	return s.provider.DownloadDocument(ctx, creds, shipmentID, documentID)
}

// Upload validates the payload and attaches it to the shipment. The size cap
// applies to the decoded bytes, not the base64 text.
func (s *Service) Upload(ctx context.Context, creds shared.Credentials, shipmentID string, upload provider.DocumentUpload) (provider.Document, error) {
	if !creds.Valid() {
		return provider.Document{}, shared.ErrMissingCredentials
	}
	if _, ok := allowedTypes[upload.ContentType]; !ok {
		return provider.Document{}, ErrTypeNotAllowed
	}
	decoded, err := base64.StdEncoding.DecodeString(upload.Content)
	if err != nil {
		return provider.Document{}, ErrInvalidContent
	}
	if len(decoded) > MaxFileSize {
		return provider.Document{}, ErrFileTooLarge
	}
	return s.provider.UploadDocument(ctx, creds, shipmentID, upload)
}

// Delete removes a document from a shipment.
func (s *Service) Delete(ctx context.Context, creds shared.Credentials, shipmentID, documentID string) error {
	if !creds.Valid() {
		return shared.ErrMissingCredentials
	}
	return s.provider.DeleteDocument(ctx, creds, shipmentID, documentID)
}
