package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andescargo/cargoview/internal/shared"
)

// SortNewest asks the provider to order records newest first.
const SortNewest = "newest"

// Client is a bearer-token authenticated client for the freight provider
// REST API. All responses pass through one normalization step before they
// reach any consumer.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient builds a provider client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// InvoiceQuery selects one page of invoices.
type InvoiceQuery struct {
	ConsigneeName string
	Page          int
	ItemsPerPage  int
	SortBy        string
}

// Invoices fetches one page of invoice records. When ConsigneeName is empty
// the provider returns the caller-wide (admin) scope.
func (c *Client) Invoices(ctx context.Context, creds shared.Credentials, q InvoiceQuery) ([]Invoice, error) {
	query := url.Values{}
	if q.ConsigneeName != "" {
		query.Set("ConsigneeName", q.ConsigneeName)
	}
	query.Set("Page", strconv.Itoa(q.Page))
	query.Set("ItemsPerPage", strconv.Itoa(q.ItemsPerPage))
	if q.SortBy != "" {
		query.Set("SortBy", q.SortBy)
	}
	var raw []wireInvoice
	if err := c.getJSON(ctx, creds, "/invoices", query, &raw); err != nil {
		return nil, err
	}
	invoices := make([]Invoice, 0, len(raw))
	for _, w := range raw {
		invoices = append(invoices, w.normalize())
	}
	return invoices, nil
}

// Quotes fetches every quote visible to the caller. The provider has no
// lookup endpoint, so filtering by number is the caller's job.
func (c *Client) Quotes(ctx context.Context, creds shared.Credentials) ([]Quote, error) {
	var raw []wireQuote
	if err := c.getJSON(ctx, creds, "/Quotes", nil, &raw); err != nil {
		return nil, err
	}
	quotes := make([]Quote, 0, len(raw))
	for _, w := range raw {
		quotes = append(quotes, w.normalize())
	}
	return quotes, nil
}

// GroundShipments fetches all ground shipments for the caller.
func (c *Client) GroundShipments(ctx context.Context, creds shared.Credentials) ([]Shipment, error) {
	return c.shipments(ctx, creds, "/ground-shipments/all")
}

// OceanShipments fetches all ocean shipments for the caller.
func (c *Client) OceanShipments(ctx context.Context, creds shared.Credentials) ([]Shipment, error) {
	return c.shipments(ctx, creds, "/ocean-shipments/all")
}

func (c *Client) shipments(ctx context.Context, creds shared.Credentials, path string) ([]Shipment, error) {
	var raw []wireShipment
	if err := c.getJSON(ctx, creds, path, nil, &raw); err != nil {
		return nil, err
	}
	shipments := make([]Shipment, 0, len(raw))
	for _, w := range raw {
		shipments = append(shipments, w.normalize())
	}
	return shipments, nil
}

// Documents lists the documents attached to a shipment.
func (c *Client) Documents(ctx context.Context, creds shared.Credentials, shipmentID string) ([]Document, error) {
	var raw []wireDocument
	if err := c.getJSON(ctx, creds, "/shipments/"+url.PathEscape(shipmentID)+"/documents", nil, &raw); err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(raw))
	for _, w := range raw {
		docs = append(docs, w.normalize())
	}
	return docs, nil
}

// DownloadDocument fetches one document including its base64 content.
func (c *Client) DownloadDocument(ctx context.Context, creds shared.Credentials, shipmentID, documentID string) (Document, error) {
	var raw wireDocument
	path := "/shipments/" + url.PathEscape(shipmentID) + "/documents/" + url.PathEscape(documentID)
	if err := c.getJSON(ctx, creds, path, nil, &raw); err != nil {
		return Document{}, err
	}
	return raw.normalize(), nil
}

// UploadDocument attaches a base64-encoded file to a shipment.
func (c *Client) UploadDocument(ctx context.Context, creds shared.Credentials, shipmentID string, upload DocumentUpload) (Document, error) {
	body, err := json.Marshal(upload)
	if err != nil {
		return Document{}, &shared.ParseError{Err: err}
	}
	var raw wireDocument
	path := "/shipments/" + url.PathEscape(shipmentID) + "/documents"
	if err := c.doJSON(ctx, creds, http.MethodPost, path, nil, bytes.NewReader(body), &raw); err != nil {
		return Document{}, err
	}
	return raw.normalize(), nil
}

// DeleteDocument removes a document from a shipment.
func (c *Client) DeleteDocument(ctx context.Context, creds shared.Credentials, shipmentID, documentID string) error {
	path := "/shipments/" + url.PathEscape(shipmentID) + "/documents/" + url.PathEscape(documentID)
	return c.doJSON(ctx, creds, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) getJSON(ctx context.Context, creds shared.Credentials, path string, query url.Values, dest any) error {
	return c.doJSON(ctx, creds, http.MethodGet, path, query, nil, dest)
}

func (c *Client) doJSON(ctx context.Context, creds shared.Credentials, method, path string, query url.Values, body io.Reader, dest any) error {
	if !creds.Valid() {
		return shared.ErrMissingCredentials
	}
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("provider: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &shared.NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return shared.ErrTokenInvalid
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		if c.logger != nil {
			c.logger.Warn("provider request failed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode))
		}
		return &shared.StatusError{Code: resp.StatusCode}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &shared.ParseError{Err: err}
	}
	return nil
}
