package invoices

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/shared"
)

func newTestHandler(t *testing.T, fake *fakeProvider, now func() time.Time) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := newTestService(newTestStore(t), fake, now)
	h := NewHandler(logger, svc)
	r := chi.NewRouter()
	r.Route("/reports", h.MountRoutes)
	r.Route("/admin/reports", h.MountAdminRoutes)
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, target string, creds *shared.Credentials) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if creds != nil {
		req = req.WithContext(shared.ContextWithCredentials(context.Background(), *creds))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestReportEndpoint(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local)
	fake := &fakeProvider{pages: map[int][]provider.Invoice{
		1: {datedInvoice("INV-1", now.AddDate(0, 0, -1))},
	}}
	handler := newTestHandler(t, fake, func() time.Time { return now })

	rec := doRequest(t, handler, http.MethodGet, "/reports/invoices?period=all", &testCreds)
	require.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Rows, 1)
	require.Equal(t, "INV-1", report.Rows[0].Number)
	require.Equal(t, 1, report.Pagination.Total)
}

func TestReportRequiresCredentials(t *testing.T) {
	handler := newTestHandler(t, &fakeProvider{}, time.Now)
	rec := doRequest(t, handler, http.MethodGet, "/reports/invoices", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReportRejectsUnknownPeriod(t *testing.T) {
	handler := newTestHandler(t, &fakeProvider{}, time.Now)
	rec := doRequest(t, handler, http.MethodGet, "/reports/invoices?period=decade", &testCreds)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportRejectsLoneCompare(t *testing.T) {
	handler := newTestHandler(t, &fakeProvider{}, time.Now)
	rec := doRequest(t, handler, http.MethodGet, "/reports/invoices?compareA=acme", &testCreds)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportRejectsMalformedDeparture(t *testing.T) {
	handler := newTestHandler(t, &fakeProvider{}, time.Now)
	rec := doRequest(t, handler, http.MethodGet, "/reports/invoices?departure=15-03-2026", &testCreds)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpiredTokenMapsToUnauthorized(t *testing.T) {
	fake := &fakeProvider{err: shared.ErrTokenInvalid}
	handler := newTestHandler(t, fake, time.Now)
	rec := doRequest(t, handler, http.MethodGet, "/reports/invoices", &testCreds)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "session expired, please sign in again", body["error"])
}

func TestProviderFailureMapsToBadGateway(t *testing.T) {
	fake := &fakeProvider{err: &shared.StatusError{Code: http.StatusInternalServerError}}
	handler := newTestHandler(t, fake, time.Now)
	rec := doRequest(t, handler, http.MethodGet, "/reports/invoices", &testCreds)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local)
	fake := &fakeProvider{pages: map[int][]provider.Invoice{
		1: {datedInvoice("INV-1", now)},
	}}
	handler := newTestHandler(t, fake, func() time.Time { return now })

	rec := doRequest(t, handler, http.MethodPost, "/reports/invoices/refresh", &testCreds)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int  `json:"count"`
		HasMore bool `json:"hasMore"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	require.False(t, body.HasMore)
}

func TestAdminReportUsesAdminScope(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local)
	fake := &fakeProvider{pages: map[int][]provider.Invoice{
		1: {datedInvoice("INV-1", now)},
	}}
	handler := newTestHandler(t, fake, func() time.Time { return now })

	rec := doRequest(t, handler, http.MethodGet, "/admin/reports/invoices", &testCreds)
	require.Equal(t, http.StatusOK, rec.Code)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.NotEmpty(t, fake.queries)
	for _, q := range fake.queries {
		require.Equal(t, "newest", q.SortBy)
		require.Empty(t, q.ConsigneeName, "admin scope must not scope by consignee")
	}
}
