package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andescargo/cargoview/internal/shared"
)

var clientCreds = shared.Credentials{Token: "token-123", Username: "carla"}

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, time.Second, nil), srv
}

func TestInvoicesSendsAuthAndQuery(t *testing.T) {
	var gotAuth string
	var gotQuery map[string]string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		q := r.URL.Query()
		gotQuery = map[string]string{
			"ConsigneeName": q.Get("ConsigneeName"),
			"Page":          q.Get("Page"),
			"ItemsPerPage":  q.Get("ItemsPerPage"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := client.Invoices(context.Background(), clientCreds, InvoiceQuery{
		ConsigneeName: "acme",
		Page:          2,
		ItemsPerPage:  20,
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer token-123", gotAuth)
	require.Equal(t, "acme", gotQuery["ConsigneeName"])
	require.Equal(t, "2", gotQuery["Page"])
	require.Equal(t, "20", gotQuery["ItemsPerPage"])
}

func TestInvoicesAdminScopeOmitsConsignee(t *testing.T) {
	var rawQuery string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := client.Invoices(context.Background(), clientCreds, InvoiceQuery{Page: 1, ItemsPerPage: 20, SortBy: SortNewest})
	require.NoError(t, err)
	require.NotContains(t, rawQuery, "ConsigneeName")
	require.Contains(t, rawQuery, "SortBy=newest")
}

func TestInvoicesNormalizesSparseRecords(t *testing.T) {
	payload := `[
		{
			"GUID": "abc",
			"Number": "INV-77",
			"CreatedOn": "2026-03-15T09:30:00",
			"Currency": {"Abbreviation": "CLP"},
			"TotalAmount": {"Value": 120.5, "Display": "$120.50"},
			"Charges": [{"Description": "Freight", "Quantity": 1, "Rate": 120.5, "Amount": 120.5}]
		},
		{}
	]`
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	invs, err := client.Invoices(context.Background(), clientCreds, InvoiceQuery{Page: 1, ItemsPerPage: 20})
	require.NoError(t, err)
	require.Len(t, invs, 2)

	full := invs[0]
	require.Equal(t, "INV-77", full.Number)
	require.Equal(t, "CLP", full.Currency.Code)
	require.Equal(t, NotAvailable, full.Currency.Name)
	require.Equal(t, time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC), full.IssueDate)
	require.InDelta(t, 120.5, full.Total.Value, 1e-9)
	require.Len(t, full.Charges, 1)

	// An entirely empty record still comes out fully populated.
	empty := invs[1]
	require.Equal(t, NotAvailable, empty.Number)
	require.Equal(t, DefaultCurrency, empty.Currency.Code)
	require.Zero(t, empty.Balance.Value)
	require.Equal(t, NotAvailable, empty.Balance.Display)
	require.True(t, empty.IssueDate.IsZero())
	require.True(t, empty.DueDate.IsZero())
	require.Equal(t, NotAvailable, empty.Shipment.Consignee)
}

func TestUnauthorizedMapsToTokenInvalid(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := client.Invoices(context.Background(), clientCreds, InvoiceQuery{Page: 1, ItemsPerPage: 20})
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}

func TestServerErrorMapsToStatusError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.Invoices(context.Background(), clientCreds, InvoiceQuery{Page: 1, ItemsPerPage: 20})
	var statusErr *shared.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestMalformedBodyMapsToParseError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"`))
	}))
	defer srv.Close()

	_, err := client.Invoices(context.Background(), clientCreds, InvoiceQuery{Page: 1, ItemsPerPage: 20})
	var parseErr *shared.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestUnreachableHostMapsToNetworkError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := client.Invoices(context.Background(), clientCreds, InvoiceQuery{Page: 1, ItemsPerPage: 20})
	var netErr *shared.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestMissingCredentialsShortCircuit(t *testing.T) {
	called := false
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := client.Invoices(context.Background(), shared.Credentials{}, InvoiceQuery{Page: 1, ItemsPerPage: 20})
	require.ErrorIs(t, err, shared.ErrMissingCredentials)
	require.False(t, called)
}

func TestQuotesEndpointAndNormalization(t *testing.T) {
	var gotPath string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[{"Number": "Q-9", "TotalAmount": {"Value": 50}}]`))
	}))
	defer srv.Close()

	quotes, err := client.Quotes(context.Background(), clientCreds)
	require.NoError(t, err)
	require.Equal(t, "/Quotes", gotPath)
	require.Len(t, quotes, 1)
	require.Equal(t, "Q-9", quotes[0].Number)
	require.Equal(t, NotAvailable, quotes[0].Customer)
	require.Equal(t, DefaultCurrency, quotes[0].Currency.Code)
}

func TestShipmentEndpoints(t *testing.T) {
	var paths []string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`[{"Number": "GS-1", "DepartureDate": "2026-03-15"}]`))
	}))
	defer srv.Close()

	ctx := context.Background()
	ground, err := client.GroundShipments(ctx, clientCreds)
	require.NoError(t, err)
	ocean, err := client.OceanShipments(ctx, clientCreds)
	require.NoError(t, err)

	require.Equal(t, []string{"/ground-shipments/all", "/ocean-shipments/all"}, paths)
	require.Equal(t, "GS-1", ground[0].Number)
	require.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), ocean[0].Departure)
}

func TestDocumentLifecycleRequests(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPost:
			_, _ = w.Write([]byte(`{"GUID": "d1", "FileName": "bl.pdf"}`))
		default:
			_, _ = w.Write([]byte(`[{"GUID": "d1", "FileName": "bl.pdf", "Size": 1024}]`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	docs, err := client.Documents(ctx, clientCreds, "ship-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, int64(1024), docs[0].Size)

	uploaded, err := client.UploadDocument(ctx, clientCreds, "ship-1", DocumentUpload{FileName: "bl.pdf", ContentType: "application/pdf", Content: "aGk="})
	require.NoError(t, err)
	require.Equal(t, "d1", uploaded.ID)

	require.NoError(t, client.DeleteDocument(ctx, clientCreds, "ship-1", "d1"))

	require.Equal(t, []call{
		{http.MethodGet, "/shipments/ship-1/documents"},
		{http.MethodPost, "/shipments/ship-1/documents"},
		{http.MethodDelete, "/shipments/ship-1/documents/d1"},
	}, calls)
}
