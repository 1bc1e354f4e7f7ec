package shipments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andescargo/cargoview/internal/cache"
	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/shared"
)

type fakeProvider struct {
	ground []provider.Shipment
	ocean  []provider.Shipment
	calls  int
	err    error
}

func (f *fakeProvider) GroundShipments(ctx context.Context, creds shared.Credentials) ([]provider.Shipment, error) {
	f.calls++
	return f.ground, f.err
}

func (f *fakeProvider) OceanShipments(ctx context.Context, creds shared.Credentials) ([]provider.Shipment, error) {
	f.calls++
	return f.ocean, f.err
}

var testCreds = shared.Credentials{Token: "token", Username: "carla"}

func shipment(number string, departure time.Time) provider.Shipment {
	return provider.Shipment{Number: number, Consignee: "acme", Departure: departure}
}

func TestListOrdersByDepartureDescending(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeProvider{ground: []provider.Shipment{
		shipment("GS-OLD", base.AddDate(0, -1, 0)),
		shipment("GS-UNDATED", time.Time{}),
		shipment("GS-NEW", base),
	}}
	svc := NewService(fake, cache.NewMemoryStore(), nil, time.Hour)

	listing, err := svc.List(context.Background(), testCreds, KindGround, Query{}, 1, 20)
	require.NoError(t, err)
	require.Len(t, listing.Shipments, 3)
	require.Equal(t, "GS-NEW", listing.Shipments[0].Number)
	require.Equal(t, "GS-OLD", listing.Shipments[1].Number)
	require.Equal(t, "GS-UNDATED", listing.Shipments[2].Number, "undated shipments sort last")
}

func TestListServesFromCache(t *testing.T) {
	fake := &fakeProvider{ground: []provider.Shipment{shipment("GS-1", time.Now())}}
	store := cache.NewMemoryStore()
	svc := NewService(fake, store, nil, time.Hour)
	ctx := context.Background()

	_, err := svc.List(ctx, testCreds, KindGround, Query{}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, fake.calls)

	// A second service instance reads the persisted snapshot.
	other := NewService(fake, store, nil, time.Hour)
	listing, err := other.List(ctx, testCreds, KindGround, Query{}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, fake.calls)
	require.Equal(t, "GS-1", listing.Shipments[0].Number)
}

func TestKindsAreCachedIndependently(t *testing.T) {
	fake := &fakeProvider{
		ground: []provider.Shipment{shipment("GS-1", time.Now())},
		ocean:  []provider.Shipment{shipment("OS-1", time.Now())},
	}
	svc := NewService(fake, cache.NewMemoryStore(), nil, time.Hour)
	ctx := context.Background()

	ground, err := svc.List(ctx, testCreds, KindGround, Query{}, 1, 20)
	require.NoError(t, err)
	ocean, err := svc.List(ctx, testCreds, KindOcean, Query{}, 1, 20)
	require.NoError(t, err)

	require.Equal(t, "GS-1", ground.Shipments[0].Number)
	require.Equal(t, "OS-1", ocean.Shipments[0].Number)
	require.Equal(t, 2, fake.calls)
}

func TestRefreshRefetches(t *testing.T) {
	fake := &fakeProvider{ground: []provider.Shipment{shipment("GS-1", time.Now())}}
	svc := NewService(fake, cache.NewMemoryStore(), nil, time.Hour)
	ctx := context.Background()

	_, err := svc.List(ctx, testCreds, KindGround, Query{}, 1, 20)
	require.NoError(t, err)

	fake.ground = []provider.Shipment{shipment("GS-2", time.Now())}
	listing, err := svc.Refresh(ctx, testCreds, KindGround)
	require.NoError(t, err)
	require.Equal(t, "GS-2", listing.Shipments[0].Number)
	require.Equal(t, 2, fake.calls)
}

func TestQueryMatchesAllAttributes(t *testing.T) {
	departure := time.Date(2026, 3, 15, 14, 0, 0, 0, time.Local)
	target := provider.Shipment{
		Number:      "GS-00123",
		Consignee:   "ACME Logistics",
		Origin:      "Valparaíso",
		Destination: "Miami",
		Carrier:     "Andes Freight",
		Mode:        "LTL",
		Pieces:      42,
		Departure:   departure,
	}
	other := shipment("XX-999", time.Now())
	fake := &fakeProvider{ground: []provider.Shipment{target, other}}
	svc := NewService(fake, cache.NewMemoryStore(), nil, time.Hour)
	ctx := context.Background()

	queries := []Query{
		{Number: "gs-001"},
		{Consignee: "acme log"},
		{Origin: "valpa"},
		{Destination: "MIA"},
		{Carrier: "andes"},
		{Mode: "ltl"},
		{Pieces: "42"},
		{Departure: time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)},
	}
	for i, q := range queries {
		listing, err := svc.List(ctx, testCreds, KindGround, q, 1, 20)
		require.NoError(t, err)
		require.Len(t, listing.Shipments, 1, "query %d", i)
		require.Equal(t, "GS-00123", listing.Shipments[0].Number, "query %d", i)
	}
}

func TestQueryDepartureSkipsUndated(t *testing.T) {
	q := Query{Departure: time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)}
	require.False(t, q.Matches(shipment("GS-1", time.Time{})))
}

func TestListPaginates(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	var records []provider.Shipment
	for i := 0; i < 5; i++ {
		records = append(records, shipment("GS", base.AddDate(0, 0, -i)))
	}
	fake := &fakeProvider{ground: records}
	svc := NewService(fake, cache.NewMemoryStore(), nil, time.Hour)

	listing, err := svc.List(context.Background(), testCreds, KindGround, Query{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, listing.Shipments, 2)
	require.Equal(t, 5, listing.Pagination.Total)
	require.Equal(t, 3, listing.Pagination.TotalPages)
}

func TestListRequiresCredentials(t *testing.T) {
	fake := &fakeProvider{}
	svc := NewService(fake, cache.NewMemoryStore(), nil, time.Hour)
	_, err := svc.List(context.Background(), shared.Credentials{}, KindGround, Query{}, 1, 20)
	require.ErrorIs(t, err, shared.ErrMissingCredentials)
	require.Zero(t, fake.calls)
}

func TestListPropagatesProviderErrors(t *testing.T) {
	fake := &fakeProvider{err: shared.ErrTokenInvalid}
	svc := NewService(fake, cache.NewMemoryStore(), nil, time.Hour)
	_, err := svc.List(context.Background(), testCreds, KindGround, Query{}, 1, 20)
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}
