package quotes

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
	quotes []provider.Quote
	calls  int
	err    error
}

func (f *fakeProvider) Quotes(ctx context.Context, creds shared.Credentials) ([]provider.Quote, error) {
	f.calls++
	return f.quotes, f.err
}

var testCreds = shared.Credentials{Token: "token", Username: "carla"}

func TestFindByNumberIsCaseInsensitive(t *testing.T) {
	fake := &fakeProvider{quotes: []provider.Quote{
		{Number: "Q-2026-001", Customer: "acme"},
		{Number: "Q-2026-002", Customer: "globex"},
	}}
	svc := NewService(fake, cache.NewMemoryStore(), nil, 5*time.Minute)

	quote, err := svc.FindByNumber(context.Background(), testCreds, "q-2026-002")
	require.NoError(t, err)
	require.Equal(t, "globex", quote.Customer)
}

func TestFindByNumberNotFound(t *testing.T) {
	fake := &fakeProvider{quotes: []provider.Quote{{Number: "Q-1"}}}
	svc := NewService(fake, cache.NewMemoryStore(), nil, 5*time.Minute)

	_, err := svc.FindByNumber(context.Background(), testCreds, "Q-404")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListServesFromCache(t *testing.T) {
	fake := &fakeProvider{quotes: []provider.Quote{{Number: "Q-1"}}}
	store := cache.NewMemoryStore()
	svc := NewService(fake, store, nil, 5*time.Minute)
	ctx := context.Background()

	_, err := svc.List(ctx, testCreds)
	require.NoError(t, err)
	require.Equal(t, 1, fake.calls)

	other := NewService(fake, store, nil, 5*time.Minute)
	quotes, err := other.List(ctx, testCreds)
	require.NoError(t, err)
	require.Equal(t, 1, fake.calls)
	require.Len(t, quotes, 1)
}

func TestExpiredCacheRefetches(t *testing.T) {
	fake := &fakeProvider{quotes: []provider.Quote{{Number: "Q-1"}}}
	store := cache.NewMemoryStore()
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	first := NewService(fake, store, nil, 5*time.Minute)
	first.now = func() time.Time { return base }
	_, err := first.List(context.Background(), testCreds)
	require.NoError(t, err)

	second := NewService(fake, store, nil, 5*time.Minute)
	second.now = func() time.Time { return base.Add(10 * time.Minute) }
	_, err = second.List(context.Background(), testCreds)
	require.NoError(t, err)
	require.Equal(t, 2, fake.calls)
}

func TestListRequiresCredentials(t *testing.T) {
	fake := &fakeProvider{}
	svc := NewService(fake, cache.NewMemoryStore(), nil, 5*time.Minute)
	_, err := svc.List(context.Background(), shared.Credentials{})
	require.ErrorIs(t, err, shared.ErrMissingCredentials)
	require.Zero(t, fake.calls)
}

func TestListPropagatesProviderErrors(t *testing.T) {
	fake := &fakeProvider{err: shared.ErrTokenInvalid}
	svc := NewService(fake, cache.NewMemoryStore(), nil, 5*time.Minute)
	_, err := svc.List(context.Background(), testCreds)
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}
