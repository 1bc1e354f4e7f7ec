// Package quotes resolves freight quotes by number. The provider only has a
// list-all endpoint, so lookups filter the full set client-side behind a
// short-lived cache.
package quotes

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/andescargo/cargoview/internal/cache"
	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/shared"
)

// ProviderPort is the slice of the provider client the service depends on.
type ProviderPort interface {
	Quotes(ctx context.Context, creds shared.Credentials) ([]provider.Quote, error)
}

// Service caches the quote list per user and answers number lookups.
type Service struct {
	provider ProviderPort
	store    cache.Store
	logger   *slog.Logger
	ttl      time.Duration
	now      func() time.Time

	mu     sync.Mutex
	loaded map[string][]provider.Quote
}

// NewService wires the provider client with the cache store.
func NewService(p ProviderPort, store cache.Store, logger *slog.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		provider: p,
		store:    store,
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
		loaded:   make(map[string][]provider.Quote),
	}
}

// List returns every quote visible to the caller.
func (s *Service) List(ctx context.Context, creds shared.Credentials) ([]provider.Quote, error) {
	return s.snapshot(ctx, creds)
}

// FindByNumber returns the quote with the given number, or ErrNotFound.
// Matching is case-insensitive since quote numbers are user-typed.
func (s *Service) FindByNumber(ctx context.Context, creds shared.Credentials, number string) (provider.Quote, error) {
	records, err := s.snapshot(ctx, creds)
	if err != nil {
		return provider.Quote{}, err
	}
	for _, q := range records {
		if shared.FoldEqual(q.Number, number) {
			return q, nil
		}
	}
	return provider.Quote{}, shared.ErrNotFound
}

func (s *Service) snapshot(ctx context.Context, creds shared.Credentials) ([]provider.Quote, error) {
	if !creds.Valid() {
		return nil, shared.ErrMissingCredentials
	}
	key := "quotesCache_" + creds.Username

	s.mu.Lock()
	if records, ok := s.loaded[key]; ok {
		s.mu.Unlock()
		return records, nil
	}
	s.mu.Unlock()

	if entry, ok := cache.ReadEntry(ctx, s.store, key, s.ttl, s.now()); ok {
		var records []provider.Quote
		if err := json.Unmarshal(entry.Payload, &records); err == nil {
			s.remember(key, records)
			return records, nil
		}
		_ = cache.DeleteEntry(ctx, s.store, key)
	}

	records, err := s.provider.Quotes(ctx, creds)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("quote fetch failed", slog.Any("error", err))
		}
		return nil, err
	}
	s.remember(key, records)
	if payload, err := json.Marshal(records); err == nil {
		entry := cache.Entry{Payload: payload, FetchedAt: s.now()}
		if err := cache.WriteEntry(ctx, s.store, key, entry, s.ttl); err != nil && s.logger != nil {
			s.logger.Warn("quote cache write failed", slog.Any("error", err))
		}
	}
	return records, nil
}

func (s *Service) remember(key string, records []provider.Quote) {
	s.mu.Lock()
	s.loaded[key] = records
	s.mu.Unlock()
}
