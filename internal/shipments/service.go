// Package shipments serves the ground and ocean shipment listings with the
// same cache-first pipeline as the invoice reports.
package shipments

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/andescargo/cargoview/internal/cache"
	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/shared"
)

// Kind selects the transport mode of a listing.
type Kind string

const (
	KindGround Kind = "ground"
	KindOcean  Kind = "ocean"
)

// ProviderPort is the slice of the provider client the service depends on.
type ProviderPort interface {
	GroundShipments(ctx context.Context, creds shared.Credentials) ([]provider.Shipment, error)
	OceanShipments(ctx context.Context, creds shared.Credentials) ([]provider.Shipment, error)
}

// Query filters a shipment listing. Text fields match as case-insensitive
// substrings; Departure matches an exact calendar day. Empty fields exclude
// nothing and all criteria AND-compose.
type Query struct {
	Number      string
	Consignee   string
	Origin      string
	Destination string
	Carrier     string
	Mode        string
	Pieces      string
	Departure   time.Time
}

// Matches reports whether the shipment passes every criterion.
func (q Query) Matches(s provider.Shipment) bool {
	if !shared.FoldContains(s.Number, q.Number) {
		return false
	}
	if !shared.FoldContains(s.Consignee, q.Consignee) {
		return false
	}
	if !shared.FoldContains(s.Origin, q.Origin) {
		return false
	}
	if !shared.FoldContains(s.Destination, q.Destination) {
		return false
	}
	if !shared.FoldContains(s.Carrier, q.Carrier) {
		return false
	}
	if !shared.FoldContains(s.Mode, q.Mode) {
		return false
	}
	if q.Pieces != "" && !shared.FoldContains(strconv.Itoa(s.Pieces), q.Pieces) {
		return false
	}
	if !q.Departure.IsZero() {
		if s.Departure.IsZero() || !shared.SameDay(q.Departure, s.Departure) {
			return false
		}
	}
	return true
}

// Listing is one page of filtered shipments.
type Listing struct {
	Shipments  []provider.Shipment `json:"shipments"`
	Pagination shared.Pagination   `json:"pagination"`
}

// Service caches and filters shipment listings per user and kind.
type Service struct {
	provider ProviderPort
	store    cache.Store
	logger   *slog.Logger
	ttl      time.Duration
	now      func() time.Time

	mu     sync.Mutex
	loaded map[string][]provider.Shipment
}

// NewService wires the provider client with the cache store.
func NewService(p ProviderPort, store cache.Store, logger *slog.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		provider: p,
		store:    store,
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
		loaded:   make(map[string][]provider.Shipment),
	}
}

func cacheKey(kind Kind, username string) string {
	return string(kind) + "ShipmentsCache_" + username
}

// List returns the filtered, paginated shipments for one kind, ordered by
// departure date descending with undated shipments last.
func (s *Service) List(ctx context.Context, creds shared.Credentials, kind Kind, q Query, page, perPage int) (Listing, error) {
	records, err := s.snapshot(ctx, creds, kind)
	if err != nil {
		return Listing{}, err
	}
	filtered := make([]provider.Shipment, 0, len(records))
	for _, rec := range records {
		if q.Matches(rec) {
			filtered = append(filtered, rec)
		}
	}
	if perPage <= 0 {
		perPage = 20
	}
	paged := shared.PageSlice(filtered, page, perPage)
	return Listing{
		Shipments:  paged,
		Pagination: shared.NewPagination(page, perPage, len(filtered), false),
	}, nil
}

// Refresh drops the cached listing and refetches it.
func (s *Service) Refresh(ctx context.Context, creds shared.Credentials, kind Kind) (Listing, error) {
	if !creds.Valid() {
		return Listing{}, shared.ErrMissingCredentials
	}
	key := cacheKey(kind, creds.Username)
	_ = cache.DeleteEntry(ctx, s.store, key)
	s.mu.Lock()
	delete(s.loaded, key)
	s.mu.Unlock()
	return s.List(ctx, creds, kind, Query{}, 1, 0)
}

func (s *Service) snapshot(ctx context.Context, creds shared.Credentials, kind Kind) ([]provider.Shipment, error) {
	if !creds.Valid() {
		return nil, shared.ErrMissingCredentials
	}
	key := cacheKey(kind, creds.Username)

	s.mu.Lock()
	if records, ok := s.loaded[key]; ok {
		s.mu.Unlock()
		return records, nil
	}
	s.mu.Unlock()

	if entry, ok := cache.ReadEntry(ctx, s.store, key, s.ttl, s.now()); ok {
		var records []provider.Shipment
		if err := json.Unmarshal(entry.Payload, &records); err == nil {
			s.remember(key, records)
			return records, nil
		}
		_ = cache.DeleteEntry(ctx, s.store, key)
	}

	var fetched []provider.Shipment
	var err error
	switch kind {
	case KindOcean:
		fetched, err = s.provider.OceanShipments(ctx, creds)
	default:
		fetched, err = s.provider.GroundShipments(ctx, creds)
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("shipment fetch failed",
				slog.String("kind", string(kind)),
				slog.Any("error", err))
		}
		return nil, err
	}

	records := shared.MergeByDateDesc(nil, fetched, departureDate)
	s.remember(key, records)
	if payload, err := json.Marshal(records); err == nil {
		entry := cache.Entry{Payload: payload, FetchedAt: s.now()}
		if err := cache.WriteEntry(ctx, s.store, key, entry, s.ttl); err != nil && s.logger != nil {
			s.logger.Warn("shipment cache write failed", slog.Any("error", err))
		}
	}
	return records, nil
}

func (s *Service) remember(key string, records []provider.Shipment) {
	s.mu.Lock()
	s.loaded[key] = records
	s.mu.Unlock()
}

func departureDate(s provider.Shipment) time.Time { return s.Departure }
