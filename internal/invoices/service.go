package invoices

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andescargo/cargoview/internal/cache"
	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/shared"
)

// ProviderPort is the slice of the provider client the service depends on.
type ProviderPort interface {
	Invoices(ctx context.Context, creds shared.Credentials, q provider.InvoiceQuery) ([]provider.Invoice, error)
}

// Scope identifies one cached invoice set. The admin scope is shared across
// users and expires faster than the per-user scopes.
type Scope struct {
	Admin     bool
	Username  string
	Consignee string
}

// CacheKey returns the persisted key for the scope.
func (s Scope) CacheKey() string {
	if s.Admin {
		return "invoicesCache"
	}
	return "invoicesCache_" + s.Username
}

type scopeState struct {
	records  []provider.Invoice
	lastPage int
	hasMore  bool
	loaded   bool
	// epoch fences concurrent loads: a response commits only if no newer
	// request started for the scope in the meantime.
	epoch uint64
}

// Options tune the service; zero values fall back to defaults.
type Options struct {
	UserTTL         time.Duration
	AdminTTL        time.Duration
	PageSize        int
	PrefetchPages   int
	DisplayCurrency string
	Now             func() time.Time
}

// Service is the invoice fetch/cache manager. It owns the in-memory record
// sets, keeps them in lockstep with the persisted cache entries, and serves
// filtered, aggregated reports from immutable snapshots.
type Service struct {
	provider ProviderPort
	store    cache.Store
	logger   *slog.Logger

	userTTL         time.Duration
	adminTTL        time.Duration
	pageSize        int
	prefetchPages   int
	displayCurrency string
	now             func() time.Time

	mu     sync.Mutex
	scopes map[string]*scopeState
}

// NewService wires the provider client with the cache store.
func NewService(p ProviderPort, store cache.Store, logger *slog.Logger, opts Options) *Service {
	if opts.UserTTL <= 0 {
		opts.UserTTL = time.Hour
	}
	if opts.AdminTTL <= 0 {
		opts.AdminTTL = 5 * time.Minute
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.PrefetchPages <= 0 {
		opts.PrefetchPages = 2
	}
	if opts.DisplayCurrency == "" {
		opts.DisplayCurrency = "CLP"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		provider:        p,
		store:           store,
		logger:          logger,
		userTTL:         opts.UserTTL,
		adminTTL:        opts.AdminTTL,
		pageSize:        opts.PageSize,
		prefetchPages:   opts.PrefetchPages,
		displayCurrency: opts.DisplayCurrency,
		now:             opts.Now,
		scopes:          make(map[string]*scopeState),
	}
}

// DisplayCurrency returns the report base currency.
func (s *Service) DisplayCurrency() string { return s.displayCurrency }

func (s *Service) ttl(scope Scope) time.Duration {
	if scope.Admin {
		return s.adminTTL
	}
	return s.userTTL
}

func (s *Service) state(key string) *scopeState {
	st, ok := s.scopes[key]
	if !ok {
		st = &scopeState{hasMore: true}
		s.scopes[key] = st
	}
	return st
}

// begin registers a new request epoch for the scope. Responses belonging to
// an older epoch are discarded at commit time, so a slow response can never
// overwrite state produced by a newer request.
func (s *Service) begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(key)
	st.epoch++
	return st.epoch
}

func (s *Service) commit(key string, epoch uint64, apply func(*scopeState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(key)
	if st.epoch != epoch {
		return false
	}
	apply(st)
	return true
}

// Snapshot returns the currently loaded records for the scope, loading from
// cache or the provider on first use. The returned slice is a copy; callers
// may filter and re-slice it freely.
func (s *Service) Snapshot(ctx context.Context, creds shared.Credentials, scope Scope) ([]provider.Invoice, bool, error) {
	s.mu.Lock()
	st := s.state(scope.CacheKey())
	if st.loaded {
		records := append([]provider.Invoice(nil), st.records...)
		hasMore := st.hasMore
		s.mu.Unlock()
		return records, hasMore, nil
	}
	s.mu.Unlock()
	return s.load(ctx, creds, scope)
}

// load populates the scope from cache when fresh, otherwise from the
// provider, prefetching the first pages concurrently.
func (s *Service) load(ctx context.Context, creds shared.Credentials, scope Scope) ([]provider.Invoice, bool, error) {
	key := scope.CacheKey()
	epoch := s.begin(key)

	if entry, ok := cache.ReadEntry(ctx, s.store, key, s.ttl(scope), s.now()); ok {
		var records []provider.Invoice
		if err := json.Unmarshal(entry.Payload, &records); err == nil {
			hasMore := entry.LastPage >= 0
			s.commit(key, epoch, func(st *scopeState) {
				st.records = records
				st.lastPage = entry.LastPage
				st.hasMore = entry.LastPage >= 0
				st.loaded = true
			})
			return records, hasMore, nil
		}
		// Corrupt payload counts as no cache at all.
		_ = cache.DeleteEntry(ctx, s.store, key)
	}

	records, lastPage, hasMore, err := s.fetchPages(ctx, creds, scope, 1, s.prefetchPages)
	if err != nil {
		return nil, false, err
	}
	merged := shared.MergeByDateDesc(nil, records, issueDate)
	committed := s.commit(key, epoch, func(st *scopeState) {
		st.records = merged
		st.lastPage = lastPage
		st.hasMore = hasMore
		st.loaded = true
	})
	if committed {
		s.persist(ctx, scope, merged, lastPage, hasMore)
	}
	return merged, hasMore, nil
}

// LoadMore fetches the next page and appends it to the scope. Once the
// provider returns a short page, further calls are no-ops until Refresh.
func (s *Service) LoadMore(ctx context.Context, creds shared.Credentials, scope Scope) ([]provider.Invoice, bool, error) {
	key := scope.CacheKey()

	s.mu.Lock()
	st := s.state(key)
	if !st.loaded {
		s.mu.Unlock()
		return s.load(ctx, creds, scope)
	}
	if !st.hasMore {
		records := append([]provider.Invoice(nil), st.records...)
		s.mu.Unlock()
		return records, false, nil
	}
	existing := append([]provider.Invoice(nil), st.records...)
	nextPage := st.lastPage + 1
	s.mu.Unlock()

	epoch := s.begin(key)
	incoming, lastPage, hasMore, err := s.fetchPages(ctx, creds, scope, nextPage, 1)
	if err != nil {
		return nil, false, err
	}
	merged := shared.MergeByDateDesc(existing, incoming, issueDate)
	committed := s.commit(key, epoch, func(st *scopeState) {
		st.records = merged
		st.lastPage = lastPage
		st.hasMore = hasMore
		st.loaded = true
	})
	if committed {
		s.persist(ctx, scope, merged, lastPage, hasMore)
	}
	return merged, hasMore, nil
}

// Refresh drops the cache entry and the in-memory records, then reloads the
// first pages from the provider.
func (s *Service) Refresh(ctx context.Context, creds shared.Credentials, scope Scope) ([]provider.Invoice, bool, error) {
	key := scope.CacheKey()
	_ = cache.DeleteEntry(ctx, s.store, key)
	s.mu.Lock()
	st := s.state(key)
	st.records = nil
	st.lastPage = 0
	st.hasMore = true
	st.loaded = false
	s.mu.Unlock()
	return s.load(ctx, creds, scope)
}

// fetchPages requests count consecutive pages starting at startPage,
// concurrently, and joins them before anything else happens. If any page
// fails the whole batch fails and no state is touched; only a fully merged
// batch is ever cached.
func (s *Service) fetchPages(ctx context.Context, creds shared.Credentials, scope Scope, startPage, count int) ([]provider.Invoice, int, bool, error) {
	if !creds.Valid() {
		return nil, 0, false, shared.ErrMissingCredentials
	}
	pages := make([][]provider.Invoice, count)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			q := provider.InvoiceQuery{
				Page:         startPage + i,
				ItemsPerPage: s.pageSize,
			}
			if scope.Admin {
				q.SortBy = provider.SortNewest
			} else {
				q.ConsigneeName = scope.Consignee
			}
			batch, err := s.provider.Invoices(gctx, creds, q)
			if err != nil {
				return err
			}
			pages[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if s.logger != nil {
			s.logger.Warn("invoice fetch failed",
				slog.String("scope", scope.CacheKey()),
				slog.Any("error", err))
		}
		return nil, 0, false, err
	}

	var records []provider.Invoice
	lastPage := startPage - 1
	hasMore := true
	for i, page := range pages {
		records = append(records, page...)
		lastPage = startPage + i
		if len(page) < s.pageSize {
			hasMore = false
			break
		}
	}
	return records, lastPage, hasMore, nil
}

func (s *Service) persist(ctx context.Context, scope Scope, records []provider.Invoice, lastPage int, hasMore bool) {
	payload, err := json.Marshal(records)
	if err != nil {
		return
	}
	marker := lastPage
	if !hasMore {
		marker = -1
	}
	entry := cache.Entry{Payload: payload, FetchedAt: s.now(), LastPage: marker}
	if err := cache.WriteEntry(ctx, s.store, scope.CacheKey(), entry, s.ttl(scope)); err != nil && s.logger != nil {
		s.logger.Warn("invoice cache write failed",
			slog.String("scope", scope.CacheKey()),
			slog.Any("error", err))
	}
}

func issueDate(inv provider.Invoice) time.Time { return inv.IssueDate }

// BuildReport filters the snapshot, derives per-row status and conversions,
// aggregates per-currency metrics over the whole filtered set and returns
// the requested page of rows.
func (s *Service) BuildReport(ctx context.Context, creds shared.Credentials, scope Scope, f Filter, page, perPage int) (Report, error) {
	records, hasMore, err := s.Snapshot(ctx, creds, scope)
	if err != nil {
		return Report{}, err
	}
	now := s.now()
	filtered := Apply(records, f, now)
	metrics := Aggregate(filtered, now)

	rows := make([]Row, 0, len(filtered))
	for _, inv := range filtered {
		row := Row{Invoice: inv, Status: Classify(inv, now)}
		if !shared.FoldEqual(inv.Currency.Code, s.displayCurrency) {
			if rate, ok := ImpliedRate(inv); ok {
				row.ImpliedRate = rate
				row.ConvertedBalance, row.Converted = ConvertedBalance(inv)
			}
		}
		rows = append(rows, row)
	}

	if perPage <= 0 {
		perPage = s.pageSize
	}
	paged := shared.PageSlice(rows, page, perPage)
	return Report{
		Rows:       paged,
		Metrics:    metrics,
		Pagination: shared.NewPagination(page, perPage, len(rows), hasMore),
		HasMore:    hasMore,
	}, nil
}
