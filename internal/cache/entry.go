package cache

import (
	"context"
	"strconv"
	"time"
)

// Entry is one cached report snapshot. It is persisted as three companion
// keys (payload, timestamp, last-page marker) so a schema change only
// requires a key rename, and a stale or corrupt snapshot can be dropped
// wholesale.
type Entry struct {
	Payload   []byte
	FetchedAt time.Time
	LastPage  int
}

func timestampKey(key string) string { return key + "_timestamp" }
func pageKey(key string) string      { return key + "_page" }

// ReadEntry loads a snapshot and verifies its age against ttl. Anything
// short of a fresh, well-formed entry (missing keys, unparsable timestamp,
// expired age) deletes all companion keys and reports a miss; corruption is
// never surfaced as an error to the caller.
func ReadEntry(ctx context.Context, store Store, key string, ttl time.Duration, now time.Time) (Entry, bool) {
	payload, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return Entry{}, false
	}
	rawTS, ok, err := store.Get(ctx, timestampKey(key))
	if err != nil || !ok {
		_ = DeleteEntry(ctx, store, key)
		return Entry{}, false
	}
	fetchedAt, err := time.Parse(time.RFC3339Nano, string(rawTS))
	if err != nil {
		_ = DeleteEntry(ctx, store, key)
		return Entry{}, false
	}
	if now.Sub(fetchedAt) >= ttl {
		_ = DeleteEntry(ctx, store, key)
		return Entry{}, false
	}
	entry := Entry{Payload: payload, FetchedAt: fetchedAt}
	if rawPage, ok, err := store.Get(ctx, pageKey(key)); err == nil && ok {
		if page, err := strconv.Atoi(string(rawPage)); err == nil {
			entry.LastPage = page
		}
	}
	return entry, true
}

// WriteEntry stores a snapshot under all companion keys with the given ttl.
func WriteEntry(ctx context.Context, store Store, key string, entry Entry, ttl time.Duration) error {
	if err := store.Set(ctx, key, entry.Payload, ttl); err != nil {
		return err
	}
	ts := entry.FetchedAt.Format(time.RFC3339Nano)
	if err := store.Set(ctx, timestampKey(key), []byte(ts), ttl); err != nil {
		return err
	}
	return store.Set(ctx, pageKey(key), []byte(strconv.Itoa(entry.LastPage)), ttl)
}

// DeleteEntry removes a snapshot and its companion keys.
func DeleteEntry(ctx context.Context, store Store, key string) error {
	return store.Invalidate(ctx, key, timestampKey(key), pageKey(key))
}
