package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// HistoryReader is the source of truth the cache falls back to on a miss.
// Implemented by repository.BookingRepo.
type HistoryReader interface {
	HistoryPage(ctx context.Context, userID uint64, offset, limit int) ([]model.BookingHistoryEntry, error)
}

// Options bound the cache's behavior.  MaxPages limits how many pages per
// user Invalidate clears; pages beyond it serve stale data until their TTL
// expires.  That staleness is acceptable because history is append-only,
// so an old page only changes while it is still the newest page.
type Options struct {
	TTL      time.Duration // entry lifetime, default 5 minutes
	MaxPages int           // invalidation bound, default 5
	PageSize int           // page size assumed by Invalidate, default 5
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = 5 * time.Minute
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 5
	}
	if o.PageSize <= 0 {
		o.PageSize = 5
	}
	return o
}

// HistoryCache is a read-through cache over a user's paginated booking
// history.  Entries are whole pages: they are fully replaced on refill
// and removed on invalidation, never patched in place.  Every cache
// failure degrades to a direct read and is logged, never propagated —
// the cache must not be able to fail a booking or a history request.
type HistoryCache struct {
	store  Store
	reader HistoryReader
	opts   Options
}

// NewHistoryCache builds a cache over the given store and reader.
func NewHistoryCache(store Store, reader HistoryReader, opts Options) *HistoryCache {
	return &HistoryCache{store: store, reader: reader, opts: opts.withDefaults()}
}

func historyKey(userID uint64, offset, pageSize int) string {
	return fmt.Sprintf("bookinghistory:%d:%d:%d", userID, offset, pageSize)
}

// GetPage returns one page of booking history, from cache when possible.
// On a miss (or any store error, treated as a miss) it reads the page
// from the source of truth, stores it with the configured TTL and
// returns it.  A failed store write only costs the next caller a reread.
func (c *HistoryCache) GetPage(ctx context.Context, userID uint64, offset, pageSize int) ([]model.BookingHistoryEntry, error) {
	key := historyKey(userID, offset, pageSize)

	if b, err := c.store.Get(ctx, key); err == nil {
		var entries []model.BookingHistoryEntry
		if err := json.Unmarshal(b, &entries); err == nil {
			return entries, nil
		}
		// Corrupt entry: drop it and fall through to the reader.
		if err := c.store.Del(ctx, key); err != nil {
			log.Printf("history cache: drop corrupt key %s: %v", key, err)
		}
	} else if err != ErrMiss {
		log.Printf("history cache: get %s: %v", key, err)
	}

	entries, err := c.reader.HistoryPage(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(entries); err == nil {
		if err := c.store.Set(ctx, key, b, c.opts.TTL); err != nil {
			log.Printf("history cache: set %s: %v", key, err)
		}
	}
	return entries, nil
}

// Invalidate removes the user's cached pages across the bounded page
// range.  Removing an absent key is a no-op, so invalidation is
// idempotent and safe to run concurrently from multiple instances.
// Errors are logged and swallowed: a reservation must still succeed when
// the cache is unreachable, with TTL expiry as the fallback consistency
// mechanism.
func (c *HistoryCache) Invalidate(ctx context.Context, userID uint64) {
	keys := make([]string, 0, c.opts.MaxPages)
	for page := 1; page <= c.opts.MaxPages; page++ {
		offset := (page - 1) * c.opts.PageSize
		keys = append(keys, historyKey(userID, offset, c.opts.PageSize))
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		log.Printf("history cache: invalidate user %d: %v", userID, err)
	}
}
