package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	delErr  error
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	b, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return b, nil
}

func (m *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	for _, k := range keys {
		delete(m.data, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

type countingReader struct {
	mu      sync.Mutex
	calls   int
	entries []model.BookingHistoryEntry
	err     error
}

func (r *countingReader) HistoryPage(ctx context.Context, userID uint64, offset, limit int) ([]model.BookingHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.entries, nil
}

func TestGetPagePopulatesOnMiss(t *testing.T) {
	store := newMemStore()
	reader := &countingReader{entries: []model.BookingHistoryEntry{{BookingID: 1, UserID: 42}}}
	c := NewHistoryCache(store, reader, Options{TTL: 2 * time.Minute})

	got, err := c.GetPage(context.Background(), 42, 0, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, reader.calls)

	key := historyKey(42, 0, 5)
	assert.Contains(t, store.data, key, "page stored after the miss")
	assert.Equal(t, 2*time.Minute, store.ttls[key], "configured TTL applied")
}

func TestGetPageHitSkipsReader(t *testing.T) {
	store := newMemStore()
	reader := &countingReader{entries: []model.BookingHistoryEntry{{BookingID: 1}}}
	c := NewHistoryCache(store, reader, Options{})

	_, err := c.GetPage(context.Background(), 7, 0, 5)
	require.NoError(t, err)
	_, err = c.GetPage(context.Background(), 7, 0, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, reader.calls, "second read served from cache")
}

func TestGetPageStoreErrorFallsBackToReader(t *testing.T) {
	store := newMemStore()
	store.getErr = assert.AnError
	reader := &countingReader{entries: []model.BookingHistoryEntry{{BookingID: 3}}}
	c := NewHistoryCache(store, reader, Options{})

	got, err := c.GetPage(context.Background(), 1, 0, 5)
	require.NoError(t, err, "store failure must not surface")
	require.Len(t, got, 1)
	assert.Equal(t, uint64(3), got[0].BookingID)
}

func TestGetPageCorruptEntryDroppedAndRefilled(t *testing.T) {
	store := newMemStore()
	key := historyKey(5, 0, 5)
	store.data[key] = []byte("{not json")
	reader := &countingReader{entries: []model.BookingHistoryEntry{{BookingID: 8}}}
	c := NewHistoryCache(store, reader, Options{})

	got, err := c.GetPage(context.Background(), 5, 0, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, reader.calls)
	assert.Contains(t, store.deleted, key, "corrupt entry removed")
}

func TestGetPageSetErrorStillReturnsData(t *testing.T) {
	store := newMemStore()
	store.setErr = assert.AnError
	reader := &countingReader{entries: []model.BookingHistoryEntry{{BookingID: 4}}}
	c := NewHistoryCache(store, reader, Options{})

	got, err := c.GetPage(context.Background(), 2, 0, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestGetPagePropagatesReaderError(t *testing.T) {
	store := newMemStore()
	reader := &countingReader{err: assert.AnError}
	c := NewHistoryCache(store, reader, Options{})

	_, err := c.GetPage(context.Background(), 2, 0, 5)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestInvalidateClearsBoundedPageRange(t *testing.T) {
	store := newMemStore()
	c := NewHistoryCache(store, &countingReader{}, Options{MaxPages: 5, PageSize: 5})

	for page := 1; page <= 6; page++ {
		store.data[historyKey(42, (page-1)*5, 5)] = []byte("[]")
	}

	c.Invalidate(context.Background(), 42)

	for page := 1; page <= 5; page++ {
		assert.NotContains(t, store.data, historyKey(42, (page-1)*5, 5))
	}
	assert.Contains(t, store.data, historyKey(42, 25, 5), "page beyond the bound expires via TTL instead")
}

func TestInvalidateIsIdempotentAndSwallowsErrors(t *testing.T) {
	store := newMemStore()
	c := NewHistoryCache(store, &countingReader{}, Options{})

	// Nothing cached yet: must not panic or error.
	c.Invalidate(context.Background(), 1)
	c.Invalidate(context.Background(), 1)

	store.delErr = assert.AnError
	c.Invalidate(context.Background(), 1)
}

func TestInvalidateOnlyTouchesThatUser(t *testing.T) {
	store := newMemStore()
	c := NewHistoryCache(store, &countingReader{}, Options{})

	otherKey := historyKey(99, 0, 5)
	store.data[otherKey] = []byte("[]")

	c.Invalidate(context.Background(), 42)
	assert.Contains(t, store.data, otherKey)
}
