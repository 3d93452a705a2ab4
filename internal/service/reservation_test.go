package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

type fakeFinder struct {
	mu    sync.Mutex
	rooms []model.Room
	err   error
	calls int
}

func (f *fakeFinder) FindAvailable(ctx context.Context, roomType string) (model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return model.Room{}, f.err
	}
	for _, r := range f.rooms {
		if r.Type == roomType && r.IsAvailable {
			return r, nil
		}
	}
	return model.Room{}, repository.ErrNoRoomAvailable
}

type fakeStore struct {
	mu         sync.Mutex
	nextID     uint64
	reserveErr []error // consumed per call; nil entry means success
	claimed    map[uint64]bool
	history    []model.BookingHistoryEntry
	histErr    error
	countErr   error
}

func (f *fakeStore) Reserve(ctx context.Context, rec *repository.BookingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reserveErr) > 0 {
		err := f.reserveErr[0]
		f.reserveErr = f.reserveErr[1:]
		if err != nil {
			return err
		}
	}
	if f.claimed == nil {
		f.claimed = map[uint64]bool{}
	}
	if f.claimed[rec.RoomID] {
		return repository.ErrRoomTaken
	}
	f.claimed[rec.RoomID] = true
	f.nextID++
	rec.ID = f.nextID
	return nil
}

func (f *fakeStore) HistoryPage(ctx context.Context, userID uint64, offset, limit int) ([]model.BookingHistoryEntry, error) {
	if f.histErr != nil {
		return nil, f.histErr
	}
	if offset >= len(f.history) {
		return []model.BookingHistoryEntry{}, nil
	}
	end := offset + limit
	if end > len(f.history) {
		end = len(f.history)
	}
	return f.history[offset:end], nil
}

func (f *fakeStore) CountByUser(ctx context.Context, userID uint64) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.history), nil
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated []uint64
	pages       map[string][]model.BookingHistoryEntry
	getCalls    int
}

func (f *fakeCache) GetPage(ctx context.Context, userID uint64, offset, pageSize int) ([]model.BookingHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if p, ok := f.pages["page"]; ok {
		return p, nil
	}
	return []model.BookingHistoryEntry{}, nil
}

func (f *fakeCache) Invalidate(ctx context.Context, userID uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, userID)
}

func newRequest(userID uint64) BookingRequest {
	return BookingRequest{
		UserID:      userID,
		RoomType:    "DELUXE",
		BookingDate: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	finder := &fakeFinder{rooms: []model.Room{{ID: 7, Type: "DELUXE", PriceCents: 15000, IsAvailable: true}}}
	store := &fakeStore{}
	cache := &fakeCache{}

	svc := NewReservationService(finder, store, WithCache(cache))
	conf, err := svc.CreateBooking(context.Background(), newRequest(42))

	require.NoError(t, err)
	assert.Equal(t, uint64(7), conf.RoomID)
	assert.Equal(t, "DELUXE", conf.RoomType)
	assert.Equal(t, uint32(15000), conf.PriceCents)
	assert.NotEmpty(t, conf.Reference)
	assert.NotZero(t, conf.BookingID)
	assert.Equal(t, []uint64{42}, cache.invalidated, "cache invalidated once after commit")
}

func TestCreateBookingNoAvailability(t *testing.T) {
	finder := &fakeFinder{} // no rooms at all
	store := &fakeStore{}
	cache := &fakeCache{}

	svc := NewReservationService(finder, store, WithCache(cache))
	_, err := svc.CreateBooking(context.Background(), newRequest(1))

	require.ErrorIs(t, err, repository.ErrNoRoomAvailable)
	assert.Equal(t, 1, finder.calls, "no retry when nothing is available")
	assert.Empty(t, cache.invalidated, "no invalidation without a commit")
}

func TestCreateBookingRetriesOnceOnConflict(t *testing.T) {
	finder := &fakeFinder{rooms: []model.Room{{ID: 3, Type: "DELUXE", IsAvailable: true}}}
	store := &fakeStore{reserveErr: []error{repository.ErrRoomTaken, nil}}
	cache := &fakeCache{}

	svc := NewReservationService(finder, store, WithCache(cache))
	conf, err := svc.CreateBooking(context.Background(), newRequest(9))

	require.NoError(t, err)
	assert.Equal(t, 2, finder.calls, "second attempt re-runs the find")
	assert.Equal(t, uint64(3), conf.RoomID)
	assert.Equal(t, []uint64{9}, cache.invalidated)
}

func TestCreateBookingGivesUpAfterSecondConflict(t *testing.T) {
	finder := &fakeFinder{rooms: []model.Room{{ID: 3, Type: "DELUXE", IsAvailable: true}}}
	store := &fakeStore{reserveErr: []error{repository.ErrRoomTaken, repository.ErrRoomTaken}}
	cache := &fakeCache{}

	svc := NewReservationService(finder, store, WithCache(cache))
	_, err := svc.CreateBooking(context.Background(), newRequest(9))

	require.ErrorIs(t, err, repository.ErrRoomTaken)
	assert.Equal(t, 2, finder.calls)
	assert.Empty(t, cache.invalidated)
}

func TestCreateBookingPublishesAfterCommit(t *testing.T) {
	finder := &fakeFinder{rooms: []model.Room{{ID: 5, Type: "SINGLE", PriceCents: 8000, IsAvailable: true}}}
	store := &fakeStore{}

	var published atomic.Int32
	var got queue.BookingConfirmedEvent
	pub := func(ctx context.Context, ev queue.BookingConfirmedEvent) error {
		published.Add(1)
		got = ev
		return nil
	}

	svc := NewReservationService(finder, store, WithPublisher(pub))
	req := newRequest(11)
	req.RoomType = "SINGLE"
	conf, err := svc.CreateBooking(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int32(1), published.Load())
	assert.Equal(t, conf.BookingID, got.BookingID)
	assert.Equal(t, uint64(11), got.UserID)
	assert.Equal(t, "SINGLE", got.RoomType)
}

func TestCreateBookingSideEffectsSurviveCanceledRequest(t *testing.T) {
	finder := &fakeFinder{rooms: []model.Room{{ID: 7, Type: "DELUXE", IsAvailable: true}}}
	store := &fakeStore{}
	cache := &fakeCache{}

	var pubCtxErr error
	pub := func(ctx context.Context, ev queue.BookingConfirmedEvent) error {
		pubCtxErr = ctx.Err()
		return nil
	}

	svc := NewReservationService(finder, store, WithCache(cache), WithPublisher(pub))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.CreateBooking(ctx, newRequest(42))

	require.NoError(t, err)
	assert.NoError(t, pubCtxErr, "publish runs on a context detached from the request")
	assert.Equal(t, []uint64{42}, cache.invalidated, "invalidation still happens after the client is gone")
}

func TestCreateBookingPublishFailureDoesNotFailBooking(t *testing.T) {
	finder := &fakeFinder{rooms: []model.Room{{ID: 5, Type: "SINGLE", IsAvailable: true}}}
	store := &fakeStore{}
	pub := func(ctx context.Context, ev queue.BookingConfirmedEvent) error {
		return assert.AnError
	}

	svc := NewReservationService(finder, store, WithPublisher(pub))
	req := newRequest(11)
	req.RoomType = "SINGLE"
	_, err := svc.CreateBooking(context.Background(), req)

	require.NoError(t, err)
}

// Two goroutines race for a single room; the store claims it atomically,
// so exactly one booking must succeed and the other must see the
// conflict after its retry.
func TestCreateBookingConcurrentSingleRoom(t *testing.T) {
	finder := &fakeFinder{rooms: []model.Room{{ID: 1, Type: "DELUXE", IsAvailable: true}}}
	store := &fakeStore{}

	svc := NewReservationService(finder, store)

	var wg sync.WaitGroup
	var successes, conflicts atomic.Int32
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(uid uint64) {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), newRequest(uid))
			switch {
			case err == nil:
				successes.Add(1)
			case err == repository.ErrRoomTaken:
				conflicts.Add(1)
			}
		}(uint64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load(), "exactly one booking wins the room")
	assert.Equal(t, int32(1), conflicts.Load())
}

func TestGetHistoryPaginationMetadata(t *testing.T) {
	entries := make([]model.BookingHistoryEntry, 12)
	for i := range entries {
		entries[i] = model.BookingHistoryEntry{BookingID: uint64(i + 1), UserID: 42}
	}
	store := &fakeStore{history: entries}
	svc := NewReservationService(&fakeFinder{}, store)

	res, err := svc.GetHistory(context.Background(), 42, 3, 5)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Page)
	assert.Equal(t, 5, res.PageSize)
	assert.Equal(t, 12, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.Records, 2, "last page holds the remainder")
	assert.Equal(t, uint64(11), res.Records[0].BookingID)
}

func TestGetHistoryClampsPageAndUsesDefaultSize(t *testing.T) {
	store := &fakeStore{history: []model.BookingHistoryEntry{{BookingID: 1}}}
	svc := NewReservationService(&fakeFinder{}, store, WithDefaultPageSize(5))

	res, err := svc.GetHistory(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 5, res.PageSize)
}

func TestGetHistoryReadsThroughCacheWhenAttached(t *testing.T) {
	store := &fakeStore{history: []model.BookingHistoryEntry{{BookingID: 1}}}
	cache := &fakeCache{pages: map[string][]model.BookingHistoryEntry{
		"page": {{BookingID: 99}},
	}}
	svc := NewReservationService(&fakeFinder{}, store, WithCache(cache))

	res, err := svc.GetHistory(context.Background(), 1, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.getCalls)
	require.Len(t, res.Records, 1)
	assert.Equal(t, uint64(99), res.Records[0].BookingID)
	assert.Equal(t, 1, res.TotalCount, "count always comes from the store")
}
