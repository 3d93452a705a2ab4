// Package service implements the reservation engine: finding an
// available room, converting that availability into a committed booking,
// and keeping the cached booking history consistent with the write path.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// RoomFinder supplies one currently-available room of a type.  The read
// is advisory; only the reservation transaction claims anything.
// Implemented by repository.RoomRepo.
type RoomFinder interface {
	FindAvailable(ctx context.Context, roomType string) (model.Room, error)
}

// ReservationStore is the write path and the authoritative read path for
// bookings.  Implemented by repository.BookingRepo.
type ReservationStore interface {
	Reserve(ctx context.Context, rec *repository.BookingRecord) error
	HistoryPage(ctx context.Context, userID uint64, offset, limit int) ([]model.BookingHistoryEntry, error)
	CountByUser(ctx context.Context, userID uint64) (int, error)
}

// HistoryCache is the derived read-side accelerator for booking history.
// Implemented by cache.HistoryCache; may be absent entirely.
type HistoryCache interface {
	GetPage(ctx context.Context, userID uint64, offset, pageSize int) ([]model.BookingHistoryEntry, error)
	Invalidate(ctx context.Context, userID uint64)
}

// EventPublisher pushes a booking-confirmed event to the broker.  Best
// effort: failures are logged and never fail the booking.
type EventPublisher func(ctx context.Context, ev queue.BookingConfirmedEvent) error

// BookingRequest carries an already-authenticated user's intent to book
// one room of a type.  Authentication happens at the HTTP boundary.
type BookingRequest struct {
	UserID       uint64
	RoomType     string
	BookingDate  time.Time
	CheckoutDate *time.Time
}

// BookingConfirmation is returned when a reservation commits.
type BookingConfirmation struct {
	BookingID  uint64 `json:"booking_id"`
	RoomID     uint64 `json:"room_id"`
	RoomType   string `json:"room_type"`
	PriceCents uint32 `json:"price_cents"`
	Reference  string `json:"reference"`
}

// HistoryPage is one page of booking history plus pagination metadata.
type HistoryPage struct {
	Records    []model.BookingHistoryEntry `json:"records"`
	Page       int                         `json:"page"`
	PageSize   int                         `json:"page_size"`
	TotalPages int                         `json:"total_pages"`
	TotalCount int                         `json:"total_count"`
}

// ReservationService composes finder, store and cache into the two
// externally visible operations: create a booking and read history.
type ReservationService struct {
	rooms    RoomFinder
	bookings ReservationStore
	cache    HistoryCache   // nil disables caching, reads go straight to the store
	publish  EventPublisher // nil disables events

	storeTimeout    time.Duration
	defaultPageSize int
}

// Option configures a ReservationService.
type Option func(*ReservationService)

// WithCache attaches the history cache.
func WithCache(c HistoryCache) Option { return func(s *ReservationService) { s.cache = c } }

// WithPublisher attaches the booking-confirmed event publisher.
func WithPublisher(p EventPublisher) Option { return func(s *ReservationService) { s.publish = p } }

// WithStoreTimeout bounds each store attempt.  Zero keeps the default.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *ReservationService) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

// WithDefaultPageSize sets the page size used when a history request
// does not specify one.
func WithDefaultPageSize(n int) Option {
	return func(s *ReservationService) {
		if n > 0 {
			s.defaultPageSize = n
		}
	}
}

// NewReservationService wires the reservation engine.  rooms and
// bookings must be non-nil.
func NewReservationService(rooms RoomFinder, bookings ReservationStore, opts ...Option) *ReservationService {
	if rooms == nil || bookings == nil {
		panic("nil dependency passed to NewReservationService")
	}
	s := &ReservationService{
		rooms:           rooms,
		bookings:        bookings,
		storeTimeout:    5 * time.Second,
		defaultPageSize: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking finds an available room of the requested type and
// reserves it.  When the guarded update loses the race for the chosen
// room it retries the find-and-reserve sequence exactly once, giving a
// second candidate a chance under contention without unbounded retry
// load.  Returns repository.ErrNoRoomAvailable when the type has no
// inventory and repository.ErrRoomTaken when both attempts lost the
// race.
//
// Side effects are strictly ordered: cache invalidation and event
// publication happen only after the transaction has committed.  Neither
// can fail the booking.
func (s *ReservationService) CreateBooking(ctx context.Context, req BookingRequest) (BookingConfirmation, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		conf, err := s.tryReserve(ctx, req)
		if err == nil {
			// Detached from the request: a client disconnect right after
			// commit must not cancel invalidation or the event.
			s.afterCommit(context.WithoutCancel(ctx), req, conf)
			return conf, nil
		}
		if !errors.Is(err, repository.ErrRoomTaken) {
			return BookingConfirmation{}, err
		}
		lastErr = err
	}
	return BookingConfirmation{}, lastErr
}

func (s *ReservationService) tryReserve(ctx context.Context, req BookingRequest) (BookingConfirmation, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	room, err := s.rooms.FindAvailable(opCtx, req.RoomType)
	if err != nil {
		return BookingConfirmation{}, err
	}

	rec := repository.BookingRecord{
		UserID:       req.UserID,
		RoomID:       room.ID,
		RoomType:     room.Type,
		Reference:    uuid.NewString(),
		BookingDate:  req.BookingDate.UTC(),
		CheckoutDate: req.CheckoutDate,
		Status:       model.StatusConfirmed,
	}
	if err := s.bookings.Reserve(opCtx, &rec); err != nil {
		return BookingConfirmation{}, err
	}
	return BookingConfirmation{
		BookingID:  rec.ID,
		RoomID:     room.ID,
		RoomType:   room.Type,
		PriceCents: room.PriceCents,
		Reference:  rec.Reference,
	}, nil
}

func (s *ReservationService) afterCommit(ctx context.Context, req BookingRequest, conf BookingConfirmation) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, req.UserID)
	}
	if s.publish != nil {
		ev := queue.BookingConfirmedEvent{
			BookingID:   conf.BookingID,
			UserID:      req.UserID,
			RoomID:      conf.RoomID,
			RoomType:    conf.RoomType,
			PriceCents:  conf.PriceCents,
			Reference:   conf.Reference,
			BookingDate: req.BookingDate.UTC().Format(time.RFC3339),
			ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if req.CheckoutDate != nil {
			ev.CheckoutDate = req.CheckoutDate.UTC().Format(time.RFC3339)
		}
		if err := s.publish(ctx, ev); err != nil {
			log.Printf("reservation: publish booking.confirmed for booking %d: %v", conf.BookingID, err)
		}
	}
}

// GetHistory returns one page of the user's booking history along with
// pagination metadata.  Pages come from the cache when one is attached;
// the total count always comes from the store, since it changes on every
// booking and is cheap to recompute.
func (s *ReservationService) GetHistory(ctx context.Context, userID uint64, page, pageSize int) (HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	offset := (page - 1) * pageSize

	opCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	var (
		records []model.BookingHistoryEntry
		err     error
	)
	if s.cache != nil {
		records, err = s.cache.GetPage(opCtx, userID, offset, pageSize)
	} else {
		records, err = s.bookings.HistoryPage(opCtx, userID, offset, pageSize)
	}
	if err != nil {
		return HistoryPage{}, err
	}

	total, err := s.bookings.CountByUser(opCtx, userID)
	if err != nil {
		return HistoryPage{}, err
	}

	return HistoryPage{
		Records:    records,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
		TotalCount: total,
	}, nil
}
