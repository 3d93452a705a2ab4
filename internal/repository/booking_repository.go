package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// BookingRepo provides the reservation transaction and read access to a
// user's booking history.  All timestamp fields are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingRecord mirrors the schema of the bookings table.  It is used by
// the repository when constructing or scanning rows; business logic should
// use model.Booking instead.
type BookingRecord struct {
	ID           uint64
	UserID       uint64
	RoomID       uint64
	RoomType     string
	Reference    string
	BookingDate  time.Time
	CheckoutDate *time.Time
	Status       string
	CreatedAt    time.Time
}

// Reserve atomically inserts a booking row and claims the room it refers
// to.  Both statements run in a single transaction so the booking and the
// room's availability flag can never diverge, even across a process crash
// between the two writes.
//
// The room update is guarded: it only applies while is_available is still
// set.  Zero affected rows means another transaction claimed the room
// after the caller's advisory read; the whole transaction is rolled back
// and ErrRoomTaken is returned.  That affected-row check is the sole
// mutual-exclusion point for a room — no lock is held across the
// find-then-reserve span.
//
// On success the generated booking id is populated on rec and the
// transaction is committed.  Every other failure rolls back and is
// wrapped so callers can surface the underlying cause.
func (r *BookingRepo) Reserve(ctx context.Context, rec *BookingRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reservation: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO bookings (user_id, room_id, room_type, reference, booking_date, checkout_date, status)
	             VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		rec.UserID, rec.RoomID, rec.RoomType, rec.Reference,
		rec.BookingDate, rec.CheckoutDate, rec.Status)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	const claim = `UPDATE rooms SET is_available = 0 WHERE id = ? AND is_available = 1`
	res, err = tx.ExecContext(ctx, claim, rec.RoomID)
	if err != nil {
		return fmt.Errorf("claim room %d: %w", rec.RoomID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim room %d: %w", rec.RoomID, err)
	}
	if n == 0 {
		return ErrRoomTaken
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reservation: %w", err)
	}
	committed = true
	rec.ID = uint64(id)
	return nil
}

// HistoryPage returns one page of a user's bookings ordered by booking
// date ascending, joined to rooms for the current room type.  An empty
// page is a normal result, not an error.
func (r *BookingRepo) HistoryPage(ctx context.Context, userID uint64, offset, limit int) ([]model.BookingHistoryEntry, error) {
	const q = `SELECT b.id, b.user_id, b.room_id, r.type, b.reference, b.booking_date, b.checkout_date, b.status
	           FROM bookings b
	           JOIN rooms r ON r.id = b.room_id
	           WHERE b.user_id = ?
	           ORDER BY b.booking_date, b.id
	           LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.BookingHistoryEntry, 0, limit)
	for rows.Next() {
		var (
			e        model.BookingHistoryEntry
			booked   time.Time
			checkout sql.NullTime
		)
		if err := rows.Scan(&e.BookingID, &e.UserID, &e.RoomID, &e.RoomType, &e.Reference, &booked, &checkout, &e.Status); err != nil {
			return nil, err
		}
		e.BookingDate = booked.UTC().Format(time.RFC3339)
		if checkout.Valid {
			iso := checkout.Time.UTC().Format(time.RFC3339)
			e.CheckoutDate = &iso
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByUser returns the total number of bookings a user has made.
func (r *BookingRepo) CountByUser(ctx context.Context, userID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE user_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// GetByIDForUser returns a single booking owned by the given user.
// Returns ErrBookingNotFound when the booking does not exist or belongs
// to someone else; ownership is enforced in the query so the two cases
// are indistinguishable to the caller.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (model.Booking, error) {
	const q = `SELECT id, user_id, room_id, room_type, reference, booking_date, checkout_date, status, created_at
	           FROM bookings WHERE id = ? AND user_id = ?`
	var (
		b        model.Booking
		checkout sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.RoomType, &b.Reference,
		&b.BookingDate, &checkout, &b.Status, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	if checkout.Valid {
		t := checkout.Time
		b.CheckoutDate = &t
	}
	return b, nil
}
