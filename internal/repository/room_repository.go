package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// RoomRepo provides catalog CRUD and availability lookups for rooms.
// The availability flag itself is only ever flipped by the reservation
// transaction in BookingRepo; everything here is either a plain catalog
// operation or an advisory read.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, type, price_cents, is_available, created_at, updated_at`

func scanRoom(row *sql.Row) (model.Room, error) {
	var rm model.Room
	err := row.Scan(&rm.ID, &rm.Type, &rm.PriceCents, &rm.IsAvailable, &rm.CreatedAt, &rm.UpdatedAt)
	return rm, err
}

// FindAvailable selects one room of the requested type whose availability
// flag is set.  The choice among candidates is arbitrary (LIMIT 1 with no
// ordering).  The read is advisory only: it narrows the candidate set but
// reserves nothing, so the returned room may already be claimed by the
// time the caller tries to commit.  Returns ErrNoRoomAvailable when no
// room of the type is free.
func (r *RoomRepo) FindAvailable(ctx context.Context, roomType string) (model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE type = ? AND is_available = 1 LIMIT 1`
	rm, err := scanRoom(r.db.QueryRowContext(ctx, q, roomType))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrNoRoomAvailable
	}
	if err != nil {
		return model.Room{}, err
	}
	return rm, nil
}

// GetByID fetches a single room.  Returns ErrRoomNotFound when the id
// matches nothing.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	rm, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrRoomNotFound
	}
	if err != nil {
		return model.Room{}, err
	}
	return rm, nil
}

// List returns the whole catalog ordered by id.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms ORDER BY id`
	return r.queryRooms(ctx, q)
}

// Search returns rooms whose type or price starts with the given query.
// It backs the catalog autocomplete box and has no concurrency contract.
func (r *RoomRepo) Search(ctx context.Context, query string) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms
	           WHERE LOWER(type) LIKE CONCAT(LOWER(?), '%')
	              OR CAST(price_cents AS CHAR) LIKE CONCAT(?, '%')
	           ORDER BY id`
	return r.queryRooms(ctx, q, query, query)
}

func (r *RoomRepo) queryRooms(ctx context.Context, q string, args ...interface{}) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.Type, &rm.PriceCents, &rm.IsAvailable, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a catalog room and populates the generated id.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (type, price_cents, is_available) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rm.Type, rm.PriceCents, rm.IsAvailable)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	return nil
}

// Update rewrites type, price and availability of a catalog room.
// Returns ErrRoomNotFound when the id matches nothing.
func (r *RoomRepo) Update(ctx context.Context, rm model.Room) error {
	const q = `UPDATE rooms SET type = ?, price_cents = ?, is_available = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, rm.Type, rm.PriceCents, rm.IsAvailable, rm.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "absent" from "updated to identical values".
		if _, err := r.GetByID(ctx, rm.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a catalog room.  Returns ErrRoomNotFound when the id
// matches nothing.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM rooms WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
