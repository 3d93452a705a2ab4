package model

import "time"

// Room statuses are kept on a single availability flag rather than an
// enum: a room is either free or held by an active booking.  The flag is
// flipped exclusively inside the reservation transaction.
//
// Fields:
//  ID          – primary key identifier.
//  Type        – room category ("Single", "Double", ...).
//  PriceCents  – nightly price in cents.
//  IsAvailable – true when no active booking holds the room.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Room struct {
	ID          uint64    `json:"id"`           // rooms.id
	Type        string    `json:"type"`         // rooms.type
	PriceCents  uint32    `json:"price_cents"`  // rooms.price_cents
	IsAvailable bool      `json:"is_available"` // rooms.is_available
	CreatedAt   time.Time `json:"created_at"`   // rooms.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // rooms.updated_at
}
