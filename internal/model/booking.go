package model

import "time"

// Booking statuses.  A booking is written once with StatusConfirmed and
// never mutated afterwards; cancellation and checkout transitions are not
// part of this service.
const (
	StatusBooked    = "BOOKED"
	StatusConfirmed = "CONFIRMED"
)

// Booking records a user's reservation of a single room.  The room type
// is denormalized at booking time so history stays meaningful even if the
// catalog renames a category later.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – user who made the booking.
//  RoomID       – room held by this booking.
//  RoomType     – room category at booking time.
//  Reference    – confirmation reference returned to the client.
//  BookingDate  – check-in date.
//  CheckoutDate – checkout date, if one was given.
//  Status       – state of the booking (BOOKED, CONFIRMED).
//  CreatedAt    – creation timestamp.
type Booking struct {
	ID           uint64     `json:"id"`                      // bookings.id
	UserID       uint64     `json:"user_id"`                 // bookings.user_id
	RoomID       uint64     `json:"room_id"`                 // bookings.room_id
	RoomType     string     `json:"room_type"`               // bookings.room_type
	Reference    string     `json:"reference"`               // bookings.reference
	BookingDate  time.Time  `json:"booking_date"`            // bookings.booking_date
	CheckoutDate *time.Time `json:"checkout_date,omitempty"` // bookings.checkout_date (nullable)
	Status       string     `json:"status"`                  // bookings.status
	CreatedAt    time.Time  `json:"created_at"`              // bookings.created_at
}

// BookingHistoryEntry is one row of a user's paginated booking history,
// with the room's current type joined in for display.
type BookingHistoryEntry struct {
	BookingID    uint64  `json:"booking_id"`
	UserID       uint64  `json:"user_id"`
	RoomID       uint64  `json:"room_id"`
	RoomType     string  `json:"room_type"`
	Reference    string  `json:"reference"`
	BookingDate  string  `json:"booking_date"`
	CheckoutDate *string `json:"checkout_date,omitempty"`
	Status       string  `json:"status"`
}
