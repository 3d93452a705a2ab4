// Package queue defines message payloads exchanged over the message
// broker, the publisher used by the reservation service, and the
// background consumer that records confirmed bookings.
package queue

// BookingConfirmedEvent is published after a reservation transaction
// commits.  It carries enough for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID    uint64 `json:"booking_id"`
	UserID       uint64 `json:"user_id"`
	RoomID       uint64 `json:"room_id"`
	RoomType     string `json:"room_type"`
	PriceCents   uint32 `json:"price_cents"`
	Reference    string `json:"reference"`
	BookingDate  string `json:"booking_date"`
	CheckoutDate string `json:"checkout_date,omitempty"`
	ConfirmedAt  string `json:"confirmed_at"`
}
