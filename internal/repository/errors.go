// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// reservation service and handlers to distinguish between different
// failure scenarios without matching on error strings.
package repository

import "errors"

// ErrNoRoomAvailable is returned by RoomRepo.FindAvailable when no room
// of the requested type currently has its availability flag set.  This is
// an expected outcome ("no inventory"), not a fault.
var ErrNoRoomAvailable = errors.New("no room of the requested type is available")

// ErrRoomTaken is returned by BookingRepo.Reserve when the guarded
// availability update matched zero rows, meaning another transaction
// claimed the room between the advisory read and the commit.  The
// reservation service retries once on this error before surfacing it.
var ErrRoomTaken = errors.New("room already taken")

// ErrRoomNotFound is returned when a room lookup by id matches nothing.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when a booking lookup matches nothing
// for the requesting user.  Ownership is folded into the lookup query, so
// "someone else's booking" and "no such booking" are indistinguishable.
var ErrBookingNotFound = errors.New("booking not found")
