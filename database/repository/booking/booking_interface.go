package bookingRepo

import (
	"context"
	"errors"
	"time"

	"parkly/models"
)

// ErrConflict is returned when the atomic reserve/cancel unit loses a
// race: a guarded update inside the transaction matched no document.
var ErrConflict = errors.New("booking transaction conflict")

// BookingRepository abstracts persistence for bookings, including the
// multi-document atomic units that make concurrent reservation safe.
type BookingRepository interface {
	GetByID(id string) (*models.Booking, error)
	ListByClient(clientID string) ([]models.Booking, error)
	ListByFacility(facilityID string, day *time.Time) ([]models.Booking, error)

	// HasOverlap reports whether any non-cancelled booking on the space
	// intersects the half-open window [start, end).
	HasOverlap(spaceID string, start, end time.Time) (bool, error)

	// UpdateStatus transitions a booking from expected to next with
	// compare-and-swap semantics; ErrConflict when the booking is no
	// longer in the expected status.
	UpdateStatus(bookingID, expected, next string) error

	// SetPayment records the reference supplied by the payment collaborator.
	SetPayment(bookingID string, payment models.Payment) error

	// ReserveAtomically commits the three-way reservation unit: insert
	// the booking, CAS the space free -> reserved, and decrement the
	// facility's available capacity (guarded to stay >= 0). All three
	// apply together or not at all; a lost race yields ErrConflict.
	ReserveAtomically(ctx context.Context, booking *models.Booking) error

	// CancelAtomically commits the cancellation unit: booking
	// confirmed -> cancelled, space reserved/occupied -> free, capacity
	// incremented capped at capacityTotal. ErrConflict when the booking
	// was no longer in a cancellable state, which callers treat as an
	// idempotent repeat.
	CancelAtomically(ctx context.Context, booking *models.Booking) error

	// CompleteAtomically commits the completion unit: booking
	// inProgress -> completed, space occupied -> free, capacity
	// incremented capped at capacityTotal.
	CompleteAtomically(ctx context.Context, booking *models.Booking) error
}
