package booking

import (
	"context"
	"time"

	"parkly/models"
)

// Coordinator owns the booking state machine: candidate selection,
// atomic reservation, pricing, cancellation and lifecycle transitions.
type Coordinator interface {
	CreateBooking(ctx context.Context, input models.BookingRequestInput) (*models.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID, requesterID string) error
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListClientBookings(ctx context.Context, clientID string) ([]models.Booking, error)
	ListFacilityBookings(ctx context.Context, facilityID string, day *time.Time) ([]models.Booking, error)
	RecordPayment(ctx context.Context, bookingID string, payment models.Payment) error

	// Lifecycle transitions, driven by the background worker.
	StartBooking(ctx context.Context, bookingID string) error
	CompleteBooking(ctx context.Context, bookingID string) error
}

// LifecycleScheduler enqueues the deferred status transitions for a
// freshly confirmed booking (start at windowStart, completion at
// windowEnd). Scheduling is best effort and never blocks confirmation.
type LifecycleScheduler interface {
	ScheduleTransitions(booking *models.Booking) error
}
