package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"parkly/config"
	"parkly/database/repository"
	bookingRepo "parkly/database/repository/booking"
	spaceRepo "parkly/database/repository/space"
	"parkly/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCoordinator implements Coordinator.
type DefaultCoordinator struct {
	FacilityRepo repository.FacilityRepository
	SpaceRepo    repository.SpaceRepository
	BookingRepo  repository.BookingRepository
	Tariffs      *TariffResolver
	Availability *AvailabilityChecker
	Lifecycle    LifecycleScheduler
	Logger       *zap.Logger
}

func (c *DefaultCoordinator) searchRadiusMeters() float64 {
	radiusKm := config.AppConfig.SearchRadiusKm
	if radiusKm <= 0 {
		radiusKm = 5
	}
	return radiusKm * 1000
}

func (c *DefaultCoordinator) candidateLimit() int {
	if limit := config.AppConfig.CandidateLimit; limit > 0 {
		return limit
	}
	return 3
}

func (c *DefaultCoordinator) cancellationLead() time.Duration {
	hours := config.AppConfig.CancellationLeadHrs
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// CreateBooking walks the candidate list and attempts the atomic
// reservation unit on each in turn. A lost race discards the candidate;
// exhausting the list yields NoAvailabilityError. The retry budget is
// therefore bounded by the candidate limit.
func (c *DefaultCoordinator) CreateBooking(ctx context.Context, input models.BookingRequestInput) (*models.BookingResponse, error) {
	if err := ValidateRequest(input); err != nil {
		return nil, err
	}

	point := models.NewGeoPoint(input.Location.Lon, input.Location.Lat)
	candidates, err := c.FacilityRepo.NearestAvailable(point, c.searchRadiusMeters(), input.SpaceType, c.candidateLimit())
	if err != nil {
		return nil, fmt.Errorf("candidate search failed: %w", err)
	}
	if len(candidates) == 0 {
		return nil, &NoAvailabilityError{Message: "no open facility with a matching free space in range"}
	}

	for _, candidate := range candidates {
		resp, err := c.tryReserve(ctx, candidate, input)
		if err == nil {
			return resp, nil
		}
		if !discardsCandidate(err) {
			return nil, err
		}
		c.Logger.Debug("candidate discarded",
			zap.String("facility", candidate.ID),
			zap.Error(err))
	}

	return nil, &NoAvailabilityError{Message: "all candidate facilities lost to concurrent demand or lacked a usable space"}
}

// discardsCandidate decides whether a reserve failure moves on to the
// next candidate. Only contention on this candidate qualifies: a lost
// reservation race, no usable space, or no tariff covering the window.
// Anything else (store failures, data defects) surfaces to the caller.
func discardsCandidate(err error) bool {
	if errors.Is(err, bookingRepo.ErrConflict) {
		return true
	}
	var noAvail *NoAvailabilityError
	if errors.As(err, &noAvail) {
		return true
	}
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// tryReserve prices and commits one candidate. Tariff resolution and
// total computation happen before the commit so the booking carries a
// frozen snapshot; tariff changes after this point never touch it.
func (c *DefaultCoordinator) tryReserve(ctx context.Context, candidate models.FacilityCandidate, input models.BookingRequestInput) (*models.BookingResponse, error) {
	space, err := c.SpaceRepo.FreeSpace(candidate.ID, input.SpaceType)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, &NoAvailabilityError{Message: "no free space left at facility " + candidate.ID}
	}

	// Pre-filter; the transaction below is what actually guarantees
	// exclusivity.
	busy, err := c.Availability.Overlaps(space.ID, input.WindowStart, input.WindowEnd)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, &NoAvailabilityError{Message: "space " + space.ID + " has an overlapping booking"}
	}

	now := time.Now()
	record, err := c.Tariffs.Resolve(candidate.ID, input.SpaceType, now)
	if err != nil {
		return nil, err
	}
	rate, err := RateFor(record, input.BookingType)
	if err != nil {
		return nil, err
	}
	total := ComputeTotal(rate, input.WindowStart, input.WindowEnd, input.BookingType)

	booking := &models.Booking{
		ID:            uuid.New().String(),
		ClientID:      input.ClientID,
		FacilityID:    candidate.ID,
		SpaceID:       space.ID,
		WindowStart:   input.WindowStart,
		WindowEnd:     input.WindowEnd,
		BookingType:   input.BookingType,
		AppliedTariff: Snapshot(record, input.BookingType, rate, now),
		TotalAmount:   total,
		Status:        models.BookingConfirmed,
	}

	if err := c.BookingRepo.ReserveAtomically(ctx, booking); err != nil {
		return nil, err
	}

	if c.Lifecycle != nil {
		if err := c.Lifecycle.ScheduleTransitions(booking); err != nil {
			c.Logger.Warn("failed to schedule lifecycle transitions",
				zap.String("booking", booking.ID), zap.Error(err))
		}
	}

	c.Logger.Info("booking confirmed",
		zap.String("booking", booking.ID),
		zap.String("facility", candidate.ID),
		zap.String("space", space.ID),
		zap.Float64("total", total))

	return &models.BookingResponse{
		BookingID:    booking.ID,
		FacilityName: candidate.Name,
		DistanceKm:   math.Round(candidate.DistanceMeters/10) / 100,
		SpaceLabel:   space.Label,
		TotalAmount:  total,
	}, nil
}

// CancelBooking frees the booking's space if the requester owns it and
// the lead-time policy allows. Repeating a cancellation is a no-op.
func (c *DefaultCoordinator) CancelBooking(ctx context.Context, bookingID, requesterID string) error {
	booking, err := c.BookingRepo.GetByID(bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return &NotFoundError{Resource: "booking", ID: bookingID}
	}
	if booking.ClientID != requesterID {
		return &NotOwnerError{BookingID: bookingID}
	}
	if booking.Status == models.BookingCancelled {
		return nil
	}
	if booking.Status != models.BookingConfirmed {
		return NewValidationError("booking %s is %s and can no longer be cancelled", bookingID, booking.Status)
	}
	if lead := c.cancellationLead(); time.Now().After(booking.WindowStart.Add(-lead)) {
		return &TooLateError{Message: fmt.Sprintf("cancellation closes %s before the window starts", lead)}
	}

	if err := c.BookingRepo.CancelAtomically(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrConflict) {
			// Raced with another cancellation of the same booking; the
			// unit already applied exactly once.
			return nil
		}
		return err
	}

	c.Logger.Info("booking cancelled",
		zap.String("booking", bookingID),
		zap.String("space", booking.SpaceID))
	return nil
}

// GetBooking retrieves a booking by id.
func (c *DefaultCoordinator) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := c.BookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, &NotFoundError{Resource: "booking", ID: bookingID}
	}
	return booking, nil
}

// ListClientBookings retrieves a client's bookings.
func (c *DefaultCoordinator) ListClientBookings(ctx context.Context, clientID string) ([]models.Booking, error) {
	return c.BookingRepo.ListByClient(clientID)
}

// ListFacilityBookings retrieves a facility's bookings, optionally for one day.
func (c *DefaultCoordinator) ListFacilityBookings(ctx context.Context, facilityID string, day *time.Time) ([]models.Booking, error) {
	return c.BookingRepo.ListByFacility(facilityID, day)
}

// RecordPayment stores the reference handed back by the payment
// collaborator. The coordinator never initiates capture.
func (c *DefaultCoordinator) RecordPayment(ctx context.Context, bookingID string, payment models.Payment) error {
	booking, err := c.BookingRepo.GetByID(bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return &NotFoundError{Resource: "booking", ID: bookingID}
	}
	return c.BookingRepo.SetPayment(bookingID, payment)
}

// StartBooking moves a confirmed booking into progress once its window
// opens. A conflict means the booking was cancelled first; that is fine.
func (c *DefaultCoordinator) StartBooking(ctx context.Context, bookingID string) error {
	booking, err := c.BookingRepo.GetByID(bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return &NotFoundError{Resource: "booking", ID: bookingID}
	}

	err = c.BookingRepo.UpdateStatus(bookingID, models.BookingConfirmed, models.BookingInProgress)
	if errors.Is(err, bookingRepo.ErrConflict) {
		return nil
	}
	if err != nil {
		return err
	}
	// The car is (expected to be) in the space now.
	if err := c.SpaceRepo.SetStatus(booking.SpaceID, models.SpaceReserved, models.SpaceOccupied); err != nil &&
		!errors.Is(err, spaceRepo.ErrConflict) {
		return err
	}
	return nil
}

// CompleteBooking closes a booking whose window has ended, freeing the
// space and returning its capacity unit in one atomic unit.
func (c *DefaultCoordinator) CompleteBooking(ctx context.Context, bookingID string) error {
	booking, err := c.BookingRepo.GetByID(bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return &NotFoundError{Resource: "booking", ID: bookingID}
	}

	err = c.BookingRepo.CompleteAtomically(ctx, booking)
	if errors.Is(err, bookingRepo.ErrConflict) {
		return nil
	}
	return err
}
