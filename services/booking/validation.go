package booking

import (
	"parkly/models"
)

// ValidateRequest checks a booking request before any store access.
// Every violation maps to a ValidationError.
func ValidateRequest(input models.BookingRequestInput) error {
	point := models.NewGeoPoint(input.Location.Lon, input.Location.Lat)
	if !point.Valid() {
		return NewValidationError("coordinates must be a valid lon/lat pair, got (%v, %v)",
			input.Location.Lon, input.Location.Lat)
	}
	if !models.ValidSpaceType(input.SpaceType) {
		return NewValidationError("unknown space type %q", input.SpaceType)
	}
	if !models.ValidBookingType(input.BookingType) {
		return NewValidationError("unknown booking type %q", input.BookingType)
	}
	if input.WindowStart.IsZero() || input.WindowEnd.IsZero() {
		return NewValidationError("windowStart and windowEnd are required")
	}
	if !input.WindowEnd.After(input.WindowStart) {
		return NewValidationError("windowEnd must be after windowStart")
	}
	if min := MinimumDuration(input.BookingType); input.WindowEnd.Sub(input.WindowStart) < min {
		return NewValidationError("%s bookings must last at least %s", input.BookingType, min)
	}
	return nil
}
