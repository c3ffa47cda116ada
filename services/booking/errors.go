package booking

import "fmt"

// ValidationError reports malformed input. Client-fixable, never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a referenced facility, space, tariff or
// booking does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NoAvailabilityError means the candidate list was exhausted without a
// successful reservation. Distinct from NotFoundError: the resources
// exist, none is free.
type NoAvailabilityError struct {
	Message string
}

func (e *NoAvailabilityError) Error() string {
	return fmt.Sprintf("no availability: %s", e.Message)
}

// ConfigurationError reports a server-side data defect: an active
// tariff exists but lacks the rate for the requested booking type.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s", e.Message)
}

// NotOwnerError reports a cancellation attempted by someone other than
// the booking's client.
type NotOwnerError struct {
	BookingID string
}

func (e *NotOwnerError) Error() string {
	return fmt.Sprintf("requester does not own booking %s", e.BookingID)
}

// TooLateError reports a cancellation inside the lead-time window.
type TooLateError struct {
	Message string
}

func (e *TooLateError) Error() string {
	return fmt.Sprintf("too late to cancel: %s", e.Message)
}
