package booking

import (
	"time"

	"parkly/database/repository"
)

// AvailabilityChecker tests a candidate space for interval conflicts.
// It is a pre-filter only: the authoritative guarantee is the atomic
// reservation unit, because a bare check-then-act sequence is
// race-prone under concurrent demand.
type AvailabilityChecker struct {
	Repo repository.BookingRepository
}

// Overlaps reports whether any non-cancelled booking on the space
// intersects the half-open window [start, end).
func (c *AvailabilityChecker) Overlaps(spaceID string, start, end time.Time) (bool, error) {
	return c.Repo.HasOverlap(spaceID, start, end)
}
