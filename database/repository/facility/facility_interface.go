package facilityRepo

import "parkly/models"

// FacilityRepository abstracts persistence for parking facilities.
// Capacity counters are not mutated through this interface; they only
// move inside the booking repository's atomic unit, together with the
// space transition they account for.
type FacilityRepository interface {
	Create(facility *models.Facility) error
	CreateMany(facilities []models.Facility) error
	GetByID(id string) (*models.Facility, error)
	GetAll() ([]models.Facility, error)

	// NearestAvailable returns open facilities with spare capacity and at
	// least one free space of the requested type, within maxDistanceMeters
	// of point, ordered by ascending distance (ties broken by id). An
	// empty result is not an error. Results are candidates only and may
	// be stale by the time a reservation is attempted.
	NearestAvailable(point models.GeoPoint, maxDistanceMeters float64, spaceType string, limit int) ([]models.FacilityCandidate, error)
}
