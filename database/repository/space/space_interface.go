package spaceRepo

import (
	"errors"

	"parkly/models"
)

// ErrConflict is returned when a compare-and-swap status transition
// finds the space in a different state than expected.
var ErrConflict = errors.New("space status conflict")

// SpaceRepository abstracts persistence for individual parking spaces.
type SpaceRepository interface {
	Create(space *models.Space) error
	GetByID(id string) (*models.Space, error)
	ListByFacility(facilityID string) ([]models.Space, error)

	// FreeSpace returns one free space of the given type in the facility,
	// or nil when none exists. The result is a candidate; the status may
	// have changed by the time a transition is attempted.
	FreeSpace(facilityID, spaceType string) (*models.Space, error)

	// SetStatus transitions a space from expected to next. It fails with
	// ErrConflict unless the space's status equals expected at commit time.
	SetStatus(spaceID, expected, next string) error
}
