package catalog

import (
	"time"

	"parkly/models"
)

// Service covers the administrative surface of the catalog: creating
// facilities, spaces and tariff records, and reading them back. It is
// thin glue around the repositories; the booking flow never goes
// through it.
type Service interface {
	CreateFacility(facility *models.Facility) error
	GetFacility(id string) (*models.Facility, error)
	ListFacilities() ([]models.Facility, error)
	ImportFacilities(text string) (int, error)
	NearbyFacilities(point models.GeoPoint, radiusKm float64, spaceType string, limit int) ([]models.FacilityCandidate, error)

	CreateSpace(space *models.Space) error
	ListSpaces(facilityID string) ([]models.Space, error)

	CreateTariff(record *models.TariffRecord) error
	ListTariffs(facilityID, spaceType string, activeOnly bool) ([]models.TariffRecord, error)
	GetTariff(id string) (*models.TariffRecord, error)
	ResolveTariff(facilityID, spaceType string, asOf time.Time) (*models.TariffRecord, error)
}
