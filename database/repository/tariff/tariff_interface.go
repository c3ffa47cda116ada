package tariffRepo

import (
	"time"

	"parkly/models"
)

// TariffRepository abstracts persistence for tariff records. Records
// are append-only once priced history references them; there is no
// destructive update.
type TariffRepository interface {
	Create(record *models.TariffRecord) error
	GetByID(id string) (*models.TariffRecord, error)
	List(facilityID, spaceType string, activeOnly bool) ([]models.TariffRecord, error)

	// Resolve returns the record effective at asOf for the facility and
	// space type, or nil when none covers that instant. When several
	// records overlap (a data anomaly), the one with the latest
	// effectiveFrom wins.
	Resolve(facilityID, spaceType string, asOf time.Time) (*models.TariffRecord, error)
}
