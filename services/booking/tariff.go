package booking

import (
	"time"

	"parkly/database/repository"
	"parkly/models"
)

// TariffResolver resolves the price schedule effective at an instant.
type TariffResolver struct {
	Repo repository.TariffRepository
}

// Resolve returns the tariff record covering asOf for the facility and
// space type. When several records overlap, the repository picks the
// one with the latest effectiveFrom. Fails with NotFoundError when no
// record covers the instant.
func (r *TariffResolver) Resolve(facilityID, spaceType string, asOf time.Time) (*models.TariffRecord, error) {
	record, err := r.Repo.Resolve(facilityID, spaceType, asOf)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &NotFoundError{Resource: "tariff for facility", ID: facilityID + "/" + spaceType}
	}
	return record, nil
}

// Snapshot freezes a resolved rate onto a booking. The snapshot, not
// the live record, is what prices the booking from then on.
func Snapshot(record *models.TariffRecord, bookingType string, rate float64, at time.Time) models.AppliedTariff {
	return models.AppliedTariff{
		Rate:           rate,
		BookingType:    bookingType,
		TariffRecordID: record.ID,
		ResolvedAt:     at,
	}
}
