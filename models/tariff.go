package models

import "time"

// TariffRecord is a time-bounded price schedule for a facility and
// space type. Records are never destructively updated once a booking
// references them; bookings keep a snapshot instead of a live link.
type TariffRecord struct {
	ID            string     `bson:"id" json:"id"`
	FacilityID    string     `bson:"facilityId" json:"facilityId"`
	SpaceType     string     `bson:"spaceType" json:"spaceType"`
	Description   string     `bson:"description,omitempty" json:"description,omitempty"`
	HourlyRate    float64    `bson:"hourlyRate" json:"hourlyRate"`
	DailyRate     *float64   `bson:"dailyRate,omitempty" json:"dailyRate,omitempty"`
	MonthlyRate   *float64   `bson:"monthlyRate,omitempty" json:"monthlyRate,omitempty"`
	ReducedRate   *float64   `bson:"reducedRate,omitempty" json:"reducedRate,omitempty"`
	EffectiveFrom time.Time  `bson:"effectiveFrom" json:"effectiveFrom"`
	EffectiveTo   *time.Time `bson:"effectiveTo,omitempty" json:"effectiveTo,omitempty"`
	CreatedBy     string     `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// ActiveAt reports whether the record covers the given instant.
func (t TariffRecord) ActiveAt(at time.Time) bool {
	if at.Before(t.EffectiveFrom) {
		return false
	}
	return t.EffectiveTo == nil || t.EffectiveTo.After(at)
}
