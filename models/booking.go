package models

import "time"

// Booking status values. A booking is never deleted; cancellation and
// completion are status transitions.
const (
	BookingConfirmed  = "confirmed"
	BookingInProgress = "inProgress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

// Booking types.
const (
	BookingHourly  = "hourly"
	BookingDaily   = "daily"
	BookingMonthly = "monthly"
)

// ValidBookingType reports whether t is one of the known booking types.
func ValidBookingType(t string) bool {
	switch t {
	case BookingHourly, BookingDaily, BookingMonthly:
		return true
	}
	return false
}

// AppliedTariff is the frozen price snapshot taken when a booking is
// created or amended. Later tariff changes never alter it.
type AppliedTariff struct {
	Rate           float64   `bson:"rate" json:"rate"`
	BookingType    string    `bson:"bookingType" json:"bookingType"`
	TariffRecordID string    `bson:"tariffRecordId" json:"tariffRecordId"`
	ResolvedAt     time.Time `bson:"resolvedAt" json:"resolvedAt"`
	ChangeReason   string    `bson:"changeReason,omitempty" json:"changeReason,omitempty"`
}

// Payment records the reference handed back by the external payment
// collaborator. The core never initiates capture itself.
type Payment struct {
	Ref    string `bson:"ref,omitempty" json:"ref,omitempty"`
	Method string `bson:"method,omitempty" json:"method,omitempty"`
	Status string `bson:"status,omitempty" json:"status,omitempty"`
}

// Booking represents a reservation of one space for a time window.
type Booking struct {
	ID            string          `bson:"id" json:"id"`
	ClientID      string          `bson:"clientId" json:"clientId"`
	FacilityID    string          `bson:"facilityId" json:"facilityId"`
	SpaceID       string          `bson:"spaceId" json:"spaceId"`
	WindowStart   time.Time       `bson:"windowStart" json:"windowStart"`
	WindowEnd     time.Time       `bson:"windowEnd" json:"windowEnd"`
	BookingType   string          `bson:"bookingType" json:"bookingType"`
	AppliedTariff AppliedTariff   `bson:"appliedTariff" json:"appliedTariff"`
	TariffHistory []AppliedTariff `bson:"tariffHistory,omitempty" json:"tariffHistory,omitempty"`
	TotalAmount   float64         `bson:"totalAmount" json:"totalAmount"`
	Status        string          `bson:"status" json:"status"`
	Payment       Payment         `bson:"payment,omitempty" json:"payment,omitempty"`
	CreatedAt     time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time       `bson:"updatedAt" json:"updatedAt"`
}
