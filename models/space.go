package models

import "time"

// Space status values.
const (
	SpaceFree        = "free"
	SpaceReserved    = "reserved"
	SpaceOccupied    = "occupied"
	SpaceMaintenance = "maintenance"
)

// Space types.
const (
	SpaceStandard   = "standard"
	SpaceAccessible = "accessible"
	SpaceElectric   = "electric"
	SpacePremium    = "premium"
)

// ValidSpaceType reports whether t is one of the known space types.
func ValidSpaceType(t string) bool {
	switch t {
	case SpaceStandard, SpaceAccessible, SpaceElectric, SpacePremium:
		return true
	}
	return false
}

// Space is one addressable parking slot inside a facility.
// FacilityID never changes after creation. Label is unique within
// its facility.
type Space struct {
	ID         string    `bson:"id" json:"id"`
	FacilityID string    `bson:"facilityId" json:"facilityId"`
	Label      string    `bson:"label" json:"label"`
	Type       string    `bson:"type" json:"type"`
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
