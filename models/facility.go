package models

import "time"

// Facility status values.
const (
	FacilityOpen        = "open"
	FacilityClosed      = "closed"
	FacilityFull        = "full"
	FacilityMaintenance = "maintenance"
)

// OperatingHours holds the daily opening window as "HH:MM" strings.
type OperatingHours struct {
	Opens  string `bson:"opens" json:"opens"`
	Closes string `bson:"closes" json:"closes"`
}

// Facility represents a parking location with aggregate capacity.
// CapacityAvailable is only ever mutated together with the owning
// space's status, inside the reservation/cancellation transaction.
type Facility struct {
	ID                string         `bson:"id" json:"id"`
	Name              string         `bson:"name" json:"name"`
	Status            string         `bson:"status" json:"status"`
	Location          GeoPoint       `bson:"location" json:"location"`
	CapacityTotal     int            `bson:"capacityTotal" json:"capacityTotal"`
	CapacityAvailable int            `bson:"capacityAvailable" json:"capacityAvailable"`
	Hours             OperatingHours `bson:"hours" json:"hours"`
	CreatedAt         time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// FacilityCandidate is a facility annotated by the nearest-available
// search with its distance from the query point and the number of
// currently free spaces of the requested type. Candidates are a hint,
// not a reservation; they may be stale by the time a booking commits.
type FacilityCandidate struct {
	Facility       `bson:",inline"`
	DistanceMeters float64 `bson:"distance" json:"distanceMeters"`
	FreeSpaces     int     `bson:"freeSpaces" json:"freeSpaces"`
}
