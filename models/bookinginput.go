package models

import "time"

// LocationInput is the requester's position as submitted over the API.
type LocationInput struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// BookingRequestInput is the payload for creating a booking.
type BookingRequestInput struct {
	ClientID    string        `json:"clientId,omitempty"` // overridden by the identity middleware when a token is present
	SpaceType   string        `json:"spaceType"`
	BookingType string        `json:"bookingType"`
	WindowStart time.Time     `json:"windowStart"`
	WindowEnd   time.Time     `json:"windowEnd"`
	Location    LocationInput `json:"location"`
}
