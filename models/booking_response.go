package models

// BookingResponse is returned when a booking is confirmed.
type BookingResponse struct {
	BookingID    string  `json:"bookingId"`
	FacilityName string  `json:"facilityName"`
	DistanceKm   float64 `json:"distanceKm"`
	SpaceLabel   string  `json:"spaceLabel"`
	TotalAmount  float64 `json:"totalAmount"`
}

// QuoteSession is the cached state of a two-phase booking: the quote
// lists candidate facilities and the price that would apply; confirm
// replays the same request through the coordinator.
type QuoteSession struct {
	Request    BookingRequestInput `json:"request"`
	Candidates []FacilityCandidate `json:"candidates"`
	Rate       float64             `json:"rate"`
	Estimated  float64             `json:"estimated"`
}
