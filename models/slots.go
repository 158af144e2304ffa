package models

// Slot is one bookable start time offered to the client. Time is formatted
// "h:mm a" (e.g., "9:00 AM") in the business's local time.
type Slot struct {
	Time         string `json:"time"`
	Available    bool   `json:"available"`
	TechnicianID string `json:"technicianId"`
}

// AvailabilityResponse is the payload of the availability query.
type AvailabilityResponse struct {
	Date            string `json:"date"`
	ServiceDuration int    `json:"serviceDuration"`
	Slots           []Slot `json:"slots"`
}
