package models

import "time"

// Technician represents a service provider working at a single location.
type Technician struct {
	ID            string `bson:"id" json:"id"`
	LocationID    string `bson:"locationId" json:"locationId"`
	Name          string `bson:"name" json:"name"`
	Phone         string `bson:"phone,omitempty" json:"phone,omitempty"`
	Active        bool   `bson:"active" json:"active"`
	BufferMinutes int    `bson:"bufferMinutes" json:"bufferMinutes"` // turnaround time appended after each appointment

	// ServiceDurations overrides the catalogue duration for specific services,
	// keyed by service ID. Minutes.
	ServiceDurations map[string]int `bson:"serviceDurations,omitempty" json:"serviceDurations,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DurationFor returns the effective duration for a service, applying the
// technician's per-service override when one exists.
func (t Technician) DurationFor(svc Service) int {
	if d, ok := t.ServiceDurations[svc.ID]; ok && d > 0 {
		return d
	}
	return svc.DurationMinutes
}
