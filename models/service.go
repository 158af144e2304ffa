package models

// Service is a bookable catalogue entry at a location.
type Service struct {
	ID              string `bson:"id" json:"id"`
	LocationID      string `bson:"locationId" json:"locationId"`
	Name            string `bson:"name" json:"name"`
	DurationMinutes int    `bson:"durationMinutes" json:"durationMinutes"`
	PriceCents      int64  `bson:"priceCents" json:"priceCents"`
	Active          bool   `bson:"active" json:"active"`
}
