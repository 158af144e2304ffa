package models

import "time"

// WorkingSchedule defines a technician's shift for one day of the week.
// Start and End are minutes from midnight (e.g., 540 for 9:00 AM), local
// wall-clock time with no date attached.
type WorkingSchedule struct {
	TechnicianID string       `bson:"technicianId" json:"technicianId"`
	Weekday      time.Weekday `bson:"weekday" json:"weekday"`
	IsWorking    bool         `bson:"isWorking" json:"isWorking"`
	Start        int          `bson:"start" json:"start"`
	End          int          `bson:"end" json:"end"`
}

// TimeBlock marks a technician as unavailable. A one-off block has an empty
// Recurrence; a recurring block stores only its first occurrence (Date, Start,
// End) plus the rule — later occurrences are always derived, never stored.
type TimeBlock struct {
	ID           string `bson:"id" json:"id"`
	TechnicianID string `bson:"technicianId" json:"technicianId"`
	Date         string `bson:"date" json:"date"` // "2006-01-02", canonical (first) occurrence
	Start        int    `bson:"start" json:"start"`
	End          int    `bson:"end" json:"end"`
	Reason       string `bson:"reason,omitempty" json:"reason,omitempty"`

	// Recurrence encodes a repeating schedule, e.g. "FREQ=WEEKLY;INTERVAL=2;COUNT=10".
	// Empty for one-off blocks.
	Recurrence string `bson:"recurrence,omitempty" json:"recurrence,omitempty"`

	// Exceptions lists dates whose derived occurrence has been deleted.
	Exceptions []string `bson:"exceptions,omitempty" json:"exceptions,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// IsException reports whether the occurrence on the given date was deleted.
func (b TimeBlock) IsException(date string) bool {
	for _, d := range b.Exceptions {
		if d == date {
			return true
		}
	}
	return false
}
