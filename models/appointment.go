package models

import "time"

// Appointment statuses.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusNoShow    = "NO_SHOW"
	StatusCompleted = "COMPLETED"
)

// Appointment is a booked service for one client with one technician.
// Start/End are minutes from midnight on Date (business-local wall clock);
// StartAt/EndAt are the corresponding absolute instants used by the reminder
// sweep. The Reminder*/NoShowFee* fields are claim state for time-triggered
// side effects: each flag is flipped with a conditional update so the
// associated SMS send or card charge can never execute twice.
type Appointment struct {
	ID           string `bson:"id" json:"id"`
	LocationID   string `bson:"locationId" json:"locationId"`
	TechnicianID string `bson:"technicianId" json:"technicianId"`
	ServiceID    string `bson:"serviceId" json:"serviceId"`
	ClientID     string `bson:"clientId" json:"clientId"`

	Date  string `bson:"date" json:"date"` // "2006-01-02"
	Start int    `bson:"start" json:"start"`
	End   int    `bson:"end" json:"end"`

	StartAt time.Time `bson:"startAt" json:"startAt"`
	EndAt   time.Time `bson:"endAt" json:"endAt"`

	Status string `bson:"status" json:"status"`

	Reminder48Sent      bool       `bson:"reminder48Sent" json:"reminder48Sent"`
	Reminder48ClaimedAt *time.Time `bson:"reminder48ClaimedAt,omitempty" json:"-"`
	Reminder48SentAt    *time.Time `bson:"reminder48SentAt,omitempty" json:"reminder48SentAt,omitempty"`

	Reminder24Sent      bool       `bson:"reminder24Sent" json:"reminder24Sent"`
	Reminder24ClaimedAt *time.Time `bson:"reminder24ClaimedAt,omitempty" json:"-"`
	Reminder24SentAt    *time.Time `bson:"reminder24SentAt,omitempty" json:"reminder24SentAt,omitempty"`

	Reminder12Sent      bool       `bson:"reminder12Sent" json:"reminder12Sent"`
	Reminder12ClaimedAt *time.Time `bson:"reminder12ClaimedAt,omitempty" json:"-"`
	Reminder12SentAt    *time.Time `bson:"reminder12SentAt,omitempty" json:"reminder12SentAt,omitempty"`

	Reminder6Sent      bool       `bson:"reminder6Sent" json:"reminder6Sent"`
	Reminder6ClaimedAt *time.Time `bson:"reminder6ClaimedAt,omitempty" json:"-"`
	Reminder6SentAt    *time.Time `bson:"reminder6SentAt,omitempty" json:"reminder6SentAt,omitempty"`

	NoShowFeeCharged     bool       `bson:"noShowFeeCharged" json:"noShowFeeCharged"`
	NoShowFeeClaimedAt   *time.Time `bson:"noShowFeeClaimedAt,omitempty" json:"-"`
	NoShowFeeChargedAt   *time.Time `bson:"noShowFeeChargedAt,omitempty" json:"noShowFeeChargedAt,omitempty"`
	NoShowFeeAmountCents int64      `bson:"noShowFeeAmountCents,omitempty" json:"noShowFeeAmountCents,omitempty"`
	NoShowFeeReference   string     `bson:"noShowFeeReference,omitempty" json:"noShowFeeReference,omitempty"`
	NoShowFeeReason      string     `bson:"noShowFeeReason,omitempty" json:"noShowFeeReason,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CountsAsBusy reports whether this appointment occupies its technician's
// time for availability purposes.
func (a Appointment) CountsAsBusy() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}
