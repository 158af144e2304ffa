package reminders

import (
	"fmt"
	"time"

	"github.com/Skarath13/bloom-sub003/models"
	"github.com/Skarath13/bloom-sub003/utils"
)

// Tier is one reminder rung before an appointment's start.
type Tier struct {
	Hours int

	// SeeksConfirmation marks the tier that moves the appointment into
	// PENDING and asks the client to confirm.
	SeeksConfirmation bool
}

// Tiers in sweep order, furthest out first. The 48h tier seeks confirmation;
// the later tiers chase appointments still PENDING.
var Tiers = []Tier{
	{Hours: 48, SeeksConfirmation: true},
	{Hours: 24},
	{Hours: 12},
	{Hours: 6},
}

// windowTolerance widens each tier's trigger point into a band, because the
// sweep runs on a fixed interval rather than continuously: the 48h tier
// matches appointments 47-49 hours out, and so on.
const windowTolerance = time.Hour

// Window returns the [start, end) band of appointment start instants this
// tier matches at sweep time now.
func (t Tier) Window(now time.Time) (time.Time, time.Time) {
	center := now.Add(time.Duration(t.Hours) * time.Hour)
	return center.Add(-windowTolerance), center.Add(windowTolerance)
}

// Key is the tier's label in sweep results, e.g. "48h".
func (t Tier) Key() string {
	return fmt.Sprintf("%dh", t.Hours)
}

// MessageFor builds the SMS body for this tier.
func (t Tier) MessageFor(appt models.Appointment) string {
	when := fmt.Sprintf("%s at %s", appt.Date, utils.FormatMinutes(appt.Start))
	if t.SeeksConfirmation {
		return fmt.Sprintf("Reminder: you have an appointment on %s. Reply C to confirm or call us to reschedule.", when)
	}
	return fmt.Sprintf("Reminder: your appointment on %s is coming up in about %d hours.", when, t.Hours)
}
