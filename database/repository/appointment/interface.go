package appointmentRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Skarath13/bloom-sub003/database"
	"github.com/Skarath13/bloom-sub003/models"
)

// AppointmentRepository owns appointment rows and the claim flags that guard
// their time-triggered side effects. Every claim method is a single-document
// conditional update whose precondition is the current flag value; a claim
// that matched zero documents reports claimed=false with no error (lost race).
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListForTechnicianOnDate(ctx context.Context, technicianID, date string) ([]models.Appointment, error)

	// UpdateStatus transitions the status only if the current status is one of
	// allowedFrom. Returns false when the precondition did not hold.
	UpdateStatus(ctx context.Context, id string, allowedFrom []string, to string) (bool, error)

	// FindRemindersDue lists appointments whose start falls in the window and
	// whose reminder flag for the tier is still unclaimed, applying the tier's
	// status gate.
	FindRemindersDue(ctx context.Context, tierHours int, windowStart, windowEnd time.Time) ([]models.Appointment, error)

	// ClaimReminder flips the tier's sent flag from false to true. The 48h tier
	// also transitions status to PENDING in the same update; prevStatus reports
	// what the status was before the claim so a failed send can restore it.
	ClaimReminder(ctx context.Context, id string, tierHours int, now time.Time) (claimed bool, prevStatus string, err error)
	ConfirmReminderSent(ctx context.Context, id string, tierHours int, at time.Time) error
	RollbackReminderClaim(ctx context.Context, id string, tierHours int, restoreStatus string) error

	ClaimNoShowFee(ctx context.Context, id string, amountCents int64, reason string, now time.Time) (bool, error)
	ConfirmNoShowFee(ctx context.Context, id, reference string, at time.Time) error
	RollbackNoShowFeeClaim(ctx context.Context, id string) error

	// ResetStaleClaims releases claims that were taken before the cutoff and
	// never confirmed, so a later sweep can retry them. Returns reset counts
	// keyed by claim kind.
	ResetStaleClaims(ctx context.Context, before time.Time) (map[string]int64, error)
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
}
