package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skarath13/bloom-sub003/models"
)

// reminderFields maps a tier to its bson claim columns.
func reminderFields(tierHours int) (sent, claimedAt, sentAt string, err error) {
	switch tierHours {
	case 48:
		return "reminder48Sent", "reminder48ClaimedAt", "reminder48SentAt", nil
	case 24:
		return "reminder24Sent", "reminder24ClaimedAt", "reminder24SentAt", nil
	case 12:
		return "reminder12Sent", "reminder12ClaimedAt", "reminder12SentAt", nil
	case 6:
		return "reminder6Sent", "reminder6ClaimedAt", "reminder6SentAt", nil
	default:
		return "", "", "", fmt.Errorf("unknown reminder tier: %dh", tierHours)
	}
}

// reminderStatusGate returns the status filter for a tier. The 48h tier fires
// for any still-active appointment; the later tiers only chase appointments
// that are still awaiting confirmation.
func reminderStatusGate(tierHours int) bson.M {
	if tierHours == 48 {
		return bson.M{"$nin": bson.A{models.StatusCancelled, models.StatusNoShow, models.StatusCompleted}}
	}
	return bson.M{"$eq": models.StatusPending}
}

func (r *mongoAppointmentRepo) FindRemindersDue(ctx context.Context, tierHours int, windowStart, windowEnd time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sentField, _, _, err := reminderFields(tierHours)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"startAt": bson.M{"$gte": windowStart, "$lt": windowEnd},
		sentField: false,
		"status":  reminderStatusGate(tierHours),
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// ClaimReminder is the compare-and-set at the center of the reminder sweep:
// the filter requires the sent flag to still be false (and the status gate to
// hold), so of any number of concurrent sweeps exactly one gets the document
// back and proceeds to send.
func (r *mongoAppointmentRepo) ClaimReminder(ctx context.Context, id string, tierHours int, now time.Time) (bool, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sentField, claimedField, _, err := reminderFields(tierHours)
	if err != nil {
		return false, "", err
	}

	filter := bson.M{
		"id":      id,
		sentField: false,
		"status":  reminderStatusGate(tierHours),
	}
	set := bson.M{
		sentField:    true,
		claimedField: now,
		"updatedAt":  now,
	}
	if tierHours == 48 {
		set["status"] = models.StatusPending
	}

	var before models.Appointment
	err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.Before)).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Another invocation claimed it, or the status gate no longer holds.
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return true, before.Status, nil
}

func (r *mongoAppointmentRepo) ConfirmReminderSent(ctx context.Context, id string, tierHours int, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, _, sentAtField, err := reminderFields(tierHours)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{sentAtField: at, "updatedAt": at}})
	return err
}

// RollbackReminderClaim releases a claim whose send failed, restoring the
// pre-claim status for the 48h tier so the appointment is not left PENDING by
// a reminder that never went out.
func (r *mongoAppointmentRepo) RollbackReminderClaim(ctx context.Context, id string, tierHours int, restoreStatus string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sentField, claimedField, _, err := reminderFields(tierHours)
	if err != nil {
		return err
	}

	set := bson.M{sentField: false, "updatedAt": time.Now()}
	if tierHours == 48 && restoreStatus != "" {
		set["status"] = restoreStatus
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set":   set,
		"$unset": bson.M{claimedField: ""},
	})
	return err
}

// ClaimNoShowFee flips the fee flag before any money moves, making the charge
// unreachable twice. The amount and reason ride along in the same update so a
// rollback can clear everything the claim wrote.
func (r *mongoAppointmentRepo) ClaimNoShowFee(ctx context.Context, id string, amountCents int64, reason string, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "noShowFeeCharged": false}
	update := bson.M{"$set": bson.M{
		"noShowFeeCharged":     true,
		"noShowFeeClaimedAt":   now,
		"noShowFeeAmountCents": amountCents,
		"noShowFeeReason":      reason,
		"updatedAt":            now,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoAppointmentRepo) ConfirmNoShowFee(ctx context.Context, id, reference string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"noShowFeeChargedAt": at,
		"noShowFeeReference": reference,
		"updatedAt":          at,
	}})
	return err
}

func (r *mongoAppointmentRepo) RollbackNoShowFeeClaim(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"noShowFeeCharged": false, "updatedAt": time.Now()},
		"$unset": bson.M{
			"noShowFeeClaimedAt":   "",
			"noShowFeeAmountCents": "",
			"noShowFeeReason":      "",
		},
	})
	return err
}

// ResetStaleClaims releases claims taken before the cutoff that were never
// confirmed by a send/charge timestamp. This is the reconciliation pass for
// the crash window between a successful claim and its rollback-on-failure.
func (r *mongoAppointmentRepo) ResetStaleClaims(ctx context.Context, before time.Time) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	counts := make(map[string]int64)
	for _, tier := range []int{48, 24, 12, 6} {
		sentField, claimedField, sentAtField, err := reminderFields(tier)
		if err != nil {
			return nil, err
		}
		filter := bson.M{
			sentField:    true,
			sentAtField:  bson.M{"$exists": false},
			claimedField: bson.M{"$lt": before},
		}
		update := bson.M{
			"$set":   bson.M{sentField: false, "updatedAt": time.Now()},
			"$unset": bson.M{claimedField: ""},
		}
		res, err := r.coll.UpdateMany(ctx, filter, update)
		if err != nil {
			return nil, err
		}
		counts[fmt.Sprintf("%dh", tier)] = res.ModifiedCount
	}

	feeFilter := bson.M{
		"noShowFeeCharged":   true,
		"noShowFeeChargedAt": bson.M{"$exists": false},
		"noShowFeeClaimedAt": bson.M{"$lt": before},
	}
	feeUpdate := bson.M{
		"$set": bson.M{"noShowFeeCharged": false, "updatedAt": time.Now()},
		"$unset": bson.M{
			"noShowFeeClaimedAt":   "",
			"noShowFeeAmountCents": "",
			"noShowFeeReason":      "",
		},
	}
	res, err := r.coll.UpdateMany(ctx, feeFilter, feeUpdate)
	if err != nil {
		return nil, err
	}
	counts["noShowFee"] = res.ModifiedCount

	return counts, nil
}
