package reminders

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appointmentRepo "github.com/Skarath13/bloom-sub003/database/repository/appointment"
	clientRepo "github.com/Skarath13/bloom-sub003/database/repository/client"
	"github.com/Skarath13/bloom-sub003/models"
	"github.com/Skarath13/bloom-sub003/services/notification"
	"github.com/Skarath13/bloom-sub003/utils"
)

// TierCounts is one tier's sweep outcome. Skipped counts lost claim races and
// status-gate misses; they are not errors.
type TierCounts struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// SweepResult is the full outcome of one reminder sweep. StatusChanged counts
// appointments the 48h tier moved into PENDING.
type SweepResult struct {
	Tiers         map[string]TierCounts `json:"tiers"`
	StatusChanged int                   `json:"statusChanged"`
}

// ReminderSweeper runs the periodic reminder dispatch and the stale-claim
// reconciliation pass.
type ReminderSweeper interface {
	Sweep(ctx context.Context) (*SweepResult, error)
	Reconcile(ctx context.Context) (map[string]int64, error)
}

// DefaultReminderSweeper claims each reminder with a conditional update
// before sending, so overlapping sweep invocations never text a client
// twice. Every appointment is processed independently: one failed send rolls
// back its own claim and the sweep moves on.
type DefaultReminderSweeper struct {
	Appointments   appointmentRepo.AppointmentRepository
	Clients        clientRepo.ClientRepository
	SMS            notification.SMSSender
	ReconcileAfter time.Duration

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultReminderSweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultReminderSweeper) Sweep(ctx context.Context) (*SweepResult, error) {
	logger := utils.GetLogger()
	now := s.now()

	result := &SweepResult{Tiers: make(map[string]TierCounts)}
	for _, tier := range Tiers {
		windowStart, windowEnd := tier.Window(now)
		due, err := s.Appointments.FindRemindersDue(ctx, tier.Hours, windowStart, windowEnd)
		if err != nil {
			return nil, fmt.Errorf("finding %s reminders due: %w", tier.Key(), err)
		}

		counts := TierCounts{}
		for _, appt := range due {
			outcome := s.processOne(ctx, tier, appt, now, logger)
			switch outcome {
			case outcomeSent:
				counts.Sent++
			case outcomeStatusChanged:
				counts.Sent++
				result.StatusChanged++
			case outcomeSkipped:
				counts.Skipped++
			case outcomeFailed:
				counts.Failed++
			}
		}
		result.Tiers[tier.Key()] = counts

		logger.Info("reminder tier swept",
			zap.String("tier", tier.Key()),
			zap.Int("due", len(due)),
			zap.Int("sent", counts.Sent),
			zap.Int("failed", counts.Failed),
			zap.Int("skipped", counts.Skipped))
	}
	return result, nil
}

type sweepOutcome int

const (
	outcomeSent sweepOutcome = iota
	outcomeStatusChanged
	outcomeSkipped
	outcomeFailed
)

func (s *DefaultReminderSweeper) processOne(ctx context.Context, tier Tier, appt models.Appointment, now time.Time, logger *zap.Logger) sweepOutcome {
	claimed, prevStatus, err := s.Appointments.ClaimReminder(ctx, appt.ID, tier.Hours, now)
	if err != nil {
		logger.Error("reminder claim failed",
			zap.String("appointmentId", appt.ID), zap.String("tier", tier.Key()), zap.Error(err))
		return outcomeFailed
	}
	if !claimed {
		// Lost the race to a concurrent sweep, or the status gate closed.
		return outcomeSkipped
	}

	rollback := func() {
		if rbErr := s.Appointments.RollbackReminderClaim(ctx, appt.ID, tier.Hours, prevStatus); rbErr != nil {
			logger.Error("reminder claim rollback failed; reconciliation sweep will release it",
				zap.String("appointmentId", appt.ID), zap.String("tier", tier.Key()), zap.Error(rbErr))
		}
	}

	client, err := s.Clients.GetByID(ctx, appt.ClientID)
	if err != nil {
		logger.Error("could not resolve client for reminder",
			zap.String("appointmentId", appt.ID), zap.String("clientId", appt.ClientID), zap.Error(err))
		rollback()
		return outcomeFailed
	}

	if err := s.SMS.SendSMS(ctx, client.Phone, tier.MessageFor(appt)); err != nil {
		logger.Warn("reminder SMS failed, releasing claim",
			zap.String("appointmentId", appt.ID), zap.String("tier", tier.Key()), zap.Error(err))
		rollback()
		return outcomeFailed
	}

	if err := s.Appointments.ConfirmReminderSent(ctx, appt.ID, tier.Hours, s.now()); err != nil {
		// The SMS went out; keep the claim so it cannot be re-sent.
		logger.Error("reminder sent but confirmation write failed",
			zap.String("appointmentId", appt.ID), zap.String("tier", tier.Key()), zap.Error(err))
	}

	if tier.SeeksConfirmation && prevStatus != models.StatusPending {
		return outcomeStatusChanged
	}
	return outcomeSent
}

// Reconcile releases claims older than ReconcileAfter that never got their
// send or charge confirmed — the cleanup for a process that crashed between
// claiming and acting.
func (s *DefaultReminderSweeper) Reconcile(ctx context.Context) (map[string]int64, error) {
	cutoff := s.now().Add(-s.ReconcileAfter)
	counts, err := s.Appointments.ResetStaleClaims(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("resetting stale claims: %w", err)
	}

	logger := utils.GetLogger()
	for kind, n := range counts {
		if n > 0 {
			logger.Warn("released stale claims", zap.String("kind", kind), zap.Int64("count", n))
		}
	}
	return counts, nil
}
