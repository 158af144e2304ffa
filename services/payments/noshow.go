package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	appointmentRepo "github.com/Skarath13/bloom-sub003/database/repository/appointment"
	clientRepo "github.com/Skarath13/bloom-sub003/database/repository/client"
	"github.com/Skarath13/bloom-sub003/utils"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAlreadyCharged      = errors.New("no-show fee already charged")
	ErrNoPaymentMethod     = errors.New("client has no stored payment method")
	ErrCardDeclined        = errors.New("card declined")
)

// NoShowFeeService charges a no-show fee exactly once per appointment. The
// fee flag is claimed with a conditional update before the charge is
// attempted, so the charge is unreachable twice; if the charge fails the
// claim is rolled back so a retry can attempt it again. A crash strictly
// between claim and rollback leaves the row claimed-but-uncharged until the
// reconciliation sweep releases it.
type NoShowFeeService interface {
	ChargeNoShowFee(ctx context.Context, appointmentID string, amountCents int64, reason string) (reference string, err error)
}

type DefaultNoShowFeeService struct {
	Appointments appointmentRepo.AppointmentRepository
	Clients      clientRepo.ClientRepository
	Processor    PaymentProcessor
}

func (s *DefaultNoShowFeeService) ChargeNoShowFee(ctx context.Context, appointmentID string, amountCents int64, reason string) (string, error) {
	logger := utils.GetLogger()

	if amountCents <= 0 {
		return "", ErrInvalidAmount
	}

	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrAppointmentNotFound
		}
		return "", fmt.Errorf("fetching appointment: %w", err)
	}
	// Fast local check; the conditional claim below is what actually
	// serializes concurrent attempts.
	if appt.NoShowFeeCharged {
		return "", ErrAlreadyCharged
	}

	client, err := s.Clients.GetByID(ctx, appt.ClientID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNoPaymentMethod
		}
		return "", fmt.Errorf("fetching client: %w", err)
	}
	paymentMethod := client.ChargeablePaymentMethod()
	if client.StripeCustomerID == "" || paymentMethod == "" {
		return "", ErrNoPaymentMethod
	}

	claimed, err := s.Appointments.ClaimNoShowFee(ctx, appointmentID, amountCents, reason, time.Now())
	if err != nil {
		return "", fmt.Errorf("claiming no-show fee: %w", err)
	}
	if !claimed {
		// A concurrent request won the claim.
		return "", ErrAlreadyCharged
	}

	description := fmt.Sprintf("No-show fee for appointment %s", appointmentID)
	reference, err := s.Processor.ChargeStoredMethod(ctx, client.StripeCustomerID, paymentMethod, amountCents, description)
	if err != nil {
		if rbErr := s.Appointments.RollbackNoShowFeeClaim(ctx, appointmentID); rbErr != nil {
			logger.Error("failed to roll back no-show fee claim; reconciliation sweep will release it",
				zap.String("appointmentId", appointmentID), zap.Error(rbErr))
		}
		if errors.Is(err, ErrCardDeclined) {
			return "", ErrCardDeclined
		}
		return "", fmt.Errorf("charging no-show fee: %w", err)
	}

	if err := s.Appointments.ConfirmNoShowFee(ctx, appointmentID, reference, time.Now()); err != nil {
		// The money moved; keep the claim and surface the reference anyway.
		logger.Error("charge succeeded but confirmation write failed",
			zap.String("appointmentId", appointmentID), zap.String("reference", reference), zap.Error(err))
	}

	logger.Info("no-show fee charged",
		zap.String("appointmentId", appointmentID),
		zap.Int64("amountCents", amountCents),
		zap.String("reference", reference))
	return reference, nil
}
