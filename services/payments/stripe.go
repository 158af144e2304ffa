package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	"github.com/Skarath13/bloom-sub003/utils"
)

// StripeProcessor charges stored cards via off-session PaymentIntents.
// stripe.Key is set once in main from config.
type StripeProcessor struct{}

func NewStripeProcessor() *StripeProcessor {
	return &StripeProcessor{}
}

func (p *StripeProcessor) ChargeStoredMethod(ctx context.Context, customerID, paymentMethodID string, amountCents int64, description string) (string, error) {
	logger := utils.GetLogger()

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		Customer:      stripe.String(customerID),
		PaymentMethod: stripe.String(paymentMethodID),
		Description:   stripe.String(description),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeCardDeclined {
			logger.Warn("card declined",
				zap.String("customerId", customerID), zap.String("declineCode", string(stripeErr.DeclineCode)))
			return "", ErrCardDeclined
		}
		return "", fmt.Errorf("creating payment intent: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("payment intent %s ended in status %s", pi.ID, pi.Status)
	}

	logger.Info("charge succeeded",
		zap.String("paymentIntent", pi.ID), zap.Int64("amountCents", amountCents))
	return pi.ID, nil
}
