package payments

import "context"

// PaymentProcessor charges a stored payment instrument off-session and
// returns the provider's charge reference. Non-idempotent by contract:
// callers must claim before charging.
type PaymentProcessor interface {
	ChargeStoredMethod(ctx context.Context, customerID, paymentMethodID string, amountCents int64, description string) (reference string, err error)
}
