package models

import "time"

// Client is a booking customer with optional stored payment instruments.
type Client struct {
	ID                     string    `bson:"id" json:"id"`
	Name                   string    `bson:"name" json:"name"`
	Phone                  string    `bson:"phone" json:"phone"`
	Email                  string    `bson:"email,omitempty" json:"email,omitempty"`
	StripeCustomerID       string    `bson:"stripeCustomerId,omitempty" json:"stripeCustomerId,omitempty"`
	DefaultPaymentMethodID string    `bson:"defaultPaymentMethodId,omitempty" json:"defaultPaymentMethodId,omitempty"`
	PaymentMethodIDs       []string  `bson:"paymentMethodIds,omitempty" json:"paymentMethodIds,omitempty"`
	CreatedAt              time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ChargeablePaymentMethod returns the payment method to charge for fees:
// the default if set, otherwise the first stored one. Empty string when the
// client has no stored instrument at all.
func (c Client) ChargeablePaymentMethod() string {
	if c.DefaultPaymentMethodID != "" {
		return c.DefaultPaymentMethodID
	}
	if len(c.PaymentMethodIDs) > 0 {
		return c.PaymentMethodIDs[0]
	}
	return ""
}
