package notification

import "context"

// SMSSender delivers one text message. Implementations must treat every call
// as non-idempotent: callers claim the work first and roll the claim back if
// Send returns an error.
type SMSSender interface {
	SendSMS(ctx context.Context, toPhone, body string) error
}
