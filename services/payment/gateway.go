package payment

import (
	"context"

	"glowbook/models"
)

// SessionStatus is the provider-reported state of a payment session.
type SessionStatus string

const (
	StatusPaid    SessionStatus = "paid"
	StatusFailed  SessionStatus = "failed"
	StatusPending SessionStatus = "pending"
)

// Session is a provider-side hosted payment session.
type Session struct {
	ID          string
	CheckoutURL string
}

// VerifyResult carries the provider's view of a session, used by the
// reconciliation engine to cross-check the stored intent.
type VerifyResult struct {
	Status   SessionStatus
	Amount   int64 // minor currency units actually charged
	Currency string
	Detail   string // provider failure detail, when failed
}

// Gateway abstracts the payment provider: create a hosted session for an
// intent, and re-verify a session's status by its provider handle.
type Gateway interface {
	CreateSession(ctx context.Context, intent *models.BookingIntent) (*Session, error)
	VerifySession(ctx context.Context, sessionID string) (*VerifyResult, error)
}
