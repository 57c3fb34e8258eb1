package booking

import (
	"context"

	"glowbook/models"

	"github.com/hibiken/asynq"
)

// AvailabilityEngine computes the bookable slots for a calendar date.
type AvailabilityEngine interface {
	AvailableSlots(ctx context.Context, date string) ([]string, error)
}

// PaymentIntentIssuer starts the payment flow: validates the draft, creates
// the provider session and persists the pending intent.
type PaymentIntentIssuer interface {
	Initiate(ctx context.Context, draft models.BookingDraft) (*models.InitiateResult, error)
}

// ReconciliationEngine resolves a payment reference into local booking state
// exactly once. Safe to call any number of times from any path.
type ReconciliationEngine interface {
	Reconcile(ctx context.Context, reference string) (*models.ReconcileResult, error)
}

// TaskEnqueuer is the slice of asynq.Client the issuer needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
