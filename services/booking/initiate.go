package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	"glowbook/models"
	"glowbook/services/payment"
	"glowbook/services/tasks"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// How long after initialization the delayed reconcile sweep fires. Covers
// webhooks the provider never manages to deliver.
const reconcileSweepDelay = 30 * time.Minute

var validate = validator.New()

// DefaultPaymentIntentIssuer implements PaymentIntentIssuer.
type DefaultPaymentIntentIssuer struct {
	Repo         bookingRepo.Repository
	Gateway      payment.Gateway
	Availability AvailabilityEngine
	Queue        TaskEnqueuer
	Currency     string
	Logger       *zap.Logger
}

// Initiate validates the draft, creates the provider session and persists the
// pending intent before returning, so a webhook racing the response can
// already resolve the reference. Availability is checked best-effort at
// issuance; it is not a hold.
func (s *DefaultPaymentIntentIssuer) Initiate(ctx context.Context, draft models.BookingDraft) (*models.InitiateResult, error) {
	if err := validate.Struct(draft); err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid booking draft: %v", err))
	}
	if draft.DepositAmount > draft.TotalAmount {
		return nil, NewValidationError("deposit amount exceeds total amount")
	}
	if _, err := time.Parse("2006-01-02", draft.Date); err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", draft.Date))
	}

	slots, err := s.Availability.AvailableSlots(ctx, draft.Date)
	if err != nil {
		// Fail closed: when availability is unknown, nothing is bookable.
		return nil, err
	}
	if !containsSlot(slots, draft.TimeSlot) {
		return nil, NewValidationError(fmt.Sprintf("time slot %q is not available on %s", draft.TimeSlot, draft.Date))
	}

	now := time.Now()
	intent := &models.BookingIntent{
		Reference:     NewReference(),
		Customer:      draft.Customer,
		Services:      draft.Services,
		Date:          draft.Date,
		TimeSlot:      draft.TimeSlot,
		TotalAmount:   draft.TotalAmount,
		DepositAmount: draft.DepositAmount,
		Currency:      s.Currency,
		Status:        models.IntentPending,
		Notes:         draft.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	session, err := s.Gateway.CreateSession(ctx, intent)
	if err != nil {
		// Nothing persisted yet; the caller may retry.
		return nil, NewProviderUnavailableError(fmt.Sprintf("failed to create payment session: %v", err))
	}
	intent.ProviderSessionID = session.ID

	if err := s.Repo.CreateIntent(ctx, intent); err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicateReference) {
			return nil, fmt.Errorf("%w: %s", ErrReferenceExists, intent.Reference)
		}
		return nil, NewStoreUnavailableError(fmt.Sprintf("failed to persist booking intent: %v", err))
	}

	s.scheduleSweep(intent.Reference)

	return &models.InitiateResult{
		Reference:   intent.Reference,
		CheckoutURL: session.CheckoutURL,
	}, nil
}

// scheduleSweep enqueues the delayed reconcile task. Best effort: the
// webhook and the verification endpoint remain the primary resolution paths.
func (s *DefaultPaymentIntentIssuer) scheduleSweep(reference string) {
	if s.Queue == nil {
		return
	}
	task, opts, err := tasks.NewReconcileTask(reference, time.Now().Add(reconcileSweepDelay))
	if err != nil {
		s.Logger.Warn("failed to build reconcile sweep task", zap.String("reference", reference), zap.Error(err))
		return
	}
	if _, err := s.Queue.Enqueue(task, opts...); err != nil {
		s.Logger.Warn("failed to enqueue reconcile sweep task", zap.String("reference", reference), zap.Error(err))
	}
}

func containsSlot(slots []string, timeSlot string) bool {
	for _, slot := range slots {
		if slot == timeSlot {
			return true
		}
	}
	return false
}
