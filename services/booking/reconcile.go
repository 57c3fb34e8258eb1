package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	"glowbook/models"
	"glowbook/services/notification"
	"glowbook/services/payment"
	"glowbook/utils"

	"go.uber.org/zap"
)

// DefaultReconciliationEngine implements ReconciliationEngine. Both the
// provider webhook and the client verification endpoint funnel into
// Reconcile; the per-reference lock plus the conditional transitions in the
// repository make the pending -> terminal move happen exactly once no matter
// how the two paths interleave or repeat.
type DefaultReconciliationEngine struct {
	Repo     bookingRepo.Repository
	Gateway  payment.Gateway
	Locker   utils.Locker
	Notifier notification.NotificationService
	Logger   *zap.Logger
}

func (e *DefaultReconciliationEngine) Reconcile(ctx context.Context, reference string) (*models.ReconcileResult, error) {
	intent, err := e.Repo.GetIntentByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrIntentNotFound) {
			return nil, NewValidationError(fmt.Sprintf("unknown payment reference %q", reference))
		}
		return nil, NewStoreUnavailableError(fmt.Sprintf("failed to load intent %s: %v", reference, err))
	}

	// Idempotent read: terminal intents never change again.
	if intent.Status.Terminal() {
		return e.resolvedResult(ctx, intent)
	}

	var result *models.ReconcileResult
	lockErr := e.withReferenceLock(ctx, reference, func(ctx context.Context) error {
		r, err := e.reconcileLocked(ctx, reference)
		result = r
		return err
	})
	if errors.Is(lockErr, utils.ErrLockNotAcquired) {
		// Another reconciler holds the reference; report the stored state
		// rather than racing it.
		intent, err := e.Repo.GetIntentByReference(ctx, reference)
		if err != nil {
			return nil, NewStoreUnavailableError(fmt.Sprintf("failed to load intent %s: %v", reference, err))
		}
		return e.resolvedResult(ctx, intent)
	}
	if lockErr != nil {
		return nil, lockErr
	}
	return result, nil
}

// reconcileLocked runs with the per-reference lock held.
func (e *DefaultReconciliationEngine) reconcileLocked(ctx context.Context, reference string) (*models.ReconcileResult, error) {
	intent, err := e.Repo.GetIntentByReference(ctx, reference)
	if err != nil {
		return nil, NewStoreUnavailableError(fmt.Sprintf("failed to load intent %s: %v", reference, err))
	}
	if intent.Status.Terminal() {
		return e.resolvedResult(ctx, intent)
	}

	verified, err := e.Gateway.VerifySession(ctx, intent.ProviderSessionID)
	if err != nil {
		// Intent stays pending; safe to retry from any path later.
		return nil, NewProviderUnavailableError(fmt.Sprintf("failed to verify payment for %s: %v", reference, err))
	}

	switch verified.Status {
	case payment.StatusPending:
		return &models.ReconcileResult{Reference: reference, Status: models.IntentPending}, nil

	case payment.StatusFailed:
		return e.markFailed(ctx, intent, verified.Detail, true)

	case payment.StatusPaid:
		if verified.Amount != intent.DepositAmount || !strings.EqualFold(verified.Currency, intent.Currency) {
			reason := fmt.Sprintf("amount mismatch: provider charged %d %s, intent expected %d %s",
				verified.Amount, verified.Currency, intent.DepositAmount, intent.Currency)
			e.notifyAdmin(ctx, fmt.Sprintf("Payment mismatch on %s", reference), reason)
			return e.markFailed(ctx, intent, reason, false)
		}
		return e.confirm(ctx, intent)

	default:
		return nil, NewProviderUnavailableError(fmt.Sprintf("unexpected provider status %q for %s", verified.Status, reference))
	}
}

func (e *DefaultReconciliationEngine) confirm(ctx context.Context, intent *models.BookingIntent) (*models.ReconcileResult, error) {
	booking, err := e.Repo.ConfirmIntent(ctx, intent)
	if errors.Is(err, bookingRepo.ErrAlreadyResolved) {
		stored, err := e.Repo.GetIntentByReference(ctx, intent.Reference)
		if err != nil {
			return nil, NewStoreUnavailableError(fmt.Sprintf("failed to reload intent %s: %v", intent.Reference, err))
		}
		return e.resolvedResult(ctx, stored)
	}
	if err != nil {
		// Transaction rolled back; intent is still pending and retryable.
		return nil, NewStoreUnavailableError(fmt.Sprintf("failed to confirm booking for %s: %v", intent.Reference, err))
	}

	e.Logger.Info("booking confirmed",
		zap.String("reference", booking.Reference),
		zap.String("date", booking.Date),
		zap.String("timeSlot", booking.TimeSlot),
		zap.Bool("conflict", booking.Conflict),
	)

	// Side effects past this point are best effort and never roll back the
	// confirmed state.
	if err := e.Notifier.SendBookingConfirmed(ctx, booking); err != nil {
		e.Logger.Warn("failed to dispatch confirmation emails", zap.String("reference", booking.Reference), zap.Error(err))
	}
	if booking.Conflict {
		e.Logger.Warn("slot conflict flagged for manual resolution",
			zap.String("reference", booking.Reference),
			zap.String("date", booking.Date),
			zap.String("timeSlot", booking.TimeSlot),
		)
		if err := e.Notifier.NotifyAdminConflict(ctx, booking); err != nil {
			e.Logger.Warn("failed to dispatch conflict alert", zap.String("reference", booking.Reference), zap.Error(err))
		}
	}

	return &models.ReconcileResult{
		Reference: booking.Reference,
		Status:    models.IntentConfirmed,
		Booking:   booking,
	}, nil
}

func (e *DefaultReconciliationEngine) markFailed(ctx context.Context, intent *models.BookingIntent, reason string, notifyCustomer bool) (*models.ReconcileResult, error) {
	updated, err := e.Repo.MarkIntentFailed(ctx, intent.Reference, reason)
	if err != nil {
		return nil, NewStoreUnavailableError(fmt.Sprintf("failed to record failure for %s: %v", intent.Reference, err))
	}
	if updated.Status != models.IntentFailed {
		// Lost a race against a confirming reconciler.
		return e.resolvedResult(ctx, updated)
	}

	e.Logger.Info("payment failed",
		zap.String("reference", intent.Reference),
		zap.String("reason", reason),
	)
	if notifyCustomer {
		if err := e.Notifier.SendBookingFailed(ctx, updated); err != nil {
			e.Logger.Warn("failed to dispatch failure email", zap.String("reference", intent.Reference), zap.Error(err))
		}
	}

	return &models.ReconcileResult{Reference: intent.Reference, Status: models.IntentFailed}, nil
}

// resolvedResult builds the response for an intent that already reached a
// terminal state, attaching the materialized booking when confirmed.
func (e *DefaultReconciliationEngine) resolvedResult(ctx context.Context, intent *models.BookingIntent) (*models.ReconcileResult, error) {
	result := &models.ReconcileResult{Reference: intent.Reference, Status: intent.Status}
	if intent.Status == models.IntentConfirmed {
		booking, err := e.Repo.GetBookingByReference(ctx, intent.Reference)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, NewStoreUnavailableError(fmt.Sprintf("failed to load booking for %s: %v", intent.Reference, err))
		}
		result.Booking = booking
	}
	return result, nil
}

// withReferenceLock serializes reconciliation per reference, retrying
// briefly when another caller holds the lock.
func (e *DefaultReconciliationEngine) withReferenceLock(ctx context.Context, reference string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("reconcile:%s", reference)
	var err error
	for attempt := 0; attempt < utils.ReconcileLockRetries; attempt++ {
		err = e.Locker.WithLock(ctx, key, fn)
		if !errors.Is(err, utils.ErrLockNotAcquired) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(utils.ReconcileLockBackoff):
		}
	}
	return err
}

func (e *DefaultReconciliationEngine) notifyAdmin(ctx context.Context, subject, body string) {
	if err := e.Notifier.NotifyAdmin(ctx, subject, body); err != nil {
		e.Logger.Warn("failed to dispatch admin alert", zap.String("subject", subject), zap.Error(err))
	}
}
