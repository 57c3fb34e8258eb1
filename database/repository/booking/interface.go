package bookingRepo

import (
	"context"
	"errors"

	"glowbook/models"
)

var (
	ErrIntentNotFound     = errors.New("booking intent not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrDuplicateReference = errors.New("reference already exists")
	// ErrAlreadyResolved signals a lost race: the intent left pending
	// between the caller's read and the conditional transition.
	ErrAlreadyResolved = errors.New("intent already resolved")
)

// Repository is the single writer surface for intents and bookings. The
// reconciliation engine owns every transition out of pending.
type Repository interface {
	CreateIntent(ctx context.Context, intent *models.BookingIntent) error
	GetIntentByReference(ctx context.Context, reference string) (*models.BookingIntent, error)
	// MarkIntentFailed performs the conditional pending -> failed transition
	// and returns the intent as stored afterwards, whichever racer won.
	MarkIntentFailed(ctx context.Context, reference, reason string) (*models.BookingIntent, error)
	// ConfirmIntent atomically flips the intent to confirmed, materializes
	// the booking (conflict-flagged when the slot is already held by a
	// confirmed booking) and blocks the slot. Returns ErrAlreadyResolved
	// when the intent is no longer pending.
	ConfirmIntent(ctx context.Context, intent *models.BookingIntent) (*models.Booking, error)

	GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error)
	ListConfirmedByDate(ctx context.Context, date string) ([]models.Booking, error)
	ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error)
	ListConflicts(ctx context.Context) ([]models.Booking, error)
}
