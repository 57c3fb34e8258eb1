package blockedRepo

import (
	"context"
	"errors"

	"glowbook/models"
)

var (
	ErrDateAlreadyBlocked = errors.New("date already blocked")
	ErrSlotAlreadyBlocked = errors.New("time slot already blocked")
	ErrBlockNotFound      = errors.New("block not found")
)

// Repository manages blocked dates and blocked time slots. Manual blocks are
// written only through the admin surface; payment-derived blocks come from
// the reconciliation engine.
type Repository interface {
	CreateBlockedDate(ctx context.Context, block *models.BlockedDate) error
	DeleteBlockedDate(ctx context.Context, date string) error
	ListBlockedDates(ctx context.Context) ([]models.BlockedDate, error)
	IsDateBlocked(ctx context.Context, date string) (bool, error)

	CreateBlockedSlot(ctx context.Context, block *models.BlockedTimeSlot) error
	DeleteBlockedSlot(ctx context.Context, date, timeSlot string) error
	ListBlockedSlotsByDate(ctx context.Context, date string) ([]models.BlockedTimeSlot, error)
}
