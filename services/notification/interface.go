package notification

import (
	"context"
	"fmt"

	"glowbook/models"
	"glowbook/services/tasks"

	"github.com/hibiken/asynq"
)

// Enqueuer is the slice of asynq.Client the dispatcher needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NotificationService dispatches booking emails. All sends are fire-and-forget
// best effort: they are queued, never retried by the caller, and a failure
// must not affect booking state.
type NotificationService interface {
	SendBookingConfirmed(ctx context.Context, booking *models.Booking) error
	SendBookingFailed(ctx context.Context, intent *models.BookingIntent) error
	NotifyAdminConflict(ctx context.Context, booking *models.Booking) error
	NotifyAdmin(ctx context.Context, subject, body string) error
}

// DefaultNotificationService queues emails onto the async worker.
type DefaultNotificationService struct {
	Queue      Enqueuer
	AdminEmail string
}

func (s *DefaultNotificationService) SendBookingConfirmed(ctx context.Context, booking *models.Booking) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking for %s at %s is confirmed.\nReference: %s\nDeposit paid: %d %s\n\nSee you soon!",
		booking.Customer.Name, booking.Date, booking.TimeSlot,
		booking.Reference, booking.DepositAmount, booking.Currency,
	)
	if err := s.enqueueEmail(booking.Customer.Email, "Your booking is confirmed", body); err != nil {
		return err
	}
	return s.NotifyAdmin(ctx,
		fmt.Sprintf("New booking: %s %s", booking.Date, booking.TimeSlot),
		fmt.Sprintf("Booking %s confirmed for %s (%s).", booking.Reference, booking.Customer.Name, booking.Customer.Email),
	)
}

func (s *DefaultNotificationService) SendBookingFailed(ctx context.Context, intent *models.BookingIntent) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour payment for the booking on %s at %s did not complete, and no booking was made.\nReference: %s\n\nYou can try again from the booking page.",
		intent.Customer.Name, intent.Date, intent.TimeSlot, intent.Reference,
	)
	return s.enqueueEmail(intent.Customer.Email, "Your booking payment did not complete", body)
}

func (s *DefaultNotificationService) NotifyAdminConflict(ctx context.Context, booking *models.Booking) error {
	return s.NotifyAdmin(ctx,
		fmt.Sprintf("Slot conflict: %s %s", booking.Date, booking.TimeSlot),
		fmt.Sprintf(
			"Booking %s was paid for a slot that is already taken. The payment is captured and the booking is flagged for manual resolution.",
			booking.Reference,
		),
	)
}

func (s *DefaultNotificationService) NotifyAdmin(ctx context.Context, subject, body string) error {
	if s.AdminEmail == "" {
		return nil
	}
	return s.enqueueEmail(s.AdminEmail, subject, body)
}

func (s *DefaultNotificationService) enqueueEmail(to, subject, body string) error {
	task, err := tasks.NewEmailTask(models.EmailPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("failed to build email task: %w", err)
	}
	if _, err := s.Queue.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue email to %s: %w", to, err)
	}
	return nil
}
