package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	bookingRepo "glowbook/database/repository/booking"
	"glowbook/models"

	"go.uber.org/zap"
)

func newTestIssuer(store *memStore, gateway *fakeGateway, queue *fakeQueue) *DefaultPaymentIntentIssuer {
	return &DefaultPaymentIntentIssuer{
		Repo:         store,
		Gateway:      gateway,
		Availability: newTestAvailability(store),
		Queue:        queue,
		Currency:     "usd",
		Logger:       zap.NewNop(),
	}
}

func validDraft() models.BookingDraft {
	return models.BookingDraft{
		Customer:      models.Customer{Name: "Ama Mensah", Email: "ama@example.com", Phone: "+233200000001"},
		Services:      []string{"manicure"},
		Date:          "2026-09-10",
		TimeSlot:      "2:00 PM",
		TotalAmount:   8000,
		DepositAmount: 2000,
	}
}

func TestInitiatePersistsPendingIntent(t *testing.T) {
	store := newMemStore()
	queue := &fakeQueue{}
	issuer := newTestIssuer(store, newFakeGateway(), queue)

	result, err := issuer.Initiate(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if !strings.HasPrefix(result.Reference, "GB-") {
		t.Errorf("unexpected reference format %q", result.Reference)
	}
	if result.CheckoutURL == "" {
		t.Error("expected a checkout URL")
	}

	intent, err := store.GetIntentByReference(context.Background(), result.Reference)
	if err != nil {
		t.Fatalf("intent not persisted before return: %v", err)
	}
	if intent.Status != models.IntentPending {
		t.Errorf("intent status = %q, want pending", intent.Status)
	}
	if intent.ProviderSessionID == "" {
		t.Error("provider session id not recorded on intent")
	}
	if intent.Currency != "usd" {
		t.Errorf("intent currency = %q, want usd", intent.Currency)
	}
	if queue.count() != 1 {
		t.Errorf("expected one delayed sweep task, got %d", queue.count())
	}
}

func TestInitiateValidation(t *testing.T) {
	store := newMemStore()
	issuer := newTestIssuer(store, newFakeGateway(), &fakeQueue{})

	cases := []struct {
		name   string
		mutate func(*models.BookingDraft)
	}{
		{"missing email", func(d *models.BookingDraft) { d.Customer.Email = "" }},
		{"malformed email", func(d *models.BookingDraft) { d.Customer.Email = "not-an-email" }},
		{"no services", func(d *models.BookingDraft) { d.Services = nil }},
		{"zero total", func(d *models.BookingDraft) { d.TotalAmount = 0 }},
		{"zero deposit", func(d *models.BookingDraft) { d.DepositAmount = 0 }},
		{"deposit over total", func(d *models.BookingDraft) { d.DepositAmount = 9000 }},
		{"bad date", func(d *models.BookingDraft) { d.Date = "next tuesday" }},
		{"slot outside template", func(d *models.BookingDraft) { d.TimeSlot = "2:17 PM" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := validDraft()
			tc.mutate(&draft)
			_, err := issuer.Initiate(context.Background(), draft)
			if !IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(store.intents) != 0 {
				t.Errorf("rejected draft must not persist anything, found %d intents", len(store.intents))
			}
		})
	}
}

func TestInitiateUnavailableSlotRejected(t *testing.T) {
	store := newMemStore()
	store.blockedSlots[slotKey("2026-09-10", "2:00 PM")] = models.BlockedTimeSlot{
		Date: "2026-09-10", TimeSlot: "2:00 PM", Source: models.BlockSourceAdmin,
	}
	issuer := newTestIssuer(store, newFakeGateway(), &fakeQueue{})

	_, err := issuer.Initiate(context.Background(), validDraft())
	if !IsValidationError(err) {
		t.Fatalf("expected validation error for unavailable slot, got %v", err)
	}
}

func TestInitiateProviderErrorPersistsNothing(t *testing.T) {
	store := newMemStore()
	gateway := newFakeGateway()
	gateway.createErr = errors.New("stripe down")
	issuer := newTestIssuer(store, gateway, &fakeQueue{})

	_, err := issuer.Initiate(context.Background(), validDraft())
	if !IsProviderUnavailable(err) {
		t.Fatalf("expected provider unavailable error, got %v", err)
	}
	if len(store.intents) != 0 {
		t.Errorf("provider failure must leave no intent behind, found %d", len(store.intents))
	}
}

func TestInitiateFailsClosedWhenStoreDown(t *testing.T) {
	store := newMemStore()
	store.down = true
	issuer := newTestIssuer(store, newFakeGateway(), &fakeQueue{})

	_, err := issuer.Initiate(context.Background(), validDraft())
	if !IsStoreUnavailable(err) {
		t.Fatalf("expected store unavailable error, got %v", err)
	}
}

func TestInitiateDuplicateReferenceIsFatal(t *testing.T) {
	store := newMemStore()
	store.createErr = fmt.Errorf("error creating booking intent: %w", bookingRepo.ErrDuplicateReference)
	issuer := newTestIssuer(store, newFakeGateway(), &fakeQueue{})

	_, err := issuer.Initiate(context.Background(), validDraft())
	if !errors.Is(err, ErrReferenceExists) {
		t.Fatalf("expected ErrReferenceExists, got %v", err)
	}
}

func TestNewReferenceUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref := NewReference()
		if !strings.HasPrefix(ref, "GB-") {
			t.Fatalf("unexpected reference format %q", ref)
		}
		if seen[ref] {
			t.Fatalf("duplicate reference generated: %s", ref)
		}
		seen[ref] = true
	}
}
