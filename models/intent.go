package models

import "time"

// IntentStatus is the lifecycle state of a BookingIntent. pending is the
// initial state; confirmed and failed are terminal and never left.
type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentConfirmed IntentStatus = "confirmed"
	IntentFailed    IntentStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s IntentStatus) Terminal() bool {
	return s == IntentConfirmed || s == IntentFailed
}

// Customer holds the contact details captured on the booking form.
type Customer struct {
	Name  string `bson:"name" json:"name" validate:"required"`
	Email string `bson:"email" json:"email" validate:"required,email"`
	Phone string `bson:"phone" json:"phone"`
}

// BookingIntent is created when a payment session is initialized. The
// reference is the idempotency key for the whole flow: one intent, one
// provider session and at most one booking per reference.
type BookingIntent struct {
	Reference         string       `bson:"reference" json:"reference"`
	Customer          Customer     `bson:"customer" json:"customer"`
	Services          []string     `bson:"services" json:"services"`
	Date              string       `bson:"date" json:"date"`         // plain calendar date, "2006-01-02"
	TimeSlot          string       `bson:"timeSlot" json:"timeSlot"` // slot label, e.g. "2:00 PM"
	TotalAmount       int64        `bson:"totalAmount" json:"totalAmount"`     // minor currency units
	DepositAmount     int64        `bson:"depositAmount" json:"depositAmount"` // minor currency units
	Currency          string       `bson:"currency" json:"currency"`
	Status            IntentStatus `bson:"status" json:"status"`
	ProviderSessionID string       `bson:"providerSessionId" json:"-"`
	FailureReason     string       `bson:"failureReason,omitempty" json:"-"`
	Notes             string       `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt         time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time    `bson:"updatedAt" json:"updatedAt"`
}
