package models

// BookingDraft is the payload of a payment initialization request.
type BookingDraft struct {
	Customer      Customer `json:"customer" validate:"required"`
	Services      []string `json:"services" validate:"required,min=1,dive,required"`
	Date          string   `json:"date" validate:"required"`
	TimeSlot      string   `json:"timeSlot" validate:"required"`
	TotalAmount   int64    `json:"totalAmount" validate:"required,gt=0"`
	DepositAmount int64    `json:"depositAmount" validate:"required,gt=0"`
	Notes         string   `json:"notes"`
}

// InitiateResult is returned from payment initialization.
type InitiateResult struct {
	Reference   string `json:"reference"`
	CheckoutURL string `json:"checkoutUrl"`
}

// ReconcileResult is the outcome of reconciling a payment reference.
type ReconcileResult struct {
	Reference string       `json:"reference"`
	Status    IntentStatus `json:"status"`
	Booking   *Booking     `json:"booking,omitempty"`
}
