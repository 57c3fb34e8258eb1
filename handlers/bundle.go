package handlers

// HandlerBundle aggregates the handlers the router needs.
type HandlerBundle struct {
	Payment      *PaymentHandler
	Availability *AvailabilityHandler
	Admin        *AdminHandler
}
