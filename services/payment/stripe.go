package payment

import (
	"context"
	"fmt"

	"glowbook/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// StripeGateway implements Gateway on Stripe Checkout. The deposit is charged
// as a single line item; our reference rides along as the session's
// client_reference_id so webhooks can be tied back to the intent.
type StripeGateway struct {
	SuccessURL string
	CancelURL  string
}

func NewStripeGateway(successURL, cancelURL string) *StripeGateway {
	return &StripeGateway{
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	}
}

func (g *StripeGateway) CreateSession(ctx context.Context, intent *models.BookingIntent) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(intent.Reference),
		CustomerEmail:     stripe.String(intent.Customer.Email),
		SuccessURL:        stripe.String(fmt.Sprintf("%s?reference=%s", g.SuccessURL, intent.Reference)),
		CancelURL:         stripe.String(g.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(intent.Currency),
					UnitAmount: stripe.Int64(intent.DepositAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Booking deposit %s %s", intent.Date, intent.TimeSlot)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("reference", intent.Reference)

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &Session{ID: s.ID, CheckoutURL: s.URL}, nil
}

func (g *StripeGateway) VerifySession(ctx context.Context, sessionID string) (*VerifyResult, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session %s: %w", sessionID, err)
	}

	switch {
	case s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		return &VerifyResult{
			Status:   StatusPaid,
			Amount:   s.AmountTotal,
			Currency: string(s.Currency),
		}, nil
	case s.Status == stripe.CheckoutSessionStatusExpired:
		return &VerifyResult{
			Status: StatusFailed,
			Detail: "checkout session expired",
		}, nil
	default:
		return &VerifyResult{Status: StatusPending}, nil
	}
}
