package handlers

import (
	"encoding/json"
	"net/http"

	"glowbook/models"
	"glowbook/services/booking"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// PaymentHandler exposes the payment surface: initialization, client
// verification and the provider webhook. Webhook and verification are thin
// adapters over the same reconciliation engine.
type PaymentHandler struct {
	Issuer        booking.PaymentIntentIssuer
	Engine        booking.ReconciliationEngine
	WebhookSecret string
	Logger        *zap.Logger
}

func NewPaymentHandler(issuer booking.PaymentIntentIssuer, engine booking.ReconciliationEngine, webhookSecret string, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		Issuer:        issuer,
		Engine:        engine,
		WebhookSecret: webhookSecret,
		Logger:        logger,
	}
}

// InitializePayment creates the provider session and pending intent.
func (h *PaymentHandler) InitializePayment(c *gin.Context) {
	var draft models.BookingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Issuer.Initiate(c.Request.Context(), draft)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// VerifyPayment is the customer-facing synchronous reconciliation path, used
// by the success page to show an outcome without waiting for the webhook.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var input struct {
		Reference string `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Engine.Reconcile(c.Request.Context(), input.Reference)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Webhook authenticates provider events against the shared secret and feeds
// payment events into the reconciliation engine. Unrecognized event types
// are acknowledged and ignored; the provider retries on non-2xx.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.WebhookSecret)
	if err != nil {
		h.Logger.Warn("webhook signature verification failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "invalid signature", "webhook signature verification failed")
		return
	}

	switch string(event.Type) {
	case "checkout.session.completed",
		"checkout.session.async_payment_succeeded",
		"checkout.session.async_payment_failed",
		"checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			h.Logger.Error("failed to parse webhook session payload", zap.Error(err))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		if sess.ClientReferenceID == "" {
			h.Logger.Warn("webhook session has no client reference", zap.String("eventType", string(event.Type)))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		if _, err := h.Engine.Reconcile(c.Request.Context(), sess.ClientReferenceID); err != nil {
			// A retryable failure must not be acked: the provider only
			// redelivers on non-2xx, and redelivery is safe because
			// reconcile is idempotent.
			if booking.IsStoreUnavailable(err) || booking.IsProviderUnavailable(err) {
				h.Logger.Error("webhook reconciliation failed, requesting redelivery",
					zap.String("reference", sess.ClientReferenceID), zap.Error(err))
				utils.JSONError(c, http.StatusServiceUnavailable, "reconciliation failed", "event will be retried")
				return
			}
			// Validation errors (e.g. a reference this system never issued)
			// will not improve on redelivery; ack and drop.
			h.Logger.Error("webhook reconciliation failed",
				zap.String("reference", sess.ClientReferenceID), zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"received": true})

	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func (h *PaymentHandler) respondError(c *gin.Context, err error) {
	switch {
	case booking.IsValidationError(err):
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
	case booking.IsProviderUnavailable(err):
		utils.JSONError(c, http.StatusBadGateway, "payment provider unavailable", "please try again shortly")
	case booking.IsStoreUnavailable(err):
		utils.JSONError(c, http.StatusServiceUnavailable, "service temporarily unavailable", "please try again shortly")
	default:
		h.Logger.Error("payment request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "an unexpected error occurred")
	}
}
