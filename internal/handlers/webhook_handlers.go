package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/payments"
	"github.com/jordan-levelle/CC-Server/internal/services"
)

type WebhookHandler struct {
	users  *services.UserService
	pay    payments.Client
	logger *zap.SugaredLogger
}

func NewWebhookHandler(users *services.UserService, pay payments.Client, logger *zap.SugaredLogger) *WebhookHandler {
	return &WebhookHandler{users: users, pay: pay, logger: logger}
}

// HandleStripe verifies the signature over the raw body and mirrors
// subscription state changes into the user record.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	event, err := h.pay.ConstructEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Warnf("webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid signature"})
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed event"})
		}
		if sess.Customer != nil {
			subID := ""
			if sess.Subscription != nil {
				subID = sess.Subscription.ID
			}
			if err := h.users.ApplyCheckoutCompleted(c.Context(), sess.Customer.ID, subID); err != nil {
				h.logger.Errorf("apply checkout completed for %s: %v", sess.Customer.ID, err)
			}
		}
	case "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed event"})
		}
		if sess.Customer != nil {
			if err := h.users.ApplySubscriptionEnded(c.Context(), sess.Customer.ID); err != nil {
				h.logger.Warnf("apply checkout expired for %s: %v", sess.Customer.ID, err)
			}
		}
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed event"})
		}
		if sub.Customer != nil {
			if err := h.users.ApplySubscriptionEnded(c.Context(), sub.Customer.ID); err != nil {
				h.logger.Errorf("apply subscription ended for %s: %v", sub.Customer.ID, err)
			}
		}
	default:
		h.logger.Debugf("unhandled webhook event type %s", event.Type)
	}

	return c.JSON(fiber.Map{"received": true})
}
