package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pedro-it/portal-api/internal/payments"
	"github.com/pedro-it/portal-api/internal/service"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

// WebhooksHandler receives payment provider notifications. The route is
// unauthenticated; authenticity comes from the payload signature.
type WebhooksHandler struct {
	provider payments.Provider
	invoices *service.InvoiceService
	logger   *zap.Logger
}

// NewWebhooksHandler constructs handler.
func NewWebhooksHandler(provider payments.Provider, invoiceService *service.InvoiceService, logger *zap.Logger) *WebhooksHandler {
	return &WebhooksHandler{provider: provider, invoices: invoiceService, logger: logger}
}

// HandleStripe POST /webhooks/stripe.
func (h *WebhooksHandler) HandleStripe(c *fiber.Ctx) error {
	if h.provider == nil {
		return apperrors.NewUpstreamFailure("payment provider", errors.New("not configured"))
	}

	event, err := h.provider.VerifyEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		return err
	}

	switch event.Kind {
	case payments.EventCheckoutCompleted:
		if err := h.invoices.ConfirmPayment(c.UserContext(), event); err != nil {
			return err
		}
	case payments.EventPaymentFailed:
		if err := h.invoices.HandleFailedPayment(c.UserContext(), event); err != nil {
			return err
		}
	default:
		h.logger.Debug("webhook event ignored", zap.String("session_id", event.SessionID))
	}

	return c.JSON(fiber.Map{"received": true})
}
