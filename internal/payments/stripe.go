package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/pedro-it/portal-api/internal/config"
	"github.com/pedro-it/portal-api/internal/domain"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

const metadataInvoiceID = "invoice_id"

// StripeProvider implements Provider on the Stripe API.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
	currency      string
	frontendURL   string
}

// NewStripeProvider builds the provider. Returns nil when no secret key is
// configured; checkout endpoints then report the collaborator unavailable.
func NewStripeProvider(cfg config.StripeConfig, frontendURL string) *StripeProvider {
	if cfg.SecretKey == "" {
		return nil
	}
	return &StripeProvider{
		api:           client.New(cfg.SecretKey, nil),
		webhookSecret: cfg.WebhookSecret,
		currency:      cfg.Currency,
		frontendURL:   frontendURL,
	}
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, user *domain.User) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.Name),
	}
	params.Context = ctx
	params.AddMetadata("user_id", user.ID)
	if user.Company != nil {
		params.Description = stripe.String(*user.Company)
	}

	customer, err := p.api.Customers.New(params)
	if err != nil {
		return "", apperrors.NewUpstreamFailure("payment provider", err)
	}
	return customer.ID, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, invoice *domain.Invoice, customerRef *string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(fmt.Sprintf("%s/dashboard/invoices?payment=success&invoice=%s", p.frontendURL, invoice.ID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/dashboard/invoices?payment=cancelled&invoice=%s", p.frontendURL, invoice.ID)),
	}
	params.Context = ctx
	params.AddMetadata(metadataInvoiceID, invoice.ID)
	if customerRef != nil {
		params.Customer = stripe.String(*customerRef)
	}

	for _, item := range invoice.Items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.currency),
				UnitAmount: stripe.Int64(item.UnitAmountMinor()),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Description),
				},
			},
		})
	}

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("payment provider", err)
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// VerifyEvent checks the payload signature and maps Stripe event types onto
// portal events. Event types outside the checkout flow come back as ignored.
func (p *StripeProvider) VerifyEvent(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, apperrors.NewSignatureInvalid(err)
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		session, err := parseSession(event.Data.Raw)
		if err != nil {
			return nil, err
		}
		ref := session.ID
		if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
			ref = session.PaymentIntent.ID
		}
		return &WebhookEvent{
			Kind:          EventCheckoutCompleted,
			InvoiceID:     session.Metadata[metadataInvoiceID],
			SessionID:     session.ID,
			SettlementRef: ref,
		}, nil
	case "checkout.session.async_payment_failed", "checkout.session.expired":
		session, err := parseSession(event.Data.Raw)
		if err != nil {
			return nil, err
		}
		return &WebhookEvent{
			Kind:          EventPaymentFailed,
			InvoiceID:     session.Metadata[metadataInvoiceID],
			SessionID:     session.ID,
			FailureReason: string(event.Type),
		}, nil
	default:
		return &WebhookEvent{Kind: EventIgnored}, nil
	}
}

func parseSession(raw json.RawMessage) (*stripe.CheckoutSession, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, apperrors.NewSignatureInvalid(err)
	}
	return &session, nil
}

var _ Provider = (*StripeProvider)(nil)
