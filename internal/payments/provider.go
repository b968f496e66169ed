// Package payments abstracts the card-payment provider used for invoice
// checkout. Services depend on the Provider interface; the Stripe
// implementation is wired at startup.
package payments

import (
	"context"

	"github.com/pedro-it/portal-api/internal/domain"
)

// CheckoutSession is the provider-hosted payment page created per invoice.
type CheckoutSession struct {
	ID  string
	URL string
}

// EventKind classifies verified provider notifications the portal reacts to.
type EventKind string

const (
	EventCheckoutCompleted EventKind = "checkout_completed"
	EventPaymentFailed     EventKind = "payment_failed"
	EventIgnored           EventKind = "ignored"
)

// WebhookEvent is a verified provider notification. InvoiceID comes from the
// session metadata written at checkout creation.
type WebhookEvent struct {
	Kind          EventKind
	InvoiceID     string
	SessionID     string
	SettlementRef string
	FailureReason string
}

// Provider is the outbound payment collaborator.
type Provider interface {
	// CreateCustomer registers the user with the provider and returns the
	// customer reference stored on the account.
	CreateCustomer(ctx context.Context, user *domain.User) (string, error)
	// CreateCheckoutSession opens a hosted payment page for the invoice.
	CreateCheckoutSession(ctx context.Context, invoice *domain.Invoice, customerRef *string) (*CheckoutSession, error)
	// VerifyEvent authenticates a raw webhook payload and maps it to a
	// portal-relevant event. Unauthenticated payloads are rejected.
	VerifyEvent(payload []byte, signature string) (*WebhookEvent, error)
}
