package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/events"
	"github.com/pedro-it/portal-api/internal/payments"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

type invoiceFixture struct {
	svc      *InvoiceService
	invoices *fakeInvoiceRepo
	users    *fakeUserRepo
	provider *fakeProvider
	client   *domain.User
	staff    *domain.User
}

func newInvoiceFixture() *invoiceFixture {
	invoices := newFakeInvoiceRepo()
	users := newFakeUserRepo()
	provider := &fakeProvider{}
	client := users.add(clientUser())
	staff := users.add(staffUser())
	svc := NewInvoiceService(invoices, users, provider, events.NewInMemoryDispatcher(), zap.NewNop())
	return &invoiceFixture{svc: svc, invoices: invoices, users: users, provider: provider, client: client, staff: staff}
}

func (f *invoiceFixture) createInvoice(t *testing.T) *domain.Invoice {
	t.Helper()
	invoice, err := f.svc.CreateInvoice(context.Background(), f.staff, InvoiceCreateInput{
		UserID:      f.client.ID,
		Description: "Soporte técnico mensual",
		DueDate:     time.Now().Add(15 * 24 * time.Hour),
		Items: []InvoiceItemInput{
			{Description: "Soporte remoto", Quantity: 2, UnitPrice: 50},
			{Description: "Soporte presencial", Quantity: 1, UnitPrice: 75},
		},
	})
	require.NoError(t, err)
	return invoice
}

func TestCreateInvoiceDerivesAmountFromItems(t *testing.T) {
	f := newInvoiceFixture()
	invoice := f.createInvoice(t)

	assert.InDelta(t, 175.00, invoice.Amount, 0.001)
	assert.Equal(t, domain.InvoiceStatusPending, invoice.Status)
	assert.Nil(t, invoice.PaidAt)
}

func TestCreateInvoiceAssignsSequentialNumbers(t *testing.T) {
	f := newInvoiceFixture()
	first := f.createInvoice(t)
	second := f.createInvoice(t)

	assert.NotEmpty(t, first.Number)
	assert.NotEqual(t, first.Number, second.Number)
	assert.Regexp(t, `^PIT-\d{4}-\d{4}$`, first.Number)
}

func TestInitiateCheckoutConvertsToMinorUnits(t *testing.T) {
	f := newInvoiceFixture()
	invoice := f.createInvoice(t)

	session, err := f.svc.InitiateCheckout(context.Background(), f.client, invoice.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, session.URL)

	require.NotNil(t, f.provider.lastInvoice)
	require.Len(t, f.provider.lastInvoice.Items, 2)
	assert.Equal(t, int64(5000), f.provider.lastInvoice.Items[0].UnitAmountMinor())
	assert.Equal(t, int64(7500), f.provider.lastInvoice.Items[1].UnitAmountMinor())

	stored, err := f.invoices.GetByID(context.Background(), invoice.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.StripeID)
	assert.Equal(t, session.ID, *stored.StripeID)
}

func TestInitiateCheckoutCreatesCustomerLazily(t *testing.T) {
	f := newInvoiceFixture()
	invoice := f.createInvoice(t)

	_, err := f.svc.InitiateCheckout(context.Background(), f.client, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.provider.customerCalls)

	user, err := f.users.GetByID(context.Background(), f.client.ID)
	require.NoError(t, err)
	require.NotNil(t, user.StripeID)

	// The stored reference is reused on the next checkout.
	second := f.createInvoice(t)
	_, err = f.svc.InitiateCheckout(context.Background(), f.client, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.provider.customerCalls)
}

func TestInitiateCheckoutRejectsPaidInvoice(t *testing.T) {
	f := newInvoiceFixture()
	invoice := f.createInvoice(t)

	_, err := f.invoices.MarkPaid(context.Background(), invoice.ID, "pi_settled")
	require.NoError(t, err)

	_, err = f.svc.InitiateCheckout(context.Background(), f.client, invoice.ID)
	require.Error(t, err)
	assert.Equal(t, "ALREADY_PAID", apperrors.ToDomainError(err).Code)
}

func TestInitiateCheckoutRejectsOtherClientsInvoice(t *testing.T) {
	f := newInvoiceFixture()
	invoice := f.createInvoice(t)
	intruder := f.users.add(clientUser())

	_, err := f.svc.InitiateCheckout(context.Background(), intruder, invoice.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	f := newInvoiceFixture()
	invoice := f.createInvoice(t)

	event := &payments.WebhookEvent{
		Kind:          payments.EventCheckoutCompleted,
		InvoiceID:     invoice.ID,
		SessionID:     "cs_test",
		SettlementRef: "pi_settled",
	}
	require.NoError(t, f.svc.ConfirmPayment(context.Background(), event))

	paid, err := f.invoices.GetByID(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	firstPaidAt := *paid.PaidAt

	// A redelivered notification changes nothing.
	require.NoError(t, f.svc.ConfirmPayment(context.Background(), event))
	replayed, err := f.invoices.GetByID(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, firstPaidAt, *replayed.PaidAt)
}

func TestFailedPaymentLeavesInvoicePayable(t *testing.T) {
	f := newInvoiceFixture()
	invoice := f.createInvoice(t)

	err := f.svc.HandleFailedPayment(context.Background(), &payments.WebhookEvent{
		Kind:          payments.EventPaymentFailed,
		InvoiceID:     invoice.ID,
		SessionID:     "cs_test",
		FailureReason: "checkout.session.expired",
	})
	require.NoError(t, err)

	stored, err := f.invoices.GetByID(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPending, stored.Status)

	_, err = f.svc.InitiateCheckout(context.Background(), f.client, invoice.ID)
	require.NoError(t, err)
}

func TestSetStatusValidatesAndApplies(t *testing.T) {
	f := newInvoiceFixture()
	invoice := f.createInvoice(t)

	_, err := f.svc.SetStatus(context.Background(), f.staff, invoice.ID, domain.InvoiceStatus("BOGUS"))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	updated, err := f.svc.SetStatus(context.Background(), f.staff, invoice.ID, domain.InvoiceStatusOverdue)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusOverdue, updated.Status)
}

func TestSetStatusLeavingPaidClearsPaidAt(t *testing.T) {
	f := newInvoiceFixture()
	invoice := f.createInvoice(t)

	require.NoError(t, f.svc.ConfirmPayment(context.Background(), &payments.WebhookEvent{
		Kind:          payments.EventCheckoutCompleted,
		InvoiceID:     invoice.ID,
		SessionID:     "cs_test",
		SettlementRef: "pi_settled",
	}))

	// paidAt follows the status in both directions.
	updated, err := f.svc.SetStatus(context.Background(), f.staff, invoice.ID, domain.InvoiceStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusCancelled, updated.Status)
	assert.Nil(t, updated.PaidAt)

	restored, err := f.svc.SetStatus(context.Background(), f.staff, invoice.ID, domain.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, restored.Status)
	require.NotNil(t, restored.PaidAt)
}
