package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/events"
	"github.com/pedro-it/portal-api/internal/payments"
	"github.com/pedro-it/portal-api/internal/repository"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

// InvoiceService coordinates billing workflows and the checkout flow.
type InvoiceService struct {
	invoices   repository.InvoiceRepository
	users      repository.UserRepository
	provider   payments.Provider
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewInvoiceService constructs the service.
func NewInvoiceService(invoices repository.InvoiceRepository, users repository.UserRepository, provider payments.Provider, dispatcher events.Dispatcher, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoices:   invoices,
		users:      users,
		provider:   provider,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// InvoiceItemInput is one billable line of a new invoice.
type InvoiceItemInput struct {
	Description string
	Quantity    int
	UnitPrice   float64
}

// InvoiceCreateInput describes the staff-issued invoice payload.
type InvoiceCreateInput struct {
	UserID      string
	Description string
	DueDate     time.Time
	Items       []InvoiceItemInput
}

// CreateInvoice issues a new invoice to a client. The amount is always
// derived from the line items; callers cannot set it directly.
func (s *InvoiceService) CreateInvoice(ctx context.Context, staff *domain.User, input InvoiceCreateInput) (*domain.Invoice, error) {
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, apperrors.MapError(err)
	}

	items := make([]domain.InvoiceItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.InvoiceItem{
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	invoice := &domain.Invoice{
		UserID:      input.UserID,
		Description: strings.TrimSpace(input.Description),
		Amount:      domain.SumItems(items),
		Status:      domain.InvoiceStatusPending,
		DueDate:     input.DueDate,
		Items:       items,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventInvoiceCreated,
		SubjectID: invoice.ID,
		Actor:     events.Actor{Role: staff.Role, UserID: staff.ID},
		Payload: events.InvoiceCreatedPayload{
			Number: invoice.Number,
			Amount: invoice.Amount,
			UserID: invoice.UserID,
		},
	})
	return invoice, nil
}

// ListInvoices returns invoices visible to the caller.
func (s *InvoiceService) ListInvoices(ctx context.Context, user *domain.User, filter repository.InvoiceFilter) ([]domain.Invoice, error) {
	if !user.IsStaff() {
		filter.UserID = &user.ID
	}
	return s.invoices.ListWithFilter(ctx, filter)
}

// GetInvoice fetches an invoice, enforcing ownership for clients.
func (s *InvoiceService) GetInvoice(ctx context.Context, user *domain.User, invoiceID string) (*domain.Invoice, error) {
	return s.loadVisible(ctx, user, invoiceID)
}

// InitiateCheckout opens a provider-hosted payment page for a payable
// invoice and records the session on it.
func (s *InvoiceService) InitiateCheckout(ctx context.Context, user *domain.User, invoiceID string) (*payments.CheckoutSession, error) {
	invoice, err := s.loadVisible(ctx, user, invoiceID)
	if err != nil {
		return nil, err
	}

	switch invoice.Status {
	case domain.InvoiceStatusPaid:
		return nil, apperrors.NewAlreadyPaid(invoice.ID)
	case domain.InvoiceStatusPending, domain.InvoiceStatusOverdue:
	default:
		return nil, apperrors.NewConflict("invoice is not payable", map[string]any{
			"invoice_id": invoice.ID,
			"status":     invoice.Status,
		})
	}

	if s.provider == nil {
		return nil, apperrors.NewUpstreamFailure("payment provider", errors.New("not configured"))
	}

	customerRef, err := s.ensureCustomer(ctx, invoice.UserID)
	if err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, invoice, customerRef)
	if err != nil {
		return nil, err
	}
	if err := s.invoices.SetSession(ctx, invoice.ID, session.ID); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventInvoiceCheckoutInitiated,
		SubjectID: invoice.ID,
		Actor:     events.Actor{Role: user.Role, UserID: user.ID},
		Payload: events.InvoiceCheckoutInitiatedPayload{
			Number:    invoice.Number,
			SessionID: session.ID,
		},
	})
	return session, nil
}

// ConfirmPayment settles an invoice from a verified provider notification.
// Redelivered notifications find the invoice already paid and change nothing.
func (s *InvoiceService) ConfirmPayment(ctx context.Context, event *payments.WebhookEvent) error {
	if event.InvoiceID == "" {
		s.logger.Warn("payment confirmation without invoice reference", zap.String("session_id", event.SessionID))
		return nil
	}

	applied, err := s.invoices.MarkPaid(ctx, event.InvoiceID, event.SettlementRef)
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Info("payment confirmation replay ignored", zap.String("invoice_id", event.InvoiceID))
		return nil
	}

	invoice, err := s.invoices.GetByID(ctx, event.InvoiceID)
	if err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventInvoicePaid,
		SubjectID: invoice.ID,
		Actor:     events.Actor{Role: domain.RoleAdmin},
		Payload: events.InvoicePaidPayload{
			Number:        invoice.Number,
			Amount:        invoice.Amount,
			SettlementRef: event.SettlementRef,
		},
	})
	return nil
}

// HandleFailedPayment records a failed or expired checkout. The invoice stays
// payable; the client can start a new session.
func (s *InvoiceService) HandleFailedPayment(ctx context.Context, event *payments.WebhookEvent) error {
	if event.InvoiceID == "" {
		return nil
	}
	invoice, err := s.invoices.GetByID(ctx, event.InvoiceID)
	if err != nil {
		return err
	}
	s.logger.Warn("invoice payment failed",
		zap.String("invoice_id", invoice.ID),
		zap.String("number", invoice.Number),
		zap.String("reason", event.FailureReason),
	)
	s.publishEvent(ctx, events.Event{
		Type:      events.EventInvoicePaymentFailed,
		SubjectID: invoice.ID,
		Actor:     events.Actor{Role: domain.RoleAdmin},
		Payload: events.InvoicePaymentFailedPayload{
			Number: invoice.Number,
			Reason: event.FailureReason,
		},
	})
	return nil
}

// SetStatus is the staff override for manual bookkeeping, covering states the
// checkout flow never sets (DRAFT, OVERDUE, CANCELLED). Moving an invoice out
// of PAID clears paidAt; the settlement reference stays on the record.
func (s *InvoiceService) SetStatus(ctx context.Context, staff *domain.User, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	if !domain.ValidInvoiceStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	current, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}

	invoice, err := s.invoices.SetStatus(ctx, invoiceID, status)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventInvoiceStatusChanged,
		SubjectID: invoice.ID,
		Actor:     events.Actor{Role: staff.Role, UserID: staff.ID},
		Payload: events.InvoiceStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: invoice.Status,
		},
	})
	return invoice, nil
}

// Stats returns revenue aggregates for the staff dashboard.
func (s *InvoiceService) Stats(ctx context.Context) (repository.InvoiceStats, error) {
	return s.invoices.Stats(ctx)
}

func (s *InvoiceService) loadVisible(ctx context.Context, user *domain.User, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !user.IsStaff() && invoice.UserID != user.ID {
		return nil, apperrors.NewNotFound("invoice", map[string]any{"invoice_id": invoiceID})
	}
	return invoice, nil
}

func (s *InvoiceService) ensureCustomer(ctx context.Context, userID string) (*string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.StripeID != nil {
		return user.StripeID, nil
	}
	customerRef, err := s.provider.CreateCustomer(ctx, user)
	if err != nil {
		return nil, err
	}
	user.StripeID = &customerRef
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.StripeID, nil
}

func (s *InvoiceService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
