package events

import (
	"time"

	"github.com/pedro-it/portal-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketMessageAdded    EventType = "ticket_message_added"

	EventInvoiceCreated           EventType = "invoice_created"
	EventInvoiceCheckoutInitiated EventType = "invoice_checkout_initiated"
	EventInvoicePaid              EventType = "invoice_paid"
	EventInvoicePaymentFailed     EventType = "invoice_payment_failed"
	EventInvoiceStatusChanged     EventType = "invoice_status_changed"

	EventServiceAssigned EventType = "service_assigned"
)

// Actor encapsulates actor metadata for an event. System-originated events
// (webhook confirmations) carry an empty UserID.
type Actor struct {
	Role   domain.Role `json:"role"`
	UserID string      `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Category string                `json:"category"`
	Priority domain.TicketPriority `json:"priority"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID   string `json:"message_id"`
	IsStaff     bool   `json:"is_staff"`
	BodyPreview string `json:"body_preview"`
}

// InvoiceCreatedPayload payload.
type InvoiceCreatedPayload struct {
	Number string  `json:"number"`
	Amount float64 `json:"amount"`
	UserID string  `json:"user_id"`
}

// InvoiceCheckoutInitiatedPayload payload.
type InvoiceCheckoutInitiatedPayload struct {
	Number    string `json:"number"`
	SessionID string `json:"session_id"`
}

// InvoicePaidPayload payload.
type InvoicePaidPayload struct {
	Number        string  `json:"number"`
	Amount        float64 `json:"amount"`
	SettlementRef string  `json:"settlement_ref"`
}

// InvoicePaymentFailedPayload payload.
type InvoicePaymentFailedPayload struct {
	Number string `json:"number"`
	Reason string `json:"reason,omitempty"`
}

// InvoiceStatusChangedPayload payload.
type InvoiceStatusChangedPayload struct {
	OldStatus domain.InvoiceStatus `json:"old_status"`
	NewStatus domain.InvoiceStatus `json:"new_status"`
}

// ServiceAssignedPayload payload.
type ServiceAssignedPayload struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	UserID      string `json:"user_id"`
	Reactivated bool   `json:"reactivated"`
}
