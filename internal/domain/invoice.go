package domain

import (
	"math"
	"time"
)

// InvoiceStatus enumerates billing states.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// ValidInvoiceStatus reports whether s is a known invoice status.
func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice is a billable request for payment composed of line items.
// Amount equals the sum over items of quantity * unit price. PaidAt is set
// exactly when Status is PAID.
type Invoice struct {
	ID          string
	Number      string
	UserID      string
	Description string
	Amount      float64
	Status      InvoiceStatus
	DueDate     time.Time
	PaidAt      *time.Time
	// StripeID holds the checkout session id while payment is pending and the
	// settlement reference once the provider confirms.
	StripeID  *string
	Items     []InvoiceItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvoiceItem is a single line of an invoice, immutable after creation.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    int
	UnitPrice   float64
}

// Total returns the line amount.
func (i InvoiceItem) Total() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// UnitAmountMinor converts the unit price to integer minor-currency units.
func (i InvoiceItem) UnitAmountMinor() int64 {
	return int64(math.Round(i.UnitPrice * 100))
}

// SumItems computes the invoice amount from its line items.
func SumItems(items []InvoiceItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Total()
	}
	return total
}
