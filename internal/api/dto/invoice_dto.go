package dto

import (
	"time"

	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/repository"
)

// InvoiceItemRequest is one billable line of a new invoice.
type InvoiceItemRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
	UnitPrice   float64 `json:"unit_price" validate:"required,gt=0"`
}

// CreateInvoiceRequest payload.
type CreateInvoiceRequest struct {
	UserID      string               `json:"user_id" validate:"required,uuid4"`
	Description string               `json:"description" validate:"required,max=500"`
	DueDate     time.Time            `json:"due_date" validate:"required"`
	Items       []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceStatusRequest is the staff bookkeeping override.
type UpdateInvoiceStatusRequest struct {
	Status domain.InvoiceStatus `json:"status" validate:"required,oneof=DRAFT PENDING PAID OVERDUE CANCELLED"`
}

// InvoiceItemResponse maps one line item.
type InvoiceItemResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// InvoiceResponse is the full invoice shape.
type InvoiceResponse struct {
	ID          string                `json:"id"`
	Number      string                `json:"number"`
	UserID      string                `json:"user_id"`
	Description string                `json:"description"`
	Amount      float64               `json:"amount"`
	Status      domain.InvoiceStatus  `json:"status"`
	DueDate     time.Time             `json:"due_date"`
	PaidAt      *time.Time            `json:"paid_at"`
	Items       []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CheckoutResponse points the client at the hosted payment page.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// InvoiceStatusAggregateResponse is one status bucket of the revenue stats.
type InvoiceStatusAggregateResponse struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// InvoiceStatsResponse is the staff revenue aggregate.
type InvoiceStatsResponse struct {
	TotalRevenue float64                        `json:"total_revenue"`
	Pending      InvoiceStatusAggregateResponse `json:"pending"`
	Paid         InvoiceStatusAggregateResponse `json:"paid"`
	Overdue      InvoiceStatusAggregateResponse `json:"overdue"`
}

// NewInvoiceResponse maps the domain invoice.
func NewInvoiceResponse(invoice *domain.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		items = append(items, InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total(),
		})
	}
	return InvoiceResponse{
		ID:          invoice.ID,
		Number:      invoice.Number,
		UserID:      invoice.UserID,
		Description: invoice.Description,
		Amount:      invoice.Amount,
		Status:      invoice.Status,
		DueDate:     invoice.DueDate,
		PaidAt:      invoice.PaidAt,
		Items:       items,
		CreatedAt:   invoice.CreatedAt,
		UpdatedAt:   invoice.UpdatedAt,
	}
}

// NewInvoiceStatsResponse maps repository aggregates.
func NewInvoiceStatsResponse(stats repository.InvoiceStats) InvoiceStatsResponse {
	return InvoiceStatsResponse{
		TotalRevenue: stats.TotalRevenue,
		Pending:      InvoiceStatusAggregateResponse{Count: stats.Pending.Count, Amount: stats.Pending.Amount},
		Paid:         InvoiceStatusAggregateResponse{Count: stats.Paid.Count, Amount: stats.Paid.Amount},
		Overdue:      InvoiceStatusAggregateResponse{Count: stats.Overdue.Count, Amount: stats.Overdue.Amount},
	}
}
