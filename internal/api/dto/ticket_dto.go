package dto

import (
	"time"

	"github.com/pedro-it/portal-api/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title" validate:"required,min=5,max=200"`
	Description string                `json:"description" validate:"required,min=10"`
	Category    string                `json:"category" validate:"required"`
	Priority    domain.TicketPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// UpdateTicketRequest payload; absent fields stay unchanged.
type UpdateTicketRequest struct {
	Status   *domain.TicketStatus   `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS WAITING_CLIENT RESOLVED CLOSED"`
	Priority *domain.TicketPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// TicketSummary response.
type TicketSummary struct {
	ID        string                `json:"id"`
	UserID    string                `json:"user_id"`
	Title     string                `json:"title"`
	Category  string                `json:"category"`
	Status    domain.TicketStatus   `json:"status"`
	Priority  domain.TicketPriority `json:"priority"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	ClosedAt  *time.Time            `json:"closed_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description string                  `json:"description"`
	Messages    []TicketMessageResponse `json:"messages"`
}

// TicketMessageResponse represents a thread message.
type TicketMessageResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Content   string    `json:"content"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketStatsResponse is the staff dashboard aggregate.
type TicketStatsResponse struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}

// NewTicketSummary maps the domain ticket.
func NewTicketSummary(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:        ticket.ID,
		UserID:    ticket.UserID,
		Title:     ticket.Title,
		Category:  ticket.Category,
		Status:    ticket.Status,
		Priority:  ticket.Priority,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
		ClosedAt:  ticket.ClosedAt,
	}
}

// NewTicketDetail maps a ticket with its thread.
func NewTicketDetail(ticket *domain.Ticket, messages []domain.TicketMessage) TicketDetailResponse {
	msgs := make([]TicketMessageResponse, 0, len(messages))
	for i := range messages {
		msgs = append(msgs, NewTicketMessageResponse(&messages[i]))
	}
	return TicketDetailResponse{
		TicketSummary: NewTicketSummary(ticket),
		Description:   ticket.Description,
		Messages:      msgs,
	}
}

// NewTicketMessageResponse maps a thread message.
func NewTicketMessageResponse(msg *domain.TicketMessage) TicketMessageResponse {
	return TicketMessageResponse{
		ID:        msg.ID,
		TicketID:  msg.TicketID,
		Content:   msg.Content,
		IsStaff:   msg.IsStaff,
		CreatedAt: msg.CreatedAt,
	}
}
