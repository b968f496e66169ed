package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/events"
	"github.com/pedro-it/portal-api/internal/policy"
	"github.com/pedro-it/portal-api/internal/repository"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.TicketMessageRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, messages repository.TicketMessageRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, messages: messages, dispatcher: dispatcher}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.TicketPriority
}

// TicketUpdateInput carries optional mutations; nil fields stay unchanged.
type TicketUpdateInput struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Limit      int
	Offset     int
}

// CreateTicket opens a ticket for the calling client.
func (s *TicketService) CreateTicket(ctx context.Context, user *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if input.Priority != "" && !domain.ValidTicketPriority(input.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}

	ticket := &domain.Ticket{
		UserID:      user.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCreated,
		SubjectID: ticket.ID,
		Actor:     events.Actor{Role: user.Role, UserID: user.ID},
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the caller. Clients see their own
// tickets only; staff see everything the filter matches.
func (s *TicketService) ListTickets(ctx context.Context, user *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if !user.IsStaff() {
		repoFilter.UserID = &user.ID
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// GetTicket fetches a ticket with its thread, enforcing ownership for clients.
func (s *TicketService) GetTicket(ctx context.Context, user *domain.User, ticketID string) (*domain.Ticket, []domain.TicketMessage, error) {
	ticket, err := s.loadVisible(ctx, user, ticketID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, msgs, nil
}

// UpdateTicket applies status and priority changes subject to field policy.
// Fields a role may not set are dropped without error; the rest of the
// request still applies.
func (s *TicketService) UpdateTicket(ctx context.Context, user *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.loadVisible(ctx, user, ticketID)
	if err != nil {
		return nil, err
	}

	status := s.maskedStatus(user.Role, input.Status)
	priority := s.maskedPriority(user.Role, input.Priority)

	if status != nil {
		if !domain.ValidTicketStatus(*status) {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *status})
		}
		if ticket.Status == domain.TicketStatusClosed && *status != domain.TicketStatusClosed {
			return nil, apperrors.NewTicketClosed(ticket.ID)
		}
	}
	if priority != nil && !domain.ValidTicketPriority(*priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *priority})
	}

	oldStatus := ticket.Status
	oldPriority := ticket.Priority

	if status != nil && *status != ticket.Status {
		ticket.Status = *status
		if ticket.Status == domain.TicketStatusClosed {
			now := time.Now()
			ticket.ClosedAt = &now
		}
	}
	if priority != nil {
		ticket.Priority = *priority
	}

	if ticket.Status == oldStatus && ticket.Priority == oldPriority {
		return ticket, nil
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	actor := events.Actor{Role: user.Role, UserID: user.ID}
	if ticket.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventTicketStatusChanged,
			SubjectID: ticket.ID,
			Actor:     actor,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	if ticket.Priority != oldPriority {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventTicketPriorityChanged,
			SubjectID: ticket.ID,
			Actor:     actor,
			Payload: events.TicketPriorityChangedPayload{
				OldPriority: oldPriority,
				NewPriority: ticket.Priority,
			},
		})
	}
	return ticket, nil
}

// AddMessage appends a message to a ticket's thread. A client reply to a
// ticket waiting on them moves it back to IN_PROGRESS atomically with the
// insert.
func (s *TicketService) AddMessage(ctx context.Context, user *domain.User, ticketID, content string) (*domain.TicketMessage, error) {
	ticket, err := s.loadVisible(ctx, user, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewTicketClosed(ticket.ID)
	}

	msg := &domain.TicketMessage{
		TicketID: ticket.ID,
		Content:  strings.TrimSpace(content),
		IsStaff:  user.IsStaff(),
	}

	if !user.IsStaff() && ticket.Status == domain.TicketStatusWaitingClient {
		if err := s.messages.CreateAndTransition(ctx, msg, domain.TicketStatusInProgress); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.Event{
			Type:      events.EventTicketStatusChanged,
			SubjectID: ticket.ID,
			Actor:     events.Actor{Role: user.Role, UserID: user.ID},
			Payload: events.TicketStatusChangedPayload{
				OldStatus: domain.TicketStatusWaitingClient,
				NewStatus: domain.TicketStatusInProgress,
			},
		})
	} else {
		if err := s.messages.Create(ctx, msg); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketMessageAdded,
		SubjectID: ticket.ID,
		Actor:     events.Actor{Role: user.Role, UserID: user.ID},
		Payload: events.TicketMessageAddedPayload{
			MessageID:   msg.ID,
			IsStaff:     msg.IsStaff,
			BodyPreview: stringPreview(msg.Content, 120),
		},
	})
	return msg, nil
}

// Stats returns dashboard counters for staff.
func (s *TicketService) Stats(ctx context.Context) (repository.TicketStats, error) {
	return s.tickets.Stats(ctx)
}

func (s *TicketService) loadVisible(ctx context.Context, user *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !user.IsStaff() && ticket.UserID != user.ID {
		// Existence of other clients' tickets is not disclosed.
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

func (s *TicketService) maskedStatus(role domain.Role, status *domain.TicketStatus) *domain.TicketStatus {
	if status == nil {
		return nil
	}
	switch policy.TicketUpdateDecision(role, policy.FieldStatus) {
	case policy.Allow:
		return status
	default:
		return nil
	}
}

func (s *TicketService) maskedPriority(role domain.Role, priority *domain.TicketPriority) *domain.TicketPriority {
	if priority == nil {
		return nil
	}
	switch policy.TicketUpdateDecision(role, policy.FieldPriority) {
	case policy.Allow:
		return priority
	default:
		return nil
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
