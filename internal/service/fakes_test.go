package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/payments"
	"github.com/pedro-it/portal-api/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.UserID != nil && ticket.UserID != *filter.UserID {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) Stats(_ context.Context) (repository.TicketStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := repository.TicketStats{Total: len(r.tickets)}
	for _, ticket := range r.tickets {
		switch ticket.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusResolved:
			stats.Resolved++
		}
	}
	return stats, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	tickets  *fakeTicketRepo
	messages map[string][]domain.TicketMessage
}

func newFakeMessageRepo(tickets *fakeTicketRepo) *fakeMessageRepo {
	return &fakeMessageRepo{tickets: tickets, messages: make(map[string][]domain.TicketMessage)}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.TicketMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()
	r.messages[msg.TicketID] = append(r.messages[msg.TicketID], *msg)
	return nil
}

func (r *fakeMessageRepo) CreateAndTransition(ctx context.Context, msg *domain.TicketMessage, newStatus domain.TicketStatus) error {
	if err := r.Create(ctx, msg); err != nil {
		return err
	}
	ticket, err := r.tickets.GetByID(ctx, msg.TicketID)
	if err != nil {
		return err
	}
	ticket.Status = newStatus
	return r.tickets.Update(ctx, ticket)
}

func (r *fakeMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.TicketMessage{}, r.messages[ticketID]...), nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	counts repository.AccountCounts
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) add(user *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	clone := *user
	r.users[user.ID] = &clone
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.add(user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) CountsForUser(_ context.Context, _ string) (repository.AccountCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts, nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*domain.Invoice
	ordinal  int
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]*domain.Invoice)}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ordinal++
	invoice.ID = uuid.NewString()
	invoice.Number = fmt.Sprintf("PIT-%d-%04d", time.Now().Year(), r.ordinal)
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = invoice.CreatedAt
	for i := range invoice.Items {
		invoice.Items[i].ID = uuid.NewString()
		invoice.Items[i].InvoiceID = invoice.ID
	}
	clone := *invoice
	r.invoices[invoice.ID] = &clone
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*domain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *invoice
	return &clone, nil
}

func (r *fakeInvoiceRepo) ListWithFilter(_ context.Context, filter repository.InvoiceFilter) ([]domain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Invoice
	for _, invoice := range r.invoices {
		if filter.UserID != nil && invoice.UserID != *filter.UserID {
			continue
		}
		result = append(result, *invoice)
	}
	return result, nil
}

func (r *fakeInvoiceRepo) SetSession(_ context.Context, invoiceID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[invoiceID]
	if !ok {
		return pgx.ErrNoRows
	}
	invoice.StripeID = &sessionID
	return nil
}

func (r *fakeInvoiceRepo) MarkPaid(_ context.Context, invoiceID, settlementRef string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[invoiceID]
	if !ok {
		return false, nil
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		return false, nil
	}
	now := time.Now()
	invoice.Status = domain.InvoiceStatusPaid
	invoice.PaidAt = &now
	invoice.StripeID = &settlementRef
	return true, nil
}

func (r *fakeInvoiceRepo) SetStatus(_ context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[invoiceID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	invoice.Status = status
	if status == domain.InvoiceStatusPaid {
		if invoice.PaidAt == nil {
			now := time.Now()
			invoice.PaidAt = &now
		}
	} else {
		invoice.PaidAt = nil
	}
	clone := *invoice
	return &clone, nil
}

func (r *fakeInvoiceRepo) Stats(_ context.Context) (repository.InvoiceStats, error) {
	return repository.InvoiceStats{}, nil
}

type fakeProvider struct {
	mu              sync.Mutex
	customerCalls   int
	sessionCalls    int
	lastInvoice     *domain.Invoice
	lastCustomerRef *string
}

func (p *fakeProvider) CreateCustomer(_ context.Context, user *domain.User) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.customerCalls++
	return "cus_" + user.ID[:8], nil
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, invoice *domain.Invoice, customerRef *string) (*payments.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionCalls++
	p.lastInvoice = invoice
	p.lastCustomerRef = customerRef
	return &payments.CheckoutSession{
		ID:  "cs_test_" + invoice.ID[:8],
		URL: "https://checkout.example.com/cs_test_" + invoice.ID[:8],
	}, nil
}

func (p *fakeProvider) VerifyEvent(_ []byte, _ string) (*payments.WebhookEvent, error) {
	return &payments.WebhookEvent{Kind: payments.EventIgnored}, nil
}

type fakeServiceRepo struct {
	mu       sync.Mutex
	services map[string]*domain.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: make(map[string]*domain.Service)}
}

func (r *fakeServiceRepo) Create(_ context.Context, svc *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc.ID = uuid.NewString()
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = svc.CreatedAt
	clone := *svc
	r.services[svc.ID] = &clone
	return nil
}

func (r *fakeServiceRepo) Update(_ context.Context, svc *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[svc.ID]; !ok {
		return pgx.ErrNoRows
	}
	svc.UpdatedAt = time.Now()
	clone := *svc
	r.services[svc.ID] = &clone
	return nil
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *svc
	return &clone, nil
}

func (r *fakeServiceRepo) ListActive(_ context.Context) ([]domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Service
	for _, svc := range r.services {
		if svc.IsActive {
			result = append(result, *svc)
		}
	}
	return result, nil
}

type fakeClientServiceRepo struct {
	mu       sync.Mutex
	services *fakeServiceRepo
	assigned map[string]*domain.ClientService
}

func newFakeClientServiceRepo(services *fakeServiceRepo) *fakeClientServiceRepo {
	return &fakeClientServiceRepo{services: services, assigned: make(map[string]*domain.ClientService)}
}

func (r *fakeClientServiceRepo) withService(ctx context.Context, cs domain.ClientService) *domain.ClientService {
	if svc, err := r.services.GetByID(ctx, cs.ServiceID); err == nil {
		cs.Service = svc
	}
	return &cs
}

func (r *fakeClientServiceRepo) GetByUserAndService(ctx context.Context, userID, serviceID string) (*domain.ClientService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cs := range r.assigned {
		if cs.UserID == userID && cs.ServiceID == serviceID {
			return r.withService(ctx, *cs), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeClientServiceRepo) GetByID(ctx context.Context, id string) (*domain.ClientService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs, ok := r.assigned[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.withService(ctx, *cs), nil
}

func (r *fakeClientServiceRepo) Create(_ context.Context, cs *domain.ClientService) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs.ID = uuid.NewString()
	cs.StartDate = time.Now()
	clone := *cs
	r.assigned[cs.ID] = &clone
	return nil
}

func (r *fakeClientServiceRepo) Reactivate(_ context.Context, id string, notes *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs, ok := r.assigned[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cs.Status = domain.ClientServiceActive
	cs.StartDate = time.Now()
	cs.EndDate = nil
	cs.Notes = notes
	return nil
}

func (r *fakeClientServiceRepo) Update(_ context.Context, cs *domain.ClientService) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assigned[cs.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *cs
	clone.Service = nil
	r.assigned[cs.ID] = &clone
	return nil
}

func (r *fakeClientServiceRepo) ListByUser(ctx context.Context, userID string, status *domain.ClientServiceStatus) ([]domain.ClientService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ClientService
	for _, cs := range r.assigned {
		if cs.UserID != userID {
			continue
		}
		if status != nil && cs.Status != *status {
			continue
		}
		result = append(result, *r.withService(ctx, *cs))
	}
	return result, nil
}

func (r *fakeClientServiceRepo) ListAll(ctx context.Context, status *domain.ClientServiceStatus) ([]domain.ClientService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ClientService
	for _, cs := range r.assigned {
		if status != nil && cs.Status != *status {
			continue
		}
		result = append(result, *r.withService(ctx, *cs))
	}
	return result, nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	messages map[string][]domain.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{messages: make(map[string][]domain.ChatMessage)}
}

func (r *fakeChatRepo) CreatePair(_ context.Context, userMsg, assistantMsg *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range []*domain.ChatMessage{userMsg, assistantMsg} {
		msg.ID = uuid.NewString()
		msg.CreatedAt = time.Now()
		r.messages[msg.UserID] = append(r.messages[msg.UserID], *msg)
	}
	return nil
}

func (r *fakeChatRepo) ListRecent(_ context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[userID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]domain.ChatMessage{}, msgs...), nil
}

func (r *fakeChatRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[userID]
	if offset >= len(msgs) {
		return nil, nil
	}
	msgs = msgs[offset:]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return append([]domain.ChatMessage{}, msgs...), nil
}

func (r *fakeChatRepo) CountByUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages[userID]), nil
}

func (r *fakeChatRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, userID)
	return nil
}

func clientUser() *domain.User {
	return &domain.User{
		ID:    uuid.NewString(),
		Name:  "Ana López",
		Email: "ana@example.com",
		Role:  domain.RoleClient,
	}
}

func staffUser() *domain.User {
	return &domain.User{
		ID:    uuid.NewString(),
		Name:  "Pedro Admin",
		Email: "admin@example.com",
		Role:  domain.RoleAdmin,
	}
}
