package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/events"
	"github.com/pedro-it/portal-api/internal/repository"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

// CatalogService manages the service catalog and client assignments.
type CatalogService struct {
	services   repository.ServiceRepository
	assigned   repository.ClientServiceRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewCatalogService constructs the service.
func NewCatalogService(services repository.ServiceRepository, assigned repository.ClientServiceRepository, users repository.UserRepository, dispatcher events.Dispatcher) *CatalogService {
	return &CatalogService{services: services, assigned: assigned, users: users, dispatcher: dispatcher}
}

// ServiceInput describes a catalog entry payload.
type ServiceInput struct {
	Name        string
	Description string
	PriceType   domain.ServicePriceType
	Price       float64
	Features    []string
	IsActive    *bool
}

// ListCatalog returns active catalog entries for clients.
func (s *CatalogService) ListCatalog(ctx context.Context) ([]domain.Service, error) {
	return s.services.ListActive(ctx)
}

// GetService returns one catalog entry. Inactive entries are hidden from
// clients but stay visible to staff for editing.
func (s *CatalogService) GetService(ctx context.Context, user *domain.User, serviceID string) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !svc.IsActive && !user.IsStaff() {
		return nil, apperrors.NewNotFound("service", map[string]any{"service_id": serviceID})
	}
	return svc, nil
}

// CreateService adds a catalog entry.
func (s *CatalogService) CreateService(ctx context.Context, input ServiceInput) (*domain.Service, error) {
	if !validPriceType(input.PriceType) {
		return nil, apperrors.NewValidationError("invalid price type", map[string]any{"price_type": input.PriceType})
	}
	svc := &domain.Service{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		PriceType:   input.PriceType,
		Price:       input.Price,
		Features:    input.Features,
		IsActive:    true,
	}
	if input.IsActive != nil {
		svc.IsActive = *input.IsActive
	}
	if svc.Features == nil {
		svc.Features = []string{}
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// UpdateService modifies a catalog entry.
func (s *CatalogService) UpdateService(ctx context.Context, serviceID string, input ServiceInput) (*domain.Service, error) {
	if !validPriceType(input.PriceType) {
		return nil, apperrors.NewValidationError("invalid price type", map[string]any{"price_type": input.PriceType})
	}
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	svc.Name = strings.TrimSpace(input.Name)
	svc.Description = strings.TrimSpace(input.Description)
	svc.PriceType = input.PriceType
	svc.Price = input.Price
	if input.Features != nil {
		svc.Features = input.Features
	}
	if input.IsActive != nil {
		svc.IsActive = *input.IsActive
	}
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// AssignService links a catalog service to a client. An existing cancelled or
// suspended assignment is reactivated instead of duplicated; an active one is
// a conflict.
func (s *CatalogService) AssignService(ctx context.Context, staff *domain.User, userID, serviceID string, notes *string) (*domain.ClientService, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, apperrors.MapError(err)
	}
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	existing, err := s.assigned.GetByUserAndService(ctx, userID, serviceID)
	switch {
	case err == nil:
		if existing.Status == domain.ClientServiceActive {
			return nil, apperrors.NewAlreadyAssigned(serviceID, userID)
		}
		if err := s.assigned.Reactivate(ctx, existing.ID, notes); err != nil {
			return nil, err
		}
		reactivated, err := s.assigned.GetByID(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		s.publishAssigned(ctx, staff, reactivated, svc, true)
		return reactivated, nil
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, err
	}

	cs := &domain.ClientService{
		UserID:    userID,
		ServiceID: serviceID,
		Status:    domain.ClientServiceActive,
		Notes:     notes,
	}
	if err := s.assigned.Create(ctx, cs); err != nil {
		return nil, err
	}
	cs.Service = svc
	s.publishAssigned(ctx, staff, cs, svc, false)
	return cs, nil
}

// ClientServiceUpdateInput carries optional assignment mutations.
type ClientServiceUpdateInput struct {
	Status *domain.ClientServiceStatus
	Notes  *string
}

// UpdateAssignment changes an assignment's status or notes. Cancelling stamps
// the end date; moving back to active clears it.
func (s *CatalogService) UpdateAssignment(ctx context.Context, assignmentID string, input ClientServiceUpdateInput) (*domain.ClientService, error) {
	cs, err := s.assigned.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !validClientServiceStatus(*input.Status) {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		cs.Status = *input.Status
		switch cs.Status {
		case domain.ClientServiceCancelled:
			now := time.Now()
			cs.EndDate = &now
		case domain.ClientServiceActive:
			cs.EndDate = nil
		}
	}
	if input.Notes != nil {
		cs.Notes = input.Notes
	}

	if err := s.assigned.Update(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// ListAssignments returns assignments visible to the caller.
func (s *CatalogService) ListAssignments(ctx context.Context, user *domain.User, status *domain.ClientServiceStatus) ([]domain.ClientService, error) {
	if user.IsStaff() {
		return s.assigned.ListAll(ctx, status)
	}
	return s.assigned.ListByUser(ctx, user.ID, status)
}

func (s *CatalogService) publishAssigned(ctx context.Context, staff *domain.User, cs *domain.ClientService, svc *domain.Service, reactivated bool) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventServiceAssigned,
		SubjectID: cs.ID,
		Actor:     events.Actor{Role: staff.Role, UserID: staff.ID},
		Timestamp: time.Now(),
		Payload: events.ServiceAssignedPayload{
			ServiceID:   cs.ServiceID,
			ServiceName: svc.Name,
			UserID:      cs.UserID,
			Reactivated: reactivated,
		},
	})
}

func validPriceType(pt domain.ServicePriceType) bool {
	switch pt {
	case domain.PriceTypeHourly, domain.PriceTypeMonthly, domain.PriceTypeOneTime:
		return true
	}
	return false
}

func validClientServiceStatus(status domain.ClientServiceStatus) bool {
	switch status {
	case domain.ClientServiceActive, domain.ClientServiceSuspended, domain.ClientServiceCancelled:
		return true
	}
	return false
}
