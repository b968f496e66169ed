package dto

import (
	"time"

	"github.com/pedro-it/portal-api/internal/domain"
)

// ServiceRequest payload for catalog create/update.
type ServiceRequest struct {
	Name        string                  `json:"name" validate:"required,min=2,max=200"`
	Description string                  `json:"description" validate:"required"`
	PriceType   domain.ServicePriceType `json:"price_type" validate:"required,oneof=HOURLY MONTHLY ONE_TIME"`
	Price       float64                 `json:"price" validate:"required,gt=0"`
	Features    []string                `json:"features"`
	IsActive    *bool                   `json:"is_active"`
}

// AssignServiceRequest payload.
type AssignServiceRequest struct {
	UserID    string  `json:"user_id" validate:"required,uuid4"`
	ServiceID string  `json:"service_id" validate:"required,uuid4"`
	Notes     *string `json:"notes"`
}

// UpdateClientServiceRequest payload; absent fields stay unchanged.
type UpdateClientServiceRequest struct {
	Status *domain.ClientServiceStatus `json:"status" validate:"omitempty,oneof=ACTIVE SUSPENDED CANCELLED"`
	Notes  *string                     `json:"notes"`
}

// ServiceResponse is a catalog entry.
type ServiceResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	PriceType   domain.ServicePriceType `json:"price_type"`
	Price       float64                 `json:"price"`
	Features    []string                `json:"features"`
	IsActive    bool                    `json:"is_active"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// ClientServiceResponse is an assignment with its catalog entry.
type ClientServiceResponse struct {
	ID        string                     `json:"id"`
	UserID    string                     `json:"user_id"`
	ServiceID string                     `json:"service_id"`
	Status    domain.ClientServiceStatus `json:"status"`
	StartDate time.Time                  `json:"start_date"`
	EndDate   *time.Time                 `json:"end_date"`
	Notes     *string                    `json:"notes"`
	Service   *ServiceResponse           `json:"service,omitempty"`
}

// NewServiceResponse maps a catalog entry.
func NewServiceResponse(svc *domain.Service) ServiceResponse {
	features := svc.Features
	if features == nil {
		features = []string{}
	}
	return ServiceResponse{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		PriceType:   svc.PriceType,
		Price:       svc.Price,
		Features:    features,
		IsActive:    svc.IsActive,
		CreatedAt:   svc.CreatedAt,
		UpdatedAt:   svc.UpdatedAt,
	}
}

// NewClientServiceResponse maps an assignment.
func NewClientServiceResponse(cs *domain.ClientService) ClientServiceResponse {
	resp := ClientServiceResponse{
		ID:        cs.ID,
		UserID:    cs.UserID,
		ServiceID: cs.ServiceID,
		Status:    cs.Status,
		StartDate: cs.StartDate,
		EndDate:   cs.EndDate,
		Notes:     cs.Notes,
	}
	if cs.Service != nil {
		svc := NewServiceResponse(cs.Service)
		resp.Service = &svc
	}
	return resp
}
