package dto

import (
	"time"

	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/repository"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Company  *string `json:"company"`
	Phone    *string `json:"phone"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public account shape.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Company   *string     `json:"company"`
	Phone     *string     `json:"phone"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// AuthResponse carries a fresh token with its account.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// AccountCountsResponse summarizes live portal state for the dashboard.
type AccountCountsResponse struct {
	OpenTickets     int `json:"open_tickets"`
	PendingInvoices int `json:"pending_invoices"`
	ActiveServices  int `json:"active_services"`
}

// MeResponse is the authenticated account with its counts.
type MeResponse struct {
	User   UserResponse          `json:"user"`
	Counts AccountCountsResponse `json:"counts"`
}

// NewUserResponse maps the domain account.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Company:   user.Company,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// NewAccountCountsResponse maps repository counts.
func NewAccountCountsResponse(counts repository.AccountCounts) AccountCountsResponse {
	return AccountCountsResponse{
		OpenTickets:     counts.OpenTickets,
		PendingInvoices: counts.PendingInvoices,
		ActiveServices:  counts.ActiveServices,
	}
}
