package domain

import "time"

// ServicePriceType describes how a catalog service is billed.
type ServicePriceType string

const (
	PriceTypeHourly  ServicePriceType = "HOURLY"
	PriceTypeMonthly ServicePriceType = "MONTHLY"
	PriceTypeOneTime ServicePriceType = "ONE_TIME"
)

// Service is a catalog entry offered to clients.
type Service struct {
	ID          string
	Name        string
	Description string
	PriceType   ServicePriceType
	Price       float64
	Features    []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ClientServiceStatus tracks an assignment's lifecycle.
type ClientServiceStatus string

const (
	ClientServiceActive    ClientServiceStatus = "ACTIVE"
	ClientServiceSuspended ClientServiceStatus = "SUSPENDED"
	ClientServiceCancelled ClientServiceStatus = "CANCELLED"
)

// ClientService links a client to a catalog service. At most one row exists
// per (user, service) pair; reassignment reactivates the existing row.
type ClientService struct {
	ID        string
	UserID    string
	ServiceID string
	Status    ClientServiceStatus
	StartDate time.Time
	EndDate   *time.Time
	Notes     *string
	Service   *Service
}
