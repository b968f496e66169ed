package domain

import "time"

// Role separates clients from staff. Staff are ADMIN; everyone else is a
// CLIENT acting only on their own records.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAdmin  Role = "ADMIN"
)

// User is the domain model for portal accounts, both clients and staff.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Company      *string
	Phone        *string
	Role         Role
	// StripeID references the payment provider customer created at registration.
	StripeID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsStaff reports whether the user may perform administrative operations.
func (u *User) IsStaff() bool {
	return u != nil && u.Role == RoleAdmin
}
