package domain

import "time"

// TicketMessage captures one entry in a ticket's conversation thread.
// Messages are immutable once created and ordered by CreatedAt ascending.
type TicketMessage struct {
	ID        string
	TicketID  string
	Content   string
	IsStaff   bool
	CreatedAt time.Time
}
