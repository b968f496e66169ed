package domain

import "time"

// ChatRole identifies who authored a conversation turn.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one persisted turn of the assistant conversation. Turns are
// appended in user/assistant pairs and may be bulk-cleared by the owner.
type ChatMessage struct {
	ID        string
	UserID    string
	Role      ChatRole
	Content   string
	CreatedAt time.Time
}

// TokenUsage reports text-generation token counters for a single exchange.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}
