package dto

import (
	"time"

	"github.com/pedro-it/portal-api/internal/domain"
)

// ChatMessageRequest payload.
type ChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// ChatMessageResponse is one persisted conversation turn.
type ChatMessageResponse struct {
	ID        string          `json:"id"`
	Role      domain.ChatRole `json:"role"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}

// ChatReplyResponse is the assistant answer with token accounting.
type ChatReplyResponse struct {
	Reply ChatMessageResponse `json:"reply"`
	Usage ChatUsageResponse   `json:"usage"`
}

// ChatUsageResponse reports generation token counters; zero for offline
// matcher answers.
type ChatUsageResponse struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ChatHistoryResponse is a page of the caller's conversation.
type ChatHistoryResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
	Total    int                   `json:"total"`
}

// NewChatMessageResponse maps a conversation turn.
func NewChatMessageResponse(msg *domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        msg.ID,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}
