package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pedro-it/portal-api/internal/ai"
	"github.com/pedro-it/portal-api/internal/chatbot"
	"github.com/pedro-it/portal-api/internal/config"
	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/ratelimit"
	"github.com/pedro-it/portal-api/internal/repository"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

// ChatService runs the assistant conversation. With a generator configured it
// proxies the hosted model; without one it answers from the offline keyword
// matcher. Both paths persist the exchange identically.
type ChatService struct {
	chats     repository.ChatMessageRepository
	users     repository.UserRepository
	limiter   ratelimit.Limiter
	generator ai.Generator
	matcher   *chatbot.Matcher
	cfg       config.ChatConfig
	logger    *zap.Logger
}

// NewChatService constructs the service. Generator may be nil.
func NewChatService(chats repository.ChatMessageRepository, users repository.UserRepository, limiter ratelimit.Limiter, generator ai.Generator, matcher *chatbot.Matcher, cfg config.ChatConfig, logger *zap.Logger) *ChatService {
	return &ChatService{
		chats:     chats,
		users:     users,
		limiter:   limiter,
		generator: generator,
		matcher:   matcher,
		cfg:       cfg,
		logger:    logger,
	}
}

// ChatReply is the assistant response with its token accounting. Usage is
// zero for matcher answers.
type ChatReply struct {
	Message *domain.ChatMessage
	Usage   domain.TokenUsage
}

// SendMessage answers one user turn and persists the exchange. The rate
// limit is charged before any collaborator call, so rejected requests never
// reach the hosted model.
func (s *ChatService) SendMessage(ctx context.Context, user *domain.User, content string) (*ChatReply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("message is required", nil)
	}

	allowed, err := s.limiter.Allow(ctx, ratelimit.KeyForUser(user.ID))
	if err != nil {
		// A broken limiter backend should not take the assistant down.
		s.logger.Warn("rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		return nil, apperrors.NewRateLimited("too many messages, wait a moment before sending more")
	}

	var replyText string
	var usage domain.TokenUsage
	if s.generator != nil {
		replyText, usage, err = s.generateReply(ctx, user, content)
		if err != nil {
			return nil, err
		}
	} else {
		replyText = s.matcher.Respond(content)
	}

	userMsg := &domain.ChatMessage{UserID: user.ID, Role: domain.ChatRoleUser, Content: content}
	assistantMsg := &domain.ChatMessage{UserID: user.ID, Role: domain.ChatRoleAssistant, Content: replyText}
	if err := s.chats.CreatePair(ctx, userMsg, assistantMsg); err != nil {
		return nil, err
	}

	return &ChatReply{Message: assistantMsg, Usage: usage}, nil
}

func (s *ChatService) generateReply(ctx context.Context, user *domain.User, content string) (string, domain.TokenUsage, error) {
	counts, err := s.users.CountsForUser(ctx, user.ID)
	if err != nil {
		return "", domain.TokenUsage{}, err
	}

	recent, err := s.chats.ListRecent(ctx, user.ID, s.cfg.HistoryTurns*2)
	if err != nil {
		return "", domain.TokenUsage{}, err
	}

	turns := make([]ai.Turn, 0, len(recent)+1)
	for _, msg := range recent {
		turns = append(turns, ai.Turn{Role: msg.Role, Content: msg.Content})
	}
	turns = append(turns, ai.Turn{Role: domain.ChatRoleUser, Content: content})

	result, err := s.generator.Generate(ctx, ai.BuildSystemPrompt(user, counts), turns)
	if err != nil {
		return "", domain.TokenUsage{}, err
	}
	return result.Text, result.Usage, nil
}

// History returns the caller's conversation in chronological order.
func (s *ChatService) History(ctx context.Context, userID string, limit, offset int) ([]domain.ChatMessage, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	msgs, err := s.chats.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.chats.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

// ClearHistory deletes the caller's conversation.
func (s *ChatService) ClearHistory(ctx context.Context, userID string) error {
	return s.chats.DeleteByUser(ctx, userID)
}
