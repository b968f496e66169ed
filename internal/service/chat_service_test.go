package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pedro-it/portal-api/internal/ai"
	"github.com/pedro-it/portal-api/internal/chatbot"
	"github.com/pedro-it/portal-api/internal/config"
	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/ratelimit"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

type fakeGenerator struct {
	mu        sync.Mutex
	calls     int
	lastTurns []ai.Turn
	reply     string
	err       error
}

func (g *fakeGenerator) Generate(_ context.Context, _ string, turns []ai.Turn) (*ai.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastTurns = turns
	if g.err != nil {
		return nil, g.err
	}
	return &ai.Result{
		Text:  g.reply,
		Usage: domain.TokenUsage{InputTokens: 42, OutputTokens: 17},
	}, nil
}

func chatConfig() config.ChatConfig {
	return config.ChatConfig{
		RateLimitMax:    10,
		RateLimitWindow: time.Minute,
		HistoryTurns:    10,
		MaxMessageChars: 2000,
	}
}

func TestSendMessageUsesGenerator(t *testing.T) {
	chats := newFakeChatRepo()
	users := newFakeUserRepo()
	client := users.add(clientUser())
	gen := &fakeGenerator{reply: "Claro, puedo ayudarte con eso."}
	svc := NewChatService(chats, users, ratelimit.NewMemoryLimiter(10, time.Minute), gen, chatbot.NewDefaultMatcher(), chatConfig(), zap.NewNop())

	reply, err := svc.SendMessage(context.Background(), client, "¿Qué incluye el plan enterprise?")
	require.NoError(t, err)
	assert.Equal(t, "Claro, puedo ayudarte con eso.", reply.Message.Content)
	assert.Equal(t, domain.ChatRoleAssistant, reply.Message.Role)
	assert.Equal(t, 42, reply.Usage.InputTokens)
	assert.Equal(t, 17, reply.Usage.OutputTokens)

	// Both turns of the exchange are persisted.
	total, err := chats.CountByUser(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestSendMessageIncludesHistoryTurns(t *testing.T) {
	chats := newFakeChatRepo()
	users := newFakeUserRepo()
	client := users.add(clientUser())
	gen := &fakeGenerator{reply: "ok"}
	svc := NewChatService(chats, users, ratelimit.NewMemoryLimiter(10, time.Minute), gen, chatbot.NewDefaultMatcher(), chatConfig(), zap.NewNop())

	_, err := svc.SendMessage(context.Background(), client, "hola")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), client, "¿precios?")
	require.NoError(t, err)

	// Second call sees the first exchange plus the new user turn.
	require.Len(t, gen.lastTurns, 3)
	assert.Equal(t, domain.ChatRoleUser, gen.lastTurns[0].Role)
	assert.Equal(t, "hola", gen.lastTurns[0].Content)
	assert.Equal(t, domain.ChatRoleAssistant, gen.lastTurns[1].Role)
	assert.Equal(t, "¿precios?", gen.lastTurns[2].Content)
}

func TestSendMessageFallsBackToMatcher(t *testing.T) {
	chats := newFakeChatRepo()
	users := newFakeUserRepo()
	client := users.add(clientUser())
	svc := NewChatService(chats, users, ratelimit.NewMemoryLimiter(10, time.Minute), nil, chatbot.NewDefaultMatcher(), chatConfig(), zap.NewNop())

	reply, err := svc.SendMessage(context.Background(), client, "¿cuánto cuesta el soporte remoto?")
	require.NoError(t, err)
	assert.Contains(t, reply.Message.Content, "$50/hora")
	assert.Zero(t, reply.Usage.InputTokens)

	// Matcher exchanges are persisted like generated ones.
	total, err := chats.CountByUser(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestRateLimitRejectsBeforeGeneratorRuns(t *testing.T) {
	chats := newFakeChatRepo()
	users := newFakeUserRepo()
	client := users.add(clientUser())
	gen := &fakeGenerator{reply: "ok"}
	svc := NewChatService(chats, users, ratelimit.NewMemoryLimiter(2, time.Minute), gen, chatbot.NewDefaultMatcher(), chatConfig(), zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := svc.SendMessage(context.Background(), client, "hola")
		require.NoError(t, err)
	}

	_, err := svc.SendMessage(context.Background(), client, "hola")
	require.Error(t, err)
	assert.Equal(t, "RATE_LIMITED", apperrors.ToDomainError(err).Code)
	// The rejected request never reached the collaborator.
	assert.Equal(t, 2, gen.calls)
}

func TestGeneratorFailureDoesNotPersistExchange(t *testing.T) {
	chats := newFakeChatRepo()
	users := newFakeUserRepo()
	client := users.add(clientUser())
	gen := &fakeGenerator{err: apperrors.NewUpstreamFailure("assistant", errors.New("boom"))}
	svc := NewChatService(chats, users, ratelimit.NewMemoryLimiter(10, time.Minute), gen, chatbot.NewDefaultMatcher(), chatConfig(), zap.NewNop())

	_, err := svc.SendMessage(context.Background(), client, "hola")
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_FAILURE", apperrors.ToDomainError(err).Code)

	total, err := chats.CountByUser(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestClearHistoryRemovesConversation(t *testing.T) {
	chats := newFakeChatRepo()
	users := newFakeUserRepo()
	client := users.add(clientUser())
	svc := NewChatService(chats, users, ratelimit.NewMemoryLimiter(10, time.Minute), nil, chatbot.NewDefaultMatcher(), chatConfig(), zap.NewNop())

	_, err := svc.SendMessage(context.Background(), client, "hola")
	require.NoError(t, err)

	require.NoError(t, svc.ClearHistory(context.Background(), client.ID))

	msgs, total, err := svc.History(context.Background(), client.ID, 50, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, msgs)
}
