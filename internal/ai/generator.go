// Package ai integrates the hosted text-generation collaborator behind the
// assistant chat endpoint. The Generator interface keeps the chat service
// testable without network access.
package ai

import (
	"context"

	"github.com/pedro-it/portal-api/internal/domain"
)

// Turn is one prior conversation entry sent as generation context.
type Turn struct {
	Role    domain.ChatRole
	Content string
}

// Result is a completed generation with its token accounting.
type Result struct {
	Text  string
	Usage domain.TokenUsage
}

// Generator produces an assistant reply from a system prompt and prior turns.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, turns []Turn) (*Result, error)
}
