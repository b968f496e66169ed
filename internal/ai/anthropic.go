package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pedro-it/portal-api/internal/config"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

const (
	messagesEndpoint = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
)

// AnthropicClient calls the Anthropic Messages API over plain HTTP.
type AnthropicClient struct {
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewAnthropicClient builds a client from configuration. Returns nil when no
// API key is configured; callers fall back to the offline matcher.
func NewAnthropicClient(cfg config.AIConfig) *AnthropicClient {
	if cfg.APIKey == "" {
		return nil
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AnthropicClient{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type messagesRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	System    string           `json:"system,omitempty"`
	Messages  []messagePayload `json:"messages"`
}

type messagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the conversation to the Messages API and returns the reply.
func (c *AnthropicClient) Generate(ctx context.Context, systemPrompt string, turns []Turn) (*Result, error) {
	payload := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    systemPrompt,
	}
	for _, turn := range turns {
		payload.Messages = append(payload.Messages, messagePayload{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, messagesEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("assistant", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("assistant", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperrors.NewRateLimited("assistant is receiving too many requests, try again shortly")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamFailure("assistant",
			fmt.Errorf("messages api status %d: %s", resp.StatusCode, truncate(string(raw), 200)))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperrors.NewUpstreamFailure("assistant", err)
	}
	if parsed.Error != nil {
		return nil, apperrors.NewUpstreamFailure("assistant",
			fmt.Errorf("%s: %s", parsed.Error.Type, parsed.Error.Message))
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	result := &Result{Text: text}
	result.Usage.InputTokens = parsed.Usage.InputTokens
	result.Usage.OutputTokens = parsed.Usage.OutputTokens
	return result, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
