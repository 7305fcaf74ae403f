// Package genai wraps an OpenAI-compatible chat-completion endpoint as the
// application's optional text-generation capability, and provides a decoder
// for the structured lists such endpoints return.
package genai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/skymarket/backend/internal/logger"
)

// Client calls an OpenAI-compatible chat-completion endpoint
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// Config holds configuration for creating a text-generation client
type Config struct {
	Endpoint string // Base URL, e.g. "https://api.openai.com/v1"
	Model    string // Model name, e.g. "gpt-4o-mini"
	APIKey   string
	Timeout  time.Duration
}

// NewClient creates a new text-generation client
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Complete sends the prompt and returns the raw completion text. The call is
// bounded by the configured timeout regardless of the caller's context.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log := logger.Ctx(ctx)
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		log.Error("text generation request failed",
			logger.Duration("elapsed", time.Since(start)),
			logger.Err(err))
		return "", fmt.Errorf("text generation request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	log.Debug("text generation request completed",
		logger.Int("prompt_tokens", resp.Usage.PromptTokens),
		logger.Int("completion_tokens", resp.Usage.CompletionTokens),
		logger.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}
