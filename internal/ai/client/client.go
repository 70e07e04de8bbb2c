// Package client wraps the Gemini SDK behind a single text-generation call.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/robalyx/arbiter/internal/setup/config"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var (
	// ErrContentBlocked is returned when the provider refuses the prompt or reply.
	ErrContentBlocked = errors.New("content blocked by provider")
	// ErrEmptyResponse is returned when the reply carries no text.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("gemini api key is not configured")
)

// TextGenerator produces one reply for a prompt under a system instruction.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// GeminiClient implements TextGenerator on the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewClient creates a Gemini client from the configuration.
func NewClient(ctx context.Context, cfg *config.Gemini, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  cfg.Model,
		logger: logger.Named("ai_client"),
	}, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// GenerateText makes exactly one generation request and joins the text parts
// of the first candidate.
func (c *GeminiClient) GenerateText(ctx context.Context, systemInstruction, prompt string) (string, error) {
	// Per-call model so concurrent requests never share a system instruction
	model := c.client.GenerativeModel(c.model)
	if systemInstruction != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", fmt.Errorf("%w: %w", ErrContentBlocked, err)
		}
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("%w: %s", ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("Generated reply",
		zap.String("model", c.model),
		zap.Int("length", len(text)))

	return text, nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return b.String()
}
