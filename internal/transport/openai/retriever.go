// Package openai implements the RAG retriever on an OpenAI-compatible chat
// completions API (e.g. Nebius, Azure OpenAI).
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/retailgrid/agentsearch/internal/domain"
	"github.com/retailgrid/agentsearch/internal/logger"
)

// systemPrompt steers the model toward the answer shapes the formatting
// pipeline understands.
const systemPrompt = "You are a product search assistant. Answer using the " +
	"retrieved catalog context. When you list products, format each as " +
	"\"Name: <name>; Price: <price>; Description: <description>\" on its own line."

// Retriever answers queries via chat completion and hands the model's text to
// the formatting pipeline as the raw payload.
type Retriever struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	user        string
}

// Config holds the RAG provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	User        string
}

// NewRetriever creates an OpenAI-compatible RAG retriever.
func NewRetriever(cfg *Config) *Retriever {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Retriever{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		user:        cfg.User,
	}
}

// Retrieve runs one chat completion and returns the model's answer text.
func (r *Retriever) Retrieve(ctx context.Context, query string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
		User:        r.user,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response: %w", domain.ErrRetrieverUnavailable)
	}

	logger.FromContext(ctx).Debug("rag completion",
		zap.String("model", r.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)),
	)

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (r *Retriever) HealthCheck(ctx context.Context) error {
	if _, err := r.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// Rate limits become domain.ErrRateLimited; everything else is wrapped with
// domain.ErrRetrieverUnavailable so the caller sees an upstream outage.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return domain.NewRateLimited(0)
		}
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, detail, domain.ErrRetrieverUnavailable)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return domain.NewRateLimited(0)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrRetrieverUnavailable)
	}

	return fmt.Errorf("completion request failed: %w", domain.ErrRetrieverUnavailable)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
