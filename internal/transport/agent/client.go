// Package agent implements the HTTP client for knowledge-agent retrieval
// endpoints (agentic and dataverse flavors share the wire contract).
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailgrid/agentsearch/internal/domain"
	"github.com/retailgrid/agentsearch/internal/logger"
)

const defaultTimeout = 60 * time.Second

// maxPayloadBytes bounds the raw payload read from the agent.
const maxPayloadBytes = 4 << 20

// Client calls one knowledge-agent endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	label      string
}

// Config holds the agent endpoint settings.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	// Label identifies the endpoint in logs ("agentic", "dataverse").
	Label string
}

// NewClient creates an agent client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		label:      cfg.Label,
	}
}

type retrieveRequest struct {
	Query string `json:"Query"`
}

// Retrieve posts the query and returns the raw payload text. Upstream status
// codes are mapped onto domain sentinels: 403 is the permission-propagation
// window after agent creation (soft pending), 404 means the agent was never
// provisioned, 429 carries an optional Retry-After hint.
func (c *Client) Retrieve(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(retrieveRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	correlationID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-Id", correlationID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("agent request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return "", fmt.Errorf("read agent response: %w", err)
	}

	logger.FromContext(ctx).Debug("agent response",
		zap.String("endpoint", c.label),
		zap.String("correlation_id", correlationID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(payload)),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch resp.StatusCode {
	case http.StatusOK:
		return string(payload), nil
	case http.StatusForbidden:
		return "", fmt.Errorf("agent %s: %w", c.label, domain.ErrAgentPending)
	case http.StatusNotFound:
		return "", fmt.Errorf("agent %s: %w", c.label, domain.ErrAgentNotFound)
	case http.StatusTooManyRequests:
		return "", domain.NewRateLimited(retryAfterSeconds(resp))
	default:
		return "", fmt.Errorf("agent %s: unexpected status %d: %s",
			c.label, resp.StatusCode, truncate(payload, 200))
	}
}

// HealthCheck probes the endpoint. A 403 counts as healthy: the endpoint is
// reachable and merely waiting for permission propagation.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("agent %s unreachable: %w", c.label, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("agent %s unhealthy: status %d", c.label, resp.StatusCode)
	}
	return nil
}

// retryAfterSeconds parses the Retry-After header, 0 when absent or not a
// plain second count.
func retryAfterSeconds(resp *http.Response) int {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	sec, err := strconv.Atoi(v)
	if err != nil || sec < 0 {
		return 0
	}
	return sec
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
