// Package provider implements the HTTP client for the external content
// provider. The provider is treated as an untrusted, latency-variable,
// fallible collaborator: every call carries a timeout, failures are retried
// once, and a circuit breaker fails fast when the provider is down.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/pkg/circuitbreaker"
	"github.com/learnloop/learnloop-hub/pkg/logger"
	"github.com/learnloop/learnloop-hub/pkg/retry"
)

// ClientConfig contains configuration for the provider client.
type ClientConfig struct {
	// BaseURL is the provider's API base URL.
	BaseURL string

	// APIKey authenticates requests (Bearer token).
	APIKey string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	}
}

// Client talks to the content provider.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	log        *logger.Logger
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient creates a provider client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = logger.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	log := config.Logger.With("component", "provider_client")
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        log,
		retrier:    retry.ProviderRetrier(),
		breaker: circuitbreaker.New("content-provider",
			circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
				log.Warn("circuit state changed", "breaker", name, "from", from.String(), "to", to.String())
			}),
		),
	}
}

// Explain requests an explanation for a topic.
func (c *Client) Explain(ctx context.Context, topic string) (learning.Content, error) {
	return c.generate(ctx, GenerateRequest{Kind: string(learning.KindExplanation), Topic: topic})
}

// Quiz requests a set of quiz questions for a topic.
func (c *Client) Quiz(ctx context.Context, topic string, count int) (learning.Content, error) {
	return c.generate(ctx, GenerateRequest{Kind: string(learning.KindQuiz), Topic: topic, Count: count})
}

// Flashcards requests a flashcard set for a topic.
func (c *Client) Flashcards(ctx context.Context, topic string, count int) (learning.Content, error) {
	return c.generate(ctx, GenerateRequest{Kind: string(learning.KindFlashcards), Topic: topic, Count: count})
}

// Interview requests interview questions for a role.
func (c *Client) Interview(ctx context.Context, role string, count int) (learning.Content, error) {
	return c.generate(ctx, GenerateRequest{Kind: string(learning.KindInterview), Role: role, Count: count})
}

// Chat requests a conversational answer to a prompt.
func (c *Client) Chat(ctx context.Context, prompt string) (learning.Content, error) {
	return c.generate(ctx, GenerateRequest{Kind: string(learning.KindChat), Prompt: prompt})
}

// generate runs one provider call under the breaker and the single-retry
// budget, then validates the payload at the boundary.
func (c *Client) generate(ctx context.Context, req GenerateRequest) (learning.Content, error) {
	var resp GenerateResponse

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			return c.doRequest(ctx, req, &resp)
		})
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return learning.Content{}, shared.ErrProviderUnavailable
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return learning.Content{}, shared.WrapError("provider", "Generate", shared.ErrProviderTimeout,
				"provider call timed out", err)
		}
		return learning.Content{}, shared.WrapError("provider", "Generate", shared.ErrProvider,
			"provider call failed", err)
	}

	return resp.ToContent()
}

func (c *Client) doRequest(ctx context.Context, payload GenerateRequest, out *GenerateResponse) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return retry.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors and client-side timeouts are worth one retry.
		return retry.Retryable(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	c.log.Debug("provider call completed",
		"kind", payload.Kind,
		"status", resp.StatusCode,
		"latency", time.Since(start).String(),
	)

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return retry.Retryable(fmt.Errorf("provider status %d: %s", resp.StatusCode, truncate(respBody, 256)))
	default:
		return retry.Permanent(fmt.Errorf("provider status %d: %s", resp.StatusCode, truncate(respBody, 256)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return retry.Permanent(fmt.Errorf("parse response: %w", err))
	}
	if out.Error != "" {
		return retry.Permanent(fmt.Errorf("provider error: %s", out.Error))
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
