// Package groq implements the completion client against the Groq
// OpenAI-compatible chat API.
package groq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"log/slog"

	"github.com/nexfound/apply-engine/internal/adapter/ai/tokencount"
	"github.com/nexfound/apply-engine/internal/adapter/observability"
	"github.com/nexfound/apply-engine/internal/config"
	"github.com/nexfound/apply-engine/internal/domain"
)

// Client implements domain.CompletionClient.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a Groq client with sensible timeouts and traced transport.
func New(cfg config.Config) *Client {
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Timeout:   60 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) getBackoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

// Complete calls chat completions and returns the raw assistant text.
// Transport failures, 429s, and 5xx responses are retried with exponential
// backoff; other 4xx responses are permanent. All connection-level failures
// are wrapped in domain.ErrAIUnavailable so callers can map them to a
// service-unavailable response; response content is returned uninterpreted.
func (c *Client) Complete(ctx domain.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	if c.cfg.GroqAPIKey == "" {
		return "", fmt.Errorf("%w: GROQ_API_KEY missing", domain.ErrAIUnavailable)
	}

	promptTokens := tokencount.EstimateChatTokens(systemPrompt, userPrompt, c.cfg.GroqModel)
	observability.AIPromptTokens.WithLabelValues("chat").Observe(float64(promptTokens))

	body := map[string]any{
		"model":       c.cfg.GroqModel,
		"temperature": temperature,
		"max_tokens":  maxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}
	b, _ := json.Marshal(body)

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	op := func() error {
		start := time.Now()
		// Recreate the request each attempt to avoid reusing consumed bodies
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GroqBaseURL+"/chat/completions", bytes.NewReader(b))
		r.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		observability.AIRequestsTotal.WithLabelValues("groq", "chat").Inc()
		observability.AIRequestDuration.WithLabelValues("groq", "chat").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			slog.Warn("ai provider rate limited", slog.String("provider", "groq"), slog.Int("status", resp.StatusCode))
			return fmt.Errorf("rate limited: 429")
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			snippet := string(bodyBytes)
			if len(snippet) > 512 {
				snippet = snippet[:512]
			}
			slog.Warn("ai provider 4xx", slog.String("provider", "groq"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.GroqModel), slog.String("body", snippet))
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			slog.Error("ai provider non-2xx", slog.String("provider", "groq"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.GroqModel))
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		// A 2xx with an undecodable body or no choices is a content anomaly,
		// not an availability failure; the parser's fallback resolves it.
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			slog.Warn("ai provider decode error", slog.String("provider", "groq"), slog.Any("error", err))
			out.Choices = nil
		}
		return nil
	}

	bo := backoff.WithContext(c.getBackoffConfig(), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return "", fmt.Errorf("%w: groq chat: %v", domain.ErrAIUnavailable, err)
	}
	if len(out.Choices) == 0 {
		slog.Warn("ai provider returned no choices", slog.String("provider", "groq"), slog.String("model", c.cfg.GroqModel))
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

// Ping performs a minimal authenticated request for readiness probing.
func (c *Client) Ping(ctx domain.Context) error {
	if c.cfg.GroqAPIKey == "" {
		return errors.New("groq not configured")
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.GroqBaseURL+"/models", nil)
	if err != nil {
		return err
	}
	r.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)
	resp, err := c.hc.Do(r)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("groq status %d", resp.StatusCode)
	}
	return nil
}
