package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"coursepick/internal/models/request_models"
	"coursepick/internal/models/response_models"
	"coursepick/pkg/utils"
)

// Client posts recommendation requests to the external scheduling service.
type Client struct {
	Endpoint string
	HTTP     *http.Client
	Retry    RetryConfig

	log *zap.Logger
}

// New builds a client. A zero timeout leaves requests bounded only by ctx.
func New(endpoint string, timeout time.Duration, retry RetryConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: timeout},
		Retry:    retry.normalized(),
		log:      log.Named("recommender"),
	}
}

// Recommend sends the payload and decodes the reply regardless of HTTP status, so an
// application error carried by a 400/500 body still reaches the caller as resp.Error.
// Transport failures wrap utils.ErrRecommenderUnavailable; bodies that are not a reply
// wrap utils.ErrUndecodableResponse.
func (c *Client) Recommend(ctx context.Context, payload request_models.RecommendPayload) (*response_models.RecommendResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("recommender: encode payload: %w", err)
	}

	cfg := c.Retry.normalized()
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		out, retryAfter, err := c.recommendOnce(ctx, body, cfg)
		if err == nil {
			return out, nil
		}
		lastErr = err

		// <0 => not retryable
		if retryAfter < 0 || attempt == cfg.MaxAttempts {
			break
		}
		c.log.Warn("retrying recommendation request",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Error(err))
		if err := sleepBackoff(ctx, attempt, cfg.BaseDelay, cfg.MaxDelay, retryAfter); err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrRecommenderUnavailable, err)
		}
	}
	return nil, lastErr
}

// retryAfter:
//   - <0 => no retry
//   - 0  => retry with backoff
//   - >0 => retry after that long (Retry-After)
func (c *Client) recommendOnce(ctx context.Context, body []byte, cfg RetryConfig) (*response_models.RecommendResponse, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, -1, fmt.Errorf("%w: build request: %v", utils.ErrRecommenderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if isRetryableNetErr(err) {
			return nil, 0, fmt.Errorf("%w: %v", utils.ErrRecommenderUnavailable, err)
		}
		return nil, -1, fmt.Errorf("%w: %v", utils.ErrRecommenderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isRetryableNetErr(err) {
			return nil, 0, fmt.Errorf("%w: read body: %v", utils.ErrRecommenderUnavailable, err)
		}
		return nil, -1, fmt.Errorf("%w: read body: %v", utils.ErrRecommenderUnavailable, err)
	}

	retryable := cfg.RetryStatuses[resp.StatusCode]

	var out response_models.RecommendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		herr := fmt.Errorf("%w: status=%d: %v body=%s", utils.ErrUndecodableResponse, resp.StatusCode, err, snippet(raw, 300))
		if retryable {
			return nil, ParseRetryAfter(resp), herr
		}
		return nil, -1, herr
	}

	if out.Error != "" {
		return &out, -1, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		herr := fmt.Errorf("%w: status=%d without error field body=%s", utils.ErrUndecodableResponse, resp.StatusCode, snippet(raw, 300))
		if retryable {
			return nil, ParseRetryAfter(resp), herr
		}
		return nil, -1, herr
	}
	return &out, -1, nil
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
