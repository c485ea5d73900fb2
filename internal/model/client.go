package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/metrics"
	"github.com/kingdomOfIT/momentum/internal/summarizer"
)

var _ summarizer.Model = (*Client)(nil)

// Client calls an HTTP summarization inference endpoint. The request and
// response shapes follow the HuggingFace inference convention used by
// distilbart-style summarization models.
type Client struct {
	url    string
	token  string
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a model client. token may be empty for unauthenticated
// endpoints.
func NewClient(url, token string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		url:    url,
		token:  token,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

type inferenceResponse struct {
	SummaryText string `json:"summary_text"`
}

// Summarize performs one model call with the given generation bounds.
func (c *Client) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	body, err := json.Marshal(inferenceRequest{
		Inputs: text,
		Parameters: inferenceParameters{
			MinLength: minWords,
			MaxLength: maxWords,
			DoSample:  false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", domain.ErrModelFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrModelFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ModelCallsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: %v", domain.ErrModelFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.ModelCallsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: read response: %v", domain.ErrModelFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.ModelCallsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: endpoint returned %d: %s", domain.ErrModelFailure, resp.StatusCode, raw)
	}

	var out []inferenceResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		metrics.ModelCallsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrModelFailure, err)
	}
	if len(out) == 0 || out[0].SummaryText == "" {
		metrics.ModelCallsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: endpoint returned no summary", domain.ErrModelFailure)
	}

	metrics.ModelCallsTotal.WithLabelValues("ok").Inc()
	metrics.ModelCallDuration.Observe(time.Since(start).Seconds())

	c.logger.Debug("Model call completed",
		zap.Int("input_bytes", len(text)),
		zap.Int("min_words", minWords),
		zap.Int("max_words", maxWords),
		zap.Duration("elapsed", time.Since(start)),
	)

	return out[0].SummaryText, nil
}
