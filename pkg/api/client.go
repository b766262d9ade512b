// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/metric"
)

func init() {
	// The backend expects JSON numbers for money.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	headerRequestID = "X-Request-ID"
	contentTypeJSON = "application/json"
)

// TokenSource supplies the current bearer token, or "" before login.
type TokenSource interface {
	Token() string
}

type Config struct {
	BaseURL string
	// HTTPClient defaults to a client without a timeout; ordinary calls rely
	// on transport defaults.
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     log.Logger
	Metrics    *metric.Metrics
}

// Client is the marketplace API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        log.Logger
	metrics    *metric.Metrics
}

// New creates a new marketplace API client
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NoOp()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     cfg.Tokens,
		log:        logger,
		metrics:    cfg.Metrics,
	}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(data)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.send(ctx, endpoint, method, path, reader, contentTypeJSON, out)
}

func (c *Client) send(ctx context.Context, endpoint, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerRequestID, requestID)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.observe(endpoint, "network", start)
		c.log.Warn("api request failed",
			log.String("endpoint", endpoint),
			log.String("request_id", requestID),
			log.Error(err),
		)
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(endpoint, "network", start)
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	c.observe(endpoint, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, raw)
		c.log.Debug("api error response",
			log.String("endpoint", endpoint),
			log.String("request_id", requestID),
			log.Int("status", resp.StatusCode),
			log.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) observe(endpoint, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.APIRequests.WithLabelValues(endpoint, status).Inc()
	c.metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if status == "network" {
		c.metrics.NetworkErrors.Inc()
	}
}

// Ping issues a lightweight GET against the API root to probe reachability.
// Any HTTP response, whatever its status, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, "ping", http.MethodGet, "/", nil, nil, nil)
	if _, ok := AsAPIError(err); ok {
		return nil
	}
	return err
}

func idPath(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}
