package contentsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

const maxErrorBody = 512

// StatusError reports a non-success response from the search service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("content search: status %d", e.StatusCode)
	}
	return fmt.Sprintf("content search: status %d: %s", e.StatusCode, e.Body)
}

// Config locates the search endpoint.
type Config struct {
	BaseURL string
	Path    string
	Timeout time.Duration
}

// Client posts search requests to the content search service.
type Client struct {
	endpoint string
	http     *http.Client
	logger   interfaces.Logger
}

var _ interfaces.ContentSearcher = (*Client)(nil)

// Option customises the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client for cfg.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(cfg.Path, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	ID     string `json:"id"`
	Params struct {
		ResMsgID string `json:"resmsgid"`
		Status   string `json:"status"`
	} `json:"params"`
	Result map[string]any `json:"result"`
}

// Search posts req.Query as the request body and forwards req.Headers.
func (c *Client) Search(ctx context.Context, req interfaces.ContentSearchRequest) (*interfaces.ContentSearchResult, error) {
	body, err := json.Marshal(req.Query)
	if err != nil {
		return nil, fmt.Errorf("content search: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("content search: build request: %w", err)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("content search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("contentsearch.request.failed", "status", resp.StatusCode)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var payload envelope
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("content search: decode response: %w", err)
	}
	if payload.Result == nil {
		payload.Result = map[string]any{}
	}
	return &interfaces.ContentSearchResult{
		APIID:    payload.ID,
		ResMsgID: payload.Params.ResMsgID,
		Fields:   payload.Result,
	}, nil
}
