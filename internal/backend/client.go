// Package backend is the HTTP client for the mini-app directory service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"viralcoin/internal/domain"
	"viralcoin/pkg/logger"
)

// DefaultTimeout applies when Config.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 1 << 20

// Client talks to the backend that lists mini-apps and records transfers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// New creates a backend client.
func New(cfg Config, log logger.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     log,
	}
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListMiniApps fetches GET /api/miniapps. The envelope is decoded whatever the
// status code; callers decide what ok:false means.
func (c *Client) ListMiniApps(ctx context.Context) (*domain.DirectoryResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/miniapps", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result domain.DirectoryResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("request failed: %s", resp.Status)
		}
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	c.logger.Debug("Mini-app list fetched", map[string]interface{}{
		"status": resp.StatusCode,
		"ok":     result.OK,
		"items":  len(result.Items),
	})
	return &result, nil
}

// LogTransfer posts a transfer record to POST /api/transfers/log.
// The response body is discarded.
func (c *Client) LogTransfer(ctx context.Context, record domain.TransferLog) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transfers/log", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	return nil
}
