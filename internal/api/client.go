package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"ragclass/internal/verbose"
)

// DefaultTimeout bounds each backend request when no timeout is configured.
const DefaultTimeout = 120 * time.Second

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// HTTPDoer abstracts HTTP clients used by the backend client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Client  HTTPDoer
	Logger  *verbose.Logger
}

// Client talks to the course assistant backend over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	client  HTTPDoer
	logger  *verbose.Logger
	newID   func() string
}

// New constructs a client for the given options.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("base url must start with http:// or https://")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		client:  client,
		logger:  opts.Logger,
		newID:   uuid.NewString,
	}, nil
}

// BaseURL returns the normalized backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *Client) getJSON(ctx context.Context, path string) (response, error) {
	return c.do(ctx, http.MethodGet, path, "", nil)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return response{}, fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", data)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, payload []byte) (response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := c.newID()
	req.Header.Set(RequestIDHeader, requestID)

	started := time.Now()
	c.logger.Styled(verbose.StyleRequest, "api: %s %s id=%s", method, path, requestID)
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Styled(verbose.StyleError, "api: %s %s id=%s failed: %v", method, path, requestID, err)
		if isTimeout(err) {
			return response{}, fmt.Errorf("%w: no response within %s: %w", ErrServerConnection, c.timeout, err)
		}
		return response{}, fmt.Errorf("%w: %w", ErrServerConnection, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("%w: read response: %w", ErrServerConnection, err)
	}
	c.logger.Printf("api: %s %s id=%s status=%d bytes=%d in %s", method, path, requestID, resp.StatusCode, len(data), time.Since(started).Round(time.Millisecond))
	return response{status: resp.StatusCode, body: data}, nil
}

func decodeBody(resp response, target any) error {
	if err := json.Unmarshal(resp.body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// isTimeout reports whether err came from a request deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
