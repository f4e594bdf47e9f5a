// Package rest is the shared JSON-over-HTTP plumbing for the external
// collaborator clients (swap aggregator, yield protocol, portfolio
// aggregator). It performs no retries and no caching.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/metrics"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// Config holds the parameters of a Client.
type Config struct {
	// Service labels errors and metrics, e.g. "oneinch".
	Service string
	BaseURL string
	// BearerToken, when set, is sent as "Authorization: Bearer <token>".
	BearerToken string
	Timeout     time.Duration
	// Transport overrides the base transport; metrics are always layered on
	// top.
	Transport http.RoundTripper
}

// Client issues JSON requests against one upstream API.
type Client struct {
	service     string
	baseURL     string
	bearerToken string
	httpClient  *http.Client
}

// New creates a Client. A zero Timeout defaults to 30 seconds.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		service:     cfg.Service,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		bearerToken: cfg.BearerToken,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: metrics.InstrumentTransport(cfg.Service, cfg.Transport),
		},
	}
}

// Service returns the label this client reports under.
func (c *Client) Service() string {
	return c.service
}

// GetJSON sends a GET to baseURL+path with the given query and decodes the
// JSON response into out. Non-2xx answers become *domain.UpstreamError.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: http request: %w", c.service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", c.service, err)
	}

	if err := checkHTTPStatus(c.service, resp.StatusCode, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.service, err)
	}
	return nil
}

// checkHTTPStatus maps non-2xx status codes to a *domain.UpstreamError
// carrying the upstream's own message when one can be found.
func checkHTTPStatus(service string, statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return &domain.UpstreamError{
		Service: service,
		Status:  statusCode,
		Message: ErrorMessage(body),
	}
}

// ErrorMessage extracts a human-readable message from an upstream error body.
// It understands the common {"description"}, {"message"}, {"error"} and
// {"errorMsg"} shapes and returns "" when none is present.
func ErrorMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"description", "message", "error", "errorMsg"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		// Some APIs send "message" as a list of validation strings.
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			return strings.Join(list, "; ")
		}
	}
	return ""
}
