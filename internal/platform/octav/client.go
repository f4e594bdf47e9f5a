// Package octav is the client for the Octav portfolio API, the aggregator
// that indexes a wallet's holdings across chains and protocols.
package octav

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/platform/rest"
)

const DefaultBaseURL = "https://api.octav.fi"

// Config holds the client parameters. APIKey is required by the API.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client talks to the Octav API.
type Client struct {
	rest *rest.Client
}

// NewClient creates a Client. An empty BaseURL uses DefaultBaseURL.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		rest: rest.New(rest.Config{
			Service:     "octav",
			BaseURL:     baseURL,
			BearerToken: cfg.APIKey,
			Timeout:     cfg.Timeout,
			Transport:   cfg.Transport,
		}),
	}
}

// Portfolio fetches and flattens the portfolio of req.Address. An address
// Octav has never indexed yields an empty portfolio rather than an error.
func (c *Client) Portfolio(ctx context.Context, req domain.PortfolioRequest) (domain.Portfolio, error) {
	params := url.Values{}
	params.Set("addresses", req.Address)
	params.Set("includeImages", strconv.FormatBool(req.IncludeImages))
	params.Set("waitForSync", strconv.FormatBool(req.WaitForSync))

	var out []APIPortfolio
	if err := c.rest.GetJSON(ctx, "/v1/portfolio", params, &out); err != nil {
		return domain.Portfolio{}, fmt.Errorf("octav: portfolio: %w", err)
	}

	for i := range out {
		if out[i].Address == "" || strings.EqualFold(out[i].Address, req.Address) {
			return out[i].ToDomain(req.Address), nil
		}
	}
	return domain.EmptyPortfolio(req.Address), nil
}
