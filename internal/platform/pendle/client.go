// Package pendle is the client for the Pendle hosted SDK API, which builds
// add and remove liquidity transactions for Pendle markets.
package pendle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/platform/rest"
)

const DefaultBaseURL = "https://api-v2.pendle.finance/core"

// Config holds the client parameters. APIKey is optional; the hosted SDK is
// usable without one at a lower rate limit.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client talks to the Pendle hosted SDK API.
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
			Service:     "pendle",
			BaseURL:     baseURL,
			BearerToken: cfg.APIKey,
			Timeout:     cfg.Timeout,
			Transport:   cfg.Transport,
		}),
	}
}

// AddLiquidity builds a transaction that deposits TokenIn into the LP
// market. With ZPIMode set the zero-price-impact route is used, which also
// mints YT to the receiver.
func (c *Client) AddLiquidity(ctx context.Context, req domain.LiquidityRequest) (domain.LiquidityResult, error) {
	params := baseParams(req)
	params.Set("tokenIn", req.TokenIn)
	params.Set("amountIn", req.AmountInWei)
	params.Set("zpi", strconv.FormatBool(req.ZPIMode))

	var out APILiquidityResponse
	if err := c.rest.GetJSON(ctx, marketPath(req, "add-liquidity"), params, &out); err != nil {
		return domain.LiquidityResult{}, fmt.Errorf("pendle: add liquidity: %w", err)
	}
	if err := checkTx(out.Tx); err != nil {
		return domain.LiquidityResult{}, fmt.Errorf("pendle: add liquidity: %w", err)
	}
	return out.ToDomain(req), nil
}

// RemoveLiquidity builds a transaction that burns AmountInWei LP tokens and
// pays out TokenOut.
func (c *Client) RemoveLiquidity(ctx context.Context, req domain.LiquidityRequest) (domain.LiquidityResult, error) {
	params := baseParams(req)
	params.Set("tokenOut", req.TokenOut)
	params.Set("amountIn", req.AmountInWei)

	var out APILiquidityResponse
	if err := c.rest.GetJSON(ctx, marketPath(req, "remove-liquidity"), params, &out); err != nil {
		return domain.LiquidityResult{}, fmt.Errorf("pendle: remove liquidity: %w", err)
	}
	if err := checkTx(out.Tx); err != nil {
		return domain.LiquidityResult{}, fmt.Errorf("pendle: remove liquidity: %w", err)
	}
	return out.ToDomain(req), nil
}

func baseParams(req domain.LiquidityRequest) url.Values {
	params := url.Values{}
	params.Set("receiver", req.Receiver)
	params.Set("slippage", strconv.FormatFloat(req.Slippage, 'f', -1, 64))
	params.Set("enableAggregator", "true")
	return params
}

func marketPath(req domain.LiquidityRequest, action string) string {
	return fmt.Sprintf("/v1/sdk/%d/markets/%s/%s", req.ChainID, req.LPToken, action)
}

func checkTx(tx APITx) error {
	if tx.To == "" || tx.Data == "" {
		return fmt.Errorf("response carries no transaction")
	}
	return nil
}
