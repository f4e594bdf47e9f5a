// Package oneinch is the client for the 1inch Swap API v6, the swap
// aggregator behind allowance checks, approvals, quotes and swaps.
package oneinch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/normalize"
	"github.com/alanyoungcy/defidash/internal/platform/rest"
)

// DefaultBaseURL is the public 1inch Swap API root; the chain id is appended
// per request.
const DefaultBaseURL = "https://api.1inch.dev/swap/v6.0"

// Config holds the client parameters.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// Transport is used by tests to stub the network.
	Transport http.RoundTripper
}

// Client talks to the 1inch Swap API.
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
			Service:     "oneinch",
			BaseURL:     baseURL,
			BearerToken: cfg.APIKey,
			Timeout:     cfg.Timeout,
			Transport:   cfg.Transport,
		}),
	}
}

// Allowance returns how many base units of token the aggregator router may
// spend on behalf of wallet.
func (c *Client) Allowance(ctx context.Context, chainID int, token, wallet string) (string, error) {
	params := url.Values{}
	params.Set("tokenAddress", token)
	params.Set("walletAddress", wallet)

	var out apiAllowance
	if err := c.rest.GetJSON(ctx, chainPath(chainID, "/approve/allowance"), params, &out); err != nil {
		return "", fmt.Errorf("oneinch: allowance: %w", err)
	}
	if !normalize.IsInteger(out.Allowance) {
		return "", fmt.Errorf("oneinch: allowance: malformed value %q", out.Allowance)
	}
	return out.Allowance, nil
}

// Spender returns the router address that approvals must target.
func (c *Client) Spender(ctx context.Context, chainID int) (string, error) {
	var out apiSpender
	if err := c.rest.GetJSON(ctx, chainPath(chainID, "/approve/spender"), nil, &out); err != nil {
		return "", fmt.Errorf("oneinch: spender: %w", err)
	}
	if !normalize.IsAddress(out.Address) {
		return "", fmt.Errorf("oneinch: spender: malformed address %q", out.Address)
	}
	return out.Address, nil
}

// ApproveTransaction builds an ERC-20 approve transaction for the router.
// An empty amountWei requests an unlimited approval.
func (c *Client) ApproveTransaction(ctx context.Context, chainID int, token, amountWei string) (domain.Tx, error) {
	params := url.Values{}
	params.Set("tokenAddress", token)
	if amountWei != "" {
		params.Set("amount", amountWei)
	}

	var out APITx
	if err := c.rest.GetJSON(ctx, chainPath(chainID, "/approve/transaction"), params, &out); err != nil {
		return domain.Tx{}, fmt.Errorf("oneinch: approve transaction: %w", err)
	}
	return out.ToDomain(), nil
}

// Quote prices a swap without building a transaction.
func (c *Client) Quote(ctx context.Context, req domain.QuoteRequest) (domain.AggregatorQuote, error) {
	params := url.Values{}
	params.Set("src", req.FromToken)
	params.Set("dst", req.ToToken)
	params.Set("amount", req.AmountWei)
	params.Set("includeTokensInfo", "true")
	params.Set("includeProtocols", "true")
	params.Set("includeGas", "true")

	var out APIQuote
	if err := c.rest.GetJSON(ctx, chainPath(req.ChainID, "/quote"), params, &out); err != nil {
		return domain.AggregatorQuote{}, fmt.Errorf("oneinch: quote: %w", err)
	}
	if !normalize.IsInteger(out.DstAmount) {
		return domain.AggregatorQuote{}, fmt.Errorf("oneinch: quote: malformed dstAmount %q", out.DstAmount)
	}
	return out.ToDomain(), nil
}

// Swap builds the swap transaction. Slippage is converted from a fraction to
// the percentage the API expects.
func (c *Client) Swap(ctx context.Context, req domain.SwapRequest) (domain.Tx, error) {
	params := url.Values{}
	params.Set("src", req.FromToken)
	params.Set("dst", req.ToToken)
	params.Set("amount", req.AmountWei)
	params.Set("from", req.FromAddress)
	params.Set("origin", req.FromAddress)
	params.Set("slippage", normalize.ToPercent(req.Slippage))

	var out APISwap
	if err := c.rest.GetJSON(ctx, chainPath(req.ChainID, "/swap"), params, &out); err != nil {
		return domain.Tx{}, fmt.Errorf("oneinch: swap: %w", err)
	}
	if out.Tx.To == "" || out.Tx.Data == "" {
		return domain.Tx{}, fmt.Errorf("oneinch: swap: response carries no transaction")
	}
	tx := out.Tx.ToDomain()
	if tx.From == "" {
		tx.From = req.FromAddress
	}
	return tx, nil
}

func chainPath(chainID int, path string) string {
	return "/" + strconv.Itoa(chainID) + path
}
