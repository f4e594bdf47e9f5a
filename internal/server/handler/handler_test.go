package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/normalize"
	"github.com/alanyoungcy/defidash/internal/service"
)

const (
	weth   = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	usdc   = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	wallet = "0x52908400098527886E0F7030069857D2E4169EE7"
	market = "0x7d372819240D14fB477f17b964f95F33BeB4c704"
)

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type fakeAggregator struct {
	calls int
	tx    domain.Tx
	err   error
}

func (f *fakeAggregator) Allowance(context.Context, int, string, string) (string, error) {
	f.calls++
	return "115792089237316195423570985008687907853269984665640564039457584007913129639935", f.err
}

func (f *fakeAggregator) Spender(context.Context, int) (string, error) {
	f.calls++
	return weth, f.err
}

func (f *fakeAggregator) ApproveTransaction(context.Context, int, string, string) (domain.Tx, error) {
	f.calls++
	return f.tx, f.err
}

func (f *fakeAggregator) Quote(context.Context, domain.QuoteRequest) (domain.AggregatorQuote, error) {
	f.calls++
	return domain.AggregatorQuote{DstAmount: "1000000"}, f.err
}

func (f *fakeAggregator) Swap(context.Context, domain.SwapRequest) (domain.Tx, error) {
	f.calls++
	return f.tx, f.err
}

type fakeBuilder struct{ calls int }

func (f *fakeBuilder) AddLiquidity(context.Context, domain.LiquidityRequest) (domain.LiquidityResult, error) {
	f.calls++
	return domain.LiquidityResult{Action: domain.LiquidityAdd, Tx: domain.Tx{To: market, Data: "0x01", Value: "0"}}, nil
}

func (f *fakeBuilder) RemoveLiquidity(context.Context, domain.LiquidityRequest) (domain.LiquidityResult, error) {
	f.calls++
	return domain.LiquidityResult{Action: domain.LiquidityRemove}, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func normalizer() *normalize.Normalizer {
	return normalize.New(normalize.Options{DefaultChainID: 1, SupportedChains: []int{1, 137}})
}

func do(t *testing.T, h http.HandlerFunc, method, target, body string) (int, response) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestSwapHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
		wantCalls  int
	}{
		{
			name:       "success",
			body:       `{"fromToken":"` + weth + `","toToken":"` + usdc + `","amount":"1","fromAddress":"` + wallet + `"}`,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "numeric amount",
			body:       `{"fromToken":"` + weth + `","toToken":"` + usdc + `","amount":0.25,"fromAddress":"` + wallet + `"}`,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "slippage out of range",
			body:       `{"fromToken":"` + weth + `","toToken":"` + usdc + `","amount":"1","fromAddress":"` + wallet + `","slippage":0.2}`,
			wantStatus: http.StatusBadRequest,
			wantError:  normalize.SlippageRangeMessage,
		},
		{
			name:       "bad address",
			body:       `{"fromToken":"not-an-address","toToken":"` + usdc + `","amount":"1","fromAddress":"` + wallet + `"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "fromToken must be a 0x-prefixed 40 hex character address",
		},
		{
			name:       "missing fields",
			body:       `{"fromToken":"` + weth + `"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "missing required fields: toToken, amount, fromAddress",
		},
		{
			name:       "empty body",
			wantStatus: http.StatusBadRequest,
			wantError:  "missing required fields: fromToken, toToken, amount, fromAddress",
		},
		{
			name:       "malformed json",
			body:       `{"fromToken":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &fakeAggregator{tx: domain.Tx{To: weth, Data: "0x12aa3caf", Value: "0"}}
			h := NewSwapHandler(service.NewSwapService(normalizer(), agg, discard()), discard())

			status, resp := do(t, h.BuildSwap, http.MethodPost, "/api/swap", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantStatus == http.StatusOK, resp.Success)
			if tt.wantError != "" {
				assert.Contains(t, resp.Error, tt.wantError)
				assert.Empty(t, resp.Data)
			}
			if tt.wantStatus == http.StatusOK {
				var data map[string]any
				require.NoError(t, json.Unmarshal(resp.Data, &data))
				assert.Equal(t, weth, data["to"])
				assert.Equal(t, "0x12aa3caf", data["data"])
				assert.Equal(t, "0", data["value"])
				assert.Equal(t, wallet, data["from"])
				assert.NotContains(t, data, "tx")
			}
			assert.Equal(t, tt.wantCalls, agg.calls)
		})
	}
}

func TestSwapHandlerNotConfigured(t *testing.T) {
	h := NewSwapHandler(service.NewSwapService(normalizer(), nil, discard()), discard())

	status, resp := do(t, h.BuildSwap, http.MethodPost, "/api/swap",
		`{"fromToken":"`+weth+`","toToken":"`+usdc+`","amount":"1","fromAddress":"`+wallet+`"}`)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "ONEINCH_API_KEY")
}

func TestSwapHandlerUpstreamStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "client error propagated",
			err:        &domain.UpstreamError{Service: "oneinch", Status: 400, Message: "insufficient liquidity"},
			wantStatus: http.StatusBadRequest,
			wantError:  "insufficient liquidity",
		},
		{
			name:       "server error propagated",
			err:        &domain.UpstreamError{Service: "oneinch", Status: 502},
			wantStatus: http.StatusBadGateway,
			wantError:  "oneinch request failed: Bad Gateway",
		},
		{
			name:       "transport failure",
			err:        io.ErrUnexpectedEOF,
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &fakeAggregator{err: tt.err}
			h := NewSwapHandler(service.NewSwapService(normalizer(), agg, discard()), discard())

			status, resp := do(t, h.GetQuote, http.MethodGet,
				"/api/quote?fromToken="+weth+"&toToken="+usdc+"&amount=1", "")
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestQuoteHandler(t *testing.T) {
	agg := &fakeAggregator{}
	h := NewSwapHandler(service.NewSwapService(normalizer(), agg, discard()), discard())

	status, resp := do(t, h.GetQuote, http.MethodGet,
		"/api/quote?fromToken="+weth+"&toToken="+usdc+"&amount=2&toDecimals=6", "")
	require.Equal(t, http.StatusOK, status)

	var q domain.Quote
	require.NoError(t, json.Unmarshal(resp.Data, &q))
	assert.Equal(t, "2", q.FromAmount)
	assert.Equal(t, "1", q.ToAmount)
	assert.Equal(t, "0.5", q.Price)
}

func TestApproveHandlers(t *testing.T) {
	agg := &fakeAggregator{tx: domain.Tx{To: usdc, Data: "0x095ea7b3", Value: "0"}}
	h := NewSwapHandler(service.NewSwapService(normalizer(), agg, discard()), discard())

	status, resp := do(t, h.GetAllowance, http.MethodGet,
		"/api/approve?tokenAddress="+usdc+"&walletAddress="+wallet, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(resp.Data), `"allowance":"1157920892`)

	status, resp = do(t, h.BuildApprove, http.MethodPost, "/api/approve",
		`{"tokenAddress":"`+usdc+`","amount":"100","decimals":6}`)
	require.Equal(t, http.StatusOK, status)
	var res domain.ApproveResult
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.Equal(t, weth, res.Spender)
	assert.Equal(t, "0x095ea7b3", res.Tx.Data)

	status, resp = do(t, h.GetAllowance, http.MethodGet, "/api/approve?tokenAddress="+usdc, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "missing required fields: walletAddress", resp.Error)
}

func TestLiquidityHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "add",
			body:       `{"action":"add","tokenIn":"` + usdc + `","amountIn":"1000000","lpToken":"` + market + `","receiver":"` + wallet + `","slippage":0.01}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing receiver",
			body:       `{"action":"add","tokenIn":"` + usdc + `","amountIn":"1000000","lpToken":"` + market + `","slippage":0.01}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "missing required fields: receiver",
		},
		{
			name:       "remove without tokenOut",
			body:       `{"action":"remove","tokenIn":"` + market + `","amountIn":"1","lpToken":"` + market + `","receiver":"` + wallet + `"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "missing required fields: tokenOut",
		},
		{
			name:       "slippage too high",
			body:       `{"action":"add","tokenIn":"` + usdc + `","amountIn":"1","lpToken":"` + market + `","receiver":"` + wallet + `","slippage":0.2}`,
			wantStatus: http.StatusBadRequest,
			wantError:  normalize.SlippageRangeMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBuilder{}
			h := NewLiquidityHandler(service.NewLiquidityService(normalizer(), b, discard()), discard())

			status, resp := do(t, h.Build, http.MethodPost, "/api/liquidity", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp.Error)
				assert.Zero(t, b.calls)
			} else {
				assert.True(t, resp.Success)
				assert.Equal(t, 1, b.calls)
			}
		})
	}
}

func TestPortfolioHandlerUnconfigured(t *testing.T) {
	h := NewPortfolioHandler(service.NewPortfolioService(normalizer(), nil, discard()), discard())

	status, resp := do(t, h.GetPortfolio, http.MethodGet, "/api/octav-portfolio?address=0xabc", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"address":"0xabc","positions":[],"assets":[],"totalValueUSD":0}`, string(resp.Data))

	status, resp = do(t, h.GetPortfolio, http.MethodGet, "/api/octav-portfolio", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "missing required fields: address", resp.Error)
}

func TestStrategyHandler(t *testing.T) {
	h := NewStrategyHandler(service.NewStrategyService(normalizer(), discard()), discard())

	status, resp := do(t, h.Recommend, http.MethodPost, "/api/strategy/recommend",
		`{"address":"`+wallet+`","riskPreference":"conservative"}`)
	require.Equal(t, http.StatusOK, status)

	var rec domain.Recommendation
	require.NoError(t, json.Unmarshal(resp.Data, &rec))
	assert.Equal(t, domain.RiskConservative, rec.Recommended)
	assert.Len(t, rec.Strategies, 3)

	status, resp = do(t, h.Recommend, http.MethodPost, "/api/strategy/recommend", `{"address":"0x1"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Error, "address")
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(Integrations{Pendle: true}, []int{1}, discard())

	status, resp := do(t, h.HealthCheck, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(resp.Data), `"integrations":{"oneinch":false,"pendle":true,"octav":false}`)
}
