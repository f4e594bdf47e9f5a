package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/normalize"
)

const (
	weth    = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	usdc    = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	wallet  = "0x52908400098527886E0F7030069857D2E4169EE7"
	market  = "0x7d372819240D14fB477f17b964f95F33BeB4c704"
	spender = "0x111111125421cA6dc452d289314280a0f8842A65"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testNormalizer() *normalize.Normalizer {
	return normalize.New(normalize.Options{DefaultChainID: 1, SupportedChains: []int{1, 10, 137, 8453, 42161}})
}

type fakeAggregator struct {
	calls []string

	allowance string
	quote     domain.AggregatorQuote
	tx        domain.Tx
	err       error

	lastQuote domain.QuoteRequest
	lastSwap  domain.SwapRequest
}

func (f *fakeAggregator) Allowance(_ context.Context, _ int, _, _ string) (string, error) {
	f.calls = append(f.calls, "allowance")
	return f.allowance, f.err
}

func (f *fakeAggregator) Spender(_ context.Context, _ int) (string, error) {
	f.calls = append(f.calls, "spender")
	return spender, f.err
}

func (f *fakeAggregator) ApproveTransaction(_ context.Context, _ int, _, _ string) (domain.Tx, error) {
	f.calls = append(f.calls, "approve")
	return f.tx, f.err
}

func (f *fakeAggregator) Quote(_ context.Context, req domain.QuoteRequest) (domain.AggregatorQuote, error) {
	f.calls = append(f.calls, "quote")
	f.lastQuote = req
	return f.quote, f.err
}

func (f *fakeAggregator) Swap(_ context.Context, req domain.SwapRequest) (domain.Tx, error) {
	f.calls = append(f.calls, "swap")
	f.lastSwap = req
	return f.tx, f.err
}

type fakeBuilder struct {
	calls []string
	last  domain.LiquidityRequest
	res   domain.LiquidityResult
	err   error
}

func (f *fakeBuilder) AddLiquidity(_ context.Context, req domain.LiquidityRequest) (domain.LiquidityResult, error) {
	f.calls = append(f.calls, "add")
	f.last = req
	return f.res, f.err
}

func (f *fakeBuilder) RemoveLiquidity(_ context.Context, req domain.LiquidityRequest) (domain.LiquidityResult, error) {
	f.calls = append(f.calls, "remove")
	f.last = req
	return f.res, f.err
}

type fakeSource struct {
	calls     int
	portfolio domain.Portfolio
	err       error
}

func (f *fakeSource) Portfolio(_ context.Context, _ domain.PortfolioRequest) (domain.Portfolio, error) {
	f.calls++
	return f.portfolio, f.err
}
