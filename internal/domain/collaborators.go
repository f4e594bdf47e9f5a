package domain

import "context"

// SwapAggregator is the swap aggregator the swap and approval routes forward
// to. All amounts are base-unit integer strings.
type SwapAggregator interface {
	Allowance(ctx context.Context, chainID int, token, wallet string) (string, error)
	Spender(ctx context.Context, chainID int) (string, error)
	ApproveTransaction(ctx context.Context, chainID int, token, amountWei string) (Tx, error)
	Quote(ctx context.Context, req QuoteRequest) (AggregatorQuote, error)
	Swap(ctx context.Context, req SwapRequest) (Tx, error)
}

// LiquidityBuilder is the yield protocol that builds liquidity transactions.
type LiquidityBuilder interface {
	AddLiquidity(ctx context.Context, req LiquidityRequest) (LiquidityResult, error)
	RemoveLiquidity(ctx context.Context, req LiquidityRequest) (LiquidityResult, error)
}

// PortfolioSource is the portfolio aggregator.
type PortfolioSource interface {
	Portfolio(ctx context.Context, req PortfolioRequest) (Portfolio, error)
}
