package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/normalize"
)

// StrategySource labels recommendations produced from the built-in tiers.
const StrategySource = "static"

// StrategyService returns allocation recommendations for a wallet.
//
// TODO: replace the built-in tiers with the portfolio agent's
// recommendations once its HTTP API is available.
type StrategyService struct {
	normalizer *normalize.Normalizer
	logger     *slog.Logger
	now        func() time.Time
}

func NewStrategyService(normalizer *normalize.Normalizer, logger *slog.Logger) *StrategyService {
	return &StrategyService{
		normalizer: normalizer,
		logger:     logger,
		now:        time.Now,
	}
}

// Recommend returns the conservative, balanced and aggressive tiers with the
// one matching the caller's risk preference marked as recommended. Pools
// supplied by the caller replace the balanced tier's liquidity slice.
func (s *StrategyService) Recommend(ctx context.Context, in domain.StrategyInput) (domain.Recommendation, error) {
	req, err := s.normalizer.Strategy(in)
	if err != nil {
		return domain.Recommendation{}, err
	}

	tiers := []domain.StrategyTier{
		conservativeTier(),
		balancedTier(req.Pools),
		aggressiveTier(),
	}
	for i := range tiers {
		tiers[i].ExpectedAPY = weightedAPY(tiers[i].Allocations)
		tiers[i].Recommended = tiers[i].Risk == req.RiskPreference
	}

	s.logger.DebugContext(ctx, "strategy_service: recommendation served",
		slog.String("address", req.Address),
		slog.String("risk", string(req.RiskPreference)),
		slog.Int("pools", len(req.Pools)),
	)
	return domain.Recommendation{
		Address:     req.Address,
		Strategies:  tiers,
		Recommended: req.RiskPreference,
		Source:      StrategySource,
		GeneratedAt: s.now().UTC(),
	}, nil
}

func conservativeTier() domain.StrategyTier {
	return domain.StrategyTier{
		Risk:        domain.RiskConservative,
		Name:        "Stable yield",
		Description: "Stablecoin lending plus fixed-rate principal tokens held to maturity.",
		Allocations: []domain.Allocation{
			{Protocol: "Aave V3", Asset: "USDC", Type: "lending", Percentage: 60, APY: 4.2},
			{Protocol: "Pendle", Asset: "PT-sUSDe", Type: "fixed-yield", Percentage: 40, APY: 8.5},
		},
	}
}

func balancedTier(pools []string) domain.StrategyTier {
	allocations := []domain.Allocation{
		{Protocol: "Pendle", Asset: "PT-sUSDe", Type: "fixed-yield", Percentage: 30, APY: 8.5},
		{Protocol: "Aave V3", Asset: "WETH", Type: "lending", Percentage: 30, APY: 2.1},
	}
	const lpShare = 40
	if len(pools) == 0 {
		allocations = append(allocations, domain.Allocation{
			Protocol: "Pendle", Asset: "LP-sUSDe", Type: "liquidity", Percentage: lpShare, APY: 12,
		})
	} else {
		// Equal two-decimal shares; the last pool absorbs the rounding
		// remainder so the tier still sums to 100.
		total := decimal.NewFromInt(lpShare)
		share := total.Div(decimal.NewFromInt(int64(len(pools)))).RoundDown(2)
		last := total.Sub(share.Mul(decimal.NewFromInt(int64(len(pools) - 1))))
		for i, pool := range pools {
			pct := share
			if i == len(pools)-1 {
				pct = last
			}
			allocations = append(allocations, domain.Allocation{
				Protocol: "Pendle", Asset: "LP", Pool: pool, Type: "liquidity", Percentage: pct.InexactFloat64(), APY: 12,
			})
		}
	}
	return domain.StrategyTier{
		Risk:        domain.RiskBalanced,
		Name:        "Balanced yield",
		Description: "Fixed yield and ETH lending with a share in Pendle liquidity pools.",
		Allocations: allocations,
	}
}

func aggressiveTier() domain.StrategyTier {
	return domain.StrategyTier{
		Risk:        domain.RiskAggressive,
		Name:        "Leveraged yield",
		Description: "Yield tokens and concentrated liquidity; returns track floating rates.",
		Allocations: []domain.Allocation{
			{Protocol: "Pendle", Asset: "YT-sUSDe", Type: "yield-token", Percentage: 50, APY: 25},
			{Protocol: "Pendle", Asset: "LP-weETH", Type: "liquidity", Percentage: 30, APY: 14},
			{Protocol: "Morpho", Asset: "USDC", Type: "vault", Percentage: 20, APY: 9},
		},
	}
}

// weightedAPY is sum(percentage * apy) / sum(percentage), rounded to two
// places.
func weightedAPY(allocations []domain.Allocation) float64 {
	weighted, total := decimal.Zero, decimal.Zero
	for _, a := range allocations {
		pct := decimal.NewFromFloat(a.Percentage)
		weighted = weighted.Add(pct.Mul(decimal.NewFromFloat(a.APY)))
		total = total.Add(pct)
	}
	if total.IsZero() {
		return 0
	}
	return weighted.DivRound(total, 2).InexactFloat64()
}
