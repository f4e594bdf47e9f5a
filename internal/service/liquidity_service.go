package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/normalize"
)

// LiquidityService validates liquidity requests and has the yield protocol
// build the matching transaction.
type LiquidityService struct {
	normalizer *normalize.Normalizer
	builder    domain.LiquidityBuilder
	logger     *slog.Logger
}

func NewLiquidityService(
	normalizer *normalize.Normalizer,
	builder domain.LiquidityBuilder,
	logger *slog.Logger,
) *LiquidityService {
	return &LiquidityService{
		normalizer: normalizer,
		builder:    builder,
		logger:     logger,
	}
}

// Build dispatches an add, zero-price-impact add or remove request.
func (s *LiquidityService) Build(ctx context.Context, in domain.LiquidityInput) (domain.LiquidityResult, error) {
	if s.builder == nil {
		return domain.LiquidityResult{}, &domain.NotConfiguredError{Integration: "pendle", Setting: "pendle.enabled"}
	}
	req, err := s.normalizer.Liquidity(in)
	if err != nil {
		return domain.LiquidityResult{}, err
	}

	var res domain.LiquidityResult
	switch req.Action {
	case domain.LiquidityAdd:
		res, err = s.builder.AddLiquidity(ctx, req)
	case domain.LiquidityRemove:
		res, err = s.builder.RemoveLiquidity(ctx, req)
	default:
		return domain.LiquidityResult{}, domain.Invalid("action must be 'add' or 'remove'")
	}
	if err != nil {
		return domain.LiquidityResult{}, fmt.Errorf("liquidity_service: %s: %w", req.Action, err)
	}

	s.logger.InfoContext(ctx, "liquidity_service: transaction built",
		slog.String("action", string(req.Action)),
		slog.String("market", req.LPToken),
		slog.Bool("zpi", req.ZPIMode),
		slog.Int("chain_id", req.ChainID),
	)
	return res, nil
}
