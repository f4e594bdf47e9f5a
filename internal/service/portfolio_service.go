package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/normalize"
)

// PortfolioService serves the aggregated portfolio of a wallet.
type PortfolioService struct {
	normalizer *normalize.Normalizer
	source     domain.PortfolioSource
	logger     *slog.Logger
}

// NewPortfolioService creates a PortfolioService. A nil source means the
// aggregator key is unset; lookups then return an empty portfolio.
func NewPortfolioService(
	normalizer *normalize.Normalizer,
	source domain.PortfolioSource,
	logger *slog.Logger,
) *PortfolioService {
	return &PortfolioService{
		normalizer: normalizer,
		source:     source,
		logger:     logger,
	}
}

// Configured reports whether the aggregator credential is present.
func (s *PortfolioService) Configured() bool {
	return s.source != nil
}

// Get returns the portfolio for in.Address. Without a configured source it
// returns a zeroed portfolio and makes no outbound call.
func (s *PortfolioService) Get(ctx context.Context, in domain.PortfolioInput) (domain.Portfolio, error) {
	req, err := s.normalizer.Portfolio(in)
	if err != nil {
		return domain.Portfolio{}, err
	}

	if s.source == nil {
		s.logger.DebugContext(ctx, "portfolio_service: octav not configured, serving empty portfolio",
			slog.String("address", req.Address),
		)
		return domain.EmptyPortfolio(req.Address), nil
	}

	req, err = s.normalizer.PortfolioAddress(req)
	if err != nil {
		return domain.Portfolio{}, err
	}

	p, err := s.source.Portfolio(ctx, req)
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("portfolio_service: fetch: %w", err)
	}
	if p.Positions == nil {
		p.Positions = []domain.Position{}
	}
	if p.Assets == nil {
		p.Assets = []domain.Asset{}
	}
	return p, nil
}
