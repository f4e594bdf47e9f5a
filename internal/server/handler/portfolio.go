package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/defidash/internal/domain"
)

// PortfolioService returns a wallet's aggregated portfolio.
type PortfolioService interface {
	Get(ctx context.Context, in domain.PortfolioInput) (domain.Portfolio, error)
}

// PortfolioHandler serves the portfolio endpoint.
type PortfolioHandler struct {
	portfolios PortfolioService
	logger     *slog.Logger
}

func NewPortfolioHandler(portfolios PortfolioService, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolios: portfolios,
		logger:     logHandler(logger, "portfolio"),
	}
}

// GetPortfolio returns positions, assets and total USD value for an address.
// GET /api/octav-portfolio?address=0x...&includeImages=true&waitForSync=false
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := h.portfolios.Get(r.Context(), domain.PortfolioInput{
		Address:       q.Get("address"),
		IncludeImages: q.Get("includeImages"),
		WaitForSync:   q.Get("waitForSync"),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, p)
}
