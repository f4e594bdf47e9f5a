package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/defidash/internal/domain"
)

// StrategyService produces allocation recommendations.
type StrategyService interface {
	Recommend(ctx context.Context, in domain.StrategyInput) (domain.Recommendation, error)
}

// StrategyHandler serves the strategy recommendation endpoint.
type StrategyHandler struct {
	strategies StrategyService
	logger     *slog.Logger
}

func NewStrategyHandler(strategies StrategyService, logger *slog.Logger) *StrategyHandler {
	return &StrategyHandler{
		strategies: strategies,
		logger:     logHandler(logger, "strategy"),
	}
}

// Recommend returns the risk tiers for a wallet.
// POST /api/strategy/recommend
func (h *StrategyHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var in domain.StrategyInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	rec, err := h.strategies.Recommend(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, rec)
}
