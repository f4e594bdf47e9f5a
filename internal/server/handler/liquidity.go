package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/defidash/internal/domain"
)

// LiquidityService builds liquidity transactions.
type LiquidityService interface {
	Build(ctx context.Context, in domain.LiquidityInput) (domain.LiquidityResult, error)
}

// LiquidityHandler serves the liquidity endpoint.
type LiquidityHandler struct {
	liquidity LiquidityService
	logger    *slog.Logger
}

func NewLiquidityHandler(liquidity LiquidityService, logger *slog.Logger) *LiquidityHandler {
	return &LiquidityHandler{
		liquidity: liquidity,
		logger:    logHandler(logger, "liquidity"),
	}
}

// Build returns the yield protocol's transaction for an add or remove.
// POST /api/liquidity
func (h *LiquidityHandler) Build(w http.ResponseWriter, r *http.Request) {
	var in domain.LiquidityInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	res, err := h.liquidity.Build(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, res)
}
