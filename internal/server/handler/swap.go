package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/defidash/internal/domain"
)

// SwapService defines the methods the swap handler requires from the
// service layer.
type SwapService interface {
	Allowance(ctx context.Context, in domain.AllowanceInput) (domain.Allowance, error)
	BuildApprove(ctx context.Context, in domain.ApproveInput) (domain.ApproveResult, error)
	Quote(ctx context.Context, in domain.QuoteInput) (domain.Quote, error)
	BuildSwap(ctx context.Context, in domain.SwapInput) (domain.SwapResult, error)
}

// SwapHandler serves the approval, quote and swap endpoints.
type SwapHandler struct {
	swaps  SwapService
	logger *slog.Logger
}

// NewSwapHandler creates a SwapHandler with the given service and logger.
func NewSwapHandler(swaps SwapService, logger *slog.Logger) *SwapHandler {
	return &SwapHandler{
		swaps:  swaps,
		logger: logHandler(logger, "swap"),
	}
}

// GetAllowance returns the router allowance for a wallet's token.
// GET /api/approve?tokenAddress=0x...&walletAddress=0x...&chainId=1
func (h *SwapHandler) GetAllowance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.swaps.Allowance(r.Context(), domain.AllowanceInput{
		TokenAddress:  q.Get("tokenAddress"),
		WalletAddress: q.Get("walletAddress"),
		ChainID:       q.Get("chainId"),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, res)
}

// BuildApprove builds an approval transaction for the aggregator router.
// POST /api/approve
func (h *SwapHandler) BuildApprove(w http.ResponseWriter, r *http.Request) {
	var in domain.ApproveInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	res, err := h.swaps.BuildApprove(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, res)
}

// GetQuote prices a swap.
// GET /api/quote?fromToken=0x...&toToken=0x...&amount=1.5&slippage=0.01
func (h *SwapHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.swaps.Quote(r.Context(), domain.QuoteInput{
		FromToken:    q.Get("fromToken"),
		ToToken:      q.Get("toToken"),
		Amount:       q.Get("amount"),
		Slippage:     q.Get("slippage"),
		FromDecimals: q.Get("fromDecimals"),
		ToDecimals:   q.Get("toDecimals"),
		ChainID:      q.Get("chainId"),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, res)
}

// BuildSwap builds a swap transaction.
// POST /api/swap
func (h *SwapHandler) BuildSwap(w http.ResponseWriter, r *http.Request) {
	var in domain.SwapInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	res, err := h.swaps.BuildSwap(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, res)
}
