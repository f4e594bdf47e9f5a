package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/normalize"
)

// SwapService validates swap, quote and approval requests and forwards them
// to the swap aggregator.
type SwapService struct {
	normalizer *normalize.Normalizer
	aggregator domain.SwapAggregator
	logger     *slog.Logger
}

// NewSwapService creates a SwapService. A nil aggregator means no API key
// is configured; every call then fails with domain.ErrNotConfigured.
func NewSwapService(
	normalizer *normalize.Normalizer,
	aggregator domain.SwapAggregator,
	logger *slog.Logger,
) *SwapService {
	return &SwapService{
		normalizer: normalizer,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Configured reports whether the aggregator credential is present.
func (s *SwapService) Configured() bool {
	return s.aggregator != nil
}

// Allowance returns the router's current allowance over a wallet's token.
func (s *SwapService) Allowance(ctx context.Context, in domain.AllowanceInput) (domain.Allowance, error) {
	if err := s.ready(); err != nil {
		return domain.Allowance{}, err
	}
	req, err := s.normalizer.Allowance(in)
	if err != nil {
		return domain.Allowance{}, err
	}

	amount, err := s.aggregator.Allowance(ctx, req.ChainID, req.TokenAddress, req.WalletAddress)
	if err != nil {
		return domain.Allowance{}, fmt.Errorf("swap_service: allowance: %w", err)
	}
	return domain.Allowance{
		Allowance:     amount,
		TokenAddress:  req.TokenAddress,
		WalletAddress: req.WalletAddress,
		ChainID:       req.ChainID,
	}, nil
}

// BuildApprove resolves the router address and builds the approval
// transaction for it. The two upstream calls run one after the other.
func (s *SwapService) BuildApprove(ctx context.Context, in domain.ApproveInput) (domain.ApproveResult, error) {
	if err := s.ready(); err != nil {
		return domain.ApproveResult{}, err
	}
	req, err := s.normalizer.Approve(in)
	if err != nil {
		return domain.ApproveResult{}, err
	}

	spender, err := s.aggregator.Spender(ctx, req.ChainID)
	if err != nil {
		return domain.ApproveResult{}, fmt.Errorf("swap_service: spender: %w", err)
	}
	tx, err := s.aggregator.ApproveTransaction(ctx, req.ChainID, req.TokenAddress, req.AmountWei)
	if err != nil {
		return domain.ApproveResult{}, fmt.Errorf("swap_service: approve transaction: %w", err)
	}

	s.logger.DebugContext(ctx, "swap_service: approval built",
		slog.String("token", req.TokenAddress),
		slog.Bool("unlimited", req.AmountWei == ""),
		slog.Int("chain_id", req.ChainID),
	)
	return domain.ApproveResult{Tx: tx, Spender: spender}, nil
}

// Quote prices a swap and reports both amounts in human and base-unit form
// along with the execution price.
func (s *SwapService) Quote(ctx context.Context, in domain.QuoteInput) (domain.Quote, error) {
	if err := s.ready(); err != nil {
		return domain.Quote{}, err
	}
	req, err := s.normalizer.Quote(in)
	if err != nil {
		return domain.Quote{}, err
	}

	aq, err := s.aggregator.Quote(ctx, req)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("swap_service: quote: %w", err)
	}

	fromToken := domain.TokenInfo{Address: req.FromToken, Decimals: req.Amount.Decimals}
	if aq.SrcToken != nil {
		fromToken = *aq.SrcToken
	}
	toDecimals := normalize.DefaultDecimals
	toToken := domain.TokenInfo{Address: req.ToToken}
	if aq.DstToken != nil {
		toToken = *aq.DstToken
		toDecimals = aq.DstToken.Decimals
	}
	if req.ToDecimals != nil {
		toDecimals = *req.ToDecimals
	}
	toToken.Decimals = toDecimals

	fromAmount, err := normalize.FromWei(req.AmountWei, req.Amount.Decimals)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("swap_service: from amount: %w", err)
	}
	toAmount, err := normalize.FromWei(aq.DstAmount, toDecimals)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("swap_service: to amount: %w", err)
	}
	price, err := normalize.Price(fromAmount, toAmount)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("swap_service: price: %w", err)
	}

	return domain.Quote{
		FromToken:     fromToken,
		ToToken:       toToken,
		FromAmount:    fromAmount,
		FromAmountWei: req.AmountWei,
		ToAmount:      toAmount,
		ToAmountWei:   aq.DstAmount,
		Protocols:     aq.Protocols,
		EstimatedGas:  aq.Gas,
		Slippage:      req.Slippage,
		Price:         price,
		ChainID:       req.ChainID,
	}, nil
}

// BuildSwap builds the swap transaction for the caller's wallet.
func (s *SwapService) BuildSwap(ctx context.Context, in domain.SwapInput) (domain.SwapResult, error) {
	if err := s.ready(); err != nil {
		return domain.SwapResult{}, err
	}
	req, err := s.normalizer.Swap(in)
	if err != nil {
		return domain.SwapResult{}, err
	}

	tx, err := s.aggregator.Swap(ctx, req)
	if err != nil {
		return domain.SwapResult{}, fmt.Errorf("swap_service: swap: %w", err)
	}
	if tx.From == "" {
		tx.From = req.FromAddress
	}

	s.logger.InfoContext(ctx, "swap_service: swap built",
		slog.String("from_token", req.FromToken),
		slog.String("to_token", req.ToToken),
		slog.String("amount_wei", req.AmountWei),
		slog.Int("chain_id", req.ChainID),
	)
	return domain.SwapResult{
		Tx:          tx,
		FromToken:   req.FromToken,
		ToToken:     req.ToToken,
		FromAmount:  req.Amount.Value,
		AmountWei:   req.AmountWei,
		FromAddress: req.FromAddress,
		Slippage:    req.Slippage,
		ChainID:     req.ChainID,
	}, nil
}

func (s *SwapService) ready() error {
	if s.aggregator == nil {
		return &domain.NotConfiguredError{Integration: "1inch", Setting: "ONEINCH_API_KEY"}
	}
	return nil
}
