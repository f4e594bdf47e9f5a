package domain

// LiquidityAction selects between providing and withdrawing liquidity.
type LiquidityAction string

const (
	LiquidityAdd    LiquidityAction = "add"
	LiquidityRemove LiquidityAction = "remove"
)

// LiquidityInput is the raw body of a liquidity build request. AmountIn is a
// base-unit integer unless Decimals is set, in which case it is a human
// decimal.
type LiquidityInput struct {
	Action   string        `json:"action"`
	TokenIn  string        `json:"tokenIn"`
	AmountIn DecimalString `json:"amountIn"`
	LPToken  string        `json:"lpToken"`
	TokenOut string        `json:"tokenOut,omitempty"`
	YTToken  string        `json:"ytToken,omitempty"`
	Receiver string        `json:"receiver"`
	Slippage *float64      `json:"slippage,omitempty"`
	ZPIMode  bool          `json:"zpiMode,omitempty"`
	Decimals *int          `json:"decimals,omitempty"`
	ChainID  *int          `json:"chainId,omitempty"`
}

// LiquidityRequest is a validated liquidity build request. For removals
// AmountInWei is the LP token amount and TokenOut the asset received.
type LiquidityRequest struct {
	Action      LiquidityAction
	TokenIn     string
	AmountInWei string
	LPToken     string
	TokenOut    string
	YTToken     string
	Receiver    string
	Slippage    float64
	ZPIMode     bool
	ChainID     int
}

// TokenApproval is an approval the wallet must hold before sending Tx.
type TokenApproval struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// LiquidityResult is the yield protocol's transaction payload.
type LiquidityResult struct {
	Action         LiquidityAction `json:"action"`
	LPToken        string          `json:"lpToken"`
	Tx             Tx              `json:"tx"`
	TokenApprovals []TokenApproval `json:"tokenApprovals"`
	AmountOut      string          `json:"amountOut,omitempty"`
	AmountLPOut    string          `json:"amountLpOut,omitempty"`
	AmountYTOut    string          `json:"amountYtOut,omitempty"`
	YTToken        string          `json:"ytToken,omitempty"`
	PriceImpact    float64         `json:"priceImpact"`
}
