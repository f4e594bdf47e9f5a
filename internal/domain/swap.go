package domain

// AllowanceInput is the raw query of an allowance lookup.
type AllowanceInput struct {
	TokenAddress  string
	WalletAddress string
	ChainID       string
}

// AllowanceRequest is a validated allowance lookup.
type AllowanceRequest struct {
	TokenAddress  string
	WalletAddress string
	ChainID       int
}

// ApproveInput is the raw body of an approval build request. Amount is a
// human decimal; when absent the aggregator builds an unlimited approval.
type ApproveInput struct {
	TokenAddress string        `json:"tokenAddress"`
	Amount       DecimalString `json:"amount,omitempty"`
	Decimals     *int          `json:"decimals,omitempty"`
	ChainID      *int          `json:"chainId,omitempty"`
}

// ApproveRequest is a validated approval build request. AmountWei is empty
// for unlimited approvals.
type ApproveRequest struct {
	TokenAddress string
	AmountWei    string
	ChainID      int
}

// ApproveResult carries the approval transaction and the router address
// being approved.
type ApproveResult struct {
	Tx      Tx     `json:"tx"`
	Spender string `json:"spender"`
}

// QuoteInput is the raw query of a quote request.
type QuoteInput struct {
	FromToken    string
	ToToken      string
	Amount       string
	Slippage     string
	FromDecimals string
	ToDecimals   string
	ChainID      string
}

// QuoteRequest is a validated quote request.
type QuoteRequest struct {
	FromToken  string
	ToToken    string
	Amount     TokenAmount
	AmountWei  string
	ToDecimals *int
	Slippage   float64
	ChainID    int
}

// RouteHop is one leg of an aggregator route: Part percent of the flow goes
// through the named protocol between the two tokens.
type RouteHop struct {
	Name             string  `json:"name"`
	Part             float64 `json:"part"`
	FromTokenAddress string  `json:"fromTokenAddress"`
	ToTokenAddress   string  `json:"toTokenAddress"`
}

// AggregatorQuote is the aggregator's raw answer to a quote request.
type AggregatorQuote struct {
	DstAmount string
	SrcToken  *TokenInfo
	DstToken  *TokenInfo
	Protocols [][][]RouteHop
	Gas       uint64
}

// Quote is the quote returned to the client, with amounts in both human and
// base-unit form and the execution price (toAmount per fromAmount).
type Quote struct {
	FromToken     TokenInfo      `json:"fromToken"`
	ToToken       TokenInfo      `json:"toToken"`
	FromAmount    string         `json:"fromAmount"`
	FromAmountWei string         `json:"fromAmountWei"`
	ToAmount      string         `json:"toAmount"`
	ToAmountWei   string         `json:"toAmountWei"`
	Protocols     [][][]RouteHop `json:"protocols"`
	EstimatedGas  uint64         `json:"estimatedGas"`
	Slippage      float64        `json:"slippage"`
	Price         string         `json:"price"`
	ChainID       int            `json:"chainId"`
}

// SwapInput is the raw body of a swap build request.
type SwapInput struct {
	FromToken    string        `json:"fromToken"`
	ToToken      string        `json:"toToken"`
	Amount       DecimalString `json:"amount"`
	FromAddress  string        `json:"fromAddress"`
	Slippage     *float64      `json:"slippage,omitempty"`
	FromDecimals *int          `json:"fromDecimals,omitempty"`
	ChainID      *int          `json:"chainId,omitempty"`
}

// SwapRequest is a validated swap build request. FromAddress is both the
// sender and the receiver of the swap.
type SwapRequest struct {
	FromToken   string
	ToToken     string
	Amount      TokenAmount
	AmountWei   string
	FromAddress string
	Slippage    float64
	ChainID     int
}

// Allowance is the answer to an allowance lookup. Allowance is in base units.
type Allowance struct {
	Allowance     string `json:"allowance"`
	TokenAddress  string `json:"tokenAddress"`
	WalletAddress string `json:"walletAddress"`
	ChainID       int    `json:"chainId"`
}

// SwapResult is the swap transaction, flattened so the wallet can submit the
// payload as is, followed by an echo of the request it was built for.
type SwapResult struct {
	Tx
	FromToken   string  `json:"fromToken"`
	ToToken     string  `json:"toToken"`
	FromAmount  string  `json:"fromAmount"`
	AmountWei   string  `json:"amountWei"`
	FromAddress string  `json:"fromAddress"`
	Slippage    float64 `json:"slippage"`
	ChainID     int     `json:"chainId"`
}
