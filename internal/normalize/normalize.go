// Package normalize validates and canonicalizes inbound swap, quote,
// approval, liquidity, portfolio and strategy requests before anything is
// forwarded to an external collaborator. It also converts between human
// decimal token amounts and integer base units.
package normalize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alanyoungcy/defidash/internal/domain"
)

// DefaultDecimals is assumed for a token whose precision the caller omitted.
const DefaultDecimals = 18

// Options configures a Normalizer.
type Options struct {
	// DefaultChainID is used when a request carries no chainId.
	DefaultChainID int
	// SupportedChains restricts accepted chain ids. Empty accepts any
	// positive id.
	SupportedChains []int
	// AllowSameToken disables the fromToken != toToken check on swaps and
	// quotes.
	AllowSameToken bool
}

// Normalizer turns raw request payloads into validated domain requests. It
// holds no per-request state and is safe for concurrent use.
type Normalizer struct {
	defaultChainID int
	chains         map[int]bool
	allowSameToken bool
}

// New creates a Normalizer from opts.
func New(opts Options) *Normalizer {
	chains := make(map[int]bool, len(opts.SupportedChains))
	for _, id := range opts.SupportedChains {
		chains[id] = true
	}
	chainID := opts.DefaultChainID
	if chainID <= 0 {
		chainID = 1
	}
	return &Normalizer{
		defaultChainID: chainID,
		chains:         chains,
		allowSameToken: opts.AllowSameToken,
	}
}

// Allowance validates an allowance lookup.
func (n *Normalizer) Allowance(in domain.AllowanceInput) (domain.AllowanceRequest, error) {
	c := &checker{}
	c.require("tokenAddress", in.TokenAddress)
	c.require("walletAddress", in.WalletAddress)
	if err := c.missingErr(); err != nil {
		return domain.AllowanceRequest{}, err
	}

	req := domain.AllowanceRequest{
		TokenAddress:  c.address("tokenAddress", in.TokenAddress),
		WalletAddress: c.address("walletAddress", in.WalletAddress),
		ChainID:       n.chainFromString(c, in.ChainID),
	}
	return req, c.err()
}

// Approve validates an approval build request. A missing amount yields an
// unlimited approval.
func (n *Normalizer) Approve(in domain.ApproveInput) (domain.ApproveRequest, error) {
	c := &checker{}
	c.require("tokenAddress", in.TokenAddress)
	if err := c.missingErr(); err != nil {
		return domain.ApproveRequest{}, err
	}

	req := domain.ApproveRequest{
		TokenAddress: c.address("tokenAddress", in.TokenAddress),
		ChainID:      n.chain(c, in.ChainID),
	}
	if amount := in.Amount.String(); amount != "" {
		decimals := c.decimals("decimals", in.Decimals)
		req.AmountWei = c.wei("amount", amount, decimals)
	}
	return req, c.err()
}

// Quote validates a quote request taken from query parameters.
func (n *Normalizer) Quote(in domain.QuoteInput) (domain.QuoteRequest, error) {
	c := &checker{}
	c.require("fromToken", in.FromToken)
	c.require("toToken", in.ToToken)
	c.require("amount", in.Amount)
	if err := c.missingErr(); err != nil {
		return domain.QuoteRequest{}, err
	}

	req := domain.QuoteRequest{
		FromToken: c.address("fromToken", in.FromToken),
		ToToken:   c.address("toToken", in.ToToken),
		ChainID:   n.chainFromString(c, in.ChainID),
	}
	n.distinct(c, "fromToken", "toToken", req.FromToken, req.ToToken)

	fromDecimals := c.decimals("fromDecimals", c.intParam("fromDecimals", in.FromDecimals))
	if in.ToDecimals != "" {
		d := c.decimals("toDecimals", c.intParam("toDecimals", in.ToDecimals))
		req.ToDecimals = &d
	}
	req.Amount = domain.TokenAmount{Value: strings.TrimSpace(in.Amount), Decimals: fromDecimals}
	req.AmountWei = c.positiveWei("amount", in.Amount, fromDecimals)
	req.Slippage = c.slippage(c.floatParam("slippage", in.Slippage))
	return req, c.err()
}

// Swap validates a swap build request.
func (n *Normalizer) Swap(in domain.SwapInput) (domain.SwapRequest, error) {
	c := &checker{}
	c.require("fromToken", in.FromToken)
	c.require("toToken", in.ToToken)
	c.require("amount", in.Amount.String())
	c.require("fromAddress", in.FromAddress)
	if err := c.missingErr(); err != nil {
		return domain.SwapRequest{}, err
	}

	req := domain.SwapRequest{
		FromToken:   c.address("fromToken", in.FromToken),
		ToToken:     c.address("toToken", in.ToToken),
		FromAddress: c.address("fromAddress", in.FromAddress),
		ChainID:     n.chain(c, in.ChainID),
		Slippage:    c.slippage(in.Slippage),
	}
	n.distinct(c, "fromToken", "toToken", req.FromToken, req.ToToken)

	decimals := c.decimals("fromDecimals", in.FromDecimals)
	req.Amount = domain.TokenAmount{Value: in.Amount.String(), Decimals: decimals}
	req.AmountWei = c.positiveWei("amount", in.Amount.String(), decimals)
	return req, c.err()
}

// Liquidity validates a liquidity build request. Removals additionally
// require tokenOut; zero-price-impact adds require the paired ytToken.
func (n *Normalizer) Liquidity(in domain.LiquidityInput) (domain.LiquidityRequest, error) {
	c := &checker{}
	c.require("action", in.Action)
	c.require("tokenIn", in.TokenIn)
	c.require("amountIn", in.AmountIn.String())
	c.require("lpToken", in.LPToken)
	c.require("receiver", in.Receiver)

	action := domain.LiquidityAction(strings.ToLower(strings.TrimSpace(in.Action)))
	if action == domain.LiquidityRemove {
		c.require("tokenOut", in.TokenOut)
	}
	if action == domain.LiquidityAdd && in.ZPIMode {
		c.require("ytToken", in.YTToken)
	}
	if err := c.missingErr(); err != nil {
		return domain.LiquidityRequest{}, err
	}

	if action != domain.LiquidityAdd && action != domain.LiquidityRemove {
		c.problem("action must be 'add' or 'remove', got %q", in.Action)
	}

	req := domain.LiquidityRequest{
		Action:   action,
		TokenIn:  c.address("tokenIn", in.TokenIn),
		LPToken:  c.address("lpToken", in.LPToken),
		Receiver: c.address("receiver", in.Receiver),
		Slippage: c.slippage(in.Slippage),
		ZPIMode:  in.ZPIMode && action == domain.LiquidityAdd,
		ChainID:  n.chain(c, in.ChainID),
	}
	if action == domain.LiquidityRemove {
		req.TokenOut = c.address("tokenOut", in.TokenOut)
	}
	if req.ZPIMode {
		req.YTToken = c.address("ytToken", in.YTToken)
	}

	amount := in.AmountIn.String()
	if in.Decimals != nil {
		req.AmountInWei = c.positiveWei("amountIn", amount, c.decimals("decimals", in.Decimals))
	} else if !IsInteger(amount) {
		c.problem("amountIn must be a base-unit integer when decimals is omitted")
	} else if wei := trimLeadingZeros(amount); wei == "0" {
		c.problem("amountIn must be greater than zero")
	} else {
		req.AmountInWei = wei
	}
	return req, c.err()
}

// Portfolio validates a portfolio lookup. Only presence is checked here so
// that the unconfigured fallback can be served for any non-empty address;
// call PortfolioAddress before contacting the aggregator.
func (n *Normalizer) Portfolio(in domain.PortfolioInput) (domain.PortfolioRequest, error) {
	c := &checker{}
	c.require("address", in.Address)
	if err := c.missingErr(); err != nil {
		return domain.PortfolioRequest{}, err
	}
	req := domain.PortfolioRequest{
		Address:       strings.TrimSpace(in.Address),
		IncludeImages: c.boolParam("includeImages", in.IncludeImages),
		WaitForSync:   c.boolParam("waitForSync", in.WaitForSync),
	}
	return req, c.err()
}

// PortfolioAddress checks the address format of a portfolio lookup.
func (n *Normalizer) PortfolioAddress(req domain.PortfolioRequest) (domain.PortfolioRequest, error) {
	c := &checker{}
	req.Address = c.address("address", req.Address)
	return req, c.err()
}

// Strategy validates a strategy recommendation request.
func (n *Normalizer) Strategy(in domain.StrategyInput) (domain.StrategyRequest, error) {
	c := &checker{}
	c.require("address", in.Address)
	if err := c.missingErr(); err != nil {
		return domain.StrategyRequest{}, err
	}

	req := domain.StrategyRequest{
		Address:        c.address("address", in.Address),
		RiskPreference: domain.RiskBalanced,
	}
	switch p := domain.RiskPreference(strings.ToLower(strings.TrimSpace(in.RiskPreference))); p {
	case "":
	case domain.RiskConservative, domain.RiskBalanced, domain.RiskAggressive:
		req.RiskPreference = p
	default:
		c.problem("riskPreference must be one of conservative, balanced, aggressive, got %q", in.RiskPreference)
	}
	for i, pool := range in.Pools {
		req.Pools = append(req.Pools, c.address(fmt.Sprintf("pools[%d]", i), pool))
	}
	return req, c.err()
}

// SupportedChains returns the configured chain ids in ascending order.
func (n *Normalizer) SupportedChains() []int {
	ids := make([]int, 0, len(n.chains))
	for id := range n.chains {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (n *Normalizer) chain(c *checker, id *int) int {
	if id == nil {
		return n.defaultChainID
	}
	if *id <= 0 || (len(n.chains) > 0 && !n.chains[*id]) {
		c.problem("unsupported chainId %d", *id)
	}
	return *id
}

func (n *Normalizer) chainFromString(c *checker, raw string) int {
	return n.chain(c, c.intParam("chainId", raw))
}

func (n *Normalizer) distinct(c *checker, fieldA, fieldB, a, b string) {
	if n.allowSameToken || a == "" || b == "" {
		return
	}
	if strings.EqualFold(a, b) {
		c.problem("%s and %s must be different tokens", fieldA, fieldB)
	}
}

// checker accumulates validation failures for one request.
type checker struct {
	missing  []string
	problems []string
}

func (c *checker) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.missing = append(c.missing, field)
	}
}

func (c *checker) problem(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

func (c *checker) missingErr() error {
	if len(c.missing) == 0 {
		return nil
	}
	return &domain.ValidationError{Missing: c.missing}
}

func (c *checker) err() error {
	if len(c.missing) == 0 && len(c.problems) == 0 {
		return nil
	}
	return &domain.ValidationError{Missing: c.missing, Problems: c.problems}
}

// address validates a required address and returns its checksummed form, or
// "" after recording a problem.
func (c *checker) address(field, value string) string {
	value = strings.TrimSpace(value)
	if !IsAddress(value) {
		c.problem("%s must be a 0x-prefixed 40 hex character address", field)
		return ""
	}
	return Checksum(value)
}

func (c *checker) slippage(v *float64) float64 {
	if v == nil {
		return DefaultSlippage
	}
	if !ValidSlippage(*v) {
		c.problem("%s", SlippageRangeMessage)
		return DefaultSlippage
	}
	return *v
}

func (c *checker) decimals(field string, v *int) int {
	if v == nil {
		return DefaultDecimals
	}
	if *v < 0 || *v > MaxDecimals {
		c.problem("%s must be between 0 and %d", field, MaxDecimals)
		return DefaultDecimals
	}
	return *v
}

func (c *checker) wei(field, value string, decimals int) string {
	value = strings.TrimSpace(value)
	if !IsDecimal(value) {
		c.problem("%s must be a non-negative decimal number", field)
		return ""
	}
	wei, err := ToWei(value, decimals)
	if err != nil {
		c.problem("%s: %v", field, err)
		return ""
	}
	return wei
}

func (c *checker) positiveWei(field, value string, decimals int) string {
	wei := c.wei(field, value, decimals)
	if wei == "0" {
		c.problem("%s must be greater than zero at %d decimals", field, decimals)
		return ""
	}
	return wei
}

func (c *checker) intParam(field, raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.problem("%s must be an integer", field)
		return nil
	}
	return &v
}

func (c *checker) floatParam(field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.problem("%s must be a number", field)
		return nil
	}
	return &v
}

func (c *checker) boolParam(field, raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.problem("%s must be true or false", field)
		return false
	}
	return v
}
