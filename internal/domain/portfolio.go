package domain

// PortfolioInput is the raw query of a portfolio lookup.
type PortfolioInput struct {
	Address       string
	IncludeImages string
	WaitForSync   string
}

// PortfolioRequest is a validated portfolio lookup.
type PortfolioRequest struct {
	Address       string
	IncludeImages bool
	WaitForSync   bool
}

// Asset is a single token holding, valued in USD.
type Asset struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Chain    string  `json:"chain"`
	Contract string  `json:"contract,omitempty"`
	Protocol string  `json:"protocol"`
	Kind     string  `json:"kind"` // "asset", "supply", "borrow" or "reward"
	Balance  string  `json:"balance"`
	PriceUSD float64 `json:"priceUSD"`
	ValueUSD float64 `json:"valueUSD"`
	Image    string  `json:"image,omitempty"`
}

// Position is a protocol position on one chain, e.g. a lending deposit.
type Position struct {
	Protocol    string  `json:"protocol"`
	ProtocolKey string  `json:"protocolKey"`
	Chain       string  `json:"chain"`
	Name        string  `json:"name"`
	ValueUSD    float64 `json:"valueUSD"`
	Assets      []Asset `json:"assets"`
	Image       string  `json:"image,omitempty"`
}

// Portfolio is the dashboard view of one wallet.
type Portfolio struct {
	Address       string     `json:"address,omitempty"`
	Positions     []Position `json:"positions"`
	Assets        []Asset    `json:"assets"`
	TotalValueUSD float64    `json:"totalValueUSD"`
}

// EmptyPortfolio is served when the portfolio aggregator is not configured.
func EmptyPortfolio(address string) Portfolio {
	return Portfolio{
		Address:   address,
		Positions: []Position{},
		Assets:    []Asset{},
	}
}
