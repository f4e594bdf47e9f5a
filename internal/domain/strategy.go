package domain

import "time"

// RiskPreference is the caller's appetite for risk.
type RiskPreference string

const (
	RiskConservative RiskPreference = "conservative"
	RiskBalanced     RiskPreference = "balanced"
	RiskAggressive   RiskPreference = "aggressive"
)

// StrategyInput is the raw body of a strategy recommendation request.
type StrategyInput struct {
	Address        string   `json:"address"`
	RiskPreference string   `json:"riskPreference,omitempty"`
	Pools          []string `json:"pools,omitempty"`
}

// StrategyRequest is a validated strategy recommendation request.
type StrategyRequest struct {
	Address        string
	RiskPreference RiskPreference
	Pools          []string
}

// Allocation is one slice of a strategy tier.
type Allocation struct {
	Protocol   string  `json:"protocol"`
	Asset      string  `json:"asset"`
	Pool       string  `json:"pool,omitempty"`
	Type       string  `json:"type"`
	Percentage float64 `json:"percentage"`
	APY        float64 `json:"apy"`
}

// StrategyTier is a complete allocation at one risk level.
type StrategyTier struct {
	Risk        RiskPreference `json:"risk"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ExpectedAPY float64        `json:"expectedApy"`
	Allocations []Allocation   `json:"allocations"`
	Recommended bool           `json:"recommended"`
}

// Recommendation is the strategy endpoint's answer.
type Recommendation struct {
	Address     string         `json:"address"`
	Strategies  []StrategyTier `json:"strategies"`
	Recommended RiskPreference `json:"recommended"`
	Source      string         `json:"source"`
	GeneratedAt time.Time      `json:"generatedAt"`
}
