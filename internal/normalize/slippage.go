package normalize

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	DefaultSlippage = 0.01
	MinSlippage     = 0.001
	MaxSlippage     = 0.1
)

// SlippageRangeMessage is the caller-facing description of the valid range.
const SlippageRangeMessage = "slippage must be between 0.1% and 10% (0.001 - 0.1)"

// ValidSlippage reports whether s is a fraction within [MinSlippage, MaxSlippage].
func ValidSlippage(s float64) bool {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return false
	}
	return s >= MinSlippage && s <= MaxSlippage
}

// ToPercent renders a slippage fraction as a percentage string, e.g. 0.005
// becomes "0.5". Used for upstreams that take slippage in percent.
func ToPercent(fraction float64) string {
	return decimal.NewFromFloat(fraction).Mul(decimal.NewFromInt(100)).String()
}
