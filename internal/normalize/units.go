package normalize

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDecimals bounds the token precision accepted by ToWei and FromWei.
const MaxDecimals = 36

var (
	decimalPattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)
	integerPattern = regexp.MustCompile(`^\d+$`)
)

// IsDecimal reports whether s is a non-negative finite decimal number such as
// "1", "1.5", "0.001" or ".5". Signs and exponents are not accepted.
func IsDecimal(s string) bool {
	return decimalPattern.MatchString(s)
}

// IsInteger reports whether s is a non-negative base-10 integer.
func IsInteger(s string) bool {
	return integerPattern.MatchString(s)
}

// ToWei converts a human decimal amount into its base-unit integer for a
// token with the given precision. Extra fractional digits are truncated, not
// rounded, so the result never exceeds the requested amount.
func ToWei(value string, decimals int) (string, error) {
	value = strings.TrimSpace(value)
	if !IsDecimal(value) {
		return "", fmt.Errorf("normalize: %q is not a non-negative decimal number", value)
	}
	if err := checkDecimals(decimals); err != nil {
		return "", err
	}

	whole, frac, _ := strings.Cut(value, ".")
	if len(frac) > decimals {
		frac = frac[:decimals]
	} else {
		frac += strings.Repeat("0", decimals-len(frac))
	}

	return trimLeadingZeros(whole + frac), nil
}

// FromWei converts a base-unit integer into a human decimal for a token with
// the given precision. Trailing fractional zeros are dropped, as is the
// decimal point when nothing remains after it.
func FromWei(base string, decimals int) (string, error) {
	base = strings.TrimSpace(base)
	if !IsInteger(base) {
		return "", fmt.Errorf("normalize: %q is not a non-negative integer", base)
	}
	if err := checkDecimals(decimals); err != nil {
		return "", err
	}

	digits := trimLeadingZeros(base)
	if len(digits) < decimals+1 {
		digits = strings.Repeat("0", decimals+1-len(digits)) + digits
	}

	split := len(digits) - decimals
	whole, frac := digits[:split], strings.TrimRight(digits[split:], "0")
	if frac == "" {
		return whole, nil
	}
	return whole + "." + frac, nil
}

// ParseWei parses a base-unit integer string into a big.Int.
func ParseWei(base string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(base), 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("normalize: %q is not a non-negative integer", base)
	}
	return n, nil
}

// Price returns out/in for two human decimal amounts, rounded to 18 places
// with trailing zeros removed. It returns "0" when in is zero.
func Price(in, out string) (string, error) {
	din, err := decimal.NewFromString(in)
	if err != nil {
		return "", fmt.Errorf("normalize: price input %q: %w", in, err)
	}
	dout, err := decimal.NewFromString(out)
	if err != nil {
		return "", fmt.Errorf("normalize: price output %q: %w", out, err)
	}
	if din.IsZero() {
		return "0", nil
	}
	return dout.DivRound(din, 18).String(), nil
}

func checkDecimals(decimals int) error {
	if decimals < 0 || decimals > MaxDecimals {
		return fmt.Errorf("normalize: decimals must be between 0 and %d, got %d", MaxDecimals, decimals)
	}
	return nil
}

func trimLeadingZeros(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}
