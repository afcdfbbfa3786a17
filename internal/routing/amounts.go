package routing

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// toBaseUnits converts a human decimal amount to integer base units:
// floor(amount * 10^decimals)
func toBaseUnits(amount string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount %q is negative", amount)
	}
	return d.Shift(int32(decimals)).Floor().BigInt(), nil
}

// formatUSD renders a decimal as a display fee string
func formatUSD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// parseUSD reads a "$1.23"-style fee estimate back into a decimal. ok=false
// for non-dollar estimates (percentages, unknowns), which a fee cap cannot
// compare against.
func parseUSD(s string) (decimal.Decimal, bool) {
	if len(s) < 2 || s[0] != '$' {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s[1:])
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
