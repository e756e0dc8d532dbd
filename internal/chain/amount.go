package chain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// formatUnits scales a raw integer amount by 10^-decimals and renders it as
// a non-negative decimal string with the asset's full scale, e.g. raw
// 1000000 with decimals 6 -> "1.000000".
func formatUnits(raw *big.Int, decimals int32) string {
	return decimal.NewFromBigInt(raw, -decimals).Abs().StringFixed(decimals)
}

// formatUnitsInt is formatUnits for amounts that fit an int64.
func formatUnitsInt(raw int64, decimals int32) string {
	return formatUnits(big.NewInt(raw), decimals)
}

// parseRawAmount parses a raw integer amount string (base 10). The second
// return is false for malformed input.
func parseRawAmount(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return v, true
}
