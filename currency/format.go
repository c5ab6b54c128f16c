package currency

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// FormatBaseUnits formats the given amount of base units as a decimal string
// in whole-token units, e.g. 1500000 with 6 decimals becomes "1.5".
func FormatBaseUnits(units *big.Int, decimals int32) string {
	if units == nil {
		return "0"
	}

	return decimal.NewFromBigInt(units, -decimals).String()
}

// FormatWithSymbol formats the given base units and appends the token symbol, if any.
func FormatWithSymbol(units *big.Int, decimals int32, symbol string) string {
	formatted := FormatBaseUnits(units, decimals)
	if symbol == "" {
		return formatted
	}

	return formatted + " " + symbol
}
