package currency

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount cannot be converted into base units.
var ErrInvalidAmount = errors.New("invalid amount")

// NativeDecimals is the number of decimals used by native EVM currencies such as ether.
const NativeDecimals int32 = 18

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ToBaseUnits converts a human-readable decimal amount into the integer number of base units
// for a token with the given number of decimals. "0.1" with 18 decimals is exactly 10^17.
//
// The amount must be a plain non-negative decimal; signs, exponents and fractional digits beyond
// what the decimals allow are rejected rather than rounded.
func ToBaseUnits(amount string, decimals int32) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("%w: decimals must not be negative, got %d", ErrInvalidAmount, decimals)
	}

	if _, fraction, hasFraction := strings.Cut(amount, "."); hasFraction && int64(len(fraction)) > int64(decimals) {
		return nil, fmt.Errorf("%w: '%s' has %d fractional digits but only %d are allowed", ErrInvalidAmount, amount, len(fraction), decimals)
	}

	parsed, err := ParseDecimal(amount)
	if err != nil {
		return nil, err
	}

	return parsed.Shift(decimals).BigInt(), nil
}

// ParseDecimal parses a plain non-negative decimal number, such as "0.0069", exactly.
func ParseDecimal(amount string) (decimal.Decimal, error) {
	if !amountPattern.MatchString(amount) {
		return decimal.Zero, fmt.Errorf("%w: '%s' is not a non-negative decimal number", ErrInvalidAmount, amount)
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to parse '%s': %v", ErrInvalidAmount, amount, err)
	}

	return parsed, nil
}
