package calldata

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidArgument is returned when a value cannot represent its declared type.
var ErrInvalidArgument = errors.New("invalid argument")

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Value is an argument value. The set of implementations is closed: AddressValue,
// StringValue and UintValue.
type Value interface {
	// Type is the ABI type this value encodes as.
	Type() ParamType

	abiValue() any
}

// Arguments maps parameter names to their values.
type Arguments map[string]Value

type AddressValue struct {
	address common.Address
}

// Address parses a 0x-prefixed, 20-byte hex address.
func Address(hexAddress string) (AddressValue, error) {
	if !IsAddress(hexAddress) {
		return AddressValue{}, fmt.Errorf("%w: '%s' is not a 20-byte hex address", ErrInvalidArgument, hexAddress)
	}

	return AddressValue{address: common.HexToAddress(hexAddress)}, nil
}

// AddressOf wraps an already-parsed address.
func AddressOf(address common.Address) AddressValue {
	return AddressValue{address: address}
}

// IsAddress reports whether the given string is a 0x-prefixed, 20-byte hex address.
func IsAddress(hexAddress string) bool {
	return strings.HasPrefix(hexAddress, "0x") && common.IsHexAddress(hexAddress)
}

func (AddressValue) Type() ParamType {
	return TypeAddress
}

func (a AddressValue) Address() common.Address {
	return a.address
}

func (a AddressValue) String() string {
	return a.address.Hex()
}

func (a AddressValue) abiValue() any {
	return a.address
}

type StringValue struct {
	value string
}

// String wraps a string argument.
func String(value string) StringValue {
	return StringValue{value: value}
}

func (StringValue) Type() ParamType {
	return TypeString
}

func (s StringValue) String() string {
	return s.value
}

func (s StringValue) abiValue() any {
	return s.value
}

// UintValue is an unsigned integer argument. Its zero value is 0.
type UintValue struct {
	value *big.Int
}

// Uint wraps an unsigned integer, which must be non-negative and fit in 256 bits.
func Uint(value *big.Int) (UintValue, error) {
	if value == nil {
		return UintValue{}, fmt.Errorf("%w: uint256 value is nil", ErrInvalidArgument)
	}

	if value.Sign() < 0 {
		return UintValue{}, fmt.Errorf("%w: uint256 value %s is negative", ErrInvalidArgument, value)
	}

	if value.Cmp(maxUint256) > 0 {
		return UintValue{}, fmt.Errorf("%w: value %s does not fit in 256 bits", ErrInvalidArgument, value)
	}

	return UintValue{value: new(big.Int).Set(value)}, nil
}

// Uint64 wraps a uint64, which always fits.
func Uint64(value uint64) UintValue {
	return UintValue{value: new(big.Int).SetUint64(value)}
}

func (UintValue) Type() ParamType {
	return TypeUint256
}

// Int returns a copy of the wrapped integer.
func (u UintValue) Int() *big.Int {
	return new(big.Int).Set(u.integer())
}

func (u UintValue) String() string {
	return u.integer().String()
}

func (u UintValue) abiValue() any {
	return u.integer()
}

func (u UintValue) integer() *big.Int {
	if u.value == nil {
		return new(big.Int)
	}

	return u.value
}

// ParseValue parses a raw string into a value of the given type. Integers may be decimal
// or 0x-prefixed hex.
func ParseValue(paramType ParamType, raw string) (Value, error) {
	switch paramType {
	case TypeAddress:
		return Address(raw)
	case TypeString:
		return String(raw), nil
	case TypeUint256:
		parsed, ok := parseInteger(raw)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' is not an integer", ErrInvalidArgument, raw)
		}
		return Uint(parsed)
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedType, paramType)
	}
}

// ParseArguments parses positional raw values against the signature's parameters.
func ParseArguments(signature Signature, raw []string) (Arguments, error) {
	if len(raw) != len(signature.params) {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrMissingArgument, signature.Canonical(), len(signature.params), len(raw))
	}

	args := make(Arguments, len(raw))
	for i, param := range signature.params {
		value, err := ParseValue(param.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("failed to parse argument '%s': %w", param.Name, err)
		}
		args[param.Name] = value
	}

	return args, nil
}

func parseInteger(raw string) (*big.Int, bool) {
	if hexDigits, isHex := strings.CutPrefix(raw, "0x"); isHex {
		if hexDigits == "" {
			return nil, false
		}
		return new(big.Int).SetString(hexDigits, 16)
	}

	return new(big.Int).SetString(raw, 10)
}
