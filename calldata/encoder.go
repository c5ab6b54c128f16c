package calldata

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrMissingArgument is returned when a declared parameter has no value.
var ErrMissingArgument = errors.New("missing argument")

var abiTypes = map[ParamType]abi.Type{
	TypeAddress: mustABIType(TypeAddress),
	TypeString:  mustABIType(TypeString),
	TypeUint256: mustABIType(TypeUint256),
}

func mustABIType(paramType ParamType) abi.Type {
	abiType, err := abi.NewType(string(paramType), "", nil)
	if err != nil {
		panic(fmt.Sprintf("unable to build ABI type '%s': %v", paramType, err))
	}

	return abiType
}

// Payload is ABI-encoded call data: a 4-byte selector followed by the encoded arguments.
type Payload []byte

// Hex renders the payload as 0x-prefixed lowercase hex.
func (p Payload) Hex() string {
	return hexutil.Encode(p)
}

// Selector returns the first four bytes of the Keccak-256 hash of the canonical signature.
func Selector(signature Signature) [4]byte {
	var selector [4]byte
	copy(selector[:], crypto.Keccak256([]byte(signature.Canonical())))
	return selector
}

// Encode builds the call data for invoking the given method with the given arguments.
// Arguments are laid out in the signature's parameter order; dynamic values (strings) are
// placed in the tail and referenced by offset from their head slot.
func Encode(signature Signature, args Arguments) (Payload, error) {
	abiArgs := make(abi.Arguments, 0, len(signature.params))
	values := make([]any, 0, len(signature.params))
	for _, param := range signature.params {
		value, hasValue := args[param.Name]
		if !hasValue || value == nil {
			return nil, fmt.Errorf("%w: '%s' requires parameter '%s'", ErrMissingArgument, signature.Canonical(), param.Name)
		}

		if value.Type() != param.Type {
			return nil, fmt.Errorf("%w: parameter '%s' is declared as %s but was given a %s", ErrUnsupportedType, param.Name, param.Type, value.Type())
		}

		abiType, isKnown := abiTypes[param.Type]
		if !isKnown {
			return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedType, param.Type)
		}

		abiArgs = append(abiArgs, abi.Argument{Name: param.Name, Type: abiType})
		values = append(values, value.abiValue())
	}

	packed, err := abiArgs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack arguments for '%s': %w", signature.Canonical(), err)
	}

	selector := Selector(signature)
	payload := make(Payload, 0, len(selector)+len(packed))
	payload = append(payload, selector[:]...)
	payload = append(payload, packed...)

	return payload, nil
}

// DecodeUint reads a single unsigned integer return word, such as the result of ERC-20 decimals().
func DecodeUint(data []byte) (*big.Int, error) {
	unpacked, err := abi.Arguments{{Type: abiTypes[TypeUint256]}}.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack uint256 return value: %w", err)
	}

	value, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected return value type %T", unpacked[0])
	}

	return value, nil
}
