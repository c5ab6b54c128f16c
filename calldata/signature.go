package calldata

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrUnsupportedType is returned when a parameter type other than address, string or uint256 is
	// requested, or when a supplied value does not match its parameter's declared type.
	ErrUnsupportedType = errors.New("unsupported parameter type")
	// ErrInvalidSignature is returned when a function fragment cannot be parsed.
	ErrInvalidSignature = errors.New("invalid function signature")
)

// ParamType is an ABI parameter type understood by the encoder.
type ParamType string

const (
	TypeAddress ParamType = "address"
	TypeString  ParamType = "string"
	TypeUint256 ParamType = "uint256"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ParseParamType resolves the given Solidity type name. "uint" is an alias of "uint256".
func ParseParamType(typeName string) (ParamType, error) {
	switch typeName {
	case "address":
		return TypeAddress, nil
	case "string":
		return TypeString, nil
	case "uint256", "uint":
		return TypeUint256, nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnsupportedType, typeName)
	}
}

// Param is a single named parameter of a function.
type Param struct {
	Name string
	Type ParamType
}

// Signature describes a contract method: its name, its ordered parameters and whether
// it accepts a native value alongside the call.
type Signature struct {
	name    string
	params  []Param
	payable bool
}

// NewSignature builds a signature from its parts.
func NewSignature(name string, payable bool, params ...Param) (Signature, error) {
	if !identifierPattern.MatchString(name) {
		return Signature{}, fmt.Errorf("%w: '%s' is not a valid function name", ErrInvalidSignature, name)
	}

	seen := make(map[string]struct{}, len(params))
	copied := make([]Param, len(params))
	for i, param := range params {
		if _, err := ParseParamType(string(param.Type)); err != nil {
			return Signature{}, fmt.Errorf("parameter '%s' of '%s': %w", param.Name, name, err)
		}

		if param.Name == "" {
			return Signature{}, fmt.Errorf("%w: parameter %d of '%s' has no name", ErrInvalidSignature, i, name)
		}

		if _, duplicate := seen[param.Name]; duplicate {
			return Signature{}, fmt.Errorf("%w: parameter '%s' of '%s' is declared more than once", ErrInvalidSignature, param.Name, name)
		}
		seen[param.Name] = struct{}{}

		copied[i] = param
	}

	return Signature{
		name:    name,
		params:  copied,
		payable: payable,
	}, nil
}

// ParseSignature parses a human-readable ABI fragment such as
//
//	function buyPointByToken(address token, string orderId, uint256 amount)
//	function buyPointByNative(string orderId) payable
//	transfer(address,uint256)
//
// Unnamed parameters are named arg0, arg1, ... by position.
func ParseSignature(fragment string) (Signature, error) {
	trimmed := strings.TrimSpace(fragment)
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "function "))

	openIndex := strings.Index(trimmed, "(")
	closeIndex := strings.Index(trimmed, ")")
	if openIndex < 0 || closeIndex < openIndex {
		return Signature{}, fmt.Errorf("%w: '%s' is not of the form name(type1,type2)", ErrInvalidSignature, fragment)
	}

	name := strings.TrimSpace(trimmed[:openIndex])

	var params []Param
	if paramList := strings.TrimSpace(trimmed[openIndex+1 : closeIndex]); paramList != "" {
		for i, rawParam := range strings.Split(paramList, ",") {
			param, err := parseParam(strings.Fields(rawParam), i)
			if err != nil {
				return Signature{}, fmt.Errorf("failed to parse parameter %d of '%s': %w", i, fragment, err)
			}
			params = append(params, param)
		}
	}

	payable, err := parseModifiers(strings.Fields(trimmed[closeIndex+1:]))
	if err != nil {
		return Signature{}, fmt.Errorf("failed to parse modifiers of '%s': %w", fragment, err)
	}

	return NewSignature(name, payable, params...)
}

// MustParseSignature is like ParseSignature but panics on failure. It is intended for
// package-level signature declarations.
func MustParseSignature(fragment string) Signature {
	signature, err := ParseSignature(fragment)
	if err != nil {
		panic(fmt.Sprintf("unable to parse hard-coded signature '%s': %v", fragment, err))
	}

	return signature
}

func parseParam(fields []string, position int) (Param, error) {
	var typeName, paramName string
	switch len(fields) {
	case 1:
		typeName = fields[0]
		paramName = fmt.Sprintf("arg%d", position)
	case 2:
		typeName, paramName = fields[0], fields[1]
	case 3:
		// data location, e.g. "string memory orderId"
		if fields[1] != "memory" && fields[1] != "calldata" {
			return Param{}, fmt.Errorf("%w: unexpected '%s'", ErrInvalidSignature, fields[1])
		}
		typeName, paramName = fields[0], fields[2]
	default:
		return Param{}, fmt.Errorf("%w: expected 'type [name]'", ErrInvalidSignature)
	}

	paramType, err := ParseParamType(typeName)
	if err != nil {
		return Param{}, err
	}

	if !identifierPattern.MatchString(paramName) {
		return Param{}, fmt.Errorf("%w: '%s' is not a valid parameter name", ErrInvalidSignature, paramName)
	}

	return Param{Name: paramName, Type: paramType}, nil
}

func parseModifiers(modifiers []string) (bool, error) {
	payable := false
	for _, modifier := range modifiers {
		switch modifier {
		case "payable":
			payable = true
		case "nonpayable", "view", "pure", "external", "public":
		case "returns":
			// return values have no bearing on call data
			return payable, nil
		default:
			return false, fmt.Errorf("%w: unknown modifier '%s'", ErrInvalidSignature, modifier)
		}
	}

	return payable, nil
}

// Name is the method name.
func (s Signature) Name() string {
	return s.name
}

// Params returns a copy of the ordered parameter list.
func (s Signature) Params() []Param {
	return append([]Param(nil), s.params...)
}

// Payable reports whether the method accepts a native value with the call.
func (s Signature) Payable() bool {
	return s.payable
}

// Canonical renders the signature as hashed for the selector, e.g. "buyPointByNative(string)".
func (s Signature) Canonical() string {
	types := make([]string, len(s.params))
	for i, param := range s.params {
		types[i] = string(param.Type)
	}

	return s.name + "(" + strings.Join(types, ",") + ")"
}

func (s Signature) String() string {
	params := make([]string, len(s.params))
	for i, param := range s.params {
		params[i] = string(param.Type) + " " + param.Name
	}

	rendered := "function " + s.name + "(" + strings.Join(params, ", ") + ")"
	if s.payable {
		rendered += " payable"
	}

	return rendered
}
