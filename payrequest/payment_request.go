package payrequest

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jrh3k5/cryptopay-request/calldata"
)

// ErrInvalidRequest is returned when a payment request is malformed or combines
// options that cannot be combined.
var ErrInvalidRequest = errors.New("invalid payment request")

// PaymentRequest describes a single EVM payment: either a plain value transfer to the
// target address or a contract call against it. A request is never modified after
// construction; changing any parameter means building a new request.
type PaymentRequest struct {
	targetAddress common.Address
	chainID       uint64
	signature     *calldata.Signature
	args          calldata.Arguments
	data          calldata.Payload
	payable       bool
	value         *big.Int
	gasLimit      uint64
}

// Option configures a PaymentRequest under construction.
type Option func(*PaymentRequest)

// WithCall makes the request invoke the given contract method.
func WithCall(signature calldata.Signature, args calldata.Arguments) Option {
	return func(r *PaymentRequest) {
		r.signature = &signature
		r.args = args
		r.payable = signature.Payable()
	}
}

// WithRawData attaches call data that has already been encoded elsewhere. Payable states
// whether the called method accepts a native value alongside the data. Empty data leaves
// the request a plain transfer.
func WithRawData(data calldata.Payload, payable bool) Option {
	return func(r *PaymentRequest) {
		r.signature = nil
		r.args = nil
		r.data = nil
		r.payable = payable
		if len(data) > 0 {
			r.data = append(calldata.Payload{}, data...)
		}
	}
}

// WithValue attaches a native value, in base units (wei), to the request.
func WithValue(value *big.Int) Option {
	return func(r *PaymentRequest) {
		if value != nil {
			r.value = new(big.Int).Set(value)
		}
	}
}

// WithGasLimit sets the gas limit suggested to the wallet.
func WithGasLimit(gasLimit uint64) Option {
	return func(r *PaymentRequest) {
		r.gasLimit = gasLimit
	}
}

// New builds and validates a payment request. Call data is encoded here, so any
// encoding failure surfaces before the request exists.
func New(targetAddress string, chainID uint64, options ...Option) (*PaymentRequest, error) {
	if !calldata.IsAddress(targetAddress) {
		return nil, fmt.Errorf("%w: target address '%s' is not a 20-byte hex address", ErrInvalidRequest, targetAddress)
	}

	request := &PaymentRequest{
		targetAddress: common.HexToAddress(targetAddress),
		chainID:       chainID,
	}

	for _, option := range options {
		option(request)
	}

	if request.signature != nil {
		data, err := calldata.Encode(*request.signature, request.args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode call to '%s': %w", request.signature.Canonical(), err)
		}
		request.data = data
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	return request, nil
}

// Validate checks the request's invariants: a known chain, a non-negative value, and no
// native value riding along with a call that cannot accept one (such as a token purchase).
func (r *PaymentRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if r.chainID == 0 {
		return fmt.Errorf("%w: chain ID must be greater than 0", ErrInvalidRequest)
	}

	if r.value != nil && r.value.Sign() < 0 {
		return fmt.Errorf("%w: value %s is negative", ErrInvalidRequest, r.value)
	}

	if r.signature != nil && r.data == nil {
		return fmt.Errorf("%w: call to '%s' has not been encoded", ErrInvalidRequest, r.signature.Canonical())
	}

	if r.data != nil && r.value != nil && !r.payable {
		return fmt.Errorf("%w: the call does not accept a native value; value transfers and token calls are mutually exclusive", ErrInvalidRequest)
	}

	return nil
}

// TargetAddress is the recipient of a transfer or the contract being called.
func (r *PaymentRequest) TargetAddress() common.Address {
	return r.targetAddress
}

func (r *PaymentRequest) ChainID() uint64 {
	return r.chainID
}

// Signature returns the called method, if the request was built from one. Requests
// carrying raw call data report no signature.
func (r *PaymentRequest) Signature() (calldata.Signature, bool) {
	if r.signature == nil {
		return calldata.Signature{}, false
	}

	return *r.signature, true
}

// IsTransfer reports whether the request is a plain value transfer with no call data.
func (r *PaymentRequest) IsTransfer() bool {
	return r.data == nil
}

// Data returns a copy of the encoded call data; it is empty for plain transfers.
func (r *PaymentRequest) Data() calldata.Payload {
	if r.data == nil {
		return nil
	}

	return append(calldata.Payload(nil), r.data...)
}

// Value returns a copy of the native value, or nil if none was set.
func (r *PaymentRequest) Value() *big.Int {
	if r.value == nil {
		return nil
	}

	return new(big.Int).Set(r.value)
}

// GasLimit returns the suggested gas limit; 0 means none was set.
func (r *PaymentRequest) GasLimit() uint64 {
	return r.gasLimit
}
