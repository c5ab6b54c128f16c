package payrequest

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jrh3k5/cryptopay-request/calldata"
)

// Gas limits used by the point-purchase checkout when none is configured.
const (
	DefaultNativePurchaseGas uint64 = 53_307
	DefaultTokenPurchaseGas  uint64 = 100_000
	DefaultApprovalGas       uint64 = 100_000
)

// NewNativePurchase builds a request that buys points with the chain's native currency
// by calling buyPointByNative(orderId) with the amount attached as value.
func NewNativePurchase(contractAddress string, chainID uint64, orderID string, amount *big.Int, gasLimit uint64) (*PaymentRequest, error) {
	return New(contractAddress, chainID,
		WithCall(calldata.BuyPointByNative, calldata.Arguments{
			"orderId": calldata.String(orderID),
		}),
		WithValue(amount),
		WithGasLimit(gasLimit),
	)
}

// NewTokenPurchase builds a request that buys points with an ERC-20 token by calling
// buyPointByToken(token, orderId, amount). The contract pulls the tokens itself, so the
// payer must have approved the contract for at least the amount beforehand.
func NewTokenPurchase(contractAddress string, chainID uint64, tokenAddress string, orderID string, amount *big.Int, gasLimit uint64) (*PaymentRequest, error) {
	token, err := calldata.Address(tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: token address: %w", ErrInvalidRequest, err)
	}

	tokenAmount, err := calldata.Uint(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: token amount: %w", ErrInvalidRequest, err)
	}

	return New(contractAddress, chainID,
		WithCall(calldata.BuyPointByToken, calldata.Arguments{
			"token":   token,
			"orderId": calldata.String(orderID),
			"amount":  tokenAmount,
		}),
		WithGasLimit(gasLimit),
	)
}

// NewTokenApproval builds a request that approves the spender to pull the given amount of
// the token, which is sent to the token contract itself.
func NewTokenApproval(tokenAddress string, chainID uint64, spender common.Address, amount *big.Int, gasLimit uint64) (*PaymentRequest, error) {
	approvedAmount, err := calldata.Uint(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: approval amount: %w", ErrInvalidRequest, err)
	}

	return New(tokenAddress, chainID,
		WithCall(calldata.ERC20Approve, calldata.Arguments{
			"spender": calldata.AddressOf(spender),
			"value":   approvedAmount,
		}),
		WithGasLimit(gasLimit),
	)
}

// NewTransfer builds a plain native value transfer.
func NewTransfer(recipientAddress string, chainID uint64, amount *big.Int, gasLimit uint64) (*PaymentRequest, error) {
	if amount == nil {
		return nil, fmt.Errorf("%w: a transfer requires a value", ErrInvalidRequest)
	}

	return New(recipientAddress, chainID, WithValue(amount), WithGasLimit(gasLimit))
}
