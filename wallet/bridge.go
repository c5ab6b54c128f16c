package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrNoAccounts is returned when the wallet exposes no accounts, even after asking.
	ErrNoAccounts = errors.New("no wallet accounts available")
	// ErrTransactionReverted is returned when a mined transaction did not succeed.
	ErrTransactionReverted = errors.New("transaction reverted")
)

// Transaction is a transaction handed to the wallet for signing and submission.
type Transaction struct {
	From  common.Address
	To    common.Address
	Value *big.Int
	Data  []byte
	Gas   uint64
}

// EventHandler receives a contract log. It is called at most once per transaction
// for a given subscription, on the subscription's polling goroutine. A handler that wants
// to end its subscription calls Subscription.Stop; Unsubscribe would wait on the handler
// itself and never return.
type EventHandler func(event types.Log)

// Bridge is a wallet provider that holds the payer's keys and submits transactions on
// their behalf.
type Bridge interface {
	// ListAccounts returns the accounts already connected, without prompting.
	ListAccounts(ctx context.Context) ([]common.Address, error)
	// RequestAccounts asks the wallet to connect, which may prompt the user.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// ChainID returns the chain the wallet is currently on.
	ChainID(ctx context.Context) (uint64, error)
	// SwitchNetwork moves the wallet onto the given chain.
	SwitchNetwork(ctx context.Context, chainID uint64) error
	// SendTransaction submits the transaction and returns its hash.
	SendTransaction(ctx context.Context, transaction Transaction) (common.Hash, error)
	// OnEvent calls the handler for each emission of the given event by the contract
	// until the subscription is cancelled. The event is named by its canonical
	// signature, e.g. "PaymentReceived(address,address,string,uint256,uint8)".
	OnEvent(ctx context.Context, contract common.Address, eventSignature string, handler EventHandler) (*Subscription, error)
}

// ReceiptWaiter is implemented by bridges that can wait for a submitted transaction to be mined.
type ReceiptWaiter interface {
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}
