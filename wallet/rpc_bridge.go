package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/jrh3k5/cryptopay-request/calldata"
	"github.com/sirupsen/logrus"
)

// ErrorCodeUnrecognizedChain is the provider error code for a chain the wallet has not been told about.
const ErrorCodeUnrecognizedChain = 4902

const (
	defaultPollInterval = 4 * time.Second
	maxTokenDecimals    = 255
)

// RPCBridge is a Bridge over an EIP-1193-style JSON-RPC endpoint, such as a node with
// unlocked accounts or a wallet exposing its provider over HTTP or WebSocket.
type RPCBridge struct {
	client       *rpc.Client
	eth          *ethclient.Client
	logger       logrus.FieldLogger
	pollInterval time.Duration
}

var _ Bridge = (*RPCBridge)(nil)
var _ ReceiptWaiter = (*RPCBridge)(nil)

// RPCBridgeOption configures an RPCBridge.
type RPCBridgeOption func(*RPCBridge)

func WithLogger(logger logrus.FieldLogger) RPCBridgeOption {
	return func(b *RPCBridge) {
		b.logger = logger
	}
}

// WithPollInterval sets how often event subscriptions and receipt waits poll the endpoint.
func WithPollInterval(interval time.Duration) RPCBridgeOption {
	return func(b *RPCBridge) {
		if interval > 0 {
			b.pollInterval = interval
		}
	}
}

// DialRPCBridge connects to the endpoint at the given URL.
func DialRPCBridge(ctx context.Context, rawURL string, options ...RPCBridgeOption) (*RPCBridge, error) {
	client, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial wallet endpoint: %w", err)
	}

	return NewRPCBridge(client, options...), nil
}

func NewRPCBridge(client *rpc.Client, options ...RPCBridgeOption) *RPCBridge {
	bridge := &RPCBridge{
		client:       client,
		eth:          ethclient.NewClient(client),
		logger:       logrus.StandardLogger(),
		pollInterval: defaultPollInterval,
	}

	for _, option := range options {
		option(bridge)
	}

	return bridge
}

// Close closes the underlying connection.
func (b *RPCBridge) Close() {
	b.client.Close()
}

func (b *RPCBridge) ListAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := b.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return accounts, nil
}

func (b *RPCBridge) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := b.client.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, fmt.Errorf("failed to request accounts: %w", err)
	}

	return accounts, nil
}

func (b *RPCBridge) ChainID(ctx context.Context) (uint64, error) {
	chainID, err := b.eth.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}

	if !chainID.IsUint64() {
		return 0, fmt.Errorf("chain ID %s is out of range", chainID)
	}

	return chainID.Uint64(), nil
}

type switchChainParams struct {
	ChainID string `json:"chainId"`
}

// SwitchNetwork asks the wallet to switch to the chain. If the wallet does not know the
// chain and its parameters are known here, the chain is added to the wallet instead.
func (b *RPCBridge) SwitchNetwork(ctx context.Context, chainID uint64) error {
	logger := b.logger.WithField("chainID", chainID)

	params := switchChainParams{ChainID: hexutil.EncodeUint64(chainID)}
	err := b.client.CallContext(ctx, nil, "wallet_switchEthereumChain", params)
	if err == nil {
		logger.Debug("Switched network")
		return nil
	}

	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) || rpcErr.ErrorCode() != ErrorCodeUnrecognizedChain {
		return fmt.Errorf("failed to switch to chain %d: %w", chainID, err)
	}

	chainParams, isKnown := KnownChain(chainID)
	if !isKnown {
		return fmt.Errorf("failed to switch to chain %d, which the wallet does not recognize: %w", chainID, err)
	}

	logger.WithField("chainName", chainParams.ChainName).Info("Wallet does not recognize chain; adding it")

	if err := b.client.CallContext(ctx, nil, "wallet_addEthereumChain", chainParams); err != nil {
		return fmt.Errorf("failed to add chain %d to the wallet: %w", chainID, err)
	}

	return nil
}

type sendTransactionArgs struct {
	From  common.Address  `json:"from"`
	To    common.Address  `json:"to"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
}

func (b *RPCBridge) SendTransaction(ctx context.Context, transaction Transaction) (common.Hash, error) {
	args := sendTransactionArgs{
		From: transaction.From,
		To:   transaction.To,
		Data: transaction.Data,
	}
	if transaction.Value != nil {
		args.Value = (*hexutil.Big)(new(big.Int).Set(transaction.Value))
	}
	if transaction.Gas > 0 {
		gas := hexutil.Uint64(transaction.Gas)
		args.Gas = &gas
	}

	var hash common.Hash
	if err := b.client.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction to %s: %w", transaction.To.Hex(), err)
	}

	b.logger.WithFields(logrus.Fields{
		"from": transaction.From.Hex(),
		"to":   transaction.To.Hex(),
		"hash": hash.Hex(),
	}).Info("Transaction submitted")

	return hash, nil
}

// TokenDecimals reads the decimals of an ERC-20 token.
func (b *RPCBridge) TokenDecimals(ctx context.Context, token common.Address) (int32, error) {
	data, err := calldata.Encode(calldata.ERC20Decimals, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to encode decimals() call: %w", err)
	}

	result, err := b.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &token,
		Data: data,
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to call decimals() on token %s: %w", token.Hex(), err)
	}

	decimals, err := calldata.DecodeUint(result)
	if err != nil {
		return 0, fmt.Errorf("failed to decode decimals() of token %s: %w", token.Hex(), err)
	}

	if decimals.Cmp(big.NewInt(maxTokenDecimals)) > 0 {
		return 0, fmt.Errorf("token %s reports %s decimals, which exceeds %d", token.Hex(), decimals, maxTokenDecimals)
	}

	return int32(decimals.Int64()), nil
}

// WaitMined polls for the transaction's receipt until it is mined or the context ends.
// A mined transaction that failed yields ErrTransactionReverted along with its receipt.
func (b *RPCBridge) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	logger := b.logger.WithField("hash", hash.Hex())

	for {
		receipt, err := b.eth.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, fmt.Errorf("%w: %s", ErrTransactionReverted, hash.Hex())
			}
			return receipt, nil
		case errors.Is(err, ethereum.NotFound):
			logger.Debug("Transaction not yet mined")
		default:
			return nil, fmt.Errorf("failed to get receipt of transaction %s: %w", hash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
