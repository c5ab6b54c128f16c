package wallet

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jrh3k5/cryptopay-request/payrequest"
	"github.com/sirupsen/logrus"
)

// Submitter hands payment requests to a wallet.
type Submitter struct {
	bridge Bridge
	logger logrus.FieldLogger
}

func NewSubmitter(bridge Bridge, logger logrus.FieldLogger) *Submitter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Submitter{
		bridge: bridge,
		logger: logger,
	}
}

// Submit validates the request, moves the wallet onto the request's chain, and sends
// the transaction exactly once. Failures are never retried; errors from the wallet are
// wrapped so that callers can inspect them with errors.As.
func Submit(ctx context.Context, bridge Bridge, request *payrequest.PaymentRequest) (common.Hash, error) {
	return NewSubmitter(bridge, nil).Submit(ctx, request)
}

func (s *Submitter) Submit(ctx context.Context, request *payrequest.PaymentRequest) (common.Hash, error) {
	if err := request.Validate(); err != nil {
		return common.Hash{}, err
	}

	from, err := s.resolveAccount(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	if err := s.ensureNetwork(ctx, request.ChainID()); err != nil {
		return common.Hash{}, err
	}

	hash, err := s.bridge.SendTransaction(ctx, Transaction{
		From:  from,
		To:    request.TargetAddress(),
		Value: request.Value(),
		Data:  request.Data(),
		Gas:   request.GasLimit(),
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to submit payment: %w", err)
	}

	return hash, nil
}

// ApproveAndSubmit sends the token approval and then the purchase that spends it. If the
// bridge can wait for receipts, the purchase is only sent once the approval is mined.
func ApproveAndSubmit(ctx context.Context, bridge Bridge, approval *payrequest.PaymentRequest, purchase *payrequest.PaymentRequest) (common.Hash, common.Hash, error) {
	return NewSubmitter(bridge, nil).ApproveAndSubmit(ctx, approval, purchase)
}

func (s *Submitter) ApproveAndSubmit(ctx context.Context, approval *payrequest.PaymentRequest, purchase *payrequest.PaymentRequest) (common.Hash, common.Hash, error) {
	if err := approval.Validate(); err != nil {
		return common.Hash{}, common.Hash{}, fmt.Errorf("invalid approval: %w", err)
	}

	if err := purchase.Validate(); err != nil {
		return common.Hash{}, common.Hash{}, fmt.Errorf("invalid purchase: %w", err)
	}

	if approval.ChainID() != purchase.ChainID() {
		return common.Hash{}, common.Hash{}, fmt.Errorf("%w: approval is for chain %d but purchase is for chain %d", payrequest.ErrInvalidRequest, approval.ChainID(), purchase.ChainID())
	}

	approvalHash, err := s.Submit(ctx, approval)
	if err != nil {
		return common.Hash{}, common.Hash{}, fmt.Errorf("failed to approve token spend: %w", err)
	}

	s.logger.WithField("hash", approvalHash.Hex()).Info("Token spend approved")

	if waiter, canWait := s.bridge.(ReceiptWaiter); canWait {
		if _, err := waiter.WaitMined(ctx, approvalHash); err != nil {
			return approvalHash, common.Hash{}, fmt.Errorf("approval %s was not mined: %w", approvalHash.Hex(), err)
		}
	}

	purchaseHash, err := s.Submit(ctx, purchase)
	if err != nil {
		return approvalHash, common.Hash{}, err
	}

	return approvalHash, purchaseHash, nil
}

func (s *Submitter) resolveAccount(ctx context.Context) (common.Address, error) {
	accounts, err := s.bridge.ListAccounts(ctx)
	if err != nil {
		return common.Address{}, err
	}

	if len(accounts) == 0 {
		s.logger.Debug("No connected accounts; requesting access")

		accounts, err = s.bridge.RequestAccounts(ctx)
		if err != nil {
			return common.Address{}, err
		}
	}

	if len(accounts) == 0 {
		return common.Address{}, ErrNoAccounts
	}

	return accounts[0], nil
}

func (s *Submitter) ensureNetwork(ctx context.Context, chainID uint64) error {
	currentChainID, err := s.bridge.ChainID(ctx)
	if err != nil {
		return err
	}

	if currentChainID == chainID {
		return nil
	}

	s.logger.WithFields(logrus.Fields{
		"from": currentChainID,
		"to":   chainID,
	}).Info("Switching wallet network")

	return s.bridge.SwitchNetwork(ctx, chainID)
}
