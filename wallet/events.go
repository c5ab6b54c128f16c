package wallet

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
)

// PaymentReceivedEvent is the event the checkout contract emits once a purchase settles.
const PaymentReceivedEvent = "PaymentReceived(address,address,string,uint256,uint8)"

// maxLogBlockSpan bounds the block range of a single eth_getLogs request; many providers
// reject wider ranges.
const maxLogBlockSpan uint64 = 2000

// Subscription is a running event subscription.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	seen   *SeenFilter
}

// Unsubscribe stops delivery and waits for the subscription to wind down. It is safe to
// call more than once. It must not be called from an EventHandler, since handlers run on
// the goroutine it waits for; handlers use Stop instead.
func (s *Subscription) Unsubscribe() {
	s.Stop()
	<-s.done
}

// Stop ends the subscription without waiting for it to wind down. No event is delivered
// after the handler that called it returns.
func (s *Subscription) Stop() {
	s.once.Do(s.cancel)
}

// Done is closed once the subscription has stopped, whether through Unsubscribe or
// cancellation of the context it was started with.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Delivered is the number of distinct transactions handed to the handler so far.
func (s *Subscription) Delivered() int {
	return s.seen.Len()
}

// EventTopic returns the topic hash identifying an event by its canonical signature.
func EventTopic(eventSignature string) common.Hash {
	return crypto.Keccak256Hash([]byte(eventSignature))
}

func validateEventSignature(eventSignature string) error {
	open := strings.Index(eventSignature, "(")
	if open <= 0 || !strings.HasSuffix(eventSignature, ")") || strings.ContainsAny(eventSignature, " \t") {
		return fmt.Errorf("event signature '%s' must be canonical, e.g. 'Transfer(address,address,uint256)'", eventSignature)
	}

	return nil
}

// OnEvent polls for the contract's logs matching the event, starting at the current block.
// Each poll scans only the blocks produced since the previous one, in ranges of at most
// maxLogBlockSpan blocks. Each transaction is delivered to the handler at most once, even
// if the endpoint reports its log again.
func (b *RPCBridge) OnEvent(ctx context.Context, contract common.Address, eventSignature string, handler EventHandler) (*Subscription, error) {
	if err := validateEventSignature(eventSignature); err != nil {
		return nil, err
	}

	startBlock, err := b.eth.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current block number: %w", err)
	}

	subscriptionCtx, cancel := context.WithCancel(ctx)
	subscription := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
		seen:   NewSeenFilter(),
	}

	filter := &logFilter{
		contract:  contract,
		topic:     EventTopic(eventSignature),
		nextBlock: startBlock,
	}

	logger := b.logger.WithFields(logrus.Fields{
		"contract": contract.Hex(),
		"event":    eventSignature,
	})

	go func() {
		defer close(subscription.done)

		ticker := time.NewTicker(b.pollInterval)
		defer ticker.Stop()

		for {
			b.pollLogs(subscriptionCtx, logger, filter, subscription.seen, handler)

			select {
			case <-subscriptionCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return subscription, nil
}

// logFilter tracks the next block a subscription has yet to scan.
type logFilter struct {
	contract  common.Address
	topic     common.Hash
	nextBlock uint64
}

func (f *logFilter) query(fromBlock uint64, toBlock uint64) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{f.contract},
		Topics:    [][]common.Hash{{f.topic}},
	}
}

// pollLogs scans from the filter's next block up to the current head. A failed range is
// retried on the next poll.
func (b *RPCBridge) pollLogs(ctx context.Context, logger logrus.FieldLogger, filter *logFilter, seen *SeenFilter, handler EventHandler) {
	head, err := b.eth.BlockNumber(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.WithError(err).Warn("Failed to get current block number")
		}
		return
	}

	for filter.nextBlock <= head && ctx.Err() == nil {
		toBlock := min(head, filter.nextBlock+maxLogBlockSpan-1)

		logs, err := b.eth.FilterLogs(ctx, filter.query(filter.nextBlock, toBlock))
		if err != nil {
			if ctx.Err() == nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"fromBlock": filter.nextBlock,
					"toBlock":   toBlock,
				}).Warn("Failed to poll for events")
			}
			return
		}

		for _, log := range logs {
			if ctx.Err() != nil {
				return
			}

			if log.Removed {
				continue
			}

			if !seen.MarkSeen(log.TxHash) {
				continue
			}

			logger.WithField("hash", log.TxHash.Hex()).Debug("Delivering event")
			handler(log)
		}

		filter.nextBlock = toBlock + 1
	}
}
