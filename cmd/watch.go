package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jrh3k5/cryptopay-request/config"
	"github.com/jrh3k5/cryptopay-request/wallet"
	"github.com/spf13/cobra"
)

func newWatchCommand(options *rootOptions) *cobra.Command {
	var eventSignature string

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Print each transaction that emits the payment event until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := options.loadConfig()
			if err != nil {
				return err
			}

			if cfg.RPCURL == "" {
				return fmt.Errorf("no wallet endpoint configured; set rpc_url or %s", config.RPCURLEnvVar)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bridge, err := wallet.DialRPCBridge(ctx, cfg.RPCURL, wallet.WithLogger(options.logger))
			if err != nil {
				return err
			}
			defer bridge.Close()

			contract := common.HexToAddress(cfg.ContractAddress)
			subscription, err := bridge.OnEvent(ctx, contract, eventSignature, func(event types.Log) {
				fmt.Fprintf(options.out(), "%s in block %d: %s\n", eventSignature, event.BlockNumber, event.TxHash.Hex())
			})
			if err != nil {
				return err
			}

			options.logger.WithField("contract", contract.Hex()).Info("Watching for payments; press Ctrl+C to stop")

			<-subscription.Done()
			options.logger.WithField("delivered", subscription.Delivered()).Info("Stopped watching")

			return nil
		},
	}

	watchCmd.Flags().StringVar(&eventSignature, "event", wallet.PaymentReceivedEvent, "the canonical signature of the event to watch for")

	return watchCmd
}
