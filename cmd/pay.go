package main

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jrh3k5/cryptopay-request/config"
	"github.com/jrh3k5/cryptopay-request/currency"
	"github.com/jrh3k5/cryptopay-request/wallet"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newPayCommand(options *rootOptions) *cobra.Command {
	var orderID string
	var amount string
	var skipConfirmation bool

	payCmd := &cobra.Command{
		Use:   "pay",
		Short: "Submit a point purchase through a JSON-RPC wallet",
		Long: `Submit a point purchase through the wallet at the configured rpc_url (or the
CRYPTOPAY_RPC_URL environment variable). The wallet is switched to the configured
chain first. Token purchases approve the contract to spend the token before buying.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := options.loadConfig()
			if err != nil {
				return err
			}

			if cfg.RPCURL == "" {
				return fmt.Errorf("no wallet endpoint configured; set rpc_url or %s", config.RPCURLEnvVar)
			}

			bridge, err := wallet.DialRPCBridge(ctx, cfg.RPCURL, wallet.WithLogger(options.logger))
			if err != nil {
				return err
			}
			defer bridge.Close()

			decimals, err := paymentDecimals(ctx, cfg, bridge)
			if err != nil {
				return err
			}
			options.logger.WithField("decimals", decimals).Debug("Resolved payment decimals")

			orderID, err = promptIfEmpty(orderID, "Order ID", validateOrderID)
			if err != nil {
				return err
			}

			amount, err = promptIfEmpty(amount, "Amount", amountValidator(decimals))
			if err != nil {
				return err
			}

			purchase, err := buildPurchase(cfg, orderID, amount, decimals)
			if err != nil {
				return err
			}

			if !skipConfirmation {
				label := fmt.Sprintf("Pay %s for order '%s' on chain %d", currency.FormatBaseUnits(purchase.amount, decimals), orderID, cfg.ChainID)
				if err := confirm(label); err != nil {
					return err
				}
			}

			submitter := wallet.NewSubmitter(bridge, options.logger)

			if purchase.approval != nil {
				approvalHash, purchaseHash, err := submitter.ApproveAndSubmit(ctx, purchase.approval, purchase.request)
				if err != nil {
					return describeWalletError(options.logger, err)
				}

				printTransaction(options, cfg.ChainID, "Approval", approvalHash)
				printTransaction(options, cfg.ChainID, "Purchase", purchaseHash)

				return nil
			}

			purchaseHash, err := submitter.Submit(ctx, purchase.request)
			if err != nil {
				return describeWalletError(options.logger, err)
			}

			printTransaction(options, cfg.ChainID, "Purchase", purchaseHash)

			return nil
		},
	}

	payCmd.Flags().StringVar(&orderID, "order-id", "", "the order being paid for; prompted for if omitted")
	payCmd.Flags().StringVar(&amount, "amount", "", "the amount to pay, in whole units; prompted for if omitted")
	payCmd.Flags().BoolVarP(&skipConfirmation, "yes", "y", false, "submit without asking for confirmation")

	return payCmd
}

// providerError is the shape of errors reported by a wallet provider.
type providerError interface {
	error
	ErrorCode() int
}

func describeWalletError(logger logrus.FieldLogger, err error) error {
	var walletErr providerError
	if errors.As(err, &walletErr) {
		logger.WithField("code", walletErr.ErrorCode()).Error("Wallet rejected the request")
	}

	return err
}

func printTransaction(options *rootOptions, chainID uint64, description string, hash common.Hash) {
	fmt.Fprintf(options.out(), "%s transaction: %s\n", description, hash.Hex())
	if explorerURL := wallet.ExplorerTransactionURL(chainID, hash); explorerURL != "" {
		fmt.Fprintf(options.out(), "  %s\n", explorerURL)
	}
}
