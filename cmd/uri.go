package main

import (
	"fmt"

	"github.com/jrh3k5/cryptopay-request/currency"
	"github.com/jrh3k5/cryptopay-request/wallet"
	"github.com/spf13/cobra"
)

func newURICommand(options *rootOptions) *cobra.Command {
	var orderID string
	var amount string
	var pngPath string
	var pngScale int

	uriCmd := &cobra.Command{
		Use:   "uri",
		Short: "Print an ERC-681 payment request and render it as a QR code",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := options.loadConfig()
			if err != nil {
				return err
			}

			if cfg.IsTokenPayment() {
				options.logger.Warn("The request pays with a token; the payer must approve the contract to spend it first")
			}

			var decimalsReader tokenDecimalsReader
			if cfg.IsTokenPayment() && cfg.Decimals == nil && cfg.RPCURL != "" {
				bridge, err := wallet.DialRPCBridge(cmd.Context(), cfg.RPCURL, wallet.WithLogger(options.logger))
				if err != nil {
					return err
				}
				defer bridge.Close()

				decimalsReader = bridge
			}

			decimals, err := paymentDecimals(cmd.Context(), cfg, decimalsReader)
			if err != nil {
				return err
			}

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

			urlGenerator, err := buildURLGenerator(cfg)
			if err != nil {
				return err
			}

			uri, err := urlGenerator.Generate(cmd.Context(), purchase.request)
			if err != nil {
				return fmt.Errorf("failed to generate payment URI: %w", err)
			}

			options.logger.WithField("amount", currency.FormatBaseUnits(purchase.amount, decimals)).Debug("Generated payment request")

			fmt.Fprintf(options.out(), "Scan the following QR code to pay for order '%s':\n%s\n", orderID, uri)

			return render(uri, renderers(options, pngPath, pngScale))
		},
	}

	uriCmd.Flags().StringVar(&orderID, "order-id", "", "the order being paid for; prompted for if omitted")
	uriCmd.Flags().StringVar(&amount, "amount", "", "the amount to pay, in whole units; prompted for if omitted")
	uriCmd.Flags().StringVar(&pngPath, "png", "", "also write the QR code to this PNG file")
	uriCmd.Flags().IntVar(&pngScale, "png-scale", 8, "the pixel size of each QR module in the PNG")

	return uriCmd
}
