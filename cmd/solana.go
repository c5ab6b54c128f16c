package main

import (
	"fmt"

	"github.com/jrh3k5/cryptopay-request/qr"
	"github.com/spf13/cobra"
)

func newSolanaCommand(options *rootOptions) *cobra.Command {
	var amount string
	var references []string
	var memo string
	var pngPath string
	var pngScale int

	solanaCmd := &cobra.Command{
		Use:   "solana",
		Short: "Print a Solana Pay transfer request and render it as a QR code",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := options.loadConfig()
			if err != nil {
				return err
			}

			if cfg.Solana == nil {
				return fmt.Errorf("no 'solana' section in configuration file '%s'", options.configFile)
			}

			request, err := buildSolanaRequest(cfg.Solana, amount, solanaDecimals(cfg.Solana, cfg.GetDecimals()), references, memo)
			if err != nil {
				return err
			}

			uri, err := qr.NewSolanaPayURLGenerator().Generate(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to generate Solana Pay URI: %w", err)
			}

			fmt.Fprintln(options.out(), uri)

			return render(uri, renderers(options, pngPath, pngScale))
		},
	}

	solanaCmd.Flags().StringVar(&amount, "amount", "", "the amount to request, in whole units; the payer chooses if omitted")
	solanaCmd.Flags().StringSliceVar(&references, "reference", nil, "a reference key to include; may be repeated")
	solanaCmd.Flags().StringVar(&memo, "memo", "", "a memo to include in the transfer")
	solanaCmd.Flags().StringVar(&pngPath, "png", "", "also write the QR code to this PNG file")
	solanaCmd.Flags().IntVar(&pngScale, "png-scale", 8, "the pixel size of each QR module in the PNG")

	return solanaCmd
}
