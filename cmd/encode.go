package main

import (
	"fmt"

	"github.com/jrh3k5/cryptopay-request/calldata"
	"github.com/spf13/cobra"
)

func newEncodeCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <signature> [arguments...]",
		Short: "Print the ABI-encoded call data for a function call",
		Example: `  cryptopay encode "buyPointByNative(string orderId)" 123456789
  cryptopay encode "approve(address,uint256)" 0xAb2A4D46982E2a511443324368A0777C7f41faF6 1000000`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signature, err := calldata.ParseSignature(args[0])
			if err != nil {
				return err
			}

			arguments, err := calldata.ParseArguments(signature, args[1:])
			if err != nil {
				return err
			}

			data, err := calldata.Encode(signature, arguments)
			if err != nil {
				return err
			}

			options.logger.WithField("signature", signature.Canonical()).Debug("Encoded call")

			fmt.Fprintln(options.out(), data.Hex())

			return nil
		},
	}
}
