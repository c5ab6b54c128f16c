package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jrh3k5/cryptopay-request/config"
	"github.com/jrh3k5/cryptopay-request/currency"
	"github.com/jrh3k5/cryptopay-request/payrequest"
	"github.com/jrh3k5/cryptopay-request/qr"
)

// checkout is a point purchase along with the token approval it depends on, if any.
type checkout struct {
	approval *payrequest.PaymentRequest
	request  *payrequest.PaymentRequest
	amount   *big.Int
}

var errTokenDecimalsUnknown = errors.New("token payments need 'decimals' in the configuration or an 'rpc_url' to read them from the token")

// tokenDecimalsReader reads the decimals of an ERC-20 token.
type tokenDecimalsReader interface {
	TokenDecimals(ctx context.Context, token common.Address) (int32, error)
}

// paymentDecimals returns the decimals amounts are entered in: the configured value, the
// native 18 when paying natively, or the token's own decimals read through the reader.
func paymentDecimals(ctx context.Context, cfg *config.Config, reader tokenDecimalsReader) (int32, error) {
	if cfg.Decimals != nil || !cfg.IsTokenPayment() {
		return cfg.GetDecimals(), nil
	}

	if reader == nil {
		return 0, errTokenDecimalsUnknown
	}

	decimals, err := reader.TokenDecimals(ctx, common.HexToAddress(*cfg.TokenAddress))
	if err != nil {
		return 0, fmt.Errorf("failed to read decimals of token %s: %w", *cfg.TokenAddress, err)
	}

	return decimals, nil
}

// buildPurchase builds the point purchase described by the configuration, paying the
// amount in the configured token or in the chain's native currency.
func buildPurchase(cfg *config.Config, orderID string, amount string, decimals int32) (*checkout, error) {
	baseUnits, err := currency.ToBaseUnits(amount, decimals)
	if err != nil {
		return nil, err
	}

	if !cfg.IsTokenPayment() {
		request, err := payrequest.NewNativePurchase(cfg.ContractAddress, cfg.ChainID, orderID, baseUnits, cfg.GetGasLimit())
		if err != nil {
			return nil, err
		}

		return &checkout{request: request, amount: baseUnits}, nil
	}

	request, err := payrequest.NewTokenPurchase(cfg.ContractAddress, cfg.ChainID, *cfg.TokenAddress, orderID, baseUnits, cfg.GetGasLimit())
	if err != nil {
		return nil, err
	}

	approval, err := payrequest.NewTokenApproval(*cfg.TokenAddress, cfg.ChainID, common.HexToAddress(cfg.ContractAddress), baseUnits, payrequest.DefaultApprovalGas)
	if err != nil {
		return nil, err
	}

	return &checkout{approval: approval, request: request, amount: baseUnits}, nil
}

func buildURLGenerator(cfg *config.Config) (qr.URLGenerator, error) {
	switch qrCodeType := cfg.GetQRCodeType(); qrCodeType {
	case config.QRCodeTypeERC681:
		return qr.NewERC681URLGeneratorWithScheme(cfg.GetScheme()), nil
	case config.QRCodeTypeRecipientOnly:
		return qr.NewRecipientAddressURLGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported QR code type: %s", qrCodeType)
	}
}

// solanaDecimals is the precision allowed for a Solana Pay amount: SOL's, USDC's, or
// the given decimals for any other SPL token.
func solanaDecimals(cfg *config.SolanaConfig, configured int32) int32 {
	if cfg.SPLToken == nil || *cfg.SPLToken == "" {
		return payrequest.SOLDecimals
	}

	if *cfg.SPLToken == payrequest.USDCMint.String() {
		return payrequest.USDCDecimals
	}

	return configured
}

func buildSolanaRequest(cfg *config.SolanaConfig, amount string, decimals int32, references []string, memo string) (*payrequest.SolanaRequest, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no Solana recipient is configured")
	}

	options := []payrequest.SolanaOption{
		payrequest.WithLabel(cfg.Label),
		payrequest.WithMessage(cfg.Message),
		payrequest.WithMemo(memo),
	}

	if amount != "" {
		options = append(options, payrequest.WithAmount(amount, decimals))
	}

	if cfg.SPLToken != nil && *cfg.SPLToken != "" {
		options = append(options, payrequest.WithSPLToken(*cfg.SPLToken))
	}

	for _, reference := range references {
		options = append(options, payrequest.WithReference(reference))
	}

	return payrequest.NewSolanaRequest(cfg.Recipient, options...)
}

// renderers returns the terminal renderer plus a PNG renderer if a path was given.
func renderers(options *rootOptions, pngPath string, pngScale int) []qr.Renderer {
	rendered := []qr.Renderer{qr.NewTerminalRenderer(options.out())}
	if pngPath != "" {
		rendered = append(rendered, qr.NewPNGRenderer(pngPath, pngScale))
	}

	return rendered
}

func render(text string, rendered []qr.Renderer) error {
	for _, renderer := range rendered {
		if err := renderer.Render(text); err != nil {
			return err
		}
	}

	return nil
}
