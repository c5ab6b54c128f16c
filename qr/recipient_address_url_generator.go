package qr

import (
	"context"
	"fmt"

	"github.com/jrh3k5/cryptopay-request/payrequest"
)

// RecipientAddressURLGenerator is a generator that just generates
// a URL to show the request's target address. This is useful for wallets
// that only expect wallet addresses in the QR code, rather than full-formed
// URLs such as ERC-681 URLs.
type RecipientAddressURLGenerator struct {
}

func NewRecipientAddressURLGenerator() *RecipientAddressURLGenerator {
	return &RecipientAddressURLGenerator{}
}

func (*RecipientAddressURLGenerator) Generate(ctx context.Context, request *payrequest.PaymentRequest) (string, error) {
	if err := request.Validate(); err != nil {
		return "", fmt.Errorf("unable to generate recipient address URL: %w", err)
	}

	return request.TargetAddress().Hex(), nil
}
