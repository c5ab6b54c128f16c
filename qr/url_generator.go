package qr

import (
	"context"

	"github.com/jrh3k5/cryptopay-request/payrequest"
)

// URLGenerator is used to generate a URL for a QR code.
type URLGenerator interface {
	// Generate generates a URL to be presented for a QR code
	Generate(ctx context.Context, request *payrequest.PaymentRequest) (string, error)
}
