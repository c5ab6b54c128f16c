package qr

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jrh3k5/cryptopay-request/payrequest"
)

// SolanaPayURLGenerator generates Solana Pay transfer request URLs:
// https://docs.solanapay.com/spec#transfer-request
type SolanaPayURLGenerator struct {
}

func NewSolanaPayURLGenerator() *SolanaPayURLGenerator {
	return &SolanaPayURLGenerator{}
}

// Generate renders the request as solana:<recipient>?amount=..&spl-token=..&reference=..&label=..&message=..&memo=..
// Fields that are not set are left out.
func (*SolanaPayURLGenerator) Generate(ctx context.Context, request *payrequest.SolanaRequest) (string, error) {
	if err := request.Validate(); err != nil {
		return "", fmt.Errorf("unable to generate Solana Pay URL: %w", err)
	}

	var params []string
	if amount, hasAmount := request.Amount(); hasAmount {
		params = append(params, "amount="+amount.String())
	}

	if mint, isToken := request.SPLToken(); isToken {
		params = append(params, "spl-token="+mint.String())
	}

	for _, reference := range request.References() {
		params = append(params, "reference="+reference.String())
	}

	for _, field := range []struct{ name, value string }{
		{"label", request.Label()},
		{"message", request.Message()},
		{"memo", request.Memo()},
	} {
		if field.value != "" {
			params = append(params, field.name+"="+url.QueryEscape(field.value))
		}
	}

	uri := "solana:" + request.Recipient().String()
	if len(params) > 0 {
		uri += "?" + strings.Join(params, "&")
	}

	return uri, nil
}
