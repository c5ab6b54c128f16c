package qr

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrh3k5/cryptopay-request/payrequest"
)

// DefaultERC681Scheme is the URI scheme wallets register for EVM payment requests.
const DefaultERC681Scheme = "ethereum"

// ERC681URLGenerator is a generator that generates URLs in compliance with
// ERC-681: https://eips.ethereum.org/EIPS/eip-681
//
// Plain transfers render as <scheme>:<address>@<chainID>?value=<wei>&gas=<limit>, and
// contract calls carry their encoded call data as data=<hex>. Query parameters always
// appear in the order value, data, gas.
type ERC681URLGenerator struct {
	scheme string
}

// NewERC681URLGenerator creates a generator using the "ethereum" scheme.
func NewERC681URLGenerator() *ERC681URLGenerator {
	return NewERC681URLGeneratorWithScheme(DefaultERC681Scheme)
}

// NewERC681URLGeneratorWithScheme creates a generator using the given scheme.
func NewERC681URLGeneratorWithScheme(scheme string) *ERC681URLGenerator {
	return &ERC681URLGenerator{
		scheme: scheme,
	}
}

func (g *ERC681URLGenerator) Generate(ctx context.Context, request *payrequest.PaymentRequest) (string, error) {
	if err := request.Validate(); err != nil {
		return "", fmt.Errorf("unable to generate ERC-681 URL: %w", err)
	}

	var params []string
	if value := request.Value(); value != nil {
		params = append(params, "value="+value.String())
	}

	if !request.IsTransfer() {
		params = append(params, "data="+url.QueryEscape(request.Data().Hex()))
	}

	if gasLimit := request.GasLimit(); gasLimit > 0 {
		params = append(params, "gas="+strconv.FormatUint(gasLimit, 10))
	}

	uri := fmt.Sprintf("%s:%s@%d", g.scheme, request.TargetAddress().Hex(), request.ChainID())
	if len(params) > 0 {
		uri += "?" + strings.Join(params, "&")
	}

	return uri, nil
}
