package payrequest

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/jrh3k5/cryptopay-request/currency"
	"github.com/shopspring/decimal"
)

// Decimals of native SOL and of USDC on Solana.
const (
	SOLDecimals  int32 = 9
	USDCDecimals int32 = 6
)

// USDCMint is the mainnet USDC SPL token mint.
var USDCMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

// SolanaRequest describes a Solana Pay transfer request. Unlike EVM requests, the amount
// is carried in whole-token units rather than base units.
type SolanaRequest struct {
	recipient  solana.PublicKey
	amount     *decimal.Decimal
	splToken   *solana.PublicKey
	references []solana.PublicKey
	label      string
	message    string
	memo       string
}

// SolanaOption configures a SolanaRequest under construction. Options that parse
// input report failures through the returned error of NewSolanaRequest.
type SolanaOption func(*SolanaRequest) error

// WithAmount sets the amount to transfer. The decimals bound the precision the amount
// may carry: 9 for SOL, or the SPL token's decimals.
func WithAmount(amount string, decimals int32) SolanaOption {
	return func(r *SolanaRequest) error {
		if _, err := currency.ToBaseUnits(amount, decimals); err != nil {
			return err
		}

		parsed, err := currency.ParseDecimal(amount)
		if err != nil {
			return err
		}
		r.amount = &parsed

		return nil
	}
}

// WithSPLToken makes the transfer one of the given SPL token instead of native SOL.
func WithSPLToken(mint string) SolanaOption {
	return func(r *SolanaRequest) error {
		key, err := solana.PublicKeyFromBase58(mint)
		if err != nil {
			return fmt.Errorf("%w: spl-token '%s' is not a valid public key: %v", ErrInvalidRequest, mint, err)
		}
		r.splToken = &key

		return nil
	}
}

// WithReference adds a reference key the payer's transaction must include, so the
// merchant can locate it on chain.
func WithReference(reference string) SolanaOption {
	return func(r *SolanaRequest) error {
		key, err := solana.PublicKeyFromBase58(reference)
		if err != nil {
			return fmt.Errorf("%w: reference '%s' is not a valid public key: %v", ErrInvalidRequest, reference, err)
		}
		r.references = append(r.references, key)

		return nil
	}
}

// WithLabel describes the source of the request, e.g. the store name.
func WithLabel(label string) SolanaOption {
	return func(r *SolanaRequest) error {
		r.label = label
		return nil
	}
}

// WithMessage describes the nature of the request, e.g. the item purchased.
func WithMessage(message string) SolanaOption {
	return func(r *SolanaRequest) error {
		r.message = message
		return nil
	}
}

// WithMemo sets the memo to include in the transaction.
func WithMemo(memo string) SolanaOption {
	return func(r *SolanaRequest) error {
		r.memo = memo
		return nil
	}
}

// NewSolanaRequest builds and validates a Solana Pay transfer request.
func NewSolanaRequest(recipient string, options ...SolanaOption) (*SolanaRequest, error) {
	recipientKey, err := solana.PublicKeyFromBase58(recipient)
	if err != nil {
		return nil, fmt.Errorf("%w: recipient '%s' is not a valid public key: %v", ErrInvalidRequest, recipient, err)
	}

	request := &SolanaRequest{
		recipient: recipientKey,
	}

	for _, option := range options {
		if err := option(request); err != nil {
			return nil, err
		}
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	return request, nil
}

// Validate checks that the request has a recipient.
func (r *SolanaRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if r.recipient.IsZero() {
		return fmt.Errorf("%w: recipient is required", ErrInvalidRequest)
	}

	return nil
}

func (r *SolanaRequest) Recipient() solana.PublicKey {
	return r.recipient
}

// Amount returns the amount in whole-token units, if one was set.
func (r *SolanaRequest) Amount() (decimal.Decimal, bool) {
	if r.amount == nil {
		return decimal.Zero, false
	}

	return *r.amount, true
}

// SPLToken returns the token mint, if the transfer is not native SOL.
func (r *SolanaRequest) SPLToken() (solana.PublicKey, bool) {
	if r.splToken == nil {
		return solana.PublicKey{}, false
	}

	return *r.splToken, true
}

func (r *SolanaRequest) References() []solana.PublicKey {
	return append([]solana.PublicKey(nil), r.references...)
}

func (r *SolanaRequest) Label() string {
	return r.label
}

func (r *SolanaRequest) Message() string {
	return r.message
}

func (r *SolanaRequest) Memo() string {
	return r.memo
}
