package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"
	"github.com/jrh3k5/cryptopay-request/payrequest"
	"github.com/jrh3k5/cryptopay-request/qr"
	"gopkg.in/yaml.v3"
)

// RPCURLEnvVar overrides the configured wallet endpoint when set.
const RPCURLEnvVar = "CRYPTOPAY_RPC_URL"

// Supported values of qr_code_type.
const (
	QRCodeTypeERC681        = "erc681"
	QRCodeTypeRecipientOnly = "recipient_only"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("solana_pubkey", validateSolanaPublicKey); err != nil {
		panic(fmt.Sprintf("failed to register solana_pubkey validation: %v", err))
	}
}

func validateSolanaPublicKey(fl validator.FieldLevel) bool {
	_, err := solana.PublicKeyFromBase58(fl.Field().String())
	return err == nil
}

type Config struct {
	ChainID         uint64        `yaml:"chain_id" validate:"required"`
	ContractAddress string        `yaml:"contract_address" validate:"required,eth_addr"`
	TokenAddress    *string       `yaml:"token_address" validate:"omitempty,eth_addr"`
	Decimals        *int32        `yaml:"decimals" validate:"omitempty,min=0,max=77"`
	GasLimit        *uint64       `yaml:"gas_limit"`
	QRCodeType      *string       `yaml:"qr_code_type" validate:"omitempty,oneof=erc681 recipient_only"`
	Scheme          *string       `yaml:"scheme" validate:"omitempty,alpha"`
	RPCURL          string        `yaml:"rpc_url" validate:"omitempty,url"`
	LogLevel        *string       `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Solana          *SolanaConfig `yaml:"solana"`
}

// SolanaConfig describes the Solana Pay request offered alongside the EVM one.
type SolanaConfig struct {
	Recipient string  `yaml:"recipient" validate:"required,solana_pubkey"`
	SPLToken  *string `yaml:"spl_token" validate:"omitempty,solana_pubkey"`
	Label     string  `yaml:"label"`
	Message   string  `yaml:"message"`
}

// Load reads the YAML configuration at the given path, applies environment overrides
// and validates the result.
func Load(file string) (*Config, error) {
	fileBytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", file, err)
	}

	config, err := Parse(fileBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from '%s': %w", file, err)
	}

	return config, nil
}

// Parse decodes and validates YAML configuration.
func Parse(yamlBytes []byte) (*Config, error) {
	config := &Config{}
	if err := yaml.Unmarshal(yamlBytes, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	if rpcURL := os.Getenv(RPCURLEnvVar); rpcURL != "" {
		config.RPCURL = rpcURL
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// GetDecimals returns the configured decimals of the payment currency, or the native 18
// when none are configured. A token payment without configured decimals must read them
// from the token instead.
func (c *Config) GetDecimals() int32 {
	if c.Decimals == nil {
		return 18
	}

	return *c.Decimals
}

// GetGasLimit returns the configured gas limit, or the purchase default for the
// configured currency.
func (c *Config) GetGasLimit() uint64 {
	if c.GasLimit != nil {
		return *c.GasLimit
	}

	if c.IsTokenPayment() {
		return payrequest.DefaultTokenPurchaseGas
	}

	return payrequest.DefaultNativePurchaseGas
}

// IsTokenPayment reports whether purchases are paid in an ERC-20 token.
func (c *Config) IsTokenPayment() bool {
	return c.TokenAddress != nil && *c.TokenAddress != ""
}

func (c *Config) GetQRCodeType() string {
	if c.QRCodeType == nil {
		return QRCodeTypeERC681
	}

	return *c.QRCodeType
}

func (c *Config) GetScheme() string {
	if c.Scheme == nil {
		return qr.DefaultERC681Scheme
	}

	return *c.Scheme
}

func (c *Config) GetLogLevel() string {
	if c.LogLevel == nil {
		return "info"
	}

	return *c.LogLevel
}
