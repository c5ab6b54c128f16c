package wallet

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Chain IDs of the networks the checkout knows how to add to a wallet.
const (
	ChainIDEthereum    uint64 = 1
	ChainIDSepolia     uint64 = 11155111
	ChainIDBase        uint64 = 8453
	ChainIDBaseSepolia uint64 = 84532
	ChainIDPolygonAmoy uint64 = 80002
)

// NativeCurrency describes a chain's native currency for wallet_addEthereumChain.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// ChainParams are the parameters of wallet_addEthereumChain (EIP-3085).
type ChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	RPCURLs           []string       `json:"rpcUrls"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

var ether = NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18}

var knownChains = map[uint64]ChainParams{
	ChainIDEthereum: {
		ChainID:           hexutil.EncodeUint64(ChainIDEthereum),
		ChainName:         "Ethereum Mainnet",
		RPCURLs:           []string{"https://ethereum-rpc.publicnode.com"},
		NativeCurrency:    ether,
		BlockExplorerURLs: []string{"https://etherscan.io"},
	},
	ChainIDSepolia: {
		ChainID:           hexutil.EncodeUint64(ChainIDSepolia),
		ChainName:         "Sepolia Testnet",
		RPCURLs:           []string{"https://rpc.sepolia.org"},
		NativeCurrency:    NativeCurrency{Name: "Sepolia ETH", Symbol: "ETH", Decimals: 18},
		BlockExplorerURLs: []string{"https://sepolia.etherscan.io"},
	},
	ChainIDBase: {
		ChainID:           hexutil.EncodeUint64(ChainIDBase),
		ChainName:         "Base",
		RPCURLs:           []string{"https://mainnet.base.org"},
		NativeCurrency:    ether,
		BlockExplorerURLs: []string{"https://basescan.org"},
	},
	ChainIDBaseSepolia: {
		ChainID:           hexutil.EncodeUint64(ChainIDBaseSepolia),
		ChainName:         "Base Sepolia",
		RPCURLs:           []string{"https://sepolia.base.org"},
		NativeCurrency:    ether,
		BlockExplorerURLs: []string{"https://sepolia.basescan.org"},
	},
	ChainIDPolygonAmoy: {
		ChainID:           hexutil.EncodeUint64(ChainIDPolygonAmoy),
		ChainName:         "Polygon Amoy",
		RPCURLs:           []string{"https://rpc-amoy.polygon.technology"},
		NativeCurrency:    NativeCurrency{Name: "POL", Symbol: "POL", Decimals: 18},
		BlockExplorerURLs: []string{"https://amoy.polygonscan.com"},
	},
}

// KnownChain returns the wallet_addEthereumChain parameters for the chain, if known.
func KnownChain(chainID uint64) (ChainParams, bool) {
	params, isKnown := knownChains[chainID]
	return params, isKnown
}

// ExplorerTransactionURL returns a block explorer link for the transaction, or an empty
// string if the chain is not known.
func ExplorerTransactionURL(chainID uint64, hash common.Hash) string {
	params, isKnown := knownChains[chainID]
	if !isKnown || len(params.BlockExplorerURLs) == 0 {
		return ""
	}

	return fmt.Sprintf("%s/tx/%s", params.BlockExplorerURLs[0], hash.Hex())
}
