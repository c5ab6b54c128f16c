package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/jrh3k5/cryptopay-request/config"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fixedDecimalsReader struct {
	decimals int32
	err      error
	tokens   []common.Address
}

func (f *fixedDecimalsReader) TokenDecimals(_ context.Context, token common.Address) (int32, error) {
	f.tokens = append(f.tokens, token)
	return f.decimals, f.err
}

// tokenNodeAPI answers every eth_call with the given decimals.
type tokenNodeAPI struct {
	decimals byte
}

func (t *tokenNodeAPI) Call(args map[string]any, block string) hexutil.Bytes {
	return common.LeftPadBytes([]byte{t.decimals}, 32)
}

var _ = Describe("paymentDecimals", func() {
	ctx := context.Background()

	It("uses the native decimals when paying natively", func() {
		decimals, err := paymentDecimals(ctx, nativeConfig(), nil)
		Expect(err).ToNot(HaveOccurred(), "resolving native decimals should not fail")
		Expect(decimals).To(Equal(int32(18)))
	})

	It("prefers configured decimals for a token", func() {
		cfg := tokenConfig()
		configured := int32(6)
		cfg.Decimals = &configured
		reader := &fixedDecimalsReader{decimals: 8}

		decimals, err := paymentDecimals(ctx, cfg, reader)
		Expect(err).ToNot(HaveOccurred(), "resolving configured decimals should not fail")
		Expect(decimals).To(Equal(int32(6)))
		Expect(reader.tokens).To(BeEmpty(), "the token should not be asked")
	})

	It("reads the token's decimals when none are configured", func() {
		reader := &fixedDecimalsReader{decimals: 6}

		decimals, err := paymentDecimals(ctx, tokenConfig(), reader)
		Expect(err).ToNot(HaveOccurred(), "reading the token's decimals should not fail")
		Expect(decimals).To(Equal(int32(6)))
		Expect(reader.tokens).To(Equal([]common.Address{common.HexToAddress(tokenAddress)}))
	})

	It("fails for a token without configured decimals or a way to read them", func() {
		_, err := paymentDecimals(ctx, tokenConfig(), nil)
		Expect(err).To(MatchError(errTokenDecimalsUnknown))
	})

	It("surfaces a failed read", func() {
		readErr := errors.New("execution reverted")

		_, err := paymentDecimals(ctx, tokenConfig(), &fixedDecimalsReader{err: readErr})
		Expect(err).To(MatchError(readErr))
	})
})

var _ = Describe("uri with a token payment", func() {
	var out *bytes.Buffer
	var configDir string

	BeforeEach(func() {
		GinkgoT().Setenv(config.RPCURLEnvVar, "")
		out = &bytes.Buffer{}
		configDir = GinkgoT().TempDir()
	})

	writeConfig := func(extra string) string {
		file := filepath.Join(configDir, "config.yaml")
		Expect(os.WriteFile(file, []byte(`
chain_id: 11155111
contract_address: "`+contractAddress+`"
token_address: "`+tokenAddress+`"
`+extra), 0o600)).To(Succeed())
		return file
	}

	run := func(args ...string) error {
		rootCmd := newRootCommand()
		rootCmd.SetOut(out)
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs(args)
		return rootCmd.Execute()
	}

	It("encodes the amount with the configured decimals", func() {
		configFile := writeConfig("decimals: 6\n")

		Expect(run("uri", "--file", configFile, "--order-id", "1", "--amount", "1.5")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("16e360"), "1.5 should be encoded as 1500000 base units")
		Expect(out.String()).ToNot(ContainSubstring("14d1120d7b160000"), "1.5 should not be encoded with 18 decimals")
	})

	It("reads the decimals from the token when none are configured", func() {
		server := rpc.NewServer()
		Expect(server.RegisterName("eth", &tokenNodeAPI{decimals: 6})).To(Succeed())
		httpServer := httptest.NewServer(server)
		DeferCleanup(func() {
			httpServer.Close()
			server.Stop()
		})

		configFile := writeConfig("rpc_url: \"" + httpServer.URL + "\"\n")

		Expect(run("uri", "--file", configFile, "--order-id", "1", "--amount", "1.5")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("16e360"), "1.5 should be encoded as 1500000 base units")
	})

	It("refuses to guess the decimals without configuration or an endpoint", func() {
		configFile := writeConfig("")

		err := run("uri", "--file", configFile, "--order-id", "1", "--amount", "1.5")
		Expect(err).To(MatchError(errTokenDecimalsUnknown))
		Expect(out.String()).To(BeEmpty(), "nothing should be printed")
	})
})
