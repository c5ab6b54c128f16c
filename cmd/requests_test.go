package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/jrh3k5/cryptopay-request/config"
	"github.com/jrh3k5/cryptopay-request/currency"
	"github.com/jrh3k5/cryptopay-request/payrequest"
	"github.com/jrh3k5/cryptopay-request/qr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	contractAddress = "0xAb2A4D46982E2a511443324368A0777C7f41faF6"
	tokenAddress    = "0x44c0d559923a7ae4857D5ae32EdA98b63F535d5d"
	solanaRecipient = "F7qYwJXKk46fqRHzhnvpY4kBhnrDdysKGUcnycNW9AHu"
	usdcMint        = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

func nativeConfig() *config.Config {
	return &config.Config{
		ChainID:         11155111,
		ContractAddress: contractAddress,
	}
}

func tokenConfig() *config.Config {
	cfg := nativeConfig()
	token := tokenAddress
	cfg.TokenAddress = &token
	return cfg
}

var _ = Describe("buildPurchase", func() {
	It("builds a native purchase with the amount as value", func() {
		purchase, err := buildPurchase(nativeConfig(), "123456789", "0.001", currency.NativeDecimals)
		Expect(err).ToNot(HaveOccurred(), "building the purchase should not fail")

		Expect(purchase.approval).To(BeNil(), "a native purchase needs no approval")
		Expect(purchase.amount.String()).To(Equal("1000000000000000"))
		Expect(purchase.request.Value().String()).To(Equal("1000000000000000"))
		Expect(purchase.request.GasLimit()).To(Equal(payrequest.DefaultNativePurchaseGas))
	})

	It("builds a token purchase preceded by an approval", func() {
		purchase, err := buildPurchase(tokenConfig(), "order-1", "1.5", 6)
		Expect(err).ToNot(HaveOccurred(), "building the purchase should not fail")

		Expect(purchase.amount.String()).To(Equal("1500000"))
		Expect(purchase.request.Value()).To(BeNil(), "a token purchase should carry no value")
		Expect(purchase.request.GasLimit()).To(Equal(payrequest.DefaultTokenPurchaseGas))

		Expect(purchase.approval).ToNot(BeNil(), "a token purchase needs an approval")
		Expect(purchase.approval.TargetAddress().Hex()).To(Equal(tokenAddress), "the approval should be sent to the token")
		Expect(purchase.approval.Data().Hex()).To(HavePrefix("0x095ea7b3"))
	})

	It("rejects an amount more precise than the currency", func() {
		_, err := buildPurchase(tokenConfig(), "order-1", "1.0000001", 6)
		Expect(err).To(MatchError(currency.ErrInvalidAmount))
	})
})

var _ = Describe("buildURLGenerator", func() {
	It("defaults to ERC-681", func() {
		generator, err := buildURLGenerator(nativeConfig())
		Expect(err).ToNot(HaveOccurred(), "building the generator should not fail")
		Expect(generator).To(BeAssignableToTypeOf(&qr.ERC681URLGenerator{}))
	})

	It("supports recipient-only QR codes", func() {
		cfg := nativeConfig()
		qrCodeType := config.QRCodeTypeRecipientOnly
		cfg.QRCodeType = &qrCodeType

		generator, err := buildURLGenerator(cfg)
		Expect(err).ToNot(HaveOccurred(), "building the generator should not fail")

		purchase, err := buildPurchase(cfg, "1", "1", currency.NativeDecimals)
		Expect(err).ToNot(HaveOccurred(), "building the purchase should not fail")

		uri, err := generator.Generate(context.Background(), purchase.request)
		Expect(err).ToNot(HaveOccurred(), "generating the URI should not fail")
		Expect(uri).To(Equal(contractAddress))
	})
})

var _ = Describe("Solana requests", func() {
	It("chooses decimals by token", func() {
		mint := usdcMint
		otherMint := "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"

		Expect(solanaDecimals(&config.SolanaConfig{}, 4)).To(Equal(payrequest.SOLDecimals))
		Expect(solanaDecimals(&config.SolanaConfig{SPLToken: &mint}, 4)).To(Equal(payrequest.USDCDecimals))
		Expect(solanaDecimals(&config.SolanaConfig{SPLToken: &otherMint}, 4)).To(Equal(int32(4)))
	})

	It("builds a USDC transfer request", func() {
		mint := usdcMint
		solanaConfig := &config.SolanaConfig{
			Recipient: solanaRecipient,
			SPLToken:  &mint,
			Label:     "My Store",
			Message:   "Thanks for your purchase!",
		}

		request, err := buildSolanaRequest(solanaConfig, "0.1", payrequest.USDCDecimals, nil, "Order #123")
		Expect(err).ToNot(HaveOccurred(), "building the request should not fail")

		uri, err := qr.NewSolanaPayURLGenerator().Generate(context.Background(), request)
		Expect(err).ToNot(HaveOccurred(), "generating the URI should not fail")
		Expect(uri).To(Equal("solana:" + solanaRecipient + "?amount=0.1&spl-token=" + usdcMint + "&label=My+Store&message=Thanks+for+your+purchase%21&memo=Order+%23123"))
	})

	It("requires a Solana configuration", func() {
		_, err := buildSolanaRequest(nil, "0.1", payrequest.SOLDecimals, nil, "")
		Expect(err).To(HaveOccurred(), "a missing configuration should fail")
	})
})

var _ = Describe("commands", func() {
	var out *bytes.Buffer
	var configFile string

	BeforeEach(func() {
		GinkgoT().Setenv(config.RPCURLEnvVar, "")

		out = &bytes.Buffer{}
		configFile = filepath.Join(GinkgoT().TempDir(), "config.yaml")
		Expect(os.WriteFile(configFile, []byte(`
chain_id: 11155111
contract_address: "`+contractAddress+`"
solana:
  recipient: `+solanaRecipient+`
  label: My Store
`), 0o600)).To(Succeed())
	})

	run := func(args ...string) error {
		rootCmd := newRootCommand()
		rootCmd.SetOut(out)
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs(args)
		return rootCmd.Execute()
	}

	It("encodes a call", func() {
		Expect(run("encode", "approve(address,uint256)", contractAddress, "1")).To(Succeed())
		Expect(out.String()).To(HavePrefix("0x095ea7b3"))
	})

	It("fails to encode a call with missing arguments", func() {
		Expect(run("encode", "approve(address,uint256)", contractAddress)).ToNot(Succeed())
	})

	It("prints a native purchase URI", func() {
		Expect(run("uri", "--file", configFile, "--order-id", "123456789", "--amount", "0.001")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("ethereum:" + contractAddress + "@11155111?value=1000000000000000&data=0xc812b127"))
		Expect(out.String()).To(ContainSubstring("&gas=53307"))
	})

	It("writes a PNG QR code when asked", func() {
		pngPath := filepath.Join(GinkgoT().TempDir(), "request.png")

		Expect(run("uri", "--file", configFile, "--order-id", "1", "--amount", "1", "--png", pngPath)).To(Succeed())
		Expect(pngPath).To(BeAnExistingFile())
	})

	It("rejects an invalid amount before printing anything", func() {
		Expect(run("uri", "--file", configFile, "--order-id", "1", "--amount", "-1")).ToNot(Succeed())
		Expect(out.String()).To(BeEmpty(), "nothing should be printed")
	})

	It("prints a Solana Pay URI", func() {
		Expect(run("solana", "--file", configFile, "--amount", "0.5", "--memo", "Order #1")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("solana:" + solanaRecipient + "?amount=0.5&label=My+Store&memo=Order+%231"))
	})

	It("refuses to pay without a wallet endpoint", func() {
		Expect(run("pay", "--file", configFile, "--order-id", "1", "--amount", "1", "--yes")).ToNot(Succeed())
	})
})
