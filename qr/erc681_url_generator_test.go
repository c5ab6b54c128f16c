package qr_test

import (
	"context"
	"math/big"

	"github.com/jrh3k5/cryptopay-request/calldata"
	"github.com/jrh3k5/cryptopay-request/payrequest"
	"github.com/jrh3k5/cryptopay-request/qr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	contractAddress = "0xAb2A4D46982E2a511443324368A0777C7f41faF6"
	tokenAddress    = "0x44c0d559923a7ae4857D5ae32EdA98b63F535d5d"
	sepoliaChainID  = uint64(11155111)
)

var _ = Describe("Erc681UrlGenerator", func() {
	var generator *qr.ERC681URLGenerator
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		generator = qr.NewERC681URLGenerator()
	})

	Context("Generate", func() {
		It("generates a contract-call URL with data before gas", func() {
			request, err := payrequest.New(contractAddress, sepoliaChainID,
				payrequest.WithRawData(calldata.Payload{0x12, 0x34}, false),
				payrequest.WithGasLimit(200_000),
			)
			Expect(err).ToNot(HaveOccurred(), "building the request should not fail")

			url, err := qr.NewERC681URLGeneratorWithScheme("scheme").Generate(ctx, request)
			Expect(err).ToNot(HaveOccurred(), "generating the URL should not fail")
			Expect(url).To(Equal("scheme:0xAb2A4D46982E2a511443324368A0777C7f41faF6@11155111?data=0x1234&gas=200000"), "the correct URL should be generated")
		})

		It("generates a plain value transfer URL", func() {
			request, err := payrequest.NewTransfer(contractAddress, sepoliaChainID, big.NewInt(10_000_000_000_000_000), 21_000)
			Expect(err).ToNot(HaveOccurred(), "building the request should not fail")

			url, err := generator.Generate(ctx, request)
			Expect(err).ToNot(HaveOccurred(), "generating the URL should not fail")
			Expect(url).To(Equal("ethereum:0xAb2A4D46982E2a511443324368A0777C7f41faF6@11155111?value=10000000000000000&gas=21000"))
		})

		It("leaves out empty raw call data", func() {
			request, err := payrequest.New(contractAddress, sepoliaChainID,
				payrequest.WithRawData(calldata.Payload{}, false),
				payrequest.WithValue(big.NewInt(5)),
			)
			Expect(err).ToNot(HaveOccurred(), "building the request should not fail")

			url, err := generator.Generate(ctx, request)
			Expect(err).ToNot(HaveOccurred(), "generating the URL should not fail")
			Expect(url).To(Equal("ethereum:0xAb2A4D46982E2a511443324368A0777C7f41faF6@11155111?value=5"))
		})

		It("puts the value first for a payable call", func() {
			request, err := payrequest.NewNativePurchase(contractAddress, sepoliaChainID, "123456789", big.NewInt(1_000_000_000_000_000), 200_000)
			Expect(err).ToNot(HaveOccurred(), "building the request should not fail")

			url, err := generator.Generate(ctx, request)
			Expect(err).ToNot(HaveOccurred(), "generating the URL should not fail")
			Expect(url).To(Equal("ethereum:0xAb2A4D46982E2a511443324368A0777C7f41faF6@11155111?value=1000000000000000&data=" +
				"0xc812b127" +
				"0000000000000000000000000000000000000000000000000000000000000020" +
				"0000000000000000000000000000000000000000000000000000000000000009" +
				"3132333435363738390000000000000000000000000000000000000000000000" +
				"&gas=200000"))
		})

		It("leaves out the value for a token purchase", func() {
			request, err := payrequest.NewTokenPurchase(contractAddress, sepoliaChainID, tokenAddress, "order123", big.NewInt(10_000_000_000_000_000), 200_000)
			Expect(err).ToNot(HaveOccurred(), "building the request should not fail")

			url, err := generator.Generate(ctx, request)
			Expect(err).ToNot(HaveOccurred(), "generating the URL should not fail")
			Expect(url).To(HavePrefix("ethereum:0xAb2A4D46982E2a511443324368A0777C7f41faF6@11155111?data=0x49816f2e"))
			Expect(url).To(HaveSuffix("&gas=200000"))
			Expect(url).ToNot(ContainSubstring("value="), "a token purchase should not carry a native value")
		})

		It("renders lowercase input addresses in checksummed form", func() {
			request, err := payrequest.NewTransfer("0xab2a4d46982e2a511443324368a0777c7f41faf6", 1, big.NewInt(1), 0)
			Expect(err).ToNot(HaveOccurred(), "building the request should not fail")

			url, err := generator.Generate(ctx, request)
			Expect(err).ToNot(HaveOccurred(), "generating the URL should not fail")
			Expect(url).To(Equal("ethereum:0xAb2A4D46982E2a511443324368A0777C7f41faF6@1?value=1"), "no gas should be rendered when none is set")
		})

		It("generates identical URLs for identical requests", func() {
			first, err := payrequest.NewNativePurchase(contractAddress, sepoliaChainID, "order123", big.NewInt(1), 200_000)
			Expect(err).ToNot(HaveOccurred(), "building the first request should not fail")
			second, err := payrequest.NewNativePurchase(contractAddress, sepoliaChainID, "order123", big.NewInt(1), 200_000)
			Expect(err).ToNot(HaveOccurred(), "building the second request should not fail")

			firstURL, err := generator.Generate(ctx, first)
			Expect(err).ToNot(HaveOccurred(), "generating the first URL should not fail")
			secondURL, err := generator.Generate(ctx, second)
			Expect(err).ToNot(HaveOccurred(), "generating the second URL should not fail")

			Expect(firstURL).To(Equal(secondURL))
		})

		It("rejects an invalid request", func() {
			url, err := generator.Generate(ctx, &payrequest.PaymentRequest{})
			Expect(err).To(MatchError(payrequest.ErrInvalidRequest))
			Expect(url).To(BeEmpty(), "no partial URL should be returned")

			_, err = generator.Generate(ctx, nil)
			Expect(err).To(MatchError(payrequest.ErrInvalidRequest))
		})

		It("rejects raw call data that cannot accept the attached value", func() {
			_, err := payrequest.New(contractAddress, sepoliaChainID,
				payrequest.WithRawData(calldata.Payload{0x12, 0x34}, false),
				payrequest.WithValue(big.NewInt(1)),
			)
			Expect(err).To(MatchError(payrequest.ErrInvalidRequest))
		})
	})
})
