package qr_test

import (
	"context"
	"math/big"

	"github.com/jrh3k5/cryptopay-request/payrequest"
	"github.com/jrh3k5/cryptopay-request/qr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RecipientAddressURLGenerator", func() {
	var generator *qr.RecipientAddressURLGenerator
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		generator = qr.NewRecipientAddressURLGenerator()
	})

	Context("Generate", func() {
		It("just returns the target address", func() {
			request, err := payrequest.NewTransfer("0x407DF19995bBA21E71EC6e6b72FEba70318031Be", 8453, big.NewInt(1_280_000), 0)
			Expect(err).ToNot(HaveOccurred(), "building the request should not fail")

			url, err := generator.Generate(ctx, request)
			Expect(err).ToNot(HaveOccurred(), "generating the URL should not fail")
			Expect(url).To(Equal("0x407DF19995bBA21E71EC6e6b72FEba70318031Be"), "the URL should merely be the target address")
		})

		It("rejects an invalid request", func() {
			_, err := generator.Generate(ctx, nil)
			Expect(err).To(MatchError(payrequest.ErrInvalidRequest))
		})
	})
})
