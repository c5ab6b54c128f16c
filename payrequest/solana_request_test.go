package payrequest_test

import (
	"github.com/jrh3k5/cryptopay-request/payrequest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SolanaRequest", func() {
	Context("NewSolanaRequest", func() {
		It("rejects the all-zero recipient at construction", func() {
			request, err := payrequest.NewSolanaRequest("11111111111111111111111111111111")
			Expect(err).To(MatchError(payrequest.ErrInvalidRequest))
			Expect(request).To(BeNil())
		})

		It("keeps the amount in whole-token units", func() {
			request, err := payrequest.NewSolanaRequest("F7qYwJXKk46fqRHzhnvpY4kBhnrDdysKGUcnycNW9AHu",
				payrequest.WithAmount("1.25", payrequest.SOLDecimals),
			)
			Expect(err).ToNot(HaveOccurred(), "building the request should not fail")

			amount, hasAmount := request.Amount()
			Expect(hasAmount).To(BeTrue(), "the amount should be set")
			Expect(amount.String()).To(Equal("1.25"))
		})
	})
})
