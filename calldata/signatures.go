package calldata

// Methods of the point-purchase contract and the ERC-20 methods used alongside it.
var (
	BuyPointByNative = MustParseSignature("function buyPointByNative(string orderId) payable")
	BuyPointByToken  = MustParseSignature("function buyPointByToken(address token, string orderId, uint256 amount)")

	ERC20Approve  = MustParseSignature("function approve(address spender, uint256 value)")
	ERC20Decimals = MustParseSignature("function decimals() view")
)
