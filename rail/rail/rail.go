package rail

import "context"

// Dispatcher is the contract over the per-rail transfer and settlement
// services. Each method is one downstream operation; the checkout core calls
// exactly one of them per dispatch and never retries at this layer.
type Dispatcher interface {
	// Domestic rail
	WalletTransfer(ctx context.Context, req WalletTransferRequest) (*Result, error)
	DomesticTransfer(ctx context.Context, req DomesticTransferRequest) (*Result, error)
	// Remittance rails. The three request shapes overlap but are not
	// identical and must stay distinct.
	InternationalRemit(ctx context.Context, req InternationalRemitRequest) (*Result, error)
	OutboundRemit(ctx context.Context, req OutboundRemitRequest) (*Result, error)
	GlobalRemit(ctx context.Context, req GlobalRemitRequest) (*Result, error)
	// Bill pay and telecom
	PayBill(ctx context.Context, req BillPayRequest) (*Result, error)
	TopUp(ctx context.Context, req TopUpRequest) (*Result, error)
	// Merchant settlement and bank payout
	SettleCheckout(ctx context.Context, req CheckoutSettlementRequest) (*Result, error)
	BankPayout(ctx context.Context, req BankPayoutRequest) (*Result, error)
	// QR payment initiation and internal wallet-to-wallet send
	InitiateQRPayment(ctx context.Context, req QRPaymentRequest) (*Result, error)
	InternalTransfer(ctx context.Context, req InternalTransferRequest) (*Result, error)
}
