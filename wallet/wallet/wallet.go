package wallet

import "context"

// FundingSource is the opaque identifier of a selected means of payment.
// Values come from the external payment-method directory, except for the
// reserved Balance sentinel.
type FundingSource string

// Balance is the reserved sentinel for paying from the platform wallet.
// It bypasses external payment-method selection entirely.
const Balance FundingSource = "wallet_balance"

// None means no funding source has been selected yet.
const None FundingSource = ""

func (f FundingSource) IsWallet() bool {
	return f == Balance
}

func (f FundingSource) IsSelected() bool {
	return f != None
}

// Channel classifies how a payment method moves money.
type Channel string

const (
	ChannelWallet      Channel = "wallet"
	ChannelCard        Channel = "card"
	ChannelBankAccount Channel = "bank_account"
	ChannelMobileMoney Channel = "mobile_money"
)

// Method is one entry of the payment-method directory.
type Method struct {
	ID      FundingSource
	Label   string
	Channel Channel
	Last4   string
	Default bool
}

// Directory lists the funding sources available to a customer.
// The wallet-balance sentinel entry is always listed first.
type Directory interface {
	ListMethods(ctx context.Context, customerID string) ([]Method, error)
}
