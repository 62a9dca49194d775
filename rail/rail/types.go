package rail

import "github.com/shopspring/decimal"

// Result is the opaque outcome of a successful downstream operation.
type Result struct {
	Reference string
	Status    string
	Message   string
}

// DispatchError carries the downstream-provided failure message. The attempt
// is terminal; the caller must resubmit.
type DispatchError struct {
	Operation string
	Message   string
}

func (e *DispatchError) Error() string {
	return e.Operation + ": " + e.Message
}

// WalletTransferRequest moves money between two platform wallets.
type WalletTransferRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	RecipientID string          `json:"recipient_id"`
	Memo        string          `json:"memo,omitempty"`
}

// DomesticTransferRequest is the generic in-country transfer.
type DomesticTransferRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Memo            string          `json:"memo,omitempty"`
	RecipientName   string          `json:"recipient_name"`
	RecipientEmail  string          `json:"recipient_email,omitempty"`
	RecipientPhone  string          `json:"recipient_phone,omitempty"`
	FundingSourceID string          `json:"funding_source_id"`
}

// RemitRecipient is the recipient block shared by the remittance requests.
type RemitRecipient struct {
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Country        string `json:"country"`
	DeliveryMethod string `json:"delivery_method"`
	DeliveryPhone  string `json:"delivery_phone,omitempty"`
	AccountNumber  string `json:"account_number,omitempty"`
	BankName       string `json:"bank_name,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	WalletID       string `json:"wallet_id,omitempty"`
	PlatformID     string `json:"platform_id,omitempty"`
}

// InternationalRemitRequest carries no sender identity.
type InternationalRemitRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Recipient       RemitRecipient  `json:"recipient"`
	FundingSourceID string          `json:"funding_source_id,omitempty"`
	Memo            string          `json:"memo,omitempty"`
}

// OutboundRemitRequest adds routing/SWIFT fields on top of the shared shape.
type OutboundRemitRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Recipient       RemitRecipient  `json:"recipient"`
	RoutingNumber   string          `json:"routing_number,omitempty"`
	SwiftCode       string          `json:"swift_code,omitempty"`
	FundingSourceID string          `json:"funding_source_id,omitempty"`
	Memo            string          `json:"memo,omitempty"`
}

// GlobalRemitRequest adds sender identity and a recipient-side currency
// derived from the recipient country.
type GlobalRemitRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Recipient         RemitRecipient  `json:"recipient"`
	SenderName        string          `json:"sender_name"`
	SenderCountry     string          `json:"sender_country"`
	SenderCustomerID  string          `json:"sender_customer_id"`
	RecipientCurrency string          `json:"recipient_currency"`
	FundingSourceID   string          `json:"funding_source_id,omitempty"`
	Memo              string          `json:"memo,omitempty"`
}

// BillPayRequest is keyed by a bill identifier derived from the bill details.
type BillPayRequest struct {
	BillID          string          `json:"bill_id"`
	BillType        string          `json:"bill_type"`
	BillerName      string          `json:"biller_name"`
	Reference       string          `json:"reference"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	FundingSourceID string          `json:"funding_source_id"`
}

// TopUpRequest serves both airtime and data, parameterised by Service.
type TopUpRequest struct {
	Service         string          `json:"service"` // airtime | data
	Provider        string          `json:"provider"`
	PhoneNumber     string          `json:"phone_number"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	FundingSourceID string          `json:"funding_source_id"`
}

// CheckoutSettlementRequest settles a merchant checkout.
type CheckoutSettlementRequest struct {
	MerchantID      string          `json:"merchant_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	FundingSourceID string          `json:"funding_source_id"`
	Memo            string          `json:"memo,omitempty"`
}

// BankPayoutRequest pays out to an external bank account.
type BankPayoutRequest struct {
	AccountNumber   string          `json:"account_number"`
	BankName        string          `json:"bank_name"`
	BranchCode      string          `json:"branch_code,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	FundingSourceID string          `json:"funding_source_id"`
	Memo            string          `json:"memo,omitempty"`
}

// QRPaymentRequest is keyed by the intent's single-use reference.
type QRPaymentRequest struct {
	Reference       string          `json:"reference"`
	MerchantID      string          `json:"merchant_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	FundingSourceID string          `json:"funding_source_id"`
}

// InternalTransferRequest is keyed by the recipient's internal identity.
type InternalTransferRequest struct {
	RecipientEmail string          `json:"recipient_email"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Memo           string          `json:"memo,omitempty"`
}
