package checkout

// Kind tags a TransactionContext with the transaction it describes.
// The set is closed; dispatch is an exhaustive switch over it.
type Kind string

const (
	KindDomesticTransfer      Kind = "domestic_transfer"
	KindInternationalTransfer Kind = "international_transfer"
	KindOutboundTransfer      Kind = "outbound_transfer"
	KindGlobalTransfer        Kind = "global_transfer"
	KindBillPayment           Kind = "bill_payment"
	KindAirtime               Kind = "airtime"
	KindData                  Kind = "data"
	KindMerchantCheckout      Kind = "merchant_checkout"
	KindBankTransfer          Kind = "bank_transfer"
	KindQRPayment             Kind = "qr_payment"
	KindP2PSend               Kind = "p2p_send"
)

// Category groups kinds by which detail payload is active. The funding
// source selection is cleared whenever the category changes.
type Category string

const (
	CategoryRecipient Category = "recipient"
	CategoryBill      Category = "bill"
	CategoryTelecom   Category = "telecom"
	CategoryMerchant  Category = "merchant"
	CategoryQR        Category = "qr"
	CategoryUnknown   Category = "unknown"
)

func (k Kind) Valid() bool {
	return k.Category() != CategoryUnknown
}

// Category returns the detail payload active for this kind; the other
// payloads are ignored even if populated.
func (k Kind) Category() Category {
	switch k {
	case KindDomesticTransfer, KindInternationalTransfer, KindOutboundTransfer,
		KindGlobalTransfer, KindBankTransfer, KindP2PSend:
		return CategoryRecipient
	case KindBillPayment:
		return CategoryBill
	case KindAirtime, KindData:
		return CategoryTelecom
	case KindMerchantCheckout:
		return CategoryMerchant
	case KindQRPayment:
		return CategoryQR
	default:
		return CategoryUnknown
	}
}

// DeliveryMethod selects how a remittance reaches its recipient.
type DeliveryMethod string

const (
	DeliveryMobileMoney    DeliveryMethod = "mobile_money"
	DeliveryBankAccount    DeliveryMethod = "bank_account"
	DeliveryCashPickup     DeliveryMethod = "cash_pickup"
	DeliveryDigitalWallet  DeliveryMethod = "digital_wallet"
	DeliveryPlatformWallet DeliveryMethod = "platform_wallet"
)
