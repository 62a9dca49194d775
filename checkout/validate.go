package checkout

import (
	wt "payflow/wallet/wallet"
)

// FieldError attributes a validation failure to a single input field.
// Validation never aggregates: the first violated rule wins, so the message
// shown for a given context is deterministic.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func fieldErr(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// Validate checks a context against its kind-specific rules and the selected
// funding source. Pure and synchronous, no I/O. Returns nil when the context
// is complete.
//
// Rule order is deliberate and must not change: amount first for every kind,
// then kind-specific structure, then the funding source, which is skipped
// when the kind/recipient combination already resolved to the platform
// wallet.
func Validate(t *TransactionContext, fs wt.FundingSource) *FieldError {
	if t.Amount.LessThanOrEqual(decimalZero) {
		return fieldErr("amount", "amount must be greater than zero")
	}

	implicitWallet := false

	switch t.Kind {
	case KindDomesticTransfer:
		r := t.Recipient
		if r != nil && r.PlatformID != "" {
			// Wallet-to-wallet move: the identifier is all we need and the
			// wallet balance is the implied funding source.
			implicitWallet = true
			break
		}
		if !r.HasContact() {
			return fieldErr("recipient.contact", "recipient email or phone is required")
		}
		if r.Name == "" {
			return fieldErr("recipient.name", "recipient name is required")
		}

	case KindInternationalTransfer, KindOutboundTransfer, KindGlobalTransfer:
		if err, wallet := validateRemitRecipient(t.Recipient); err != nil {
			return err
		} else if wallet {
			implicitWallet = true
		}

	case KindBillPayment:
		b := t.Bill
		if b == nil || b.Type == "" {
			return fieldErr("bill.type", "bill type is required")
		}
		if b.BillerName == "" {
			return fieldErr("bill.billerName", "biller name is required")
		}
		if b.Reference == "" {
			return fieldErr("bill.reference", "bill reference is required")
		}

	case KindAirtime, KindData:
		tel := t.Telecom
		if tel == nil || tel.Provider == "" {
			return fieldErr("telecom.provider", "telecom provider is required")
		}
		if tel.PhoneNumber == "" {
			return fieldErr("telecom.phoneNumber", "phone number is required")
		}

	case KindMerchantCheckout:
		if t.Merchant == nil || t.Merchant.MerchantID == "" {
			return fieldErr("merchant.merchantId", "merchant identifier is required")
		}

	case KindBankTransfer:
		r := t.Recipient
		if r == nil || r.AccountNumber == "" {
			return fieldErr("recipient.accountNumber", "destination account number is required")
		}
		if r.BankName == "" {
			return fieldErr("recipient.bankName", "bank name is required")
		}

	case KindQRPayment:
		if t.QR == nil {
			return fieldErr("qrDetails", "scan and validate a QR code first")
		}

	case KindP2PSend:
		r := t.Recipient
		if r == nil || r.Email == "" {
			return fieldErr("recipient.email", "recipient email is required")
		}
		if !r.Internal {
			return fieldErr("recipient.internal", "recipient must be a platform account")
		}

	default:
		return fieldErr("kind", "unsupported transaction kind")
	}

	if !implicitWallet && !fs.IsSelected() {
		return fieldErr("fundingSource", "select a payment method")
	}
	return nil
}

// validateRemitRecipient applies the shared remittance rules: contact, name,
// country and delivery method first, then the delivery-method-specific
// fields. A platform-wallet delivery short-circuits the funding-source
// requirement for that leg only.
func validateRemitRecipient(r *Recipient) (*FieldError, bool) {
	if !r.HasContact() {
		return fieldErr("recipient.contact", "recipient email or phone is required"), false
	}
	if r.Name == "" {
		return fieldErr("recipient.name", "recipient name is required"), false
	}
	if r.Country == "" {
		return fieldErr("recipient.country", "recipient country is required"), false
	}
	if r.DeliveryMethod == "" {
		return fieldErr("recipient.deliveryMethod", "delivery method is required"), false
	}

	switch r.DeliveryMethod {
	case DeliveryMobileMoney:
		if r.DeliveryPhone == "" {
			return fieldErr("recipient.deliveryPhone", "mobile money phone number is required"), false
		}
	case DeliveryBankAccount:
		if r.AccountNumber == "" {
			return fieldErr("recipient.accountNumber", "bank account number is required"), false
		}
		if r.BankName == "" {
			return fieldErr("recipient.bankName", "bank name is required"), false
		}
	case DeliveryCashPickup:
		if r.Address == "" {
			return fieldErr("recipient.address", "pickup address is required"), false
		}
		if r.City == "" {
			return fieldErr("recipient.city", "pickup city is required"), false
		}
	case DeliveryDigitalWallet:
		if r.WalletID == "" {
			return fieldErr("recipient.walletId", "wallet id is required"), false
		}
	case DeliveryPlatformWallet:
		if r.PlatformID == "" {
			return fieldErr("recipient.platformId", "platform account identifier is required"), false
		}
		return nil, true
	default:
		return fieldErr("recipient.deliveryMethod", "unsupported delivery method"), false
	}
	return nil, false
}
