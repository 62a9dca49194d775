package checkout

import (
	"context"
	"fmt"

	rt "payflow/rail/rail"
	wt "payflow/wallet/wallet"
)

// UnknownKindError is a programming fault: a context with a kind outside
// the closed enumeration reached dispatch.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown transaction kind %q", e.Kind)
}

// Dispatch maps a validated context to exactly one downstream rail operation
// and shapes that operation's request. Invoked only after Validate passes;
// exactly one network call, no retries here.
func Dispatch(ctx context.Context, t *TransactionContext, fs wt.FundingSource, profile UserProfile, rails rt.Dispatcher) (*rt.Result, error) {
	currency := t.ResolveCurrency(profile)

	switch t.Kind {
	case KindDomesticTransfer:
		if t.Recipient.PlatformID != "" {
			return rails.WalletTransfer(ctx, rt.WalletTransferRequest{
				Amount:      t.Amount,
				Currency:    currency,
				RecipientID: t.Recipient.PlatformID,
				Memo:        t.Description,
			})
		}
		return rails.DomesticTransfer(ctx, rt.DomesticTransferRequest{
			Amount:          t.Amount,
			Currency:        currency,
			Memo:            t.Description,
			RecipientName:   t.Recipient.Name,
			RecipientEmail:  t.Recipient.Email,
			RecipientPhone:  t.Recipient.Phone,
			FundingSourceID: string(fs),
		})

	case KindInternationalTransfer:
		// No sender identity on this rail.
		return rails.InternationalRemit(ctx, rt.InternationalRemitRequest{
			Amount:          t.Amount,
			Currency:        currency,
			Recipient:       remitRecipient(t.Recipient),
			FundingSourceID: string(fs),
			Memo:            t.Description,
		})

	case KindOutboundTransfer:
		return rails.OutboundRemit(ctx, rt.OutboundRemitRequest{
			Amount:          t.Amount,
			Currency:        currency,
			Recipient:       remitRecipient(t.Recipient),
			RoutingNumber:   t.Recipient.RoutingNumber,
			SwiftCode:       t.Recipient.SwiftCode,
			FundingSourceID: string(fs),
			Memo:            t.Description,
		})

	case KindGlobalTransfer:
		return rails.GlobalRemit(ctx, rt.GlobalRemitRequest{
			Amount:            t.Amount,
			Currency:          currency,
			Recipient:         remitRecipient(t.Recipient),
			SenderName:        profile.Name,
			SenderCountry:     profile.Country,
			SenderCustomerID:  profile.CustomerID,
			RecipientCurrency: CurrencyForCountry(t.Recipient.Country),
			FundingSourceID:   string(fs),
			Memo:              t.Description,
		})

	case KindBillPayment:
		return rails.PayBill(ctx, rt.BillPayRequest{
			BillID:          t.Bill.BillID(),
			BillType:        t.Bill.Type,
			BillerName:      t.Bill.BillerName,
			Reference:       t.Bill.Reference,
			Amount:          t.Amount,
			Currency:        currency,
			FundingSourceID: string(fs),
		})

	case KindAirtime, KindData:
		return rails.TopUp(ctx, rt.TopUpRequest{
			Service:         string(t.Kind),
			Provider:        t.Telecom.Provider,
			PhoneNumber:     t.Telecom.PhoneNumber,
			Amount:          t.Amount,
			Currency:        currency,
			FundingSourceID: string(fs),
		})

	case KindMerchantCheckout:
		return rails.SettleCheckout(ctx, rt.CheckoutSettlementRequest{
			MerchantID:      t.Merchant.MerchantID,
			Amount:          t.Amount,
			Currency:        currency,
			FundingSourceID: string(fs),
			Memo:            t.Description,
		})

	case KindBankTransfer:
		return rails.BankPayout(ctx, rt.BankPayoutRequest{
			AccountNumber:   t.Recipient.AccountNumber,
			BankName:        t.Recipient.BankName,
			BranchCode:      t.Recipient.BranchCode,
			Amount:          t.Amount,
			Currency:        currency,
			FundingSourceID: string(fs),
			Memo:            t.Description,
		})

	case KindQRPayment:
		return rails.InitiateQRPayment(ctx, rt.QRPaymentRequest{
			Reference:       t.QR.Reference,
			MerchantID:      t.QR.MerchantID,
			Amount:          t.Amount,
			Currency:        currency,
			FundingSourceID: string(fs),
		})

	case KindP2PSend:
		return rails.InternalTransfer(ctx, rt.InternalTransferRequest{
			RecipientEmail: t.Recipient.Email,
			Amount:         t.Amount,
			Currency:       currency,
			Memo:           t.Description,
		})

	default:
		return nil, &UnknownKindError{Kind: t.Kind}
	}
}

func remitRecipient(r *Recipient) rt.RemitRecipient {
	return rt.RemitRecipient{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Country:        r.Country,
		DeliveryMethod: string(r.DeliveryMethod),
		DeliveryPhone:  r.DeliveryPhone,
		AccountNumber:  r.AccountNumber,
		BankName:       r.BankName,
		Address:        r.Address,
		City:           r.City,
		WalletID:       r.WalletID,
		PlatformID:     r.PlatformID,
	}
}
