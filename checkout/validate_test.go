package checkout

import (
	"testing"

	"github.com/shopspring/decimal"

	wt "payflow/wallet/wallet"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validRemitRecipient() *Recipient {
	return &Recipient{
		Name:           "Ama Mensah",
		Email:          "ama@example.com",
		Country:        "GH",
		DeliveryMethod: DeliveryMobileMoney,
		DeliveryPhone:  "+233201234567",
	}
}

func TestValidateAmountRuleFirst(t *testing.T) {
	// The amount rule must win for every kind, even when the rest of the
	// context is also incomplete.
	kinds := []Kind{
		KindDomesticTransfer, KindInternationalTransfer, KindOutboundTransfer,
		KindGlobalTransfer, KindBillPayment, KindAirtime, KindData,
		KindMerchantCheckout, KindBankTransfer, KindQRPayment, KindP2PSend,
	}
	amounts := []decimal.Decimal{amt("0"), amt("-5")}

	for _, kind := range kinds {
		for _, amount := range amounts {
			txn := &TransactionContext{Kind: kind, Amount: amount}
			ferr := Validate(txn, wt.None)
			if ferr == nil {
				t.Fatalf("kind %s amount %s: expected a validation error", kind, amount)
			}
			if ferr.Field != "amount" {
				t.Errorf("kind %s amount %s: got field %q, want %q", kind, amount, ferr.Field, "amount")
			}
		}
	}
}

func TestValidateKindRules(t *testing.T) {
	tests := []struct {
		name      string
		txn       *TransactionContext
		fs        wt.FundingSource
		wantField string // empty means valid
	}{
		{
			name: "domestic platform recipient needs no funding source",
			txn: &TransactionContext{
				Kind:      KindDomesticTransfer,
				Amount:    amt("10"),
				Recipient: &Recipient{PlatformID: "acct_9"},
			},
			fs: wt.None,
		},
		{
			name: "domestic external recipient needs contact",
			txn: &TransactionContext{
				Kind:      KindDomesticTransfer,
				Amount:    amt("10"),
				Recipient: &Recipient{Name: "Kofi"},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "recipient.contact",
		},
		{
			name: "domestic external recipient needs name",
			txn: &TransactionContext{
				Kind:      KindDomesticTransfer,
				Amount:    amt("10"),
				Recipient: &Recipient{Email: "k@example.com"},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "recipient.name",
		},
		{
			name: "international mobile money without delivery phone fails on that field",
			txn: &TransactionContext{
				Kind:   KindInternationalTransfer,
				Amount: amt("50"),
				Recipient: &Recipient{
					Name:           "Ama Mensah",
					Email:          "ama@example.com",
					Country:        "GH",
					DeliveryMethod: DeliveryMobileMoney,
				},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "recipient.deliveryPhone",
		},
		{
			name: "international complete",
			txn: &TransactionContext{
				Kind:      KindInternationalTransfer,
				Amount:    amt("50"),
				Recipient: validRemitRecipient(),
			},
			fs: wt.FundingSource("fs_1"),
		},
		{
			name: "outbound missing country fails before delivery rules",
			txn: &TransactionContext{
				Kind:   KindOutboundTransfer,
				Amount: amt("50"),
				Recipient: &Recipient{
					Name:           "Ama Mensah",
					Email:          "ama@example.com",
					DeliveryMethod: DeliveryBankAccount,
				},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "recipient.country",
		},
		{
			name: "global platform wallet delivery implies wallet funding",
			txn: &TransactionContext{
				Kind:   KindGlobalTransfer,
				Amount: amt("75"),
				Recipient: &Recipient{
					Name:           "Ama Mensah",
					Email:          "ama@example.com",
					Country:        "GH",
					DeliveryMethod: DeliveryPlatformWallet,
					PlatformID:     "acct_12",
				},
			},
			fs: wt.None,
		},
		{
			name: "bank account delivery needs account number",
			txn: &TransactionContext{
				Kind:   KindGlobalTransfer,
				Amount: amt("75"),
				Recipient: &Recipient{
					Name:           "Ama Mensah",
					Email:          "ama@example.com",
					Country:        "GH",
					DeliveryMethod: DeliveryBankAccount,
					BankName:       "GCB",
				},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "recipient.accountNumber",
		},
		{
			name: "cash pickup needs city",
			txn: &TransactionContext{
				Kind:   KindInternationalTransfer,
				Amount: amt("75"),
				Recipient: &Recipient{
					Name:           "Ama Mensah",
					Phone:          "+233201234567",
					Country:        "GH",
					DeliveryMethod: DeliveryCashPickup,
					Address:        "12 Ring Road",
				},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "recipient.city",
		},
		{
			name: "bill payment needs reference",
			txn: &TransactionContext{
				Kind:   KindBillPayment,
				Amount: amt("50"),
				Bill:   &BillDetails{Type: "electricity", BillerName: "ECG"},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "bill.reference",
		},
		{
			name: "bill payment complete",
			txn: &TransactionContext{
				Kind:   KindBillPayment,
				Amount: amt("50"),
				Bill:   &BillDetails{Type: "electricity", BillerName: "ECG", Reference: "123"},
			},
			fs: wt.FundingSource("fs_1"),
		},
		{
			name: "airtime needs phone number",
			txn: &TransactionContext{
				Kind:    KindAirtime,
				Amount:  amt("5"),
				Telecom: &TelecomDetails{Provider: "mtn"},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "telecom.phoneNumber",
		},
		{
			name: "data needs provider",
			txn: &TransactionContext{
				Kind:    KindData,
				Amount:  amt("5"),
				Telecom: &TelecomDetails{PhoneNumber: "+233201234567"},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "telecom.provider",
		},
		{
			name: "merchant checkout needs merchant id",
			txn: &TransactionContext{
				Kind:     KindMerchantCheckout,
				Amount:   amt("20"),
				Merchant: &MerchantDetails{MerchantName: "Shop"},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "merchant.merchantId",
		},
		{
			name: "bank transfer needs bank name",
			txn: &TransactionContext{
				Kind:      KindBankTransfer,
				Amount:    amt("20"),
				Recipient: &Recipient{AccountNumber: "0011223344"},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "recipient.bankName",
		},
		{
			name: "qr payment without details blocked",
			txn: &TransactionContext{
				Kind:   KindQRPayment,
				Amount: amt("25"),
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "qrDetails",
		},
		{
			name: "p2p recipient must be internal",
			txn: &TransactionContext{
				Kind:      KindP2PSend,
				Amount:    amt("15"),
				Recipient: &Recipient{Email: "friend@example.com"},
			},
			fs:        wt.FundingSource("fs_1"),
			wantField: "recipient.internal",
		},
		{
			name: "funding source required last",
			txn: &TransactionContext{
				Kind:   KindBillPayment,
				Amount: amt("50"),
				Bill:   &BillDetails{Type: "water", BillerName: "GWC", Reference: "88"},
			},
			fs:        wt.None,
			wantField: "fundingSource",
		},
		{
			name:      "unknown kind rejected",
			txn:       &TransactionContext{Kind: Kind("lottery"), Amount: amt("5")},
			fs:        wt.FundingSource("fs_1"),
			wantField: "kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ferr := Validate(tt.txn, tt.fs)
			if tt.wantField == "" {
				if ferr != nil {
					t.Fatalf("expected valid, got %v", ferr)
				}
				return
			}
			if ferr == nil {
				t.Fatalf("expected error on field %q, got nil", tt.wantField)
			}
			if ferr.Field != tt.wantField {
				t.Errorf("got field %q (%s), want %q", ferr.Field, ferr.Message, tt.wantField)
			}
		})
	}
}
