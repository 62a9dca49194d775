package checkout

import "testing"

func TestResolveCurrency(t *testing.T) {
	tests := []struct {
		name    string
		txn     TransactionContext
		profile UserProfile
		want    string
	}{
		{
			name:    "explicit currency wins",
			txn:     TransactionContext{Currency: "GHS"},
			profile: UserProfile{PreferredCurrency: "NGN", Country: "KE"},
			want:    "GHS",
		},
		{
			name:    "preferred currency beats country default",
			txn:     TransactionContext{},
			profile: UserProfile{PreferredCurrency: "NGN", Country: "KE"},
			want:    "NGN",
		},
		{
			name:    "country default",
			txn:     TransactionContext{},
			profile: UserProfile{Country: "KE"},
			want:    "KES",
		},
		{
			name:    "unknown country falls back to USD",
			txn:     TransactionContext{},
			profile: UserProfile{Country: "ZZ"},
			want:    "USD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.txn.ResolveCurrency(tt.profile); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindCategory(t *testing.T) {
	if got := KindAirtime.Category(); got != CategoryTelecom {
		t.Errorf("airtime category = %s, want %s", got, CategoryTelecom)
	}
	if got := KindData.Category(); got != CategoryTelecom {
		t.Errorf("data category = %s, want %s", got, CategoryTelecom)
	}
	if got := KindQRPayment.Category(); got != CategoryQR {
		t.Errorf("qr category = %s, want %s", got, CategoryQR)
	}
	if Kind("lottery").Valid() {
		t.Error("unknown kind must not be valid")
	}
}

func TestBillID(t *testing.T) {
	b := &BillDetails{Type: "electricity", BillerName: "ECG", Reference: "123"}
	if got := b.BillID(); got != "electricity-123" {
		t.Errorf("BillID = %q, want %q", got, "electricity-123")
	}
}
