package checkout

import (
	"context"
	"errors"
	"testing"

	rmem "payflow/rail/mem"
	rt "payflow/rail/rail"
	wt "payflow/wallet/wallet"
)

func testProfile() UserProfile {
	return UserProfile{
		CustomerID:        "cus_1",
		Name:              "Kwame Boateng",
		Country:           "US",
		PreferredCurrency: "USD",
	}
}

func TestDispatchGlobalVsOutboundShapes(t *testing.T) {
	recipient := func() *Recipient {
		return &Recipient{
			Name:           "Ama Mensah",
			Email:          "ama@example.com",
			Country:        "GH",
			DeliveryMethod: DeliveryBankAccount,
			AccountNumber:  "0011223344",
			BankName:       "GCB",
			RoutingNumber:  "021000021",
			SwiftCode:      "GHCBGHAC",
		}
	}
	fs := wt.FundingSource("fs_1")
	rails := rmem.NewDispatcher()

	globalTxn := &TransactionContext{Kind: KindGlobalTransfer, Amount: amt("75"), Recipient: recipient()}
	if _, err := Dispatch(context.Background(), globalTxn, fs, testProfile(), rails); err != nil {
		t.Fatalf("global dispatch failed: %v", err)
	}
	globalReq, ok := rails.LastRequest("global-remit").(rt.GlobalRemitRequest)
	if !ok {
		t.Fatalf("global-remit not called with GlobalRemitRequest: %T", rails.LastRequest("global-remit"))
	}
	if globalReq.SenderName != "Kwame Boateng" || globalReq.SenderCountry != "US" || globalReq.SenderCustomerID != "cus_1" {
		t.Errorf("global request missing sender identity: %+v", globalReq)
	}
	if globalReq.RecipientCurrency != "GHS" {
		t.Errorf("global recipient currency = %q, want GHS (derived from GH)", globalReq.RecipientCurrency)
	}

	outboundTxn := &TransactionContext{Kind: KindOutboundTransfer, Amount: amt("75"), Recipient: recipient()}
	if _, err := Dispatch(context.Background(), outboundTxn, fs, testProfile(), rails); err != nil {
		t.Fatalf("outbound dispatch failed: %v", err)
	}
	outboundReq, ok := rails.LastRequest("outbound-remit").(rt.OutboundRemitRequest)
	if !ok {
		t.Fatalf("outbound-remit not called with OutboundRemitRequest: %T", rails.LastRequest("outbound-remit"))
	}
	if outboundReq.RoutingNumber != "021000021" || outboundReq.SwiftCode != "GHCBGHAC" {
		t.Errorf("outbound request missing routing/SWIFT: %+v", outboundReq)
	}

	// International shares the recipient block but has no sender identity
	// and no routing fields by construction of its request type.
	intlTxn := &TransactionContext{Kind: KindInternationalTransfer, Amount: amt("75"), Recipient: recipient()}
	if _, err := Dispatch(context.Background(), intlTxn, fs, testProfile(), rails); err != nil {
		t.Fatalf("international dispatch failed: %v", err)
	}
	if rails.Calls("international-remit") != 1 {
		t.Error("international transfer must hit the international-remit operation")
	}
}

func TestDispatchBillPayEndToEnd(t *testing.T) {
	rails := rmem.NewDispatcher()
	txn := &TransactionContext{
		Kind:   KindBillPayment,
		Amount: amt("50"),
		Bill:   &BillDetails{Type: "electricity", BillerName: "X", Reference: "123"},
	}
	fs := wt.FundingSource("fs_1")

	if ferr := Validate(txn, fs); ferr != nil {
		t.Fatalf("expected valid context, got %v", ferr)
	}
	if _, err := Dispatch(context.Background(), txn, fs, testProfile(), rails); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	req, ok := rails.LastRequest("bill-pay").(rt.BillPayRequest)
	if !ok {
		t.Fatalf("bill-pay not called with BillPayRequest: %T", rails.LastRequest("bill-pay"))
	}
	if req.BillID != "electricity-123" {
		t.Errorf("bill id = %q, want electricity-123", req.BillID)
	}
	if req.FundingSourceID != "fs_1" {
		t.Errorf("funding source = %q, want fs_1", req.FundingSourceID)
	}
}

func TestDispatchDomesticSplit(t *testing.T) {
	rails := rmem.NewDispatcher()
	fs := wt.FundingSource("fs_1")

	platform := &TransactionContext{
		Kind:      KindDomesticTransfer,
		Amount:    amt("10"),
		Recipient: &Recipient{PlatformID: "acct_9"},
	}
	if _, err := Dispatch(context.Background(), platform, fs, testProfile(), rails); err != nil {
		t.Fatalf("wallet transfer failed: %v", err)
	}
	if rails.Calls("wallet-transfer") != 1 || rails.Calls("domestic-transfer") != 0 {
		t.Error("platform recipient must route to the wallet-transfer operation")
	}

	generic := &TransactionContext{
		Kind:      KindDomesticTransfer,
		Amount:    amt("10"),
		Recipient: &Recipient{Name: "Kofi", Email: "k@example.com"},
	}
	if _, err := Dispatch(context.Background(), generic, fs, testProfile(), rails); err != nil {
		t.Fatalf("domestic transfer failed: %v", err)
	}
	if rails.Calls("domestic-transfer") != 1 {
		t.Error("external recipient must route to the domestic-transfer operation")
	}
}

func TestDispatchTopUpParameterizedByKind(t *testing.T) {
	rails := rmem.NewDispatcher()
	fs := wt.FundingSource("fs_1")
	tel := &TelecomDetails{Provider: "mtn", PhoneNumber: "+233201234567"}

	for _, kind := range []Kind{KindAirtime, KindData} {
		txn := &TransactionContext{Kind: kind, Amount: amt("5"), Telecom: tel}
		if _, err := Dispatch(context.Background(), txn, fs, testProfile(), rails); err != nil {
			t.Fatalf("%s dispatch failed: %v", kind, err)
		}
		req := rails.LastRequest("top-up").(rt.TopUpRequest)
		if req.Service != string(kind) {
			t.Errorf("top-up service = %q, want %q", req.Service, kind)
		}
	}
	if rails.Calls("top-up") != 2 {
		t.Errorf("top-up calls = %d, want 2", rails.Calls("top-up"))
	}
}

func TestDispatchDownstreamFailure(t *testing.T) {
	rails := rmem.NewDispatcher()
	rails.FailWith("bill-pay", "biller unavailable")

	txn := &TransactionContext{
		Kind:   KindBillPayment,
		Amount: amt("50"),
		Bill:   &BillDetails{Type: "electricity", BillerName: "X", Reference: "123"},
	}
	_, err := Dispatch(context.Background(), txn, wt.FundingSource("fs_1"), testProfile(), rails)
	var derr *rt.DispatchError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DispatchError, got %v", err)
	}
	if derr.Message != "biller unavailable" {
		t.Errorf("downstream message not preserved: %q", derr.Message)
	}
}

func TestDispatchUnknownKind(t *testing.T) {
	rails := rmem.NewDispatcher()
	txn := &TransactionContext{Kind: Kind("lottery"), Amount: amt("5")}

	_, err := Dispatch(context.Background(), txn, wt.FundingSource("fs_1"), testProfile(), rails)
	var uerr *UnknownKindError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnknownKindError, got %v", err)
	}
}
