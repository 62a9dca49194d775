package mem

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	rt "payflow/rail/rail"
)

// Dispatcher is an in-memory rail implementation for dev mode and tests.
// It records the last request per operation and can be told to fail a
// specific operation with a given message.
type Dispatcher struct {
	mu       sync.Mutex
	calls    map[string]int
	last     map[string]any
	failures map[string]string
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		calls:    make(map[string]int),
		last:     make(map[string]any),
		failures: make(map[string]string),
	}
}

// FailWith makes the named operation fail with the given downstream message.
func (d *Dispatcher) FailWith(operation, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[operation] = message
}

// Calls returns how many times the named operation was invoked.
func (d *Dispatcher) Calls(operation string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[operation]
}

// LastRequest returns the most recent request sent to the named operation.
func (d *Dispatcher) LastRequest(operation string) any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last[operation]
}

func (d *Dispatcher) record(operation string, req any) (*rt.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls[operation]++
	d.last[operation] = req

	if msg, ok := d.failures[operation]; ok {
		return nil, &rt.DispatchError{Operation: operation, Message: msg}
	}
	return &rt.Result{
		Reference: uuid.NewString(),
		Status:    "accepted",
		Message:   fmt.Sprintf("%s accepted", operation),
	}, nil
}

func (d *Dispatcher) WalletTransfer(_ context.Context, req rt.WalletTransferRequest) (*rt.Result, error) {
	return d.record("wallet-transfer", req)
}

func (d *Dispatcher) DomesticTransfer(_ context.Context, req rt.DomesticTransferRequest) (*rt.Result, error) {
	return d.record("domestic-transfer", req)
}

func (d *Dispatcher) InternationalRemit(_ context.Context, req rt.InternationalRemitRequest) (*rt.Result, error) {
	return d.record("international-remit", req)
}

func (d *Dispatcher) OutboundRemit(_ context.Context, req rt.OutboundRemitRequest) (*rt.Result, error) {
	return d.record("outbound-remit", req)
}

func (d *Dispatcher) GlobalRemit(_ context.Context, req rt.GlobalRemitRequest) (*rt.Result, error) {
	return d.record("global-remit", req)
}

func (d *Dispatcher) PayBill(_ context.Context, req rt.BillPayRequest) (*rt.Result, error) {
	return d.record("bill-pay", req)
}

func (d *Dispatcher) TopUp(_ context.Context, req rt.TopUpRequest) (*rt.Result, error) {
	return d.record("top-up", req)
}

func (d *Dispatcher) SettleCheckout(_ context.Context, req rt.CheckoutSettlementRequest) (*rt.Result, error) {
	return d.record("checkout-settlement", req)
}

func (d *Dispatcher) BankPayout(_ context.Context, req rt.BankPayoutRequest) (*rt.Result, error) {
	return d.record("bank-payout", req)
}

func (d *Dispatcher) InitiateQRPayment(_ context.Context, req rt.QRPaymentRequest) (*rt.Result, error) {
	return d.record("qr-payment", req)
}

func (d *Dispatcher) InternalTransfer(_ context.Context, req rt.InternalTransferRequest) (*rt.Result, error) {
	return d.record("internal-transfer", req)
}
