package intent_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"payflow/checkout"
	it "payflow/intent/intent"
	imem "payflow/intent/mem"
	smem "payflow/store/mem"
	st "payflow/store/store"
)

type fixture struct {
	scanner   *imem.Scanner
	validator *imem.Validator
	store     st.IntentStore
	lifecycle *it.Lifecycle

	materialized chan checkout.TransactionContext
	invalid      chan error
}

func newFixture() *fixture {
	f := &fixture{
		scanner:      imem.NewScanner(),
		validator:    imem.NewValidator(),
		store:        smem.NewInMemoryIntentStore(),
		materialized: make(chan checkout.TransactionContext, 1),
		invalid:      make(chan error, 4),
	}
	f.lifecycle = it.NewLifecycle(it.Config{
		Scanner:   f.scanner,
		Validator: f.validator,
		Store:     f.store,
		OnMaterialized: func(t checkout.TransactionContext) {
			f.materialized <- t
		},
		OnInvalid: func(err error) {
			f.invalid <- err
		},
	})
	return f
}

func validIntent(reference string) it.QRIntent {
	return it.QRIntent{
		Version:      1,
		Reference:    reference,
		MerchantID:   "mer_1",
		MerchantName: "Corner Shop",
		Amount:       decimal.RequireFromString("25"),
		Currency:     "GHS",
		ExpiresAt:    time.Now().Add(time.Hour),
		Signature:    "sig",
	}
}

func waitForState(t *testing.T, lc *it.Lifecycle, want it.State) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if lc.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %s, want %s", lc.State(), want)
}

func receiveInvalid(t *testing.T, f *fixture) error {
	t.Helper()
	select {
	case err := <-f.invalid:
		return err
	case <-time.After(time.Second):
		t.Fatal("no invalid notification received")
		return nil
	}
}

func TestLifecycleInvalidThenMaterialize(t *testing.T) {
	f := newFixture()
	f.validator.Register("good-payload", validIntent("ref_1"))

	if err := f.lifecycle.StartCapture(context.Background()); err != nil {
		t.Fatalf("StartCapture failed: %v", err)
	}

	// A garbage payload returns the flow to capturing, not to idle.
	f.scanner.Emit("garbage")
	if err := receiveInvalid(t, f); !errors.Is(err, it.ErrInvalidPayload) {
		t.Fatalf("invalid reason = %v, want ErrInvalidPayload", err)
	}
	waitForState(t, f.lifecycle, it.StateCapturing)
	if !f.scanner.Active() {
		t.Fatal("scanner must stay acquired while capturing continues")
	}

	// A valid payload materializes exactly once and releases the scanner.
	f.scanner.Emit("good-payload")
	select {
	case txn := <-f.materialized:
		if txn.Kind != checkout.KindQRPayment {
			t.Errorf("projected kind = %s, want qr_payment", txn.Kind)
		}
		if txn.QR == nil || txn.QR.Reference != "ref_1" {
			t.Errorf("projected qr details = %+v", txn.QR)
		}
		if !txn.Amount.Equal(decimal.RequireFromString("25")) {
			t.Errorf("projected amount = %s, want 25", txn.Amount)
		}
	case <-time.After(time.Second):
		t.Fatal("intent never materialized")
	}

	waitForState(t, f.lifecycle, it.StateMaterialized)
	deadline := time.Now().Add(time.Second)
	for f.scanner.Active() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if f.scanner.Active() {
		t.Error("scanner must be released after materialization")
	}
	if f.lifecycle.Reference() != "ref_1" {
		t.Errorf("reference = %q, want ref_1", f.lifecycle.Reference())
	}
}

func TestLifecycleExpiredIntentNeverMaterializes(t *testing.T) {
	f := newFixture()
	expired := validIntent("ref_expired")
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	f.validator.Register("expired-payload", expired)

	if err := f.lifecycle.StartCapture(context.Background()); err != nil {
		t.Fatalf("StartCapture failed: %v", err)
	}

	// Expiry beats a correct signature, and scanning the same code again
	// yields invalid again rather than materializing.
	for i := 0; i < 2; i++ {
		f.scanner.Emit("expired-payload")
		if err := receiveInvalid(t, f); !errors.Is(err, it.ErrExpired) {
			t.Fatalf("attempt %d: invalid reason = %v, want ErrExpired", i+1, err)
		}
		waitForState(t, f.lifecycle, it.StateCapturing)
	}

	select {
	case <-f.materialized:
		t.Fatal("expired intent must never materialize")
	default:
	}
	f.lifecycle.StopCapture()
}

func TestLifecycleConsumedReferenceRejected(t *testing.T) {
	f := newFixture()
	f.validator.Register("spent-payload", validIntent("ref_spent"))
	if err := f.store.Consume(context.Background(), "ref_spent", st.OutcomeDispatched); err != nil {
		t.Fatalf("seed consume failed: %v", err)
	}

	if err := f.lifecycle.StartCapture(context.Background()); err != nil {
		t.Fatalf("StartCapture failed: %v", err)
	}
	f.scanner.Emit("spent-payload")
	if err := receiveInvalid(t, f); !errors.Is(err, it.ErrAlreadyConsumed) {
		t.Fatalf("invalid reason = %v, want ErrAlreadyConsumed", err)
	}
	f.lifecycle.StopCapture()
}

func TestLifecycleStopReleasesScanner(t *testing.T) {
	f := newFixture()

	if err := f.lifecycle.StartCapture(context.Background()); err != nil {
		t.Fatalf("StartCapture failed: %v", err)
	}
	if err := f.lifecycle.StartCapture(context.Background()); err == nil {
		t.Fatal("StartCapture must fail while already capturing")
	}

	f.lifecycle.StopCapture()
	if f.scanner.Active() {
		t.Fatal("scanner must be released on abandon")
	}
	if f.lifecycle.State() != it.StateIdle {
		t.Fatalf("state = %s, want idle", f.lifecycle.State())
	}
	if f.scanner.Stops() == 0 {
		t.Error("scanner release was never recorded")
	}

	// The flow restarts cleanly after an abandon.
	if err := f.lifecycle.StartCapture(context.Background()); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	f.lifecycle.StopCapture()
}

func TestLifecycleCancelConsumesMaterializedReference(t *testing.T) {
	f := newFixture()
	f.validator.Register("good-payload", validIntent("ref_cancel"))

	if err := f.lifecycle.StartCapture(context.Background()); err != nil {
		t.Fatalf("StartCapture failed: %v", err)
	}
	f.scanner.Emit("good-payload")
	select {
	case <-f.materialized:
	case <-time.After(time.Second):
		t.Fatal("intent never materialized")
	}

	if err := f.lifecycle.Cancel(context.Background()); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	consumed, err := f.store.Consumed(context.Background(), "ref_cancel")
	if err != nil {
		t.Fatalf("Consumed failed: %v", err)
	}
	if !consumed {
		t.Error("cancelled reference must be consumed so it cannot be replayed")
	}
	if f.lifecycle.State() != it.StateIdle {
		t.Errorf("state = %s, want idle after cancel", f.lifecycle.State())
	}
}
