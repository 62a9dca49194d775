package intent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"payflow/checkout"
	st "payflow/store/store"
)

// State names the lifecycle position of one capture flow.
type State string

const (
	StateIdle           State = "idle"
	StateCapturing      State = "capturing"
	StateCandidateFound State = "candidate_found"
	StateValidating     State = "validating"
	StateMaterialized   State = "materialized"
)

// Config wires the collaborators of one Lifecycle.
type Config struct {
	Scanner   Scanner
	Validator Validator
	Store     st.IntentStore

	// OnMaterialized receives the projected transaction context exactly once
	// per capture flow, after the scanner has been released.
	OnMaterialized func(checkout.TransactionContext)
	// OnInvalid, if set, is told about each rejected payload before the flow
	// returns to capturing.
	OnInvalid func(error)
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Lifecycle drives one QR capture flow: idle → capturing → candidate_found →
// validating → {materialized | capturing}. The scanner is held only between
// StartCapture and the flow's exit, and is released on every exit path.
// Materialized is terminal; the projected context joins the normal checkout
// pipeline from there.
type Lifecycle struct {
	scanner   Scanner
	validator Validator
	store     st.IntentStore
	now       func() time.Time

	onMaterialized func(checkout.TransactionContext)
	onInvalid      func(error)

	mu        sync.Mutex
	state     State
	reference string
	stop      context.CancelFunc
	done      chan struct{}
}

func NewLifecycle(cfg Config) *Lifecycle {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{
		scanner:        cfg.Scanner,
		validator:      cfg.Validator,
		store:          cfg.Store,
		now:            now,
		onMaterialized: cfg.OnMaterialized,
		onInvalid:      cfg.OnInvalid,
		state:          StateIdle,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Reference returns the single-use reference of the materialized intent, or
// empty when nothing has materialized.
func (l *Lifecycle) Reference() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reference
}

// StartCapture acquires the scanner and begins consuming payloads. Only
// valid from idle.
func (l *Lifecycle) StartCapture(ctx context.Context) error {
	l.mu.Lock()
	if l.state != StateIdle {
		state := l.state
		l.mu.Unlock()
		return fmt.Errorf("cannot start capture from state %q", state)
	}

	scanCtx, cancel := context.WithCancel(ctx)
	payloads, err := l.scanner.Start(scanCtx)
	if err != nil {
		cancel()
		l.mu.Unlock()
		return fmt.Errorf("failed to acquire scanner: %w", err)
	}

	done := make(chan struct{})
	l.state = StateCapturing
	l.stop = cancel
	l.done = done
	l.mu.Unlock()

	go l.captureLoop(scanCtx, payloads, done)
	return nil
}

// captureLoop consumes payloads until one materializes, the scanner channel
// closes, or the context is cancelled. The scanner is released before the
// loop exits, whatever the exit path.
func (l *Lifecycle) captureLoop(ctx context.Context, payloads <-chan string, done chan struct{}) {
	defer close(done)
	defer l.release()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-payloads:
			if !ok {
				return
			}

			l.setState(StateCandidateFound)
			l.setState(StateValidating)

			qi, err := l.Evaluate(ctx, raw)
			if err != nil {
				// Invalid, expired or consumed: back to capturing so the
				// user retries without restarting the flow.
				if l.onInvalid != nil {
					l.onInvalid(err)
				}
				l.setState(StateCapturing)
				continue
			}

			l.materialize(qi)
			return
		}
	}
}

// Evaluate runs the full acceptance check on one raw payload.
func (l *Lifecycle) Evaluate(ctx context.Context, raw string) (*QRIntent, error) {
	return EvaluatePayload(ctx, l.validator, l.store, l.now(), raw)
}

// EvaluatePayload runs the acceptance check on one raw payload: validation
// service first, then expiry, then the single-use ledger.
func EvaluatePayload(ctx context.Context, v Validator, ledger st.IntentStore, now time.Time, raw string) (*QRIntent, error) {
	qi, err := v.Validate(ctx, raw)
	if err != nil {
		return nil, err
	}
	if qi.Expired(now) {
		return nil, ErrExpired
	}
	consumed, err := ledger.Consumed(ctx, qi.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to check intent reference: %w", err)
	}
	if consumed {
		return nil, ErrAlreadyConsumed
	}
	return qi, nil
}

// materialize projects the intent into a transaction context exactly once.
func (l *Lifecycle) materialize(qi *QRIntent) {
	l.mu.Lock()
	if l.state == StateMaterialized {
		l.mu.Unlock()
		return
	}
	l.state = StateMaterialized
	l.reference = qi.Reference
	l.mu.Unlock()

	if l.onMaterialized != nil {
		l.onMaterialized(Project(qi))
	}
}

// release stops the scanner and, unless the flow materialized, returns the
// lifecycle to idle.
func (l *Lifecycle) release() {
	_ = l.scanner.Stop()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		l.stop()
		l.stop = nil
	}
	if l.state != StateMaterialized {
		l.state = StateIdle
	}
}

// StopCapture abandons an in-progress capture and waits for the scanner to
// be released. A no-op when nothing is capturing.
func (l *Lifecycle) StopCapture() {
	l.mu.Lock()
	stop := l.stop
	done := l.done
	l.mu.Unlock()

	if stop != nil {
		stop()
	}
	_ = l.scanner.Stop()
	if done != nil {
		<-done
	}
}

// Cancel abandons the flow entirely. A materialized intent's reference is
// consumed as cancelled so the code cannot be replayed later; the lifecycle
// then returns to idle.
func (l *Lifecycle) Cancel(ctx context.Context) error {
	l.StopCapture()

	l.mu.Lock()
	reference := l.reference
	materialized := l.state == StateMaterialized
	l.state = StateIdle
	l.reference = ""
	l.done = nil
	l.mu.Unlock()

	if materialized && reference != "" {
		err := l.store.Consume(ctx, reference, st.OutcomeCancelled)
		if err != nil && !errors.Is(err, st.ErrAlreadyConsumed) {
			return fmt.Errorf("failed to consume cancelled intent: %w", err)
		}
	}
	return nil
}

func (l *Lifecycle) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// Project shapes a validated intent into the transaction context that joins
// the checkout pipeline.
func Project(qi *QRIntent) checkout.TransactionContext {
	return checkout.TransactionContext{
		Kind:     checkout.KindQRPayment,
		Amount:   qi.Amount,
		Currency: qi.Currency,
		QR: &checkout.QRDetails{
			Reference:    qi.Reference,
			MerchantID:   qi.MerchantID,
			MerchantName: qi.MerchantName,
			ExpiresAt:    qi.ExpiresAt,
		},
	}
}
