package store

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyConsumed is returned when a single-use QR reference is consumed
// a second time.
var ErrAlreadyConsumed = errors.New("intent reference already consumed")

// Outcome records how a QR intent reached its terminal state.
type Outcome string

const (
	OutcomeDispatched Outcome = "dispatched"
	OutcomeCancelled  Outcome = "cancelled"
)

// Consumption is the ledger entry for one spent QR reference.
type Consumption struct {
	Reference  string
	Outcome    Outcome
	ConsumedAt time.Time
}

// IntentStore is the single-use ledger for QR intent references. A reference
// is consumed exactly once, by successful dispatch or by explicit
// cancellation, and never reused after that.
type IntentStore interface {
	// Consume marks a reference as spent. Returns ErrAlreadyConsumed if it
	// was spent before.
	Consume(ctx context.Context, reference string, outcome Outcome) error
	// Consumed reports whether a reference has been spent.
	Consumed(ctx context.Context, reference string) (bool, error)
}
