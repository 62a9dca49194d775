package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payflow/libs/diff"
	"payflow/logger"
	"payflow/mq/mq"
	rt "payflow/rail/rail"
	st "payflow/store/store"
	wt "payflow/wallet/wallet"
)

// OutcomeStatus discriminates the three terminal results of a submit.
type OutcomeStatus string

const (
	StatusSuccess         OutcomeStatus = "success"
	StatusValidationError OutcomeStatus = "validation_error"
	StatusDispatchError   OutcomeStatus = "dispatch_error"
)

// Outcome is the single result of one submit attempt: exactly one of
// success (Result set), validation error (Field and Message set) or
// dispatch error (Message set).
type Outcome struct {
	Status  OutcomeStatus
	Result  *rt.Result
	Field   string
	Message string
}

// feeInputs are the context fields whose change re-triggers fee resolution.
type feeInputs struct {
	Kind     Kind
	Amount   decimal.Decimal
	Currency string
	Country  string
}

var differ = diff.GetCustomDiffer()

// Session owns one checkout attempt end to end: the transaction context,
// the funding-source selection, the fee resolver, and the single in-flight
// dispatch guarantee. The funding source is the only state that survives a
// context change, and only within the same kind category.
type Session struct {
	ID uuid.UUID

	profile UserProfile
	fees    *FeeResolver
	rails   rt.Dispatcher
	intents st.IntentStore
	events  mq.CheckoutEventQueueWrapper

	mu         sync.Mutex
	txn        *TransactionContext
	fs         wt.FundingSource
	autoFired  bool
	submitting bool
	lastInputs *feeInputs
}

// NewSession creates a session for one customer. events may be nil when no
// queue backend is configured.
func NewSession(profile UserProfile, fees *FeeResolver, rails rt.Dispatcher, intents st.IntentStore, events mq.CheckoutEventQueueWrapper) *Session {
	return &Session{
		ID:      uuid.New(),
		profile: profile,
		fees:    fees,
		rails:   rails,
		intents: intents,
		events:  events,
	}
}

// SetContext replaces the transaction context. A category change clears the
// funding-source selection and re-arms the auto-process trigger; a change to
// any fee input starts a background fee resolution.
func (s *Session) SetContext(t TransactionContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.txn == nil || s.txn.Kind.Category() != t.Kind.Category() {
		s.fs = wt.None
		s.autoFired = false
	}

	inputs := &feeInputs{
		Kind:     t.Kind,
		Amount:   t.Amount,
		Currency: t.ResolveCurrency(s.profile),
		Country:  t.RecipientCountry(),
	}
	if s.feeInputsChanged(inputs) {
		s.fees.Request(inputs.Kind, inputs.Amount, inputs.Currency, inputs.Country)
		s.lastInputs = inputs
	}

	s.txn = &t
}

// feeInputsChanged compares against the last requested inputs with the
// decimal-aware differ.
func (s *Session) feeInputsChanged(inputs *feeInputs) bool {
	if s.lastInputs == nil {
		return true
	}
	changes, err := differ.Diff(*s.lastInputs, *inputs)
	if err != nil {
		logger.L.Warn("fee input diff failed, re-requesting", "error", err)
		return true
	}
	return len(changes) > 0
}

// SetFundingSource records the selection and fires the one-shot auto-process
// trigger: when a funding source becomes selected while validation passes,
// submit runs once automatically. The trigger never re-fires until a
// category change re-arms it. Returns the submit outcome when it fired,
// nil otherwise.
func (s *Session) SetFundingSource(ctx context.Context, fs wt.FundingSource) *Outcome {
	s.mu.Lock()
	s.fs = fs

	fire := fs.IsSelected() && !s.autoFired && s.txn != nil && Validate(s.txn, fs) == nil
	if fire {
		s.autoFired = true
	}
	s.mu.Unlock()

	if !fire {
		return nil
	}
	out := s.Submit(ctx)
	return &out
}

// Submit runs one checkout attempt: wait for the latest fee quote, validate,
// dispatch, and translate the result. Not re-entrant; a submit while another
// is outstanding returns a dispatch error without touching the rails.
func (s *Session) Submit(ctx context.Context) Outcome {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return Outcome{Status: StatusDispatchError, Message: "checkout already in progress"}
	}
	if s.txn == nil {
		s.mu.Unlock()
		return Outcome{Status: StatusValidationError, Field: "context", Message: "no transaction context set"}
	}
	s.submitting = true
	txn := *s.txn
	fs := s.fs
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if _, err := s.fees.Wait(ctx); err != nil {
		return Outcome{Status: StatusDispatchError, Message: "fee resolution interrupted: " + err.Error()}
	}

	if ferr := Validate(&txn, fs); ferr != nil {
		return Outcome{Status: StatusValidationError, Field: ferr.Field, Message: ferr.Message}
	}

	result, err := Dispatch(ctx, &txn, fs, s.profile, s.rails)
	if err != nil {
		msg := err.Error()
		var derr *rt.DispatchError
		if errors.As(err, &derr) {
			msg = derr.Message
		}
		s.publish(mq.ActionFailed, &txn, "", msg)
		return Outcome{Status: StatusDispatchError, Message: msg}
	}

	if txn.Kind == KindQRPayment {
		s.consumeIntent(ctx, txn.QR.Reference)
	}

	s.publish(mq.ActionDispatched, &txn, result.Reference, result.Message)
	return Outcome{Status: StatusSuccess, Result: result}
}

// consumeIntent spends the single-use QR reference after a successful
// dispatch. A reference consumed by a concurrent flow is logged, not
// surfaced: the dispatch already happened.
func (s *Session) consumeIntent(ctx context.Context, reference string) {
	err := s.intents.Consume(ctx, reference, st.OutcomeDispatched)
	if err != nil && !errors.Is(err, st.ErrAlreadyConsumed) {
		logger.L.Error("failed to consume qr intent reference",
			"reference", reference, "error", err)
		return
	}
	if errors.Is(err, st.ErrAlreadyConsumed) {
		logger.L.Warn("qr intent reference consumed concurrently", "reference", reference)
	}
}

func (s *Session) publish(action mq.Action, t *TransactionContext, reference, message string) {
	if s.events == nil {
		return
	}
	queue := s.events.GetCheckoutEventQueue(action)
	if queue == nil {
		return
	}
	err := queue.Publish(mq.CheckoutEventMessage{
		ID:         uuid.New(),
		SessionID:  s.ID,
		Kind:       string(t.Kind),
		Amount:     t.Amount,
		Currency:   t.ResolveCurrency(s.profile),
		Reference:  reference,
		Message:    message,
		OccurredAt: time.Now(),
	})
	if err != nil {
		logger.L.Error("failed to publish checkout event", "action", int(action), "error", err)
	}
}

// CurrentFeeQuote returns the fee quote in effect, nil before the first
// resolution completes.
func (s *Session) CurrentFeeQuote() *FeeQuote {
	return s.fees.Current()
}

// WaitForFee blocks until the latest requested fee resolution completes and
// returns the quote in effect.
func (s *Session) WaitForFee(ctx context.Context) (*FeeQuote, error) {
	return s.fees.Wait(ctx)
}

// ValidationError recomputes the first violated rule on demand. Nil when the
// current context and funding source would pass.
func (s *Session) ValidationError() *FieldError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.txn == nil {
		return fieldErr("context", "no transaction context set")
	}
	return Validate(s.txn, s.fs)
}

// FundingSource returns the current selection.
func (s *Session) FundingSource() wt.FundingSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs
}

// Context returns a copy of the current transaction context, nil when unset.
func (s *Session) Context() *TransactionContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.txn == nil {
		return nil
	}
	t := *s.txn
	return &t
}
