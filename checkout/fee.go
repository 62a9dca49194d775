package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	pt "payflow/pricing/pricing"
)

var decimalZero = decimal.Zero

// FeeQuote is the priced cost estimate for one (kind, amount, currency,
// country) combination. Degraded marks a fallback quote produced while the
// pricing service was unreachable; it must never masquerade as authoritative.
type FeeQuote struct {
	Kind     Kind
	Amount   decimal.Decimal
	Fee      decimal.Decimal
	Currency string
	Country  string
	Degraded bool
	QuotedAt time.Time
}

// Total is the amount payable: amount plus fee.
func (q *FeeQuote) Total() decimal.Decimal {
	return q.Amount.Add(q.Fee)
}

// feeRequest tracks one in-flight resolution. Its done channel is closed
// when the resolution completes, whether or not it is still the latest.
type feeRequest struct {
	seq  uint64
	done chan struct{}
}

// FeeResolver computes quotes asynchronously. At most one request is
// "current": a newer request supersedes an older one, and a stale result
// arriving after a newer request is discarded at apply time (last-request-
// wins via the sequence number, no cancellation of in-flight calls).
//
// It never surfaces pricing failures: those produce a fallback quote with
// fee = max(amount x rate, floor) and Degraded set.
type FeeResolver struct {
	client  pt.Client
	rate    decimal.Decimal
	floor   decimal.Decimal
	timeout time.Duration
	now     func() time.Time

	mu     sync.Mutex
	seq    uint64
	latest *feeRequest
	quote  *FeeQuote
}

func NewFeeResolver(client pt.Client, rate, floor decimal.Decimal, timeout time.Duration) *FeeResolver {
	return &FeeResolver{
		client:  client,
		rate:    rate,
		floor:   floor,
		timeout: timeout,
		now:     time.Now,
	}
}

// Request starts a background resolution for the given inputs. Call it on
// every change to kind, amount, currency or recipient country; it does not
// block and never returns an error.
func (r *FeeResolver) Request(kind Kind, amount decimal.Decimal, currency, country string) {
	r.mu.Lock()
	r.seq++
	req := &feeRequest{seq: r.seq, done: make(chan struct{})}
	r.latest = req
	r.mu.Unlock()

	go func() {
		quote := r.resolve(kind, amount, currency, country)

		r.mu.Lock()
		if r.latest != nil && req.seq == r.latest.seq {
			r.quote = &quote
		}
		r.mu.Unlock()
		close(req.done)
	}()
}

// resolve performs one pricing call, substituting the fallback quote on any
// failure.
func (r *FeeResolver) resolve(kind Kind, amount decimal.Decimal, currency, country string) FeeQuote {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	priced, err := r.client.Quote(ctx, pt.QuoteRequest{
		Kind:     string(kind),
		Amount:   amount,
		Currency: currency,
		Country:  country,
	})
	if err != nil {
		return FeeQuote{
			Kind:     kind,
			Amount:   amount,
			Fee:      r.fallbackFee(amount),
			Currency: currency,
			Country:  country,
			Degraded: true,
			QuotedAt: r.now(),
		}
	}

	return FeeQuote{
		Kind:     kind,
		Amount:   amount,
		Fee:      priced.Fee,
		Currency: currency,
		Country:  country,
		QuotedAt: r.now(),
	}
}

// fallbackFee is the floor used when the pricing service is unreachable:
// max(amount x rate, floor).
func (r *FeeResolver) fallbackFee(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(r.rate).Round(2)
	if fee.LessThan(r.floor) {
		return r.floor
	}
	return fee
}

// Current returns the quote in effect, which is always the most recently
// requested one to have resolved. Nil until the first resolution completes.
func (r *FeeResolver) Current() *FeeQuote {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.quote == nil {
		return nil
	}
	q := *r.quote
	return &q
}

// Wait blocks until the latest requested resolution has completed, then
// returns the quote in effect. Submit uses it so a checkout never executes
// against a stale or missing quote.
func (r *FeeResolver) Wait(ctx context.Context) (*FeeQuote, error) {
	for {
		r.mu.Lock()
		req := r.latest
		r.mu.Unlock()

		if req == nil {
			return r.Current(), nil
		}

		select {
		case <-req.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		r.mu.Lock()
		stillLatest := r.latest == nil || r.latest.seq == req.seq
		r.mu.Unlock()
		if stillLatest {
			return r.Current(), nil
		}
		// A newer request arrived while waiting; wait for that one instead.
	}
}
