package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	pt "payflow/pricing/pricing"
)

// gatedPricing blocks selected quotes until their gate is released, so tests
// can control the order in which responses arrive.
type gatedPricing struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newGatedPricing() *gatedPricing {
	return &gatedPricing{gates: make(map[string]chan struct{})}
}

// holdAmount makes quotes for the given amount block until the returned
// channel is closed.
func (c *gatedPricing) holdAmount(amount string) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	g := make(chan struct{})
	c.gates[amount] = g
	return g
}

func (c *gatedPricing) Quote(ctx context.Context, req pt.QuoteRequest) (pt.Quote, error) {
	c.mu.Lock()
	gate := c.gates[req.Amount.String()]
	c.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return pt.Quote{}, ctx.Err()
		}
	}
	// Fee is 10% of the amount so tests can tell quotes apart.
	return pt.Quote{Fee: req.Amount.Div(decimal.NewFromInt(10)), Currency: req.Currency}, nil
}

type failingPricing struct{}

func (failingPricing) Quote(context.Context, pt.QuoteRequest) (pt.Quote, error) {
	return pt.Quote{}, errors.New("pricing timeout")
}

func newTestResolver(client pt.Client) *FeeResolver {
	return NewFeeResolver(client, amt("0.015"), amt("1.00"), 2*time.Second)
}

func TestFeeSupersession(t *testing.T) {
	client := newGatedPricing()
	r := newTestResolver(client)

	// R1 (amount=10) is held so its response arrives after R2 (amount=20)
	// has already resolved.
	gate := client.holdAmount("10")
	r.Request(KindDomesticTransfer, amt("10"), "GHS", "GH")
	r.Request(KindDomesticTransfer, amt("20"), "GHS", "GH")

	quote, err := r.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if quote == nil || !quote.Amount.Equal(amt("20")) {
		t.Fatalf("quote in effect should be R2's, got %+v", quote)
	}
	if !quote.Fee.Equal(amt("2")) {
		t.Errorf("R2 fee = %s, want 2", quote.Fee)
	}

	// Let the stale R1 response arrive; it must be discarded at apply time.
	close(gate)
	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		current := r.Current()
		if !current.Amount.Equal(amt("20")) {
			t.Fatalf("stale R1 quote overwrote R2: %+v", current)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFeeDegradedFallback(t *testing.T) {
	r := newTestResolver(failingPricing{})

	// Scenario: pricing unreachable for amount=100 -> 100 x 0.015 = 1.50.
	r.Request(KindInternationalTransfer, amt("100"), "GHS", "GH")
	quote, err := r.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if !quote.Degraded {
		t.Error("fallback quote must be flagged degraded")
	}
	if !quote.Fee.Equal(amt("1.50")) {
		t.Errorf("fallback fee = %s, want 1.50", quote.Fee)
	}

	// Small amount hits the floor: 10 x 0.015 = 0.15 < 1.00.
	r.Request(KindInternationalTransfer, amt("10"), "GHS", "GH")
	quote, err = r.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if !quote.Fee.Equal(amt("1.00")) {
		t.Errorf("floored fee = %s, want 1.00", quote.Fee)
	}
}

func TestFeeWaitWithoutRequest(t *testing.T) {
	r := newTestResolver(newGatedPricing())
	quote, err := r.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if quote != nil {
		t.Errorf("expected no quote before any request, got %+v", quote)
	}
}

func TestFeeWaitCancellation(t *testing.T) {
	client := newGatedPricing()
	r := newTestResolver(client)

	gate := client.holdAmount("10")
	defer close(gate)
	r.Request(KindDomesticTransfer, amt("10"), "GHS", "GH")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait error = %v, want deadline exceeded", err)
	}
}

func TestFeeQuoteTotal(t *testing.T) {
	q := FeeQuote{Amount: amt("50"), Fee: amt("1.25")}
	if !q.Total().Equal(amt("51.25")) {
		t.Errorf("Total = %s, want 51.25", q.Total())
	}
}
