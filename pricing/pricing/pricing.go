package pricing

import (
	"context"

	"github.com/shopspring/decimal"
)

// QuoteRequest identifies one priced combination. Kind is the transaction
// kind string; Country is the recipient country (may be empty for kinds
// without a recipient).
type QuoteRequest struct {
	Kind     string
	Amount   decimal.Decimal
	Currency string
	Country  string
}

// Quote is the fee the pricing service charges for a QuoteRequest.
type Quote struct {
	Fee      decimal.Decimal
	Currency string
}

// Client is the contract the checkout core expects from the pricing service.
// Implementations may fail; the fee resolver substitutes a fallback quote
// when they do.
type Client interface {
	Quote(ctx context.Context, req QuoteRequest) (Quote, error)
}

// CacheKey builds a stable key for a request, used by caching clients.
func (r QuoteRequest) CacheKey() string {
	return r.Kind + "|" + r.Amount.String() + "|" + r.Currency + "|" + r.Country
}
