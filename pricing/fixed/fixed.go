package fixed

import (
	"context"

	"github.com/shopspring/decimal"

	pt "payflow/pricing/pricing"
)

// rate schedule per transaction kind: percentage of amount plus a flat part.
type schedule struct {
	rate decimal.Decimal
	flat decimal.Decimal
}

// Client prices quotes from an in-process table. Used in dev mode, the quote
// CLI and tests; it never fails.
type Client struct {
	schedules map[string]schedule
	fallback  schedule
}

func NewClient() *Client {
	pct := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return &Client{
		schedules: map[string]schedule{
			"domestic_transfer":      {rate: pct("0.005"), flat: pct("0")},
			"international_transfer": {rate: pct("0.02"), flat: pct("1.50")},
			"outbound_transfer":      {rate: pct("0.025"), flat: pct("2.00")},
			"global_transfer":        {rate: pct("0.02"), flat: pct("2.50")},
			"bill_payment":           {rate: pct("0"), flat: pct("0.50")},
			"airtime":                {rate: pct("0"), flat: pct("0")},
			"data":                   {rate: pct("0"), flat: pct("0")},
			"merchant_checkout":      {rate: pct("0.01"), flat: pct("0")},
			"bank_transfer":          {rate: pct("0.01"), flat: pct("0.50")},
			"qr_payment":             {rate: pct("0.005"), flat: pct("0")},
			"p2p_send":               {rate: pct("0"), flat: pct("0")},
		},
		fallback: schedule{rate: pct("0.015"), flat: pct("0")},
	}
}

func (c *Client) Quote(_ context.Context, req pt.QuoteRequest) (pt.Quote, error) {
	s, ok := c.schedules[req.Kind]
	if !ok {
		s = c.fallback
	}
	fee := req.Amount.Mul(s.rate).Add(s.flat).Round(2)
	return pt.Quote{Fee: fee, Currency: req.Currency}, nil
}
