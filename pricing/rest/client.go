package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	pt "payflow/pricing/pricing"
)

// Client calls the pricing service over HTTP. Quotes are cached briefly so
// that repeated refreshes for the same inputs do not hammer the service.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *gocache.Cache
}

func NewClient(baseURL string, timeout, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
	}
}

type quoteRequestDTO struct {
	Kind     string `json:"kind"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Country  string `json:"country,omitempty"`
}

type quoteResponseDTO struct {
	Fee      string `json:"fee"`
	Currency string `json:"currency"`
}

func (c *Client) Quote(ctx context.Context, req pt.QuoteRequest) (pt.Quote, error) {
	if cached, found := c.cache.Get(req.CacheKey()); found {
		return cached.(pt.Quote), nil
	}

	body, err := json.Marshal(quoteRequestDTO{
		Kind:     req.Kind,
		Amount:   req.Amount.String(),
		Currency: req.Currency,
		Country:  req.Country,
	})
	if err != nil {
		return pt.Quote{}, fmt.Errorf("failed to marshal quote request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/quotes", bytes.NewReader(body))
	if err != nil {
		return pt.Quote{}, fmt.Errorf("failed to build quote request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return pt.Quote{}, fmt.Errorf("pricing service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pt.Quote{}, fmt.Errorf("pricing service returned status %d", resp.StatusCode)
	}

	var dto quoteResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return pt.Quote{}, fmt.Errorf("failed to decode quote response: %w", err)
	}

	fee, err := decimal.NewFromString(dto.Fee)
	if err != nil {
		return pt.Quote{}, fmt.Errorf("pricing service returned invalid fee %q: %w", dto.Fee, err)
	}

	quote := pt.Quote{Fee: fee, Currency: dto.Currency}
	c.cache.Set(req.CacheKey(), quote, gocache.DefaultExpiration)
	return quote, nil
}
