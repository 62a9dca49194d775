package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	wt "payflow/wallet/wallet"
)

// Client fetches the payment-method directory over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type methodDTO struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Channel string `json:"channel"`
	Last4   string `json:"last4"`
	Default bool   `json:"default"`
}

// ListMethods calls the directory service and prepends the wallet-balance
// sentinel entry.
func (c *Client) ListMethods(ctx context.Context, customerID string) ([]wt.Method, error) {
	endpoint := fmt.Sprintf("%s/v1/customers/%s/payment-methods", c.baseURL, url.PathEscape(customerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment-method directory unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment-method directory returned status %d", resp.StatusCode)
	}

	var dtos []methodDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("failed to decode directory response: %w", err)
	}

	methods := []wt.Method{{
		ID:      wt.Balance,
		Label:   "Wallet balance",
		Channel: wt.ChannelWallet,
	}}
	for _, dto := range dtos {
		methods = append(methods, wt.Method{
			ID:      wt.FundingSource(dto.ID),
			Label:   dto.Label,
			Channel: wt.Channel(dto.Channel),
			Last4:   dto.Last4,
			Default: dto.Default,
		})
	}
	return methods, nil
}
