package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	it "payflow/intent/intent"
)

// Client calls the payment-intent validation service over HTTP.
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

type validateRequest struct {
	Payload string `json:"payload"`
}

type validateResponse struct {
	Valid  bool         `json:"valid"`
	Error  string       `json:"error"`
	Intent *it.QRIntent `json:"intent"`
}

// Validate submits the raw captured payload for verification. A rejection
// wraps ErrInvalidPayload with the service's reason.
func (c *Client) Validate(ctx context.Context, rawPayload string) (*it.QRIntent, error) {
	body, err := json.Marshal(validateRequest{Payload: rawPayload})
	if err != nil {
		return nil, fmt.Errorf("failed to encode validation request: %w", err)
	}

	endpoint := c.baseURL + "/v1/intents/validate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build validation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("intent validation service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("intent validation service returned status %d", resp.StatusCode)
	}

	var out validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode validation response: %w", err)
	}

	if !out.Valid || out.Intent == nil {
		reason := out.Error
		if reason == "" {
			reason = "rejected by validation service"
		}
		return nil, fmt.Errorf("%w: %s", it.ErrInvalidPayload, reason)
	}
	return out.Intent, nil
}
