package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	rt "payflow/rail/rail"
)

// Client executes downstream rail operations over HTTP. One endpoint family
// per operation; no retries here, the transport owns those.
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

type resultDTO struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// post executes one rail call. A transport failure or an unsuccessful
// downstream response both surface as a DispatchError carrying the
// downstream message.
func (c *Client) post(ctx context.Context, operation, path string, payload any) (*rt.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &rt.DispatchError{Operation: operation, Message: err.Error()}
	}
	defer resp.Body.Close()

	var dto resultDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, &rt.DispatchError{Operation: operation, Message: fmt.Sprintf("invalid response (status %d)", resp.StatusCode)}
	}

	if resp.StatusCode != http.StatusOK || !dto.Success {
		msg := dto.Message
		if msg == "" {
			msg = fmt.Sprintf("operation rejected with status %d", resp.StatusCode)
		}
		return nil, &rt.DispatchError{Operation: operation, Message: msg}
	}

	return &rt.Result{Reference: dto.Reference, Status: dto.Status, Message: dto.Message}, nil
}

func (c *Client) WalletTransfer(ctx context.Context, req rt.WalletTransferRequest) (*rt.Result, error) {
	return c.post(ctx, "wallet-transfer", "/v1/transfers/wallet", req)
}

func (c *Client) DomesticTransfer(ctx context.Context, req rt.DomesticTransferRequest) (*rt.Result, error) {
	return c.post(ctx, "domestic-transfer", "/v1/transfers/domestic", req)
}

func (c *Client) InternationalRemit(ctx context.Context, req rt.InternationalRemitRequest) (*rt.Result, error) {
	return c.post(ctx, "international-remit", "/v1/remittances/international", req)
}

func (c *Client) OutboundRemit(ctx context.Context, req rt.OutboundRemitRequest) (*rt.Result, error) {
	return c.post(ctx, "outbound-remit", "/v1/remittances/outbound", req)
}

func (c *Client) GlobalRemit(ctx context.Context, req rt.GlobalRemitRequest) (*rt.Result, error) {
	return c.post(ctx, "global-remit", "/v1/remittances/global", req)
}

func (c *Client) PayBill(ctx context.Context, req rt.BillPayRequest) (*rt.Result, error) {
	return c.post(ctx, "bill-pay", "/v1/bills/pay", req)
}

func (c *Client) TopUp(ctx context.Context, req rt.TopUpRequest) (*rt.Result, error) {
	return c.post(ctx, "top-up", "/v1/telecom/topup", req)
}

func (c *Client) SettleCheckout(ctx context.Context, req rt.CheckoutSettlementRequest) (*rt.Result, error) {
	return c.post(ctx, "checkout-settlement", "/v1/merchants/settle", req)
}

func (c *Client) BankPayout(ctx context.Context, req rt.BankPayoutRequest) (*rt.Result, error) {
	return c.post(ctx, "bank-payout", "/v1/payouts/bank", req)
}

func (c *Client) InitiateQRPayment(ctx context.Context, req rt.QRPaymentRequest) (*rt.Result, error) {
	return c.post(ctx, "qr-payment", "/v1/payments/qr", req)
}

func (c *Client) InternalTransfer(ctx context.Context, req rt.InternalTransferRequest) (*rt.Result, error) {
	return c.post(ctx, "internal-transfer", "/v1/transfers/internal", req)
}
