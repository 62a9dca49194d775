package web

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"payflow/checkout"
	"payflow/config"
	it "payflow/intent/intent"
	"payflow/mq/mq"
	wt "payflow/wallet/wallet"
)

// Handler serves the checkout session API. Sessions live in an expiring
// in-process registry; an expired or unknown session id is a 404.
type Handler struct {
	deps     *dependencies
	sessions *cache.Cache
}

func NewHandler(deps *dependencies) *Handler {
	ttl := config.Cfg.SessionTTL
	return &Handler{
		deps:     deps,
		sessions: cache.New(ttl, 2*ttl),
	}
}

func (h *Handler) session(c *gin.Context) (*checkout.Session, bool) {
	id := c.Param("id")
	v, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found or expired"})
		return nil, false
	}
	return v.(*checkout.Session), true
}

type createSessionRequest struct {
	CustomerID        string `json:"customerId" binding:"required"`
	Name              string `json:"name"`
	Country           string `json:"country"`
	PreferredCurrency string `json:"preferredCurrency"`
}

// CreateSession opens a checkout session for one customer. Each session gets
// its own fee resolver so supersession stays per-attempt.
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := checkout.UserProfile{
		CustomerID:        req.CustomerID,
		Name:              req.Name,
		Country:           req.Country,
		PreferredCurrency: req.PreferredCurrency,
	}
	fees := checkout.NewFeeResolver(h.deps.pricing, h.deps.feeRate, h.deps.feeFloor, config.Cfg.UpstreamTimeout)
	session := checkout.NewSession(profile, fees, h.deps.rails, h.deps.intents, h.deps.events)

	h.sessions.Set(session.ID.String(), session, cache.DefaultExpiration)
	c.JSON(http.StatusCreated, gin.H{"sessionId": session.ID.String()})
}

type recipientDTO struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Country        string `json:"country"`
	PlatformID     string `json:"platformId"`
	Internal       bool   `json:"internal"`
	DeliveryMethod string `json:"deliveryMethod"`
	DeliveryPhone  string `json:"deliveryPhone"`
	AccountNumber  string `json:"accountNumber"`
	BankName       string `json:"bankName"`
	BranchCode     string `json:"branchCode"`
	RoutingNumber  string `json:"routingNumber"`
	SwiftCode      string `json:"swiftCode"`
	Address        string `json:"address"`
	City           string `json:"city"`
	WalletID       string `json:"walletId"`
}

type contextRequest struct {
	Kind     string          `json:"kind" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`

	Recipient *recipientDTO `json:"recipient"`
	Bill      *struct {
		Type       string `json:"type"`
		BillerName string `json:"billerName"`
		Reference  string `json:"reference"`
	} `json:"bill"`
	Telecom *struct {
		Provider    string `json:"provider"`
		PhoneNumber string `json:"phoneNumber"`
	} `json:"telecom"`
	Merchant *struct {
		MerchantID   string `json:"merchantId"`
		MerchantName string `json:"merchantName"`
	} `json:"merchant"`
	QR *struct {
		Reference    string    `json:"reference"`
		MerchantID   string    `json:"merchantId"`
		MerchantName string    `json:"merchantName"`
		ExpiresAt    time.Time `json:"expiresAt"`
	} `json:"qr"`

	Description string `json:"description"`
}

func (r *contextRequest) toContext() checkout.TransactionContext {
	t := checkout.TransactionContext{
		Kind:        checkout.Kind(r.Kind),
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: r.Description,
	}
	if r.Recipient != nil {
		t.Recipient = &checkout.Recipient{
			Name:           r.Recipient.Name,
			Email:          r.Recipient.Email,
			Phone:          r.Recipient.Phone,
			Country:        r.Recipient.Country,
			PlatformID:     r.Recipient.PlatformID,
			Internal:       r.Recipient.Internal,
			DeliveryMethod: checkout.DeliveryMethod(r.Recipient.DeliveryMethod),
			DeliveryPhone:  r.Recipient.DeliveryPhone,
			AccountNumber:  r.Recipient.AccountNumber,
			BankName:       r.Recipient.BankName,
			BranchCode:     r.Recipient.BranchCode,
			RoutingNumber:  r.Recipient.RoutingNumber,
			SwiftCode:      r.Recipient.SwiftCode,
			Address:        r.Recipient.Address,
			City:           r.Recipient.City,
			WalletID:       r.Recipient.WalletID,
		}
	}
	if r.Bill != nil {
		t.Bill = &checkout.BillDetails{Type: r.Bill.Type, BillerName: r.Bill.BillerName, Reference: r.Bill.Reference}
	}
	if r.Telecom != nil {
		t.Telecom = &checkout.TelecomDetails{Provider: r.Telecom.Provider, PhoneNumber: r.Telecom.PhoneNumber}
	}
	if r.Merchant != nil {
		t.Merchant = &checkout.MerchantDetails{MerchantID: r.Merchant.MerchantID, MerchantName: r.Merchant.MerchantName}
	}
	if r.QR != nil {
		t.QR = &checkout.QRDetails{
			Reference:    r.QR.Reference,
			MerchantID:   r.QR.MerchantID,
			MerchantName: r.QR.MerchantName,
			ExpiresAt:    r.QR.ExpiresAt,
		}
	}
	return t
}

// SetContext replaces the session's transaction context.
func (h *Handler) SetContext(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req contextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !checkout.Kind(req.Kind).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown transaction kind"})
		return
	}

	session.SetContext(req.toContext())
	c.JSON(http.StatusOK, gin.H{"fundingSource": string(session.FundingSource())})
}

type fundingRequest struct {
	FundingSource string `json:"fundingSource"`
}

// SetFundingSource records the selection; when the auto-process trigger
// fires the dispatch outcome is returned inline.
func (h *Handler) SetFundingSource(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req fundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome := session.SetFundingSource(c.Request.Context(), wt.FundingSource(req.FundingSource))
	if outcome == nil {
		c.JSON(http.StatusOK, gin.H{"autoProcessed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"autoProcessed": true, "outcome": outcomeJSON(*outcome)})
}

// Submit runs the checkout attempt and maps the outcome onto the response.
func (h *Handler) Submit(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	outcome := session.Submit(c.Request.Context())
	c.JSON(http.StatusOK, outcomeJSON(outcome))
}

func outcomeJSON(o checkout.Outcome) gin.H {
	out := gin.H{"status": string(o.Status)}
	switch o.Status {
	case checkout.StatusSuccess:
		out["result"] = gin.H{
			"reference": o.Result.Reference,
			"status":    o.Result.Status,
			"message":   o.Result.Message,
		}
	case checkout.StatusValidationError:
		out["field"] = o.Field
		out["message"] = o.Message
	case checkout.StatusDispatchError:
		out["message"] = o.Message
	}
	return out
}

// CurrentFee returns the quote in effect, 204 before the first resolution.
func (h *Handler) CurrentFee(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	quote := session.CurrentFeeQuote()
	if quote == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"kind":     string(quote.Kind),
		"amount":   quote.Amount,
		"fee":      quote.Fee,
		"total":    quote.Total(),
		"currency": quote.Currency,
		"degraded": quote.Degraded,
		"quotedAt": quote.QuotedAt,
	})
}

// ValidationState recomputes the validation result on demand.
func (h *Handler) ValidationState(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if ferr := session.ValidationError(); ferr != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "field": ferr.Field, "message": ferr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// ListFundingSources lists the customer's payment methods, wallet balance
// sentinel first.
func (h *Handler) ListFundingSources(c *gin.Context) {
	customerID := c.Query("customerId")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerId is required"})
		return
	}

	methods, err := h.deps.wallets.ListMethods(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(methods))
	for _, m := range methods {
		out = append(out, gin.H{
			"id":      string(m.ID),
			"label":   m.Label,
			"channel": string(m.Channel),
			"last4":   m.Last4,
			"default": m.Default,
		})
	}
	c.JSON(http.StatusOK, gin.H{"fundingSources": out})
}

// StreamEvents streams the session's dispatch outcomes as server-sent
// events until the client disconnects.
func (h *Handler) StreamEvents(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	action := mq.ActionDispatched
	if c.Query("action") == "failed" {
		action = mq.ActionFailed
	}
	queue := h.deps.events.GetCheckoutEventQueue(action)
	if queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event queue not configured"})
		return
	}

	out := make(chan mq.CheckoutEventMessage, 5)
	mq.SubscribeProcessor(session.ID, c.Request.Context(), queue,
		func(msg mq.CheckoutEventMessage) (mq.CheckoutEventMessage, bool, error) {
			return msg, false, nil
		}, out)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-out:
			if !open {
				return false
			}
			c.SSEvent("checkout", msg)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

type qrValidateRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// ValidateQR runs the acceptance check on a raw QR payload and returns the
// decoded intent when it passes. Rejections are 200 responses with a reason;
// only infrastructure failures are 5xx.
func (h *Handler) ValidateQR(c *gin.Context) {
	var req qrValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	qi, err := it.EvaluatePayload(c.Request.Context(), h.deps.validator, h.deps.intents, time.Now(), req.Payload)
	if err != nil {
		switch {
		case errors.Is(err, it.ErrExpired), errors.Is(err, it.ErrAlreadyConsumed), errors.Is(err, it.ErrInvalidPayload):
			c.JSON(http.StatusOK, gin.H{"valid": false, "reason": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"intent": gin.H{
			"version":      qi.Version,
			"reference":    qi.Reference,
			"merchantId":   qi.MerchantID,
			"merchantName": qi.MerchantName,
			"amount":       qi.Amount,
			"currency":     qi.Currency,
			"expiresAt":    qi.ExpiresAt,
		},
	})
}
