package intent

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrExpired marks an intent whose expiry timestamp has passed. Expiry is
// checked after signature validation and overrides it.
var ErrExpired = errors.New("qr intent expired")

// ErrAlreadyConsumed marks a single-use reference that was spent before.
var ErrAlreadyConsumed = errors.New("qr intent reference already consumed")

// ErrInvalidPayload marks a captured payload the validation service rejected.
var ErrInvalidPayload = errors.New("invalid qr payload")

// QRIntent is a signed, expiring, single-use descriptor of a QR-initiated
// payment, as returned by the payment-intent validation service.
type QRIntent struct {
	Version      int             `json:"version"`
	Reference    string          `json:"reference"`
	MerchantID   string          `json:"merchantId"`
	MerchantName string          `json:"merchantName"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	ExpiresAt    time.Time       `json:"expiresAt"`
	Signature    string          `json:"signature"`
}

// Expired reports whether the intent is past its expiry at the given time.
func (i *QRIntent) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// Scanner is the code-reading resource. Start acquires it and yields raw
// payloads on the returned channel until Stop releases it; the channel is
// closed on release. Acquisition is scoped: every exit path of the capture
// flow must call Stop.
type Scanner interface {
	Start(ctx context.Context) (<-chan string, error)
	Stop() error
}

// Validator is the payment-intent validation service contract. A rejected
// payload returns ErrInvalidPayload (possibly wrapped); transport failures
// return their own errors.
type Validator interface {
	Validate(ctx context.Context, rawPayload string) (*QRIntent, error)
}
