package checkout

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionContext is the caller's declared intent to pay or transfer.
// Exactly one of the detail payloads is active, determined by Kind; the
// others are ignored even if populated. Completeness is never cached: every
// dispatch attempt revalidates.
type TransactionContext struct {
	Kind     Kind
	Amount   decimal.Decimal
	Currency string

	Recipient *Recipient
	Bill      *BillDetails
	Telecom   *TelecomDetails
	Merchant  *MerchantDetails
	QR        *QRDetails

	Description string
}

// Recipient is the polymorphic recipient structure. Which sub-fields are
// required depends on the transaction kind and the delivery method.
type Recipient struct {
	Name    string
	Email   string
	Phone   string
	Country string

	// PlatformID identifies a platform wallet for wallet-to-wallet moves.
	PlatformID string
	// Internal marks the recipient as a platform account (required for p2p).
	Internal bool

	DeliveryMethod DeliveryMethod
	DeliveryPhone  string // mobile money
	AccountNumber  string // bank account / bank transfer
	BankName       string
	BranchCode     string
	RoutingNumber  string // outbound routing
	SwiftCode      string
	Address        string // cash pickup
	City           string
	WalletID       string // digital wallet
}

// HasContact reports whether the recipient can be reached by email or phone.
func (r *Recipient) HasContact() bool {
	return r != nil && (r.Email != "" || r.Phone != "")
}

type BillDetails struct {
	Type       string
	BillerName string
	Reference  string
}

// BillID derives the downstream bill identifier from the bill details.
func (b *BillDetails) BillID() string {
	return b.Type + "-" + b.Reference
}

type TelecomDetails struct {
	Provider    string
	PhoneNumber string
}

type MerchantDetails struct {
	MerchantID   string
	MerchantName string
}

// QRDetails is the projection of a validated QR intent into the context.
type QRDetails struct {
	Reference    string
	MerchantID   string
	MerchantName string
	ExpiresAt    time.Time
}

// UserProfile carries the sender-side identity the orchestrator knows about
// the current customer. Global remittances include it in the dispatch shape;
// currency resolution falls back to it.
type UserProfile struct {
	CustomerID        string
	Name              string
	Country           string
	PreferredCurrency string
}

// countryCurrencies maps recipient/sender countries to their default currency.
var countryCurrencies = map[string]string{
	"GH": "GHS",
	"NG": "NGN",
	"KE": "KES",
	"ZA": "ZAR",
	"UG": "UGX",
	"TZ": "TZS",
	"CI": "XOF",
	"SN": "XOF",
	"CM": "XAF",
	"US": "USD",
	"GB": "GBP",
	"DE": "EUR",
	"FR": "EUR",
	"CA": "CAD",
	"IN": "INR",
	"PH": "PHP",
	"CN": "CNY",
}

// CurrencyForCountry returns the default currency for a country code, or
// USD when the country is unknown.
func CurrencyForCountry(country string) string {
	if c, ok := countryCurrencies[country]; ok {
		return c
	}
	return "USD"
}

// ResolveCurrency resolves the context currency by priority: explicit value,
// then the user's preferred currency, then the country-contextual default.
// Must run before fee lookup.
func (t *TransactionContext) ResolveCurrency(profile UserProfile) string {
	if t.Currency != "" {
		return t.Currency
	}
	if profile.PreferredCurrency != "" {
		return profile.PreferredCurrency
	}
	return CurrencyForCountry(profile.Country)
}

// RecipientCountry returns the recipient country when a recipient is active.
func (t *TransactionContext) RecipientCountry() string {
	if t.Recipient == nil {
		return ""
	}
	return t.Recipient.Country
}
