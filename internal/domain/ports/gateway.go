package ports

import (
	"context"

	"github.com/commercekit/epay-gateway/internal/domain"
)

// Auth carries the merchant credentials for one store.
type Auth struct {
	MerchantNumber string
	Password       string // remote API password
	MD5Key         string // shared secret covering window and callback hashes
}

// PaymentWindowRequest is the full outbound payment-window request. The hash
// covers every other field and is computed by the gateway adapter after the
// request is final.
type PaymentWindowRequest struct {
	Encoding       string
	CMS            string
	WindowState    string
	Mobile         bool
	MerchantNumber string
	WindowID       string
	Amount         int64 // minor units
	Currency       string
	OrderID        string
	AcceptURL      string
	CancelURL      string
	CallbackURL    string
	InstantCapture bool
	Language       string
	OwnReceipt     bool
	Timeout        int // gateway-side window expiry, seconds
	Invoice        string
	Hash           string
}

// TransactionInformation is the gateway's view of a transaction, returned by
// query calls.
type TransactionInformation struct {
	TransactionID  string
	OrderID        string
	Currency       string
	AuthAmount     int64
	CapturedAmount int64
	CreditedAmount int64
	Status         string
	AuthDate       string
	CaptureDate    string
}

// ActionResponse is the raw, not yet validated outcome of a remote action.
type ActionResponse struct {
	Result                 bool
	EpayResponse           int
	PBSResponse            int
	MerchantNumber         string
	Message                string
	TransactionInformation *TransactionInformation
}

// Gateway is the remote ePay client contract. Implementations perform the
// network call and cryptographic hashing; callers supply parameters and
// interpret validated responses.
type Gateway interface {
	// CreatePaymentWindowURL signs the finalized request and obtains the
	// redirect URL for the hosted payment window.
	CreatePaymentWindowURL(ctx context.Context, req *PaymentWindowRequest, auth Auth) (string, error)

	// Capture captures amountMinor against a previously authorized transaction.
	Capture(ctx context.Context, amountMinor int64, reference string, auth Auth) (*ActionResponse, error)

	// Credit refunds amountMinor of a captured transaction.
	Credit(ctx context.Context, amountMinor int64, reference string, auth Auth) (*ActionResponse, error)

	// Delete voids an authorized transaction.
	Delete(ctx context.Context, reference string, auth Auth) (*ActionResponse, error)

	// GetTransaction fetches the gateway's current view of a transaction.
	GetTransaction(ctx context.Context, reference string, auth Auth) (*ActionResponse, error)

	// ValidateResult checks a raw response against the requested transaction
	// and auth. It returns false plus a human-readable detail when the
	// gateway rejected the action or the response cannot be correlated.
	ValidateResult(resp *ActionResponse, reference string, auth Auth, action domain.ActionType) (bool, string)
}
