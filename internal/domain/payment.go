package domain

import (
	"time"

	"github.com/google/uuid"
)

// Derived transaction id suffixes. These are a de-facto wire contract with
// the order-history display layer and must not change.
const (
	SuffixCapture        = "CAPTURE"
	SuffixRefund         = "REFUND"
	SuffixVoid           = "VOID"
	SuffixInstantCapture = "INSTANT_CAPTURE"
)

// ActionType identifies a lifecycle action applied to a payment.
type ActionType string

const (
	ActionCapture        ActionType = "capture"
	ActionRefund         ActionType = "refund"
	ActionVoid           ActionType = "void"
	ActionGetTransaction ActionType = "gettransaction"
)

// DeriveTransactionID builds the local transaction id recorded after a
// validated gateway action: the gateway reference plus a fixed suffix.
func DeriveTransactionID(reference, suffix string) string {
	return reference + "-" + suffix
}

// PaymentRecord is the local payment entity for one order. The gateway
// reference is assigned exactly once, by the payment-window callback; every
// later capture/refund/void/query reads it. Applied actions are recorded as
// derived transaction ids, never by mutating the reference.
type PaymentRecord struct {
	ID                  uuid.UUID
	OrderID             string
	Reference           string
	InstantCapture      bool
	TransactionID       string
	ParentTransactionID string
	Closed              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// LedgerEntry is one applied action in a record's append-only ledger.
type LedgerEntry struct {
	TransactionID string
	Action        ActionType
	CreatedAt     time.Time
}

// NewPaymentRecord creates the record for a completed payment window.
func NewPaymentRecord(orderID, reference string, instantCapture bool) *PaymentRecord {
	now := time.Now()
	return &PaymentRecord{
		ID:             uuid.New(),
		OrderID:        orderID,
		Reference:      reference,
		InstantCapture: instantCapture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// HasReference reports whether a gateway transaction reference has been
// stored on the record.
func (r *PaymentRecord) HasReference() bool {
	return r != nil && r.Reference != ""
}

// ApplyAction records a validated action locally: the derived transaction id,
// the parent link back to the original reference, and the closed flag.
func (r *PaymentRecord) ApplyAction(suffix string) {
	r.TransactionID = DeriveTransactionID(r.Reference, suffix)
	r.ParentTransactionID = r.Reference
	r.Closed = true
	r.UpdatedAt = time.Now()
}
