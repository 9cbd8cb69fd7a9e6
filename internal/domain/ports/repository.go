package ports

import (
	"context"

	"github.com/commercekit/epay-gateway/internal/domain"
)

// PaymentRecordRepository persists payment records and the append-only ledger
// of applied actions.
type PaymentRecordRepository interface {
	// Create stores the record produced by the payment-window callback.
	// Returns domain.ErrRecordConflict when the order already has one.
	Create(ctx context.Context, record *domain.PaymentRecord) error

	// GetByOrderID loads the record for an order, or domain.ErrRecordNotFound.
	GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentRecord, error)

	// AppendAction persists the record's derived transaction id and closed
	// state, and appends a ledger entry for the applied action.
	AppendAction(ctx context.Context, record *domain.PaymentRecord, action domain.ActionType) error
}
