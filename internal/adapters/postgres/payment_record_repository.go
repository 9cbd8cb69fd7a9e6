package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commercekit/epay-gateway/internal/domain"
)

// PaymentRecordRepository implements ports.PaymentRecordRepository on
// PostgreSQL. Applied actions are appended to a ledger table; the record row
// itself only ever moves forward (reference set once, derived ids appended).
type PaymentRecordRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRecordRepository creates a new payment record repository
func NewPaymentRecordRepository(pool *pgxpool.Pool) *PaymentRecordRepository {
	return &PaymentRecordRepository{pool: pool}
}

// Create stores the record produced by the payment-window callback.
func (r *PaymentRecordRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payment_records (
			id, order_id, reference, instant_capture,
			transaction_id, parent_transaction_id, closed,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID, record.OrderID, record.Reference, record.InstantCapture,
		record.TransactionID, record.ParentTransactionID, record.Closed,
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrRecordConflict
		}
		return domain.WrapError(domain.ErrorCodeDatabaseError, "create payment record", err)
	}
	return nil
}

// GetByOrderID loads the record for an order.
func (r *PaymentRecordRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentRecord, error) {
	record := &domain.PaymentRecord{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, order_id, reference, instant_capture,
		       transaction_id, parent_transaction_id, closed,
		       created_at, updated_at
		FROM payment_records
		WHERE order_id = $1`,
		orderID,
	).Scan(
		&record.ID, &record.OrderID, &record.Reference, &record.InstantCapture,
		&record.TransactionID, &record.ParentTransactionID, &record.Closed,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "get payment record", err)
	}
	return record, nil
}

// AppendAction persists the record's derived state and the ledger entry in
// one transaction.
func (r *PaymentRecordRepository) AppendAction(ctx context.Context, record *domain.PaymentRecord, action domain.ActionType) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "begin transaction", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE payment_records
		SET transaction_id = $2,
		    parent_transaction_id = $3,
		    closed = $4,
		    updated_at = $5
		WHERE id = $1`,
		record.ID, record.TransactionID, record.ParentTransactionID,
		record.Closed, record.UpdatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "update payment record", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO payment_record_actions (record_id, transaction_id, action, created_at)
		VALUES ($1, $2, $3, $4)`,
		record.ID, record.TransactionID, string(action), record.UpdatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "append payment record action", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "commit transaction", err)
	}
	return nil
}

// ListActions returns the applied-action ledger for a record, oldest first.
func (r *PaymentRecordRepository) ListActions(ctx context.Context, record *domain.PaymentRecord) ([]domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT transaction_id, action, created_at
		FROM payment_record_actions
		WHERE record_id = $1
		ORDER BY created_at, id`,
		record.ID,
	)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "list payment record actions", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		if err := rows.Scan(&entry.TransactionID, &entry.Action, &entry.CreatedAt); err != nil {
			return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "scan payment record action", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "list payment record actions", err)
	}
	return entries, nil
}

// Healthy pings the database.
func (r *PaymentRecordRepository) Healthy(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}
