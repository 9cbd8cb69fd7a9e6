package mocks

import (
	"context"
	"sync"

	"github.com/commercekit/epay-gateway/internal/domain"
)

// MockPaymentRecordRepository is a mock implementation of
// PaymentRecordRepository for testing
type MockPaymentRecordRepository struct {
	mu sync.Mutex

	// Errors to return
	createError error
	getError    error
	appendError error

	// Stored records by order id
	records map[string]*domain.PaymentRecord

	// Call tracking
	CreateCalls int
	GetCalls    int
	AppendCalls int

	// Last request received
	LastCreated *domain.PaymentRecord
	LastAction  domain.ActionType
	Ledger      []domain.LedgerEntry
}

// NewMockPaymentRecordRepository creates a new mock repository
func NewMockPaymentRecordRepository() *MockPaymentRecordRepository {
	return &MockPaymentRecordRepository{
		records: make(map[string]*domain.PaymentRecord),
	}
}

// SetCreateError sets the error to return from Create
func (m *MockPaymentRecordRepository) SetCreateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createError = err
}

// SetGetError sets the error to return from GetByOrderID
func (m *MockPaymentRecordRepository) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// SetAppendError sets the error to return from AppendAction
func (m *MockPaymentRecordRepository) SetAppendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendError = err
}

// Seed stores a record for GetByOrderID to return
func (m *MockPaymentRecordRepository) Seed(record *domain.PaymentRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.OrderID] = record
}

// Create implements PaymentRecordRepository.Create
func (m *MockPaymentRecordRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.records[record.OrderID]; exists {
		return domain.ErrRecordConflict
	}
	m.records[record.OrderID] = record
	m.LastCreated = record
	return nil
}

// GetByOrderID implements PaymentRecordRepository.GetByOrderID
func (m *MockPaymentRecordRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.getError != nil {
		return nil, m.getError
	}
	record, ok := m.records[orderID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return record, nil
}

// AppendAction implements PaymentRecordRepository.AppendAction
func (m *MockPaymentRecordRepository) AppendAction(ctx context.Context, record *domain.PaymentRecord, action domain.ActionType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls++
	if m.appendError != nil {
		return m.appendError
	}
	m.LastAction = action
	m.Ledger = append(m.Ledger, domain.LedgerEntry{
		TransactionID: record.TransactionID,
		Action:        action,
		CreatedAt:     record.UpdatedAt,
	})
	return nil
}

// Reset resets all mock state
func (m *MockPaymentRecordRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createError = nil
	m.getError = nil
	m.appendError = nil
	m.records = make(map[string]*domain.PaymentRecord)
	m.CreateCalls = 0
	m.GetCalls = 0
	m.AppendCalls = 0
	m.LastCreated = nil
	m.LastAction = ""
	m.Ledger = nil
}
