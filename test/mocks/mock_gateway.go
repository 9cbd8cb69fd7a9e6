package mocks

import (
	"context"
	"sync"

	"github.com/commercekit/epay-gateway/internal/domain"
	"github.com/commercekit/epay-gateway/internal/domain/ports"
)

// MockGateway is a mock implementation of Gateway for testing
type MockGateway struct {
	mu sync.Mutex

	// Responses to return
	windowURL           string
	windowError         error
	captureResponse     *ports.ActionResponse
	captureError        error
	creditResponse      *ports.ActionResponse
	creditError         error
	deleteResponse      *ports.ActionResponse
	deleteError         error
	transactionResponse *ports.ActionResponse
	transactionError    error
	validateOK          bool
	validateMessage     string

	// Call tracking
	WindowCalls         int
	CaptureCalls        int
	CreditCalls         int
	DeleteCalls         int
	GetTransactionCalls int
	ValidateCalls       int

	// Last request received
	LastWindowReq     *ports.PaymentWindowRequest
	LastCaptureAmount int64
	LastCreditAmount  int64
	LastReference     string
	LastAuth          ports.Auth
	LastAction        domain.ActionType
}

// NewMockGateway creates a new mock gateway that validates every response
func NewMockGateway() *MockGateway {
	return &MockGateway{validateOK: true}
}

// SetWindowResponse sets the response to return from CreatePaymentWindowURL
func (m *MockGateway) SetWindowResponse(url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windowURL = url
	m.windowError = err
}

// SetCaptureResponse sets the response to return from Capture
func (m *MockGateway) SetCaptureResponse(resp *ports.ActionResponse, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captureResponse = resp
	m.captureError = err
}

// SetCreditResponse sets the response to return from Credit
func (m *MockGateway) SetCreditResponse(resp *ports.ActionResponse, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creditResponse = resp
	m.creditError = err
}

// SetDeleteResponse sets the response to return from Delete
func (m *MockGateway) SetDeleteResponse(resp *ports.ActionResponse, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteResponse = resp
	m.deleteError = err
}

// SetTransactionResponse sets the response to return from GetTransaction
func (m *MockGateway) SetTransactionResponse(resp *ports.ActionResponse, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactionResponse = resp
	m.transactionError = err
}

// SetValidateResult sets the outcome of ValidateResult
func (m *MockGateway) SetValidateResult(ok bool, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validateOK = ok
	m.validateMessage = message
}

// CreatePaymentWindowURL implements Gateway.CreatePaymentWindowURL
func (m *MockGateway) CreatePaymentWindowURL(ctx context.Context, req *ports.PaymentWindowRequest, auth ports.Auth) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WindowCalls++
	m.LastWindowReq = req
	m.LastAuth = auth
	return m.windowURL, m.windowError
}

// Capture implements Gateway.Capture
func (m *MockGateway) Capture(ctx context.Context, amountMinor int64, reference string, auth ports.Auth) (*ports.ActionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CaptureCalls++
	m.LastCaptureAmount = amountMinor
	m.LastReference = reference
	m.LastAuth = auth
	return m.captureResponse, m.captureError
}

// Credit implements Gateway.Credit
func (m *MockGateway) Credit(ctx context.Context, amountMinor int64, reference string, auth ports.Auth) (*ports.ActionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreditCalls++
	m.LastCreditAmount = amountMinor
	m.LastReference = reference
	m.LastAuth = auth
	return m.creditResponse, m.creditError
}

// Delete implements Gateway.Delete
func (m *MockGateway) Delete(ctx context.Context, reference string, auth ports.Auth) (*ports.ActionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	m.LastReference = reference
	m.LastAuth = auth
	return m.deleteResponse, m.deleteError
}

// GetTransaction implements Gateway.GetTransaction
func (m *MockGateway) GetTransaction(ctx context.Context, reference string, auth ports.Auth) (*ports.ActionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetTransactionCalls++
	m.LastReference = reference
	m.LastAuth = auth
	return m.transactionResponse, m.transactionError
}

// ValidateResult implements Gateway.ValidateResult
func (m *MockGateway) ValidateResult(resp *ports.ActionResponse, reference string, auth ports.Auth, action domain.ActionType) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidateCalls++
	m.LastAction = action
	return m.validateOK, m.validateMessage
}

// RemoteCalls returns the total number of network-facing calls made
func (m *MockGateway) RemoteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.WindowCalls + m.CaptureCalls + m.CreditCalls + m.DeleteCalls + m.GetTransactionCalls
}

// Reset resets all mock state
func (m *MockGateway) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windowURL = ""
	m.windowError = nil
	m.captureResponse = nil
	m.captureError = nil
	m.creditResponse = nil
	m.creditError = nil
	m.deleteResponse = nil
	m.deleteError = nil
	m.transactionResponse = nil
	m.transactionError = nil
	m.validateOK = true
	m.validateMessage = ""
	m.WindowCalls = 0
	m.CaptureCalls = 0
	m.CreditCalls = 0
	m.DeleteCalls = 0
	m.GetTransactionCalls = 0
	m.ValidateCalls = 0
	m.LastWindowReq = nil
	m.LastCaptureAmount = 0
	m.LastCreditAmount = 0
	m.LastReference = ""
	m.LastAuth = ports.Auth{}
	m.LastAction = ""
}
