package mocks

import "sync"

// MockMessenger is a mock implementation of Messenger for testing
type MockMessenger struct {
	mu sync.Mutex

	Errors    []string
	Successes []string
}

// NewMockMessenger creates a new mock messenger
func NewMockMessenger() *MockMessenger {
	return &MockMessenger{}
}

// AddError captures a user-visible error message
func (m *MockMessenger) AddError(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, message)
}

// AddSuccess captures a user-visible success message
func (m *MockMessenger) AddSuccess(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Successes = append(m.Successes, message)
}

// Reset clears all captured messages
func (m *MockMessenger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = nil
	m.Successes = nil
}
