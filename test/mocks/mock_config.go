package mocks

import "github.com/commercekit/epay-gateway/internal/domain/ports"

// MockConfigStore is a mock implementation of ConfigStore for testing. Fields
// are returned as-is for every store id.
type MockConfigStore struct {
	AuthValue            ports.Auth
	WindowIDValue        string
	WindowStateValue     string
	LocaleValue          string
	InstantCaptureValue  bool
	MobileWindowValue    bool
	InvoiceDataValue     bool
	RemoteInterfaceValue bool
	OwnReceiptValue      bool
}

// NewMockConfigStore creates a mock config with remote processing enabled
func NewMockConfigStore() *MockConfigStore {
	return &MockConfigStore{
		AuthValue: ports.Auth{
			MerchantNumber: "12345678",
			Password:       "remote-password",
			MD5Key:         "md5-secret",
		},
		WindowIDValue:        "1",
		WindowStateValue:     "3",
		LocaleValue:          "en_US",
		InvoiceDataValue:     true,
		RemoteInterfaceValue: true,
	}
}

func (m *MockConfigStore) Auth(storeID string) ports.Auth      { return m.AuthValue }
func (m *MockConfigStore) WindowID(storeID string) string      { return m.WindowIDValue }
func (m *MockConfigStore) WindowState(storeID string) string   { return m.WindowStateValue }
func (m *MockConfigStore) Locale(storeID string) string        { return m.LocaleValue }
func (m *MockConfigStore) InstantCapture(storeID string) bool  { return m.InstantCaptureValue }
func (m *MockConfigStore) MobileWindow(storeID string) bool    { return m.MobileWindowValue }
func (m *MockConfigStore) InvoiceData(storeID string) bool     { return m.InvoiceDataValue }
func (m *MockConfigStore) RemoteInterface(storeID string) bool { return m.RemoteInterfaceValue }
func (m *MockConfigStore) OwnReceipt(storeID string) bool      { return m.OwnReceiptValue }
