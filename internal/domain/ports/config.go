package ports

// ConfigStore supplies merchant credentials and feature toggles, scoped by
// store id. Implementations are read-only from the orchestrator's point of
// view.
type ConfigStore interface {
	Auth(storeID string) Auth
	WindowID(storeID string) string
	WindowState(storeID string) string
	Locale(storeID string) string

	InstantCapture(storeID string) bool
	MobileWindow(storeID string) bool
	InvoiceData(storeID string) bool
	RemoteInterface(storeID string) bool
	OwnReceipt(storeID string) bool
}
