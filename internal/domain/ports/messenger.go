package ports

// Messenger surfaces user-visible messages to the order-management UI. The
// lifecycle orchestrator decides what to surface; rendering is the caller's
// concern.
type Messenger interface {
	AddError(message string)
	AddSuccess(message string)
}
