package messaging

import (
	"sync"

	"github.com/commercekit/epay-gateway/internal/domain/ports"
)

// LogMessenger implements ports.Messenger by writing user-visible messages
// through the structured logger and retaining the most recent ones so the
// storefront can poll them.
type LogMessenger struct {
	logger ports.Logger

	mu       sync.Mutex
	recent   []Message
	capacity int
}

// Message is one retained user-visible message.
type Message struct {
	Text  string
	Error bool
}

// NewLogMessenger creates a messenger retaining up to capacity messages.
func NewLogMessenger(logger ports.Logger, capacity int) *LogMessenger {
	if capacity <= 0 {
		capacity = 32
	}
	return &LogMessenger{
		logger:   logger,
		capacity: capacity,
	}
}

// AddError implements ports.Messenger
func (m *LogMessenger) AddError(message string) {
	m.logger.Warn("user-visible error", ports.String("message", message))
	m.retain(Message{Text: message, Error: true})
}

// AddSuccess implements ports.Messenger
func (m *LogMessenger) AddSuccess(message string) {
	m.logger.Info("user-visible message", ports.String("message", message))
	m.retain(Message{Text: message})
}

// Drain returns and clears the retained messages.
func (m *LogMessenger) Drain() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := m.recent
	m.recent = nil
	return messages
}

func (m *LogMessenger) retain(msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent = append(m.recent, msg)
	if len(m.recent) > m.capacity {
		m.recent = m.recent[len(m.recent)-m.capacity:]
	}
}
