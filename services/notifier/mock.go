package notifiersvc

import (
	"sync"

	"github.com/darasalabs/darasa/core/operation"
)

// MockNotifier records notices for assertions in tests.
type MockNotifier struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

var _ operation.Notifier = (*MockNotifier)(nil)

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (n *MockNotifier) Success(msg string) {
	n.mu.Lock()
	n.Successes = append(n.Successes, msg)
	n.mu.Unlock()
}

func (n *MockNotifier) Error(msg string) {
	n.mu.Lock()
	n.Errors = append(n.Errors, msg)
	n.mu.Unlock()
}

func (n *MockNotifier) Reset() {
	n.mu.Lock()
	n.Successes = nil
	n.Errors = nil
	n.mu.Unlock()
}
