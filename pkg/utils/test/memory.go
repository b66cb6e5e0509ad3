package testutils

import (
	"context"

	"github.com/papercomputeco/khata/pkg/memory"
)

// MockMemoryDriver is a test memory driver that records calls and returns
// configurable results.
type MockMemoryDriver struct {
	// Exchanges accumulates everything passed to Remember, oldest first.
	Exchanges []memory.Exchange

	// FailRemember causes Remember to return an error.
	FailRemember bool

	// FailRecall causes Last and History to return an error.
	FailRecall bool
}

// NewMockMemoryDriver creates a new mock memory driver.
func NewMockMemoryDriver() *MockMemoryDriver {
	return &MockMemoryDriver{
		Exchanges: make([]memory.Exchange, 0),
	}
}

func (m *MockMemoryDriver) Remember(_ context.Context, exchange memory.Exchange) error {
	if m.FailRemember {
		return memory.ErrNotConfigured
	}
	m.Exchanges = append(m.Exchanges, exchange)
	return nil
}

func (m *MockMemoryDriver) Last(_ context.Context) (memory.Exchange, error) {
	if m.FailRecall {
		return memory.Exchange{}, memory.ErrNotConfigured
	}
	if len(m.Exchanges) == 0 {
		return memory.Exchange{}, memory.ErrNoExchanges
	}
	return m.Exchanges[len(m.Exchanges)-1], nil
}

func (m *MockMemoryDriver) History(_ context.Context) ([]memory.Exchange, error) {
	if m.FailRecall {
		return nil, memory.ErrNotConfigured
	}
	return m.Exchanges, nil
}

func (m *MockMemoryDriver) Clear(_ context.Context) error {
	m.Exchanges = nil
	return nil
}

func (m *MockMemoryDriver) Close() error {
	return nil
}
