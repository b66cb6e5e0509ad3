package testutils

import (
	"context"
	"fmt"

	"github.com/papercomputeco/khata/pkg/ledger"
)

// MockSource is a test ledger source over a fixed dataset.
type MockSource struct {
	Data []ledger.Transaction

	// FailLoad causes Load to return an error.
	FailLoad bool
}

func NewMockSource(data []ledger.Transaction) *MockSource {
	return &MockSource{Data: data}
}

func (m *MockSource) Load(_ context.Context) ([]ledger.Transaction, error) {
	if m.FailLoad {
		return nil, fmt.Errorf("%w: mock load failure", ledger.ErrLoad)
	}
	return m.Data, nil
}

func (m *MockSource) Close() error {
	return nil
}
