// Package local provides an in-memory implementation of the memory.Driver
// interface.
//
// Exchanges are held in arrival order in a bounded slice. On overflow the
// oldest exchange is evicted. Sessions live and die with the process;
// nothing persists across restarts.
package local

import (
	"context"
	"sync"

	"github.com/papercomputeco/khata/pkg/memory"
)

// DefaultCapacity bounds the session when no capacity is configured.
const DefaultCapacity = 100

// Config holds configuration for the local memory driver.
type Config struct {
	// Capacity bounds the number of retained exchanges. Zero or negative
	// uses DefaultCapacity.
	Capacity int
}

// Driver implements memory.Driver using in-process data structures.
type Driver struct {
	capacity int

	mu sync.RWMutex

	// exchanges holds the session, oldest first.
	exchanges []memory.Exchange
}

// NewDriver creates a local in-memory session driver.
func NewDriver(config Config) *Driver {
	capacity := config.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Driver{
		capacity: capacity,
	}
}

// Remember appends the exchange, evicting the oldest when full.
func (d *Driver) Remember(_ context.Context, exchange memory.Exchange) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.exchanges = append(d.exchanges, exchange)
	if len(d.exchanges) > d.capacity {
		d.exchanges = d.exchanges[len(d.exchanges)-d.capacity:]
	}

	return nil
}

// Last returns the most recent exchange.
func (d *Driver) Last(_ context.Context) (memory.Exchange, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.exchanges) == 0 {
		return memory.Exchange{}, memory.ErrNoExchanges
	}

	return d.exchanges[len(d.exchanges)-1], nil
}

// History returns all recorded exchanges, oldest first.
func (d *Driver) History(_ context.Context) ([]memory.Exchange, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.exchanges) == 0 {
		return nil, nil
	}

	// Return a copy to avoid callers mutating internal state.
	result := make([]memory.Exchange, len(d.exchanges))
	copy(result, d.exchanges)

	return result, nil
}

// Clear drops all recorded exchanges.
func (d *Driver) Clear(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.exchanges = nil
	return nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}
