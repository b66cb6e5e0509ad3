// Package memory provides a pluggable session memory layer for the khata
// system.
//
// Memory drivers record question/answer exchanges and recall them on
// demand. Exchanges are session state, not durable records: nothing
// survives a restart, and backends manage their own eviction.
//
// The [Driver] interface is intentionally minimal: Remember records an
// exchange, Last and History recall them, Clear resets the session, and
// Close releases resources.
//
// Drivers are pluggable via configuration:
//
//	[memory]
//	provider = "local"
package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Driver handles recording and recall of session exchanges.
type Driver interface {
	// Remember records one exchange. Called asynchronously by the API
	// worker pool after a query is answered, and inline by the chat REPL.
	Remember(ctx context.Context, exchange Exchange) error

	// Last returns the most recent exchange. ErrNoExchanges when the
	// session is empty.
	Last(ctx context.Context) (Exchange, error)

	// History returns recorded exchanges, oldest first.
	History(ctx context.Context) ([]Exchange, error)

	// Clear drops all recorded exchanges.
	Clear(ctx context.Context) error

	// Close releases driver resources.
	Close() error
}

// Exchange is one question/answer pair in a session.
type Exchange struct {
	ID       string    `json:"id"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// NewExchange builds an exchange with a fresh ID and the current time.
func NewExchange(question, answer string) Exchange {
	return Exchange{
		ID:       uuid.NewString(),
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now(),
	}
}
