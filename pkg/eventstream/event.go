package eventstream

import (
	"time"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeEngineReady is emitted once the engine has built its index.
	EventTypeEngineReady = "khata.engine.ready"

	// EventTypeQueryAnswered is emitted after a query produces an answer.
	EventTypeQueryAnswered = "khata.query.answered"
)

// Event is a transport-neutral payload for engine lifecycle and query
// activity.
type Event struct {
	SchemaVersion int        `json:"schema_version"`
	EventType     string     `json:"event_type"`
	EventID       string     `json:"event_id"`
	EmittedAt     time.Time  `json:"emitted_at"`
	Engine        EngineMeta `json:"engine"`
	Query         *QueryMeta `json:"query,omitempty"`
}

// EngineMeta describes the engine instance that emitted the event.
type EngineMeta struct {
	CorpusSize int `json:"corpus_size"`
	Dimensions int `json:"dimensions,omitempty"`
}

// QueryMeta captures per-query metadata, present on query events only.
type QueryMeta struct {
	Intent     string `json:"intent"`
	Matches    int    `json:"matches"`
	DurationMs int64  `json:"duration_ms"`
}
