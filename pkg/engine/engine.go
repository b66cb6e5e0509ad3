// Package engine answers natural-language questions over a transaction
// dataset. It builds an embedding index over projected description
// sentences at construction time, then serves retrieval and rule-based
// answer composition over the immutable dataset.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/embeddings"
	"github.com/papercomputeco/khata/pkg/eventstream"
	"github.com/papercomputeco/khata/pkg/eventstream/nop"
	"github.com/papercomputeco/khata/pkg/ledger"
	"github.com/papercomputeco/khata/pkg/vector"
)

// DefaultTopK is the number of matches retrieved when no explicit limit
// is given.
const DefaultTopK = 3

// Match is one retrieved description with its similarity score.
type Match struct {
	Description string  `json:"description"`
	Score       float32 `json:"score"`
}

// Engine holds the loaded dataset and its embedding index. It is
// immutable after New; concurrent Retrieve and Answer calls are safe.
type Engine struct {
	data         []ledger.Transaction
	descriptions []string
	embedder     embeddings.Embedder
	driver       vector.Driver
	topK         int
	dimensions   int
	logger       *zap.Logger
	publisher    eventstream.Publisher
	now          func() time.Time
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithTopK sets the default number of matches returned by Retrieve.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithPublisher sets the eventstream publisher for engine events.
func WithPublisher(p eventstream.Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New loads the dataset, projects every transaction into its description
// sentence, embeds the corpus, and indexes it in the vector driver.
// Document IDs are the corpus positions, the join key between the index
// and the dataset. Any failure is fatal and wraps ErrInitialization.
func New(ctx context.Context, source ledger.Source, embedder embeddings.Embedder, driver vector.Driver, logger *zap.Logger, opts ...Option) (*Engine, error) {
	e := &Engine{
		embedder:  embedder,
		driver:    driver,
		topK:      DefaultTopK,
		logger:    logger,
		publisher: nop.NewPublisher(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	data, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	e.data = data
	e.descriptions = DescribeAll(data)

	docs := make([]vector.Document, len(e.descriptions))
	for i, desc := range e.descriptions {
		emb, err := e.embedder.Embed(ctx, desc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
		}
		if e.dimensions == 0 {
			e.dimensions = len(emb)
		}
		docs[i] = vector.Document{
			ID:        strconv.Itoa(i),
			Content:   desc,
			Embedding: emb,
		}
	}

	if len(docs) > 0 {
		if err := e.driver.Add(ctx, docs); err != nil {
			return nil, fmt.Errorf("%w: %w: indexing corpus: %v", ErrInitialization, embeddings.ErrEmbedding, err)
		}
	}

	e.logger.Info("engine ready",
		zap.Int("transactions", len(e.data)),
		zap.Int("dimensions", e.dimensions),
	)
	e.publish(ctx, eventstream.EventTypeEngineReady, nil)

	return e, nil
}

// Transactions returns the loaded dataset in corpus order.
func (e *Engine) Transactions() []ledger.Transaction {
	return e.data
}

// Retrieve returns the topK descriptions most similar to the query,
// best first. Non-positive topK uses the engine default. Failures after
// initialization degrade to an empty result with the cause logged;
// retrieval never fails a request.
func (e *Engine) Retrieve(ctx context.Context, query string, topK int) []Match {
	matches, err := e.retrieve(ctx, query, topK)
	if err != nil {
		e.logger.Error("retrieval failed", zap.Error(err))
		return nil
	}
	return matches
}

func (e *Engine) retrieve(ctx context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = e.topK
	}

	if query == "" || len(e.descriptions) == 0 {
		e.logger.Warn("nothing to retrieve",
			zap.Bool("empty_query", query == ""),
			zap.Int("corpus_size", len(e.descriptions)),
		)
		return nil, nil
	}

	emb, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", ErrQuery, err)
	}

	results, err := e.driver.Query(ctx, emb, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: querying index: %v", ErrQuery, err)
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{
			Description: r.Content,
			Score:       r.Score,
		})
	}
	return matches, nil
}

// Answer composes the reply for a query given its retrieved matches.
// It always returns a displayable string, never an error.
func (e *Engine) Answer(ctx context.Context, query string, matches []Match) string {
	started := e.now()
	answer, intent := e.answer(query, matches)

	e.publish(ctx, eventstream.EventTypeQueryAnswered, &eventstream.QueryMeta{
		Intent:     intent,
		Matches:    len(matches),
		DurationMs: e.now().Sub(started).Milliseconds(),
	})

	return answer
}

func (e *Engine) publish(ctx context.Context, eventType string, query *eventstream.QueryMeta) {
	event := &eventstream.Event{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventType,
		EventID:       uuid.NewString(),
		EmittedAt:     e.now(),
		Engine: eventstream.EngineMeta{
			CorpusSize: len(e.data),
			Dimensions: e.dimensions,
		},
		Query: query,
	}

	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("event publish failed",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
