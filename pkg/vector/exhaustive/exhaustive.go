// Package exhaustive provides an in-memory vector driver that scores the
// entire corpus against every query. Ranking is exact and deterministic
// for a fixed corpus.
package exhaustive

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/vector"
)

const defaultTopK = 10

// Driver implements vector.Driver with exact cosine ranking. Documents
// keep their insertion order; equal scores rank by that order, so results
// are deterministic for a fixed corpus.
type Driver struct {
	mu     sync.RWMutex
	docs   []vector.Document
	byID   map[string]int
	dim    int
	logger *zap.Logger
}

// New creates an empty in-memory driver.
func New(logger *zap.Logger) *Driver {
	return &Driver{
		byID:   make(map[string]int),
		logger: logger,
	}
}

// Add stores documents. A document with a known ID is replaced in place,
// keeping its insertion position. The first document fixes the expected
// embedding dimensionality.
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, doc := range docs {
		if d.dim == 0 {
			d.dim = len(doc.Embedding)
		}
		if len(doc.Embedding) != d.dim {
			return fmt.Errorf("%w: got %d, index holds %d", vector.ErrDimension, len(doc.Embedding), d.dim)
		}

		if pos, ok := d.byID[doc.ID]; ok {
			d.docs[pos] = doc
			continue
		}
		d.byID[doc.ID] = len(d.docs)
		d.docs = append(d.docs, doc)
	}

	d.logger.Debug("added documents to exhaustive index",
		zap.Int("count", len(docs)),
		zap.Int("size", len(d.docs)),
	)

	return nil
}

// Query scores every stored document by cosine similarity and returns the
// topK best, descending by score with ties broken by insertion order. An
// empty index yields an empty result.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = defaultTopK
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.docs) == 0 {
		return nil, nil
	}
	if len(embedding) != d.dim {
		return nil, fmt.Errorf("%w: query has %d, index holds %d", vector.ErrDimension, len(embedding), d.dim)
	}

	scores := make([]float64, len(d.docs))
	for i, doc := range d.docs {
		scores[i] = cosine(embedding, doc.Embedding)
	}

	order := make([]int, len(d.docs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return order[a] < order[b]
	})

	k := topK
	if k > len(order) {
		k = len(order)
	}

	results := make([]vector.QueryResult, 0, k)
	for _, idx := range order[:k] {
		results = append(results, vector.QueryResult{
			Document: d.docs[idx],
			Score:    float32(scores[idx]),
		})
	}

	d.logger.Debug("queried exhaustive index",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Get retrieves documents by their IDs. Unknown IDs are skipped.
func (d *Driver) Get(ctx context.Context, ids []string) ([]vector.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var docs []vector.Document
	for _, id := range ids {
		if pos, ok := d.byID[id]; ok {
			docs = append(docs, d.docs[pos])
		}
	}
	return docs, nil
}

// Delete removes documents by their IDs. Remaining documents close ranks,
// so insertion positions shift; the engine never deletes from a built index.
func (d *Driver) Delete(ctx context.Context, ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := d.docs[:0]
	for _, doc := range d.docs {
		if _, ok := drop[doc.ID]; !ok {
			kept = append(kept, doc)
		}
	}
	d.docs = kept

	d.byID = make(map[string]int, len(d.docs))
	for i, doc := range d.docs {
		d.byID[doc.ID] = i
	}
	if len(d.docs) == 0 {
		d.dim = 0
	}

	return nil
}

// Close drops the stored documents.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.docs = nil
	d.byID = make(map[string]int)
	d.dim = 0
	return nil
}

// cosine computes (a·b)/(‖a‖·‖b‖) in float64 for stability. A zero
// vector has no direction and scores 0 against everything.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
