package engine_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/embeddings"
	"github.com/papercomputeco/khata/pkg/engine"
	"github.com/papercomputeco/khata/pkg/eventstream"
	"github.com/papercomputeco/khata/pkg/ledger"
	testutils "github.com/papercomputeco/khata/pkg/utils/test"
	"github.com/papercomputeco/khata/pkg/vector/exhaustive"
)

// sampleData is the two-customer fixture used across the suite. Amit's
// total is 55000, the grand total 75000.
var sampleData = []ledger.Transaction{
	{Date: "2024-01-12", Customer: "Amit", Product: "Laptop", Amount: 55000},
	{Date: "2024-02-01", Customer: "Riya", Product: "Phone", Amount: 20000},
}

// storeData spreads purchases over three months and gives Amit a second
// transaction.
var storeData = []ledger.Transaction{
	{Date: "2024-01-12", Customer: "Amit", Product: "Laptop", Amount: 55000},
	{Date: "2024-02-01", Customer: "Riya", Product: "Phone", Amount: 20000},
	{Date: "2024-02-15", Customer: "Priya", Product: "Headphones", Amount: 3000},
	{Date: "2024-03-03", Customer: "Amit", Product: "Mouse", Amount: 1200},
}

// capturingPublisher records every published event in order.
type capturingPublisher struct {
	events []*eventstream.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event *eventstream.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) Close() error {
	return nil
}

func newEngine(data []ledger.Transaction, embedder *testutils.MockEmbedder, opts ...engine.Option) *engine.Engine {
	eng, err := engine.New(context.Background(), testutils.NewMockSource(data), embedder, exhaustive.New(zap.NewNop()), zap.NewNop(), opts...)
	Expect(err).NotTo(HaveOccurred())
	return eng
}

var _ = Describe("Describe", func() {
	It("renders the fixed description sentence", func() {
		t := ledger.Transaction{Date: "2024-01-12", Customer: "Amit", Product: "Laptop", Amount: 55000}
		Expect(engine.Describe(t)).To(Equal("On 2024-01-12, Amit purchased a Laptop for 55000."))
	})

	It("keeps descriptions aligned with their transactions", func() {
		descs := engine.DescribeAll(sampleData)

		Expect(descs).To(HaveLen(2))
		Expect(descs[0]).To(Equal("On 2024-01-12, Amit purchased a Laptop for 55000."))
		Expect(descs[1]).To(Equal("On 2024-02-01, Riya purchased a Phone for 20000."))
	})

	It("is deterministic over the same dataset", func() {
		Expect(engine.DescribeAll(sampleData)).To(Equal(engine.DescribeAll(sampleData)))
	})
})

var _ = Describe("New", func() {
	var (
		ctx      context.Context
		embedder *testutils.MockEmbedder
	)

	BeforeEach(func() {
		ctx = context.Background()
		embedder = testutils.NewMockEmbedder()
	})

	It("indexes one document per transaction with positional IDs", func() {
		driver := testutils.NewMockVectorDriver()

		_, err := engine.New(ctx, testutils.NewMockSource(sampleData), embedder, driver, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		Expect(driver.Documents).To(HaveLen(2))
		Expect(driver.Documents[0].ID).To(Equal("0"))
		Expect(driver.Documents[0].Content).To(Equal("On 2024-01-12, Amit purchased a Laptop for 55000."))
		Expect(driver.Documents[1].ID).To(Equal("1"))
		Expect(driver.Documents[1].Content).To(Equal("On 2024-02-01, Riya purchased a Phone for 20000."))
	})

	It("exposes the loaded dataset in order", func() {
		eng := newEngine(sampleData, embedder)
		Expect(eng.Transactions()).To(Equal(sampleData))
	})

	It("builds over an empty dataset", func() {
		driver := testutils.NewMockVectorDriver()

		eng, err := engine.New(ctx, testutils.NewMockSource(nil), embedder, driver, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(eng.Transactions()).To(BeEmpty())
		Expect(driver.Documents).To(BeEmpty())
	})

	It("fails when the source cannot load", func() {
		source := testutils.NewMockSource(sampleData)
		source.FailLoad = true

		_, err := engine.New(ctx, source, embedder, testutils.NewMockVectorDriver(), zap.NewNop())
		Expect(err).To(MatchError(engine.ErrInitialization))
		Expect(errors.Is(err, ledger.ErrLoad)).To(BeTrue())
	})

	It("fails when a description cannot be embedded", func() {
		embedder.FailOn = "On 2024-02-01, Riya purchased a Phone for 20000."

		_, err := engine.New(ctx, testutils.NewMockSource(sampleData), embedder, testutils.NewMockVectorDriver(), zap.NewNop())
		Expect(err).To(MatchError(engine.ErrInitialization))
		Expect(errors.Is(err, embeddings.ErrEmbedding)).To(BeTrue())
	})

	It("fails when the index rejects the corpus", func() {
		driver := testutils.NewMockVectorDriver()
		driver.FailAdd = true

		_, err := engine.New(ctx, testutils.NewMockSource(sampleData), embedder, driver, zap.NewNop())
		Expect(err).To(MatchError(engine.ErrInitialization))
		Expect(errors.Is(err, embeddings.ErrEmbedding)).To(BeTrue())
	})

	It("publishes a ready event once the index is built", func() {
		publisher := &capturingPublisher{}
		at := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

		newEngine(sampleData, embedder,
			engine.WithPublisher(publisher),
			engine.WithClock(func() time.Time { return at }),
		)

		Expect(publisher.events).To(HaveLen(1))
		event := publisher.events[0]
		Expect(event.EventType).To(Equal(eventstream.EventTypeEngineReady))
		Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
		Expect(event.EventID).NotTo(BeEmpty())
		Expect(event.EmittedAt).To(Equal(at))
		Expect(event.Engine.CorpusSize).To(Equal(2))
		Expect(event.Engine.Dimensions).To(Equal(3))
		Expect(event.Query).To(BeNil())
	})
})

var _ = Describe("Retrieve", func() {
	var (
		ctx      context.Context
		embedder *testutils.MockEmbedder
		eng      *engine.Engine
	)

	BeforeEach(func() {
		ctx = context.Background()
		embedder = testutils.NewMockEmbedder()
		embedder.Embeddings = map[string][]float32{
			"On 2024-01-12, Amit purchased a Laptop for 55000.":     {1, 0, 0, 0},
			"On 2024-02-01, Riya purchased a Phone for 20000.":      {1, 1, 0, 0},
			"On 2024-02-15, Priya purchased a Headphones for 3000.": {1, 2, 0, 0},
			"On 2024-03-03, Amit purchased a Mouse for 1200.":       {0, 1, 0, 0},
			"laptop": {1, 0, 0, 0},
		}
		eng = newEngine(storeData, embedder)
	})

	It("returns the closest descriptions best first", func() {
		matches := eng.Retrieve(ctx, "laptop", 0)

		Expect(matches).To(HaveLen(3))
		Expect(matches[0].Description).To(Equal("On 2024-01-12, Amit purchased a Laptop for 55000."))
		Expect(matches[0].Score).To(BeNumerically("~", 1.0, 1e-6))
		Expect(matches[1].Description).To(Equal("On 2024-02-01, Riya purchased a Phone for 20000."))
		Expect(matches[2].Description).To(Equal("On 2024-02-15, Priya purchased a Headphones for 3000."))
	})

	It("respects an explicit limit", func() {
		matches := eng.Retrieve(ctx, "laptop", 2)

		Expect(matches).To(HaveLen(2))
		Expect(matches[0].Description).To(ContainSubstring("Laptop"))
	})

	It("caps results at the corpus size", func() {
		matches := eng.Retrieve(ctx, "laptop", 10)

		Expect(matches).To(HaveLen(4))
		seen := make(map[string]bool)
		for i, m := range matches {
			if i > 0 {
				Expect(m.Score).To(BeNumerically("<=", matches[i-1].Score))
			}
			Expect(seen[m.Description]).To(BeFalse())
			seen[m.Description] = true
		}
	})

	It("honors a configured default limit", func() {
		limited := newEngine(storeData, embedder, engine.WithTopK(1))

		matches := limited.Retrieve(ctx, "laptop", 0)
		Expect(matches).To(HaveLen(1))
		Expect(matches[0].Description).To(ContainSubstring("Laptop"))
	})

	It("breaks score ties by dataset order", func() {
		tieEmbedder := testutils.NewMockEmbedder()
		tieEmbedder.Embeddings = map[string][]float32{
			"On 2024-01-12, Amit purchased a Laptop for 55000.": {1, 0, 0, 0},
			"On 2024-02-01, Riya purchased a Phone for 20000.":  {1, 0, 0, 0},
			"anything": {1, 0, 0, 0},
		}
		tied := newEngine(sampleData, tieEmbedder)

		matches := tied.Retrieve(ctx, "anything", 0)
		Expect(matches).To(HaveLen(2))
		Expect(matches[0].Description).To(ContainSubstring("Amit"))
		Expect(matches[1].Description).To(ContainSubstring("Riya"))
	})

	It("returns nothing for an empty query without embedding it", func() {
		before := len(embedder.Calls)

		Expect(eng.Retrieve(ctx, "", 0)).To(BeEmpty())
		Expect(embedder.Calls).To(HaveLen(before))
	})

	It("returns nothing when the dataset is empty", func() {
		empty := newEngine(nil, testutils.NewMockEmbedder())
		Expect(empty.Retrieve(ctx, "laptop", 0)).To(BeEmpty())
	})

	It("degrades to no matches when the query cannot be embedded", func() {
		embedder.FailOn = "laptop"
		Expect(eng.Retrieve(ctx, "laptop", 0)).To(BeEmpty())
	})

	It("degrades to no matches when the index cannot be queried", func() {
		driver := testutils.NewMockVectorDriver()
		driver.FailQuery = true

		failing, err := engine.New(ctx, testutils.NewMockSource(storeData), embedder, driver, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(failing.Retrieve(ctx, "laptop", 0)).To(BeEmpty())
	})
})
