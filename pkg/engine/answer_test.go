package engine_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/khata/pkg/engine"
	"github.com/papercomputeco/khata/pkg/eventstream"
	"github.com/papercomputeco/khata/pkg/ledger"
	testutils "github.com/papercomputeco/khata/pkg/utils/test"
)

var _ = Describe("Answer", func() {
	var (
		ctx context.Context
		eng *engine.Engine
	)

	BeforeEach(func() {
		ctx = context.Background()
		eng = newEngine(sampleData, testutils.NewMockEmbedder())
	})

	Context("total spending", func() {
		It("totals a named customer's spending", func() {
			answer := eng.Answer(ctx, "What is Amit's total spending?", nil)
			Expect(answer).To(Equal("Amit's total spending is ₹55000. They made 1 transaction(s):\n- Laptop for ₹55000 on 2024-01-12"))
		})

		It("lists every transaction behind a customer's total", func() {
			eng = newEngine(storeData, testutils.NewMockEmbedder())

			answer := eng.Answer(ctx, "What is Amit's total spending?", nil)
			Expect(answer).To(Equal("Amit's total spending is ₹56200. They made 2 transaction(s):\n- Laptop for ₹55000 on 2024-01-12\n- Mouse for ₹1200 on 2024-03-03"))
		})

		It("totals all customers when no name is given", func() {
			answer := eng.Answer(ctx, "What is the total amount spent?", nil)
			Expect(answer).To(Equal("Total spending across all customers is ₹75000."))
		})

		It("recognizes the total spent wording", func() {
			answer := eng.Answer(ctx, "What's the total spent across the store?", nil)
			Expect(answer).To(Equal("Total spending across all customers is ₹75000."))
		})

		It("matches customer names case-insensitively", func() {
			answer := eng.Answer(ctx, "WHAT IS AMIT'S TOTAL SPENDING?", nil)
			Expect(answer).To(HavePrefix("Amit's total spending is ₹55000."))
		})
	})

	Context("purchase history", func() {
		It("lists a named customer's purchases and nobody else's", func() {
			answer := eng.Answer(ctx, "Show me Riya's purchase history", nil)

			Expect(answer).To(Equal("Riya's purchase history:\n- On 2024-02-01, purchased Phone for ₹20000"))
			Expect(answer).NotTo(ContainSubstring("Amit"))
			Expect(answer).NotTo(ContainSubstring("Laptop"))
		})

		It("recognizes the bought wording", func() {
			answer := eng.Answer(ctx, "What has Riya bought?", nil)
			Expect(answer).To(Equal("Riya's purchase history:\n- On 2024-02-01, purchased Phone for ₹20000"))
		})

		It("asks for a name when the question has none", func() {
			answer := eng.Answer(ctx, "Show me all purchases", nil)
			Expect(answer).To(Equal("Please specify a customer name to view their purchase history."))
		})
	})

	Context("month filters", func() {
		It("lists only the named month's transactions", func() {
			answer := eng.Answer(ctx, "List all February transactions", nil)

			Expect(answer).To(Equal("February 2024 transactions:\n- Riya purchased Phone for ₹20000 on 2024-02-01"))
			Expect(answer).NotTo(ContainSubstring("Amit"))
		})

		It("recognizes abbreviated month names", func() {
			answer := eng.Answer(ctx, "what happened in jan?", nil)
			Expect(answer).To(Equal("January 2024 transactions:\n- Amit purchased Laptop for ₹55000 on 2024-01-12"))
		})

		It("reports a month with no transactions", func() {
			answer := eng.Answer(ctx, "Show March activity", nil)
			Expect(answer).To(Equal("No transactions found for March 2024."))
		})

		It("prefers February when several months appear", func() {
			answer := eng.Answer(ctx, "Compare january and february", nil)
			Expect(answer).To(HavePrefix("February 2024 transactions:"))
		})
	})

	Context("rule priority", func() {
		It("prefers totals over month mentions", func() {
			answer := eng.Answer(ctx, "What was the total spending in February?", nil)
			Expect(answer).To(Equal("Total spending across all customers is ₹75000."))
		})

		It("prefers totals over history when both wordings appear", func() {
			answer := eng.Answer(ctx, "Show Amit's purchases and total spending", nil)
			Expect(answer).To(HavePrefix("Amit's total spending is"))
		})

		It("ignores month mentions inside a history question", func() {
			eng = newEngine(storeData, testutils.NewMockEmbedder())

			answer := eng.Answer(ctx, "List Amit's purchases from February", nil)
			Expect(answer).To(Equal("Amit's purchase history:\n- On 2024-01-12, purchased Laptop for ₹55000\n- On 2024-03-03, purchased Mouse for ₹1200"))
		})
	})

	Context("customer binding", func() {
		It("binds the earliest record when customer names overlap", func() {
			overlapping := []ledger.Transaction{
				{Date: "2024-02-01", Customer: "Riya", Product: "Phone", Amount: 20000},
				{Date: "2024-02-15", Customer: "Priya", Product: "Headphones", Amount: 3000},
			}
			eng = newEngine(overlapping, testutils.NewMockEmbedder())

			answer := eng.Answer(ctx, "Show me Priya's purchase history", nil)
			Expect(answer).To(HavePrefix("Riya's purchase history:"))
		})

		It("binds the overlapped name when its record comes first", func() {
			overlapping := []ledger.Transaction{
				{Date: "2024-02-15", Customer: "Priya", Product: "Headphones", Amount: 3000},
				{Date: "2024-02-01", Customer: "Riya", Product: "Phone", Amount: 20000},
			}
			eng = newEngine(overlapping, testutils.NewMockEmbedder())

			answer := eng.Answer(ctx, "Show me Priya's purchase history", nil)
			Expect(answer).To(Equal("Priya's purchase history:\n- On 2024-02-15, purchased Headphones for ₹3000"))
		})
	})

	Context("fallback", func() {
		It("lists retrieved context when no rule matches", func() {
			matches := []engine.Match{
				{Description: "On 2024-01-12, Amit purchased a Laptop for 55000.", Score: 0.92},
				{Description: "On 2024-02-01, Riya purchased a Phone for 20000.", Score: 0.61},
			}

			answer := eng.Answer(ctx, "anything about electronics?", matches)
			Expect(answer).To(Equal("Based on the transaction data:\n\n- On 2024-01-12, Amit purchased a Laptop for 55000.\n- On 2024-02-01, Riya purchased a Phone for 20000."))
		})

		It("prompts for a rephrase without matches", func() {
			answer := eng.Answer(ctx, "anything about electronics?", nil)
			Expect(answer).To(Equal("I couldn't find relevant information to answer your question. Please try rephrasing."))
		})

		It("treats whitespace queries as unmatched, not invalid", func() {
			answer := eng.Answer(ctx, "   ", nil)
			Expect(answer).To(Equal("I couldn't find relevant information to answer your question. Please try rephrasing."))
		})
	})

	Context("invalid queries", func() {
		It("rejects an empty query with the fixed message", func() {
			Expect(eng.Answer(ctx, "", nil)).To(Equal("Invalid query provided."))
		})
	})

	Context("events", func() {
		It("publishes an answered event with the detected intent", func() {
			publisher := &capturingPublisher{}
			at := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
			eng = newEngine(sampleData, testutils.NewMockEmbedder(),
				engine.WithPublisher(publisher),
				engine.WithClock(func() time.Time { return at }),
			)

			eng.Answer(ctx, "Show me Riya's purchase history", []engine.Match{{Description: "x", Score: 1}})

			Expect(publisher.events).To(HaveLen(2))
			event := publisher.events[1]
			Expect(event.EventType).To(Equal(eventstream.EventTypeQueryAnswered))
			Expect(event.EmittedAt).To(Equal(at))
			Expect(event.Query).NotTo(BeNil())
			Expect(event.Query.Intent).To(Equal("purchase_history"))
			Expect(event.Query.Matches).To(Equal(1))
			Expect(event.Query.DurationMs).To(BeZero())
		})

		It("labels each rule's intent on the answered event", func() {
			publisher := &capturingPublisher{}
			eng = newEngine(sampleData, testutils.NewMockEmbedder(), engine.WithPublisher(publisher))

			eng.Answer(ctx, "What is Amit's total spending?", nil)
			eng.Answer(ctx, "List all February transactions", nil)
			eng.Answer(ctx, "", nil)
			eng.Answer(ctx, "anything?", nil)

			var intents []string
			for _, event := range publisher.events[1:] {
				intents = append(intents, event.Query.Intent)
			}
			Expect(intents).To(Equal([]string{"total_spending", "month_filter", "invalid", "fallback"}))
		})
	})

	It("answers a retrieval-backed question end to end", func() {
		embedder := testutils.NewMockEmbedder()
		embedder.Embeddings = map[string][]float32{
			"On 2024-01-12, Amit purchased a Laptop for 55000.": {1, 0, 0, 0},
			"On 2024-02-01, Riya purchased a Phone for 20000.":  {0, 1, 0, 0},
			"which electronics moved?":                          {1, 0, 0, 0},
		}
		eng = newEngine(sampleData, embedder)

		matches := eng.Retrieve(ctx, "which electronics moved?", 1)
		answer := eng.Answer(ctx, "which electronics moved?", matches)

		Expect(answer).To(Equal("Based on the transaction data:\n\n- On 2024-01-12, Amit purchased a Laptop for 55000."))
	})
})
