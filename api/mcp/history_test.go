package mcp

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/khata/pkg/memory"
	"github.com/papercomputeco/khata/pkg/memory/local"
	testutils "github.com/papercomputeco/khata/pkg/utils/test"
)

// brokenMemory errors on every recall.
type brokenMemory struct{}

func (brokenMemory) Remember(context.Context, memory.Exchange) error { return nil }

func (brokenMemory) Last(context.Context) (memory.Exchange, error) {
	return memory.Exchange{}, errors.New("recall failed")
}

func (brokenMemory) History(context.Context) ([]memory.Exchange, error) {
	return nil, errors.New("recall failed")
}

func (brokenMemory) Clear(context.Context) error { return nil }

func (brokenMemory) Close() error { return nil }

var _ = Describe("History tool", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("returns an empty history for a fresh session", func() {
		server := newToolServer(local.NewDriver(local.Config{}), testutils.NewMockEmbedder())

		result, output, err := server.handleHistory(ctx, nil, HistoryInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeFalse())
		Expect(output.Exchanges).To(BeEmpty())
		Expect(output.Count).To(Equal(0))
	})

	It("returns recorded exchanges oldest first", func() {
		mem := local.NewDriver(local.Config{})
		Expect(mem.Remember(ctx, memory.NewExchange("first question", "first answer"))).To(Succeed())
		Expect(mem.Remember(ctx, memory.NewExchange("second question", "second answer"))).To(Succeed())

		server := newToolServer(mem, testutils.NewMockEmbedder())

		_, output, err := server.handleHistory(ctx, nil, HistoryInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Count).To(Equal(2))
		Expect(output.Exchanges[0].Question).To(Equal("first question"))
		Expect(output.Exchanges[1].Question).To(Equal("second question"))
	})

	It("returns an error result when recall fails", func() {
		server := newToolServer(brokenMemory{}, testutils.NewMockEmbedder())

		result, _, err := server.handleHistory(ctx, nil, HistoryInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
		Expect(toolText(result)).To(ContainSubstring("History recall failed"))
	})
})
