package mcp

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	testutils "github.com/papercomputeco/khata/pkg/utils/test"
)

var _ = Describe("Search tool", func() {
	var (
		server *Server
		ctx    context.Context
	)

	BeforeEach(func() {
		embedder := testutils.NewMockEmbedder()
		embedder.Embeddings = map[string][]float32{
			"On 2024-01-12, Amit purchased a Laptop for 55000.": {1, 0, 0, 0},
			"On 2024-02-01, Riya purchased a Phone for 20000.":  {0, 1, 0, 0},
			"laptop": {1, 0, 0, 0},
		}

		server = newToolServer(nil, embedder)
		ctx = context.Background()
	})

	It("returns an error result when query is empty", func() {
		result, output, err := server.handleSearch(ctx, nil, SearchInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
		Expect(toolText(result)).To(Equal("query is required"))
		Expect(output).To(Equal(SearchOutput{}))
	})

	It("returns the best match first", func() {
		result, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "laptop"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeFalse())

		Expect(output.Query).To(Equal("laptop"))
		Expect(output.Count).To(Equal(2))
		Expect(output.Results[0].Description).To(Equal("On 2024-01-12, Amit purchased a Laptop for 55000."))
		Expect(output.Results[0].Score).To(BeNumerically("~", 1.0, 1e-6))
		Expect(output.Results[1].Description).To(Equal("On 2024-02-01, Riya purchased a Phone for 20000."))
		Expect(output.Results[1].Score).To(BeNumerically("<", output.Results[0].Score))
	})

	It("honors top_k", func() {
		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "laptop", TopK: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Results).To(HaveLen(1))
		Expect(output.Results[0].Description).To(Equal("On 2024-01-12, Amit purchased a Laptop for 55000."))
	})
})
