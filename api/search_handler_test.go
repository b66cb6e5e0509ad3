package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	testutils "github.com/papercomputeco/khata/pkg/utils/test"
)

var _ = Describe("handleSearchEndpoint", func() {
	var (
		server   *Server
		embedder *testutils.MockEmbedder
	)

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		embedder.Embeddings = map[string][]float32{
			"On 2024-01-12, Amit purchased a Laptop for 55000.": {1, 0, 0, 0},
			"On 2024-02-01, Riya purchased a Phone for 20000.":  {0, 1, 0, 0},
			"laptop": {1, 0, 0, 0},
		}

		server = newTestServer(Config{ListenAddr: ":0"}, apiTestData, embedder)
	})

	Context("when query parameter is missing", func() {
		It("returns 400", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("query parameter is required"))
		})
	})

	Context("when query parameter is empty", func() {
		It("returns 400", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Context("when top_k is invalid", func() {
		It("returns 400 for non-integer top_k", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=test&top_k=abc", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("top_k must be a positive integer"))
		})

		It("returns 400 for zero top_k", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=test&top_k=0", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 400 for negative top_k", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=test&top_k=-1", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Context("when the search succeeds", func() {
		It("returns the best match first", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=laptop", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out SearchResponse
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(body, &out)).To(Succeed())

			Expect(out.Query).To(Equal("laptop"))
			Expect(out.Count).To(Equal(2))
			Expect(out.Results).To(HaveLen(2))
			Expect(out.Results[0].Description).To(Equal("On 2024-01-12, Amit purchased a Laptop for 55000."))
			Expect(out.Results[0].Score).To(BeNumerically("~", 1.0, 1e-6))
			Expect(out.Results[1].Description).To(Equal("On 2024-02-01, Riya purchased a Phone for 20000."))
			Expect(out.Results[1].Score).To(BeNumerically("<", out.Results[0].Score))
		})

		It("honors top_k", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=laptop&top_k=1", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out SearchResponse
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(body, &out)).To(Succeed())

			Expect(out.Count).To(Equal(1))
			Expect(out.Results).To(HaveLen(1))
			Expect(out.Results[0].Description).To(Equal("On 2024-01-12, Amit purchased a Laptop for 55000."))
		})
	})

	Context("when the embedder fails", func() {
		It("returns 200 with no results", func() {
			embedder.FailOn = "laptop"

			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=laptop", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out SearchResponse
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(body, &out)).To(Succeed())

			Expect(out.Results).To(BeEmpty())
			Expect(out.Count).To(Equal(0))
		})
	})
})
