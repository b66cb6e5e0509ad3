package searchcmder_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/khata/api"
	searchcmder "github.com/papercomputeco/khata/cmd/khata/search"
	"github.com/papercomputeco/khata/pkg/engine"
)

var _ = Describe("NewSearchCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := searchcmder.NewSearchCmd()
		Expect(cmd.Use).To(Equal("search <query>"))
	})

	It("requires exactly one argument", func() {
		cmd := searchcmder.NewSearchCmd()
		Expect(cmd.Args(cmd, []string{})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"laptop"})).NotTo(HaveOccurred())
	})

	It("has a --top-k flag with the engine default", func() {
		cmd := searchcmder.NewSearchCmd()
		flag := cmd.Flags().Lookup("top-k")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("k"))
		Expect(flag.DefValue).To(Equal("3"))
	})

	It("has a --quiet flag", func() {
		cmd := searchcmder.NewSearchCmd()
		flag := cmd.Flags().Lookup("quiet")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("q"))
	})
})

var _ = Describe("SearchAPI", func() {
	It("sends the query parameters and parses the response", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodGet))
			Expect(r.URL.Path).To(Equal("/v1/search"))
			Expect(r.URL.Query().Get("query")).To(Equal("laptop"))
			Expect(r.URL.Query().Get("top_k")).To(Equal("2"))

			resp := api.SearchResponse{
				Query: "laptop",
				Results: []engine.Match{
					{Description: "On 2024-01-12, Amit purchased a Laptop for 55000.", Score: 0.95},
					{Description: "On 2024-02-01, Riya purchased a Phone for 20000.", Score: 0.41},
				},
				Count: 2,
			}
			w.Header().Set("Content-Type", "application/json")
			Expect(json.NewEncoder(w).Encode(resp)).To(Succeed())
		}))
		defer server.Close()

		output, err := searchcmder.SearchAPI(server.URL, "laptop", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Count).To(Equal(2))
		Expect(output.Results[0].Description).To(ContainSubstring("Laptop"))
		Expect(output.Results[0].Score).To(BeNumerically(">", output.Results[1].Score))
	})

	It("returns the error body on non-200 responses", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"query parameter is required"}`))
		}))
		defer server.Close()

		_, err := searchcmder.SearchAPI(server.URL, "laptop", 3)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("HTTP 400"))
	})

	It("returns a connection error for an unreachable target", func() {
		_, err := searchcmder.SearchAPI("http://127.0.0.1:1", "laptop", 3)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed to connect to khata API"))
	})
})
