package askcmder_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/khata/api"
	askcmder "github.com/papercomputeco/khata/cmd/khata/ask"
	"github.com/papercomputeco/khata/pkg/engine"
)

var _ = Describe("NewAskCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := askcmder.NewAskCmd()
		Expect(cmd.Use).To(Equal("ask <question>"))
	})

	It("requires exactly one argument", func() {
		cmd := askcmder.NewAskCmd()
		Expect(cmd.Args(cmd, []string{})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"q"})).NotTo(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"q", "extra"})).To(HaveOccurred())
	})

	It("has a --top-k flag with the engine default", func() {
		cmd := askcmder.NewAskCmd()
		flag := cmd.Flags().Lookup("top-k")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("k"))
		Expect(flag.DefValue).To(Equal("3"))
	})

	It("has an --api-target flag with default value", func() {
		cmd := askcmder.NewAskCmd()
		flag := cmd.Flags().Lookup("api-target")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("http://localhost:8081"))
	})

	It("has a --context flag defaulting to off", func() {
		cmd := askcmder.NewAskCmd()
		flag := cmd.Flags().Lookup("context")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("c"))
		Expect(flag.DefValue).To(Equal("false"))
	})
})

var _ = Describe("AskAPI", func() {
	It("posts the question and parses the response", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal("/v1/ask"))

			body, err := io.ReadAll(r.Body)
			Expect(err).NotTo(HaveOccurred())

			var req api.AskRequest
			Expect(json.Unmarshal(body, &req)).To(Succeed())
			Expect(req.Query).To(Equal("How much did Amit spend?"))
			Expect(req.TopK).To(Equal(2))

			resp := api.AskResponse{
				Query:  req.Query,
				Answer: "Amit's total spending is ₹55000. They made 1 transaction(s):\n- Laptop for ₹55000 on 2024-01-12",
				Context: []engine.Match{
					{Description: "On 2024-01-12, Amit purchased a Laptop for 55000.", Score: 0.91},
				},
				Count: 1,
			}
			w.Header().Set("Content-Type", "application/json")
			Expect(json.NewEncoder(w).Encode(resp)).To(Succeed())
		}))
		defer server.Close()

		output, err := askcmder.AskAPI(server.URL, "How much did Amit spend?", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Answer).To(ContainSubstring("Amit's total spending is ₹55000."))
		Expect(output.Context).To(HaveLen(1))
		Expect(output.Count).To(Equal(1))
	})

	It("returns the error body on non-200 responses", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"query is required"}`)
		}))
		defer server.Close()

		_, err := askcmder.AskAPI(server.URL, "anything", 3)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("HTTP 400"))
		Expect(err.Error()).To(ContainSubstring("query is required"))
	})

	It("returns a connection error for an unreachable target", func() {
		_, err := askcmder.AskAPI("http://127.0.0.1:1", "anything", 3)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed to connect to khata API"))
	})

	It("rejects an invalid target URL", func() {
		_, err := askcmder.AskAPI("://not-a-url", "anything", 3)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid API target URL"))
	})
})
