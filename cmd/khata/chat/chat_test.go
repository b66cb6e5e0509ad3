package chatcmder_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/khata/api"
	chatcmder "github.com/papercomputeco/khata/cmd/khata/chat"
	"github.com/papercomputeco/khata/pkg/memory"
)

var _ = Describe("NewChatCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Use).To(Equal("chat"))
	})

	It("rejects positional arguments", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})

	It("has an --api-target flag with default value", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("api-target")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("http://localhost:8081"))
	})

	It("has a --top-k flag with the engine default", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("top-k")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("3"))
	})
})

var _ = Describe("HistoryAPI", func() {
	It("fetches and parses the session history", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodGet))
			Expect(r.URL.Path).To(Equal("/v1/history"))

			resp := api.HistoryResponse{
				Exchanges: []memory.Exchange{
					{
						ID:       "a0c9cf06-1f3f-4b8e-8f43-8a3be31f0000",
						Question: "How much did Amit spend?",
						Answer:   "Amit's total spending is ₹55000.",
						AskedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
					},
				},
				Count: 1,
			}
			w.Header().Set("Content-Type", "application/json")
			Expect(json.NewEncoder(w).Encode(resp)).To(Succeed())
		}))
		defer server.Close()

		output, err := chatcmder.HistoryAPI(server.URL)
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Count).To(Equal(1))
		Expect(output.Exchanges[0].Question).To(Equal("How much did Amit spend?"))
	})

	It("surfaces the 503 from a server running without memory", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"session memory is not configured"}`))
		}))
		defer server.Close()

		_, err := chatcmder.HistoryAPI(server.URL)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("HTTP 503"))
		Expect(err.Error()).To(ContainSubstring("session memory is not configured"))
	})

	It("returns a connection error for an unreachable target", func() {
		_, err := chatcmder.HistoryAPI("http://127.0.0.1:1")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed to connect to khata API"))
	})
})
