package mcp_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/api/mcp"
	"github.com/papercomputeco/khata/pkg/engine"
	"github.com/papercomputeco/khata/pkg/ledger"
	"github.com/papercomputeco/khata/pkg/memory/local"
	testutils "github.com/papercomputeco/khata/pkg/utils/test"
	"github.com/papercomputeco/khata/pkg/vector/exhaustive"
)

var _ = Describe("MCP Server", func() {
	var (
		server *mcp.Server
		eng    *engine.Engine
	)

	BeforeEach(func() {
		logger := zap.NewNop()
		data := []ledger.Transaction{
			{Date: "2024-01-12", Customer: "Amit", Product: "Laptop", Amount: 55000},
			{Date: "2024-02-01", Customer: "Riya", Product: "Phone", Amount: 20000},
		}

		var err error
		eng, err = engine.New(context.Background(), testutils.NewMockSource(data), testutils.NewMockEmbedder(), exhaustive.New(logger), logger)
		Expect(err).NotTo(HaveOccurred())

		server, err = mcp.NewServer(mcp.Config{
			Engine: eng,
			Memory: local.NewDriver(local.Config{}),
			Logger: logger,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("returns an error when engine is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Logger: zap.NewNop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("engine is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Engine: eng,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("creates a server with valid config", func() {
			Expect(server).NotTo(BeNil())
		})

		It("creates a server without a memory driver", func() {
			noMemServer, err := mcp.NewServer(mcp.Config{
				Engine: eng,
				Logger: zap.NewNop(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(noMemServer).NotTo(BeNil())
		})

		It("creates an empty server when noop is set", func() {
			noopServer, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(noopServer).NotTo(BeNil())
		})

		It("returns an HTTP handler", func() {
			handler := server.Handler()
			Expect(handler).NotTo(BeNil())
		})
	})
})
