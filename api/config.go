// Package api provides the HTTP query surface over a loaded ledger engine.
package api

import (
	"net/http"

	"github.com/papercomputeco/khata/pkg/memory"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// Memory records answered exchanges and serves the history endpoint.
	// Leave nil to run without session memory.
	Memory memory.Driver

	// MCPHandler, when non-nil, is mounted at /mcp so MCP clients share the
	// REST listener.
	MCPHandler http.Handler
}
