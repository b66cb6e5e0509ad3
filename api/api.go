package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/engine"
	"github.com/papercomputeco/khata/pkg/worker"
)

// Server is the API server answering questions over the loaded ledger.
type Server struct {
	config Config
	engine *engine.Engine
	pool   *worker.Pool
	logger *zap.Logger
	app    *fiber.App
}

// NewServer creates a new API server.
// The engine is injected to allow sharing with other components
// (e.g., the MCP server when both run in one process).
func NewServer(config Config, eng *engine.Engine, logger *zap.Logger) (*Server, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	s := &Server{
		config: config,
		engine: eng,
		logger: logger,
		app:    app,
	}

	// Answered exchanges are recorded off the request path; a full queue
	// drops the record rather than stalling the response.
	if config.Memory != nil {
		wp, err := worker.NewPool(&worker.Config{
			Driver: config.Memory,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create worker pool: %w", err)
		}
		s.pool = wp
	}

	app.Get("/ping", s.handlePing)
	app.Post("/v1/ask", s.handleAsk)
	app.Get("/v1/search", s.handleSearchEndpoint)
	app.Get("/v1/spending/monthly", s.handleMonthlySpending)
	app.Get("/v1/history", s.handleHistory)

	if config.MCPHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(config.MCPHandler))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server and drains the worker pool.
func (s *Server) Shutdown() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return s.app.Shutdown()
}
