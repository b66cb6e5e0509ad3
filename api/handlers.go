package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/engine"
	"github.com/papercomputeco/khata/pkg/ledger"
	"github.com/papercomputeco/khata/pkg/memory"
	"github.com/papercomputeco/khata/pkg/worker"
)

// ErrorResponse is the JSON error envelope every handler returns on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AskRequest is the body of a POST /v1/ask request.
type AskRequest struct {
	// Query is the natural-language question to answer
	Query string `json:"query"`
	// TopK is the number of context matches to retrieve (optional, default 3)
	TopK int `json:"top_k,omitempty"`
}

// AskResponse is the answer to one question, with the retrieved context
// that accompanied it.
type AskResponse struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer"`
	Context []engine.Match `json:"context"`
	Count   int            `json:"count"`
}

// MonthlySpendingResponse aggregates ledger spend by calendar month.
type MonthlySpendingResponse struct {
	Months []ledger.MonthTotal `json:"months"`
	Count  int                 `json:"count"`
}

// HistoryResponse contains the recorded session exchanges, oldest first.
type HistoryResponse struct {
	Exchanges []memory.Exchange `json:"exchanges"`
	Count     int               `json:"count"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleAsk answers a natural-language question over the ledger.
// The retrieved context rides along in the response so callers can see
// what grounded the answer.
func (s *Server) handleAsk(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.TopK < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "top_k must be a positive integer"})
	}

	topK := req.TopK
	if topK == 0 {
		topK = engine.DefaultTopK
	}

	// An empty query flows through: Answer is total and returns its fixed
	// invalid-query message rather than an HTTP error.
	ctx := c.Context()
	matches := s.engine.Retrieve(ctx, req.Query, topK)
	answer := s.engine.Answer(ctx, req.Query, matches)

	if s.pool != nil && req.Query != "" {
		enqueued := s.pool.Enqueue(worker.Job{
			Origin:   "api",
			Exchange: memory.NewExchange(req.Query, answer),
		})
		if !enqueued {
			s.logger.Warn("exchange queue full, skipping history record",
				zap.String("query", req.Query),
			)
		}
	}

	retrieved := make([]engine.Match, 0, len(matches))
	retrieved = append(retrieved, matches...)

	return c.JSON(AskResponse{
		Query:   req.Query,
		Answer:  answer,
		Context: retrieved,
		Count:   len(retrieved),
	})
}

// handleMonthlySpending returns per-month spending totals, optionally
// narrowed to a single month.
func (s *Server) handleMonthlySpending(c *fiber.Ctx) error {
	totals := ledger.MonthlyTotals(s.engine.Transactions())

	if month := c.Query("month"); month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "month must be formatted as YYYY-MM",
			})
		}

		filtered := make([]ledger.MonthTotal, 0, 1)
		for _, t := range totals {
			if t.Month == month {
				filtered = append(filtered, t)
			}
		}
		totals = filtered
	}

	if totals == nil {
		totals = []ledger.MonthTotal{}
	}

	return c.JSON(MonthlySpendingResponse{
		Months: totals,
		Count:  len(totals),
	})
}

// handleHistory returns the session exchanges recorded so far.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	if s.config.Memory == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "session memory is not configured",
		})
	}

	exchanges, err := s.config.Memory.History(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to load history",
		})
	}

	if exchanges == nil {
		exchanges = []memory.Exchange{}
	}

	return c.JSON(HistoryResponse{
		Exchanges: exchanges,
		Count:     len(exchanges),
	})
}
