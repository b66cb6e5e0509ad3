package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/engine"
	"github.com/papercomputeco/khata/pkg/memory"
)

var (
	askToolName    = "ask"
	askDescription = "Answer a natural-language question about the transaction ledger. Understands total spending, purchase history, and month-filter questions, and falls back to the retrieved context otherwise. Returns the answer with the context that accompanied it."
)

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"the natural-language question to answer"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of context matches to retrieve (default: 3)"`
}

// AskOutput represents the structured output of an answered question.
type AskOutput struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer"`
	Context []engine.Match `json:"context"`
	Count   int            `json:"count"`
}

// handleAsk processes an ask request.
func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	logger := s.config.Logger

	if input.Query == "" {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "query is required"},
			},
		}, AskOutput{}, nil
	}

	// Default topK if not specified
	topK := input.TopK
	if topK <= 0 {
		topK = engine.DefaultTopK
	}

	logger.Debug("MCP ask request",
		zap.String("query", input.Query),
		zap.Int("topK", topK),
	)

	matches := s.config.Engine.Retrieve(ctx, input.Query, topK)
	answer := s.config.Engine.Answer(ctx, input.Query, matches)

	// Record the exchange so the history tool and chat recall see it.
	// A failed write costs the record, never the answer.
	if s.config.Memory != nil {
		if err := s.config.Memory.Remember(ctx, memory.NewExchange(input.Query, answer)); err != nil {
			logger.Warn("failed to record exchange", zap.Error(err))
		}
	}

	retrieved := make([]engine.Match, 0, len(matches))
	retrieved = append(retrieved, matches...)

	output := AskOutput{
		Query:   input.Query,
		Answer:  answer,
		Context: retrieved,
		Count:   len(retrieved),
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal ask output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, AskOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
