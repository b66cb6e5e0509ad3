package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/khata/pkg/memory"
)

var (
	historyToolName    = "history"
	historyDescription = "Recall the question/answer exchanges recorded in this session, oldest first. Use this to see what has already been asked and answered."
)

// HistoryInput represents the input arguments for the history tool.
// The tool takes no arguments.
type HistoryInput struct{}

// HistoryOutput represents the recorded session exchanges.
type HistoryOutput struct {
	Exchanges []memory.Exchange `json:"exchanges"`
	Count     int               `json:"count"`
}

// handleHistory processes a history recall request.
func (s *Server) handleHistory(ctx context.Context, _ *mcp.CallToolRequest, _ HistoryInput) (*mcp.CallToolResult, HistoryOutput, error) {
	exchanges, err := s.config.Memory.History(ctx)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("History recall failed: %v", err)},
			},
		}, HistoryOutput{}, nil
	}

	if exchanges == nil {
		exchanges = []memory.Exchange{}
	}

	output := HistoryOutput{
		Exchanges: exchanges,
		Count:     len(exchanges),
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, HistoryOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
