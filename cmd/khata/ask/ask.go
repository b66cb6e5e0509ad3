// Package askcmder provides the ask command for answering natural-language
// questions over the transaction ledger.
package askcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/api"
	"github.com/papercomputeco/khata/pkg/config"
	"github.com/papercomputeco/khata/pkg/logger"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	queryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	answerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type askCommander struct {
	query       string
	topK        uint
	showContext bool

	apiTarget string

	debug  bool
	logger *zap.Logger
}

const askLongDesc string = `Ask a natural-language question about the transaction ledger.

The question is answered by the khata API server, which retrieves the most
relevant transactions and composes an answer from the structured records.
Requires a running khata server ("khata serve").

Examples:
  khata ask "How much did Amit spend?"
  khata ask "What did Riya buy?" --context
  khata ask "total spend across all customers" --top-k 5
  khata ask "How much did Amit spend?" --api-target http://localhost:8081`

const askShortDesc string = "Ask a question about the ledger"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			if !cmd.Flags().Changed("top-k") {
				cmder.topK = cfg.Engine.TopK
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddUintFlag(cmd, config.Flags, config.FlagTopK, &cmder.topK)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	cmd.Flags().BoolVarP(&cmder.showContext, "context", "c", false, "Show the retrieved context lines with scores")

	return cmd
}

func (c *askCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	output, err := AskAPI(c.apiTarget, c.query, int(c.topK))
	if err != nil {
		return err
	}

	fmt.Printf("\n%s %s\n\n", headerStyle.Render("Q:"), queryStyle.Render(output.Query))
	fmt.Println(answerStyle.Render(output.Answer))

	if c.showContext && output.Count > 0 {
		fmt.Printf("\n%s\n", headerStyle.Render("Context:"))
		for _, match := range output.Context {
			fmt.Printf("  %s  %s\n",
				scoreStyle.Render(fmt.Sprintf("%.4f", match.Score)),
				contextStyle.Render(match.Description),
			)
		}
	}

	fmt.Println()
	return nil
}

// AskAPI posts a question to the khata ask API and returns the parsed
// response. Exported so other commands (e.g. chat) can reuse it.
func AskAPI(apiTarget, query string, topK int) (*api.AskResponse, error) {
	askURL, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	askURL.Path = "/v1/ask"

	body, err := json.Marshal(api.AskRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("marshaling ask request: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, askURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to khata API at %s: %w", apiTarget, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ask request failed (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	var output api.AskResponse
	if err := json.Unmarshal(respBody, &output); err != nil {
		return nil, fmt.Errorf("failed to parse ask response: %w", err)
	}

	return &output, nil
}
