// Package chatcmder provides the chat command for an interactive question
// and answer session against the khata API.
package chatcmder

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/api"
	askcmder "github.com/papercomputeco/khata/cmd/khata/ask"
	"github.com/papercomputeco/khata/pkg/cliui"
	"github.com/papercomputeco/khata/pkg/config"
	"github.com/papercomputeco/khata/pkg/logger"
	"github.com/papercomputeco/khata/pkg/utils"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("khata> ")
)

type chatCommander struct {
	apiTarget string
	topK      uint
	debug     bool

	logger *zap.Logger
}

const chatLongDesc string = `Start an interactive question and answer session.

Each line you type is sent to the khata API server as a question and the
answer is printed back. When the server runs with session memory enabled,
every exchange is recorded and /history recalls the session so far.

Commands inside the session:
  /last       Show the most recent exchange
  /history    Show the recorded session exchanges
  /quit       Leave the session (/exit and Ctrl+D also work)

Examples:
  khata chat
  khata chat --api-target http://localhost:8081`

const chatShortDesc string = "Interactive Q&A session over the ledger"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
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
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddUintFlag(cmd, config.Flags, config.FlagTopK, &cmder.topK)

	return cmd
}

func (c *chatCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	fmt.Println()
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("API:"),
		cliui.DimStyle.Render(c.apiTarget),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type a question and press Enter. /last and /history recall, /quit or Ctrl+D leaves."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" {
			break
		}
		if input == "/last" {
			c.printLast()
			continue
		}
		if input == "/history" {
			c.printHistory()
			continue
		}

		output, err := askcmder.AskAPI(c.apiTarget, input, int(c.topK))
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		// Answers carry markdown bullet lists; render them through glamour
		rendered, err := cliui.RenderMarkdown(output.Answer)
		if err != nil {
			// Fall back to plain text if glamour fails
			fmt.Printf("%s%s\n\n", assistantPrompt, output.Answer)
			continue
		}
		fmt.Printf("%s%s\n", assistantPrompt, rendered)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

func (c *chatCommander) printLast() {
	output, err := HistoryAPI(c.apiTarget)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
		return
	}

	if output.Count == 0 {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("No exchanges recorded yet."))
		return
	}

	last := output.Exchanges[len(output.Exchanges)-1]
	fmt.Printf("\n  %s %s\n", cliui.KeyStyle.Render("Q:"), last.Question)
	fmt.Printf("  %s %s\n\n", cliui.KeyStyle.Render("A:"), last.Answer)
}

func (c *chatCommander) printHistory() {
	output, err := HistoryAPI(c.apiTarget)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
		return
	}

	if output.Count == 0 {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("No exchanges recorded yet."))
		return
	}

	fmt.Println()
	for i, exchange := range output.Exchanges {
		fmt.Printf("  %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.KeyStyle.Render(utils.Truncate(exchange.Question, 72)),
		)
		fmt.Printf("     %s\n", cliui.DimStyle.Render(utils.Truncate(exchange.Answer, 72)))
	}
	fmt.Println()
}

// HistoryAPI fetches the recorded session exchanges from the khata API.
func HistoryAPI(apiTarget string) (*api.HistoryResponse, error) {
	historyURL, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	historyURL.Path = "/v1/history"

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, historyURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating history request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to khata API at %s: %w", apiTarget, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history request failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var output api.HistoryResponse
	if err := json.Unmarshal(body, &output); err != nil {
		return nil, fmt.Errorf("failed to parse history response: %w", err)
	}

	return &output, nil
}
