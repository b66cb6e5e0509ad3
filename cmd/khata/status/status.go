// Package statuscmder provides the status command for inspecting the local
// khata setup.
package statuscmder

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/cmd/khata/setup"
	"github.com/papercomputeco/khata/pkg/cliui"
	"github.com/papercomputeco/khata/pkg/config"
	"github.com/papercomputeco/khata/pkg/ledger"
)

const statusLongDesc string = `Show the current khata setup.

Reads the resolved configuration, summarizes the ledger it points at, and
checks whether the configured API server is reachable.

Examples:
  khata status`

const statusShortDesc string = "Show current khata setup"

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runStatus(cmd.Context(), configDir)
		},
	}

	return cmd
}

func runStatus(ctx context.Context, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println()
	target := cfger.GetTarget()
	if target != "" {
		fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Config:"), cliui.DimStyle.Render(target))
	} else {
		fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Config:"), cliui.DimStyle.Render("<defaults>"))
	}

	printLedger(ctx, cfg)
	printEmbedder(ctx, cfg)
	printAPI(ctx, cfg.Client.APITarget)

	fmt.Println()
	return nil
}

func printLedger(ctx context.Context, cfg *config.Config) {
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Ledger:"), cliui.ValueStyle.Render(cfg.Ledger.Source))

	logger := zap.NewNop()
	source, err := setup.NewLedgerSource(ctx, cfg, logger)
	if err != nil {
		fmt.Printf("      %s %s\n", cliui.FailMark, cliui.DimStyle.Render(err.Error()))
		return
	}
	defer source.Close()

	data, err := source.Load(ctx)
	if err != nil {
		fmt.Printf("      %s %s\n", cliui.FailMark, cliui.DimStyle.Render("not readable"))
		return
	}

	customers := ledger.DistinctCustomers(data)
	fmt.Printf("      %s %s transactions, %s customers\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(strconv.Itoa(len(data))),
		cliui.NameStyle.Render(strconv.Itoa(len(customers))),
	)
}

func printEmbedder(ctx context.Context, cfg *config.Config) {
	fmt.Printf("  %s  %s %s\n",
		cliui.KeyStyle.Render("Embed: "),
		cliui.ValueStyle.Render(cfg.Embedding.Provider),
		cliui.DimStyle.Render(cfg.Embedding.Model),
	)

	// Only ollama exposes an unauthenticated endpoint worth probing.
	switch cfg.Embedding.Provider {
	case "ollama", "":
		if reachable(ctx, cfg.Embedding.Target, "/") {
			fmt.Printf("      %s reachable\n", cliui.SuccessMark)
		} else {
			fmt.Printf("      %s unreachable %s\n", cliui.FailMark, cliui.DimStyle.Render(cfg.Embedding.Target))
		}
	}
}

func printAPI(ctx context.Context, apiTarget string) {
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("API:   "), cliui.DimStyle.Render(apiTarget))

	if reachable(ctx, apiTarget, "/ping") {
		fmt.Printf("      %s reachable\n", cliui.SuccessMark)
	} else {
		fmt.Printf("      %s unreachable %s\n", cliui.FailMark, cliui.DimStyle.Render(`(start one with "khata serve")`))
	}
}

// reachable reports whether base answers an HTTP GET on path within 2s.
func reachable(ctx context.Context, base, path string) bool {
	target, err := url.Parse(base)
	if err != nil {
		return false
	}
	target.Path = path

	reqCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		return false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
