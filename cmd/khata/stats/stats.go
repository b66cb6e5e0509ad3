// Package statscmder provides the stats command for summarizing the
// transaction ledger without a running server.
package statscmder

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/cmd/khata/setup"
	"github.com/papercomputeco/khata/pkg/cliui"
	"github.com/papercomputeco/khata/pkg/config"
	"github.com/papercomputeco/khata/pkg/ledger"
	"github.com/papercomputeco/khata/pkg/logger"
	"github.com/papercomputeco/khata/pkg/utils"
)

const barWidth = 24

type statsCommander struct {
	ledgerSource string
	ledgerPath   string

	cfg    *config.Config
	debug  bool
	logger *zap.Logger
}

const statsLongDesc string = `Summarize the transaction ledger.

Loads the configured ledger source directly and prints overall totals plus
a month-by-month spending breakdown. No khata server is required.

Examples:
  khata stats
  khata stats --ledger-path ./transactions.json
  khata stats --ledger-source sqlite --ledger-path ./khata.db`

const statsShortDesc string = "Summarize the transaction ledger"

func NewStatsCmd() *cobra.Command {
	cmder := &statsCommander{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: statsShortDesc,
		Long:  statsLongDesc,
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

			if !cmd.Flags().Changed("ledger-source") {
				cmder.ledgerSource = cfg.Ledger.Source
			}
			if !cmd.Flags().Changed("ledger-path") {
				cmder.ledgerPath = cfg.Ledger.Path
			}
			cmder.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagLedgerSource, &cmder.ledgerSource)
	config.AddStringFlag(cmd, config.Flags, config.FlagLedgerPath, &cmder.ledgerPath)

	return cmd
}

func (c *statsCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	if c.cfg == nil {
		c.cfg = config.NewDefaultConfig()
	}
	c.cfg.Ledger.Source = c.ledgerSource
	c.cfg.Ledger.Path = c.ledgerPath

	source, err := setup.NewLedgerSource(ctx, c.cfg, c.logger)
	if err != nil {
		return fmt.Errorf("creating ledger source: %w", err)
	}
	defer source.Close()

	data, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	if len(data) == 0 {
		fmt.Println("No transactions found.")
		return nil
	}

	customers := ledger.DistinctCustomers(data)
	total := ledger.TotalSpending(data, "")

	fmt.Println()
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Transactions:"), cliui.NameStyle.Render(strconv.Itoa(len(data))))
	fmt.Printf("  %s  %s %s\n",
		cliui.KeyStyle.Render("Customers:   "),
		cliui.NameStyle.Render(strconv.Itoa(len(customers))),
		cliui.DimStyle.Render(fmt.Sprintf("(%s)", strings.Join(customers, ", "))),
	)
	fmt.Printf("  %s  %s\n\n", cliui.KeyStyle.Render("Total spend: "), cliui.ValueStyle.Render(utils.FormatCurrency(total)))

	months := ledger.MonthlyTotals(data)
	maxTotal := 0
	for _, m := range months {
		if m.Total > maxTotal {
			maxTotal = m.Total
		}
	}

	for _, m := range months {
		fmt.Printf("  %s  %s %s\n",
			cliui.DimStyle.Render(m.Month),
			cliui.Bar(m.Total, maxTotal, barWidth),
			cliui.ValueStyle.Render(utils.FormatCurrency(m.Total)),
		)
	}

	fmt.Println()
	return nil
}
