// Package seedcmder provides the seed command for writing a demo
// transaction dataset.
package seedcmder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/khata/cmd/khata/setup"
	"github.com/papercomputeco/khata/pkg/cliui"
	"github.com/papercomputeco/khata/pkg/ledger"
)

const seedLongDesc string = `Seed a demo transaction dataset.

Writes a small JSON transaction file that the jsonfile ledger source reads,
so a fresh install has something to ask questions about. Without --path the
file lands in the .khata/ directory.

Examples:
  khata seed
  khata seed --path ./transactions.json
  khata seed --overwrite`

const seedShortDesc string = "Seed demo transactions"

// demoTransactions is the dataset seed writes. Spread over three months
// and four customers so every query shape has something to find.
var demoTransactions = []ledger.Transaction{
	{Date: "2024-01-12", Customer: "Amit", Product: "Laptop", Amount: 55000},
	{Date: "2024-01-25", Customer: "Vikram", Product: "Tablet", Amount: 30000},
	{Date: "2024-02-01", Customer: "Riya", Product: "Phone", Amount: 20000},
	{Date: "2024-02-15", Customer: "Priya", Product: "Headphones", Amount: 3000},
	{Date: "2024-03-03", Customer: "Amit", Product: "Mouse", Amount: 1200},
	{Date: "2024-03-18", Customer: "Riya", Product: "Charger", Amount: 1500},
}

type seedCommander struct {
	path      string
	overwrite bool
}

func NewSeedCmd() *cobra.Command {
	cmder := &seedCommander{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: seedShortDesc,
		Long:  seedLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.path, "path", "p", "", "Path to write the transaction file")
	cmd.Flags().BoolVarP(&cmder.overwrite, "overwrite", "f", false, "Overwrite an existing transaction file")

	return cmd
}

func (c *seedCommander) run() error {
	path, err := setup.DataPath(c.path, setup.TransactionsFile)
	if err != nil {
		return err
	}

	if !c.overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite %s (use --overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if err := cliui.Step(os.Stdout, "Seeding demo transactions", func() error {
		data, err := json.MarshalIndent(demoTransactions, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding transactions: %w", err)
		}
		return os.WriteFile(path, data, 0o644)
	}); err != nil {
		return err
	}

	fmt.Printf("\n  %s Seeded %s transactions into %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(strconv.Itoa(len(demoTransactions))),
		cliui.DimStyle.Render(path),
	)
	return nil
}
