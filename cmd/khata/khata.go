// Package khatacmder
package khatacmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/khata/cmd/khata/ask"
	chatcmder "github.com/papercomputeco/khata/cmd/khata/chat"
	configcmder "github.com/papercomputeco/khata/cmd/khata/config"
	initcmder "github.com/papercomputeco/khata/cmd/khata/init"
	searchcmder "github.com/papercomputeco/khata/cmd/khata/search"
	seedcmder "github.com/papercomputeco/khata/cmd/khata/seed"
	servecmder "github.com/papercomputeco/khata/cmd/khata/serve"
	statscmder "github.com/papercomputeco/khata/cmd/khata/stats"
	statuscmder "github.com/papercomputeco/khata/cmd/khata/status"
	versioncmder "github.com/papercomputeco/khata/cmd/version"
)

const khataLongDesc string = `Khata answers natural-language questions over a transaction ledger.

Run services using:
  khata serve          Run the query server (REST API + MCP)
  khata serve api      Run the REST API server only

Ask questions using:
  khata ask "How much did Amit spend?"
  khata chat`

const khataShortDesc string = "Khata - Transaction Ledger Q&A"

func NewKhataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "khata",
		Short: khataShortDesc,
		Long:  khataLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory holding config.toml (default: ./.khata or ~/.khata)")

	// Add subcommands
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(statscmder.NewStatsCmd())
	cmd.AddCommand(seedcmder.NewSeedCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
