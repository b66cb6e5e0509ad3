// Package configcmder provides the config command for managing persistent
// khata configuration stored in the .khata/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent khata configuration.

Configuration is stored as config.toml in the .khata/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  ledger.source, ledger.path,
  engine.top_k, api.listen, client.api_target,
  vector_store.provider, vector_store.target, vector_store.path, vector_store.collection,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  memory.provider, memory.enabled, memory.capacity,
  bigquery.project, bigquery.dataset, bigquery.table

Use subcommands to get, set, or list configuration values:
  khata config set <key> <value>    Set a configuration value
  khata config get <key>            Get a configuration value
  khata config list                 List all configuration values

Examples:
  khata config set embedding.provider gemini
  khata config set ledger.source sqlite
  khata config get engine.top_k
  khata config list`

const configShortDesc string = "Manage persistent khata configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
