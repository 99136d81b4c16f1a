// Package configcmder provides the config command for managing persistent
// hindsight configuration stored in the .hindsight/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent hindsight configuration.

Configuration is stored as config.toml in the .hindsight/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  api.listen, api.target,
  workspace.listen, workspace.dir,
  ollama.target, ollama.chat_model, ollama.embedding_model,
  ollama.embedding_dimensions,
  evidence.max_records, evidence.recency_half_life, evidence.diversity_threshold,
  orchestrator.max_tool_depth,
  vector_store.provider, vector_store.target,
  journal.provider, journal.target,
  events.provider, events.brokers, events.topic,
  inbox.dir

Use subcommands to get, set, or list configuration values:
  hindsight config set <key> <value>    Set a configuration value
  hindsight config get <key>            Get a configuration value
  hindsight config list                 List all configuration values

Examples:
  hindsight config set ollama.chat_model qwen3-8b
  hindsight config set vector_store.provider qdrant
  hindsight config get ollama.target
  hindsight config list`

const configShortDesc string = "Manage persistent hindsight configuration"

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
