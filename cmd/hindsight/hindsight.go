// Package hindsightcmder
package hindsightcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/hindsight/cmd/hindsight/chat"
	configcmder "github.com/papercomputeco/hindsight/cmd/hindsight/config"
	evidencecmder "github.com/papercomputeco/hindsight/cmd/hindsight/evidence"
	inboxcmder "github.com/papercomputeco/hindsight/cmd/hindsight/inbox"
	initcmder "github.com/papercomputeco/hindsight/cmd/hindsight/init"
	journalcmder "github.com/papercomputeco/hindsight/cmd/hindsight/journal"
	servecmder "github.com/papercomputeco/hindsight/cmd/hindsight/serve"
	workspacecmder "github.com/papercomputeco/hindsight/cmd/hindsight/workspace"
	versioncmder "github.com/papercomputeco/hindsight/cmd/version"
)

const hindsightLongDesc string = `Hindsight conditions text generation on retrieved evidence.

It keeps a bounded store of embedded passages, ranks them by similarity,
recency, and diversity for each prompt, and runs a tool-augmented
generation loop against a local Ollama backend.

Run services using:
  hindsight serve        Run the API server
  hindsight workspace    Run the sandboxed workspace server

Work with evidence using:
  hindsight store        Store a passage of evidence
  hindsight search       Search stored evidence
  hindsight forget       Delete an evidence record`

const hindsightShortDesc string = "Hindsight - Evidence-Conditioned Generation"

func NewHindsightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hindsight",
		Short: hindsightShortDesc,
		Long:  hindsightLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .hindsight/ directory location")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(workspacecmder.NewWorkspaceCmd())
	cmd.AddCommand(evidencecmder.NewStoreCmd())
	cmd.AddCommand(evidencecmder.NewSearchCmd())
	cmd.AddCommand(evidencecmder.NewForgetCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(inboxcmder.NewInboxCmd())
	cmd.AddCommand(journalcmder.NewJournalCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
