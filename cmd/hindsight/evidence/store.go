package evidencecmder

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/cliui"
	"github.com/papercomputeco/hindsight/pkg/config"
	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/logger"
)

type storeCommander struct {
	text   string
	source string

	settings settings

	debug  bool
	logger *zap.Logger
}

const storeLongDesc string = `Store a passage of evidence.

Embeds the text and adds it to the configured vector backend under a fresh
id, stamped with the storage time. If the store is at capacity, the oldest
records are evicted. The mutation lands in the journal as an operator action.

Examples:
  hindsight store "The reactor pressure normalized after venting."
  hindsight store "Coolant loop B was replaced on Tuesday." --source maintenance-log
  hindsight store "…" --vector-store-provider qdrant --vector-store-target localhost:6334`

const storeShortDesc string = "Store a passage of evidence"

func NewStoreCmd() *cobra.Command {
	cmder := &storeCommander{}

	cmd := &cobra.Command{
		Use:   "store <text>",
		Short: storeShortDesc,
		Long:  storeLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.settings, err = resolveSettings(cmd, backendFlags, backendFlagKeys)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.text = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, backendFlags, config.FlagOllamaTarget, &cmder.settings.ollamaTarget)
	config.AddStringFlag(cmd, backendFlags, config.FlagVectorStoreProv, &cmder.settings.vectorProvider)
	config.AddStringFlag(cmd, backendFlags, config.FlagVectorStoreTgt, &cmder.settings.vectorTarget)
	cmd.Flags().StringVarP(&cmder.source, "source", "s", "", "Source tag recorded in the evidence metadata")

	return cmd
}

func (c *storeCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	rec, err := openRecorder(ctx, c.settings)
	if err != nil {
		return err
	}
	defer rec.Close()

	onEvict := func(ids []string) {
		for _, id := range ids {
			entry := journal.NewEntry(journal.ActorOperator, journal.ActionEvidenceEvict, id, nil)
			if err := rec.Record(context.Background(), entry); err != nil {
				c.logger.Warn("journal record failed", zap.String("action", entry.Action), zap.Error(err))
			}
		}
	}

	store, err := openStore(c.settings, onEvict, c.logger, c.debug)
	if err != nil {
		return err
	}
	defer store.Close()

	metadata := map[string]string{
		"stored_at": time.Now().UTC().Format(time.RFC3339),
	}
	if c.source != "" {
		metadata["source"] = c.source
	}

	var id string
	if err := cliui.Step(os.Stdout, "Storing evidence", func() error {
		var storeErr error
		id, storeErr = store.Store(ctx, c.text, metadata)
		return storeErr
	}); err != nil {
		return err
	}

	entry := journal.NewEntry(journal.ActorOperator, journal.ActionEvidenceStore, id, map[string]any{
		"chars": len(c.text),
	})
	if err := rec.Record(ctx, entry); err != nil {
		c.logger.Warn("journal record failed", zap.String("action", entry.Action), zap.Error(err))
	}

	fmt.Printf("\n  %s Stored evidence %s\n\n",
		cliui.SuccessMark,
		cliui.IDStyle.Render(id),
	)
	return nil
}
