package evidencecmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/cliui"
	"github.com/papercomputeco/hindsight/pkg/config"
	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/logger"
)

type forgetCommander struct {
	id string

	settings settings

	debug  bool
	logger *zap.Logger
}

const forgetLongDesc string = `Delete an evidence record.

Removes the record with the given id from the configured vector backend.
The deletion lands in the journal as an operator action.

Examples:
  hindsight forget 2f1c8a0e-77b4-4c63-b7a2-91d7cd6be8f3
  hindsight forget $(hindsight search "stale note" --quiet --top-k 1)`

const forgetShortDesc string = "Delete an evidence record"

func NewForgetCmd() *cobra.Command {
	cmder := &forgetCommander{}

	cmd := &cobra.Command{
		Use:   "forget <id>",
		Short: forgetShortDesc,
		Long:  forgetLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.settings, err = resolveSettings(cmd, backendFlags, backendFlagKeys)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.id = args[0]

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

	return cmd
}

func (c *forgetCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	store, err := openStore(c.settings, nil, c.logger, c.debug)
	if err != nil {
		return err
	}
	defer store.Close()

	if !store.Delete(ctx, c.id) {
		return fmt.Errorf("not found or delete failed: %s", c.id)
	}

	rec, err := openRecorder(ctx, c.settings)
	if err != nil {
		return err
	}
	defer rec.Close()

	entry := journal.NewEntry(journal.ActorOperator, journal.ActionEvidenceDelete, c.id, nil)
	if err := rec.Record(ctx, entry); err != nil {
		c.logger.Warn("journal record failed", zap.String("action", entry.Action), zap.Error(err))
	}

	fmt.Printf("\n  %s Forgot evidence %s\n\n",
		cliui.SuccessMark,
		cliui.IDStyle.Render(c.id),
	)
	return nil
}
