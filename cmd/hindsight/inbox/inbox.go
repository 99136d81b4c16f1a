// Package inboxcmder provides the inbox commands for the encrypted channel
// shared with a running hindsight service.
package inboxcmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/cmd/hindsight/paths"
	"github.com/papercomputeco/hindsight/pkg/cipher"
	"github.com/papercomputeco/hindsight/pkg/cliui"
	"github.com/papercomputeco/hindsight/pkg/config"
	"github.com/papercomputeco/hindsight/pkg/inbox"
	"github.com/papercomputeco/hindsight/pkg/journal"
	journalmem "github.com/papercomputeco/hindsight/pkg/journal/inmemory"
	"github.com/papercomputeco/hindsight/pkg/journal/libsql"
	"github.com/papercomputeco/hindsight/pkg/journal/postgres"
	journalsqlite "github.com/papercomputeco/hindsight/pkg/journal/sqlite"
	"github.com/papercomputeco/hindsight/pkg/logger"
)

// inboxFlags are the registry flags shared by the inbox subcommands.
var inboxFlags = config.FlagSet{
	config.FlagInboxDir:    {Name: "dir", ViperKey: "inbox.dir", Description: "Encrypted operator channel directory"},
	config.FlagJournalProv: {Name: "journal-provider", ViperKey: "journal.provider", Description: "Journal backend (sqlite, postgres, libsql, inmemory)"},
	config.FlagJournalTgt:  {Name: "journal-target", ViperKey: "journal.target", Description: "Journal backend target: path, DSN, or URL depending on provider"},
}

const inboxLongDesc string = `Exchange encrypted messages with a running hindsight service.

The channel is a shared directory holding two ciphertext files encrypted
with the same key: you drop messages into inbox.enc for the service to
read, and the service writes its replies to outbox.enc for you to collect.

Examples:
  hindsight inbox send "check your workspace for the status file"
  hindsight inbox read
  hindsight inbox read --follow`

// NewInboxCmd creates the parent inbox command.
func NewInboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Exchange encrypted messages with the service",
		Long:  inboxLongDesc,
	}

	cmd.AddCommand(newReadCmd())
	cmd.AddCommand(newSendCmd())

	return cmd
}

type readCommander struct {
	inboxDir  string
	configDir string
	follow    bool
	debug     bool

	logger *zap.Logger
}

func newReadCmd() *cobra.Command {
	cmder := &readCommander{}

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read the latest reply on the operator channel",
		Long: `Collect and decrypt the service's reply from the channel outbox.

With --follow the command keeps watching and prints each new reply as the
service writes it.`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, err := cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}
			cmder.configDir = configDir

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, inboxFlags, []string{config.FlagInboxDir})

			cmder.inboxDir = v.GetString("inbox.dir")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, inboxFlags, config.FlagInboxDir, &cmder.inboxDir)
	cmd.Flags().BoolVarP(&cmder.follow, "follow", "f", false, "Keep watching and print each new reply")

	return cmd
}

func (c *readCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	box, err := openInbox(c.inboxDir, c.configDir, c.logger)
	if err != nil {
		return err
	}

	if !c.follow {
		message, err := box.Collect()
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, err := box.WatchOutbox(watchCtx)
	if err != nil {
		return fmt.Errorf("watching outbox: %w", err)
	}

	fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("Watching for replies. Ctrl+C to stop."))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigChan:
			return nil
		case message, ok := <-ch:
			if !ok {
				return nil
			}
			fmt.Printf("%s %s\n", cliui.DimStyle.Render(time.Now().Format("15:04:05")), message)
		}
	}
}

type sendCommander struct {
	message         string
	inboxDir        string
	journalProvider string
	journalTarget   string
	configDir       string
	debug           bool

	logger *zap.Logger
}

func newSendCmd() *cobra.Command {
	cmder := &sendCommander{}

	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Drop an encrypted message for the service",
		Long: `Encrypt a message with the shared channel key and drop it into the
inbox for the service to read. The send is recorded in the journal.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, err := cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}
			cmder.configDir = configDir

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, inboxFlags, []string{
				config.FlagInboxDir,
				config.FlagJournalProv,
				config.FlagJournalTgt,
			})

			cmder.inboxDir = v.GetString("inbox.dir")
			cmder.journalProvider = v.GetString("journal.provider")
			cmder.journalTarget = v.GetString("journal.target")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.message = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, inboxFlags, config.FlagInboxDir, &cmder.inboxDir)
	config.AddStringFlag(cmd, inboxFlags, config.FlagJournalProv, &cmder.journalProvider)
	config.AddStringFlag(cmd, inboxFlags, config.FlagJournalTgt, &cmder.journalTarget)

	return cmd
}

func (c *sendCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	rec, err := c.openRecorder(ctx)
	if err != nil {
		return err
	}
	defer rec.Close()

	box, err := openInbox(c.inboxDir, c.configDir, c.logger)
	if err != nil {
		return err
	}

	if err := box.Drop(c.message); err != nil {
		return fmt.Errorf("dropping message: %w", err)
	}

	entry := journal.NewEntry(journal.ActorOperator, journal.ActionInboxSend, "", map[string]any{
		"chars": len(c.message),
	})
	if err := rec.Record(ctx, entry); err != nil {
		c.logger.Warn("journal record failed", zap.Error(err))
	}

	fmt.Printf("\n  %s Dropped message for hindsight %s\n\n",
		cliui.SuccessMark,
		cliui.DimStyle.Render(fmt.Sprintf("(%d chars)", len(c.message))),
	)
	return nil
}

func (c *sendCommander) openRecorder(ctx context.Context) (journal.Recorder, error) {
	switch c.journalProvider {
	case "sqlite":
		dbPath, err := paths.JournalDB(c.journalTarget, c.configDir)
		if err != nil {
			return nil, fmt.Errorf("resolving journal database path: %w", err)
		}
		rec, err := journalsqlite.NewSQLiteDriver(dbPath)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite journal: %w", err)
		}
		return rec, nil

	case "postgres":
		rec, err := postgres.NewDriver(ctx, c.journalTarget)
		if err != nil {
			return nil, fmt.Errorf("creating postgres journal: %w", err)
		}
		return rec, nil

	case "libsql":
		rec, err := libsql.NewDriver(ctx, c.journalTarget)
		if err != nil {
			return nil, fmt.Errorf("creating libsql journal: %w", err)
		}
		return rec, nil

	case "inmemory":
		return journalmem.NewDriver(), nil

	default:
		return nil, fmt.Errorf("unsupported journal provider: %s", c.journalProvider)
	}
}

// openInbox builds the channel from the shared cipher key and the resolved
// inbox directory.
func openInbox(inboxDir, configDir string, zlog *zap.Logger) (*inbox.Inbox, error) {
	keyPath, err := paths.CipherKey("", configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving cipher key path: %w", err)
	}

	key, err := cipher.LoadOrCreateKey(keyPath)
	if err != nil {
		return nil, fmt.Errorf("loading cipher key: %w", err)
	}

	ciph, err := cipher.New(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	dir, err := paths.Inbox(inboxDir, configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving inbox directory: %w", err)
	}

	return inbox.New(dir, ciph, zlog), nil
}
