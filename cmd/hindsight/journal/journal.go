// Package journalcmder provides the journal command for inspecting the
// provenance log.
package journalcmder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/cmd/hindsight/paths"
	"github.com/papercomputeco/hindsight/pkg/config"
	"github.com/papercomputeco/hindsight/pkg/journal"
	journalmem "github.com/papercomputeco/hindsight/pkg/journal/inmemory"
	"github.com/papercomputeco/hindsight/pkg/journal/libsql"
	"github.com/papercomputeco/hindsight/pkg/journal/postgres"
	journalsqlite "github.com/papercomputeco/hindsight/pkg/journal/sqlite"
	"github.com/papercomputeco/hindsight/pkg/logger"
	"github.com/papercomputeco/hindsight/pkg/utils"
)

var (
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	serviceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	operatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	actionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	subjectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var journalFlags = config.FlagSet{
	config.FlagJournalProv: {Name: "journal-provider", ViperKey: "journal.provider", Description: "Journal backend (sqlite, postgres, libsql, inmemory)"},
	config.FlagJournalTgt:  {Name: "journal-target", ViperKey: "journal.target", Description: "Journal backend target: path, DSN, or URL depending on provider"},
}

var journalFlagKeys = []string{
	config.FlagJournalProv,
	config.FlagJournalTgt,
}

const journalLongDesc string = `Show recent journal entries.

Every mutation leaves a provenance record: who acted (the service or the
operator), what they did, and to which record. Entries print newest first.

With --follow the command opens a live view that refreshes as new entries
land. Use j/k to scroll, g to jump back to the latest entry, q to quit.

Examples:
  hindsight journal
  hindsight journal --limit 50
  hindsight journal --follow`

const journalShortDesc string = "Show recent journal entries"

type journalCommander struct {
	limit           int
	follow          bool
	journalProvider string
	journalTarget   string
	configDir       string
	debug           bool

	logger *zap.Logger
}

func NewJournalCmd() *cobra.Command {
	cmder := &journalCommander{}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: journalShortDesc,
		Long:  journalLongDesc,
		Args:  cobra.NoArgs,
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
			config.BindRegisteredFlags(v, cmd, journalFlags, journalFlagKeys)

			cmder.journalProvider = v.GetString("journal.provider")
			cmder.journalTarget = v.GetString("journal.target")
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

	config.AddStringFlag(cmd, journalFlags, config.FlagJournalProv, &cmder.journalProvider)
	config.AddStringFlag(cmd, journalFlags, config.FlagJournalTgt, &cmder.journalTarget)
	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 20, "Number of entries to show")
	cmd.Flags().BoolVarP(&cmder.follow, "follow", "f", false, "Live view that refreshes as entries land")

	return cmd
}

func (c *journalCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	rec, err := c.openRecorder(ctx)
	if err != nil {
		return err
	}
	defer rec.Close()

	if c.follow {
		return runJournalTUI(ctx, rec, c.limit)
	}

	entries, err := rec.List(ctx, c.limit)
	if err != nil {
		return fmt.Errorf("listing journal entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No journal entries.")
		return nil
	}

	fmt.Println()
	fmt.Printf("  %s\n\n", headerStyle.Render(fmt.Sprintf("Journal entries (latest %d):", len(entries))))
	for _, entry := range entries {
		fmt.Println(formatEntry(entry))
	}
	fmt.Println()

	return nil
}

func (c *journalCommander) openRecorder(ctx context.Context) (journal.Recorder, error) {
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

// formatEntry renders one journal row: local time, actor, action, then the
// subject and detail when present.
func formatEntry(entry journal.Entry) string {
	actor := serviceStyle
	if entry.Actor == journal.ActorOperator {
		actor = operatorStyle
	}

	line := fmt.Sprintf("  %s  %s  %s",
		timeStyle.Render(entry.CreatedAt.Local().Format("Jan 02 15:04:05")),
		actor.Render(fmt.Sprintf("%-9s", entry.Actor)),
		actionStyle.Render(fmt.Sprintf("%-15s", entry.Action)),
	)

	if entry.Subject != "" {
		line += "  " + subjectStyle.Render(utils.Truncate(entry.Subject, 8))
	}
	if detail := detailLine(entry.Detail); detail != "" {
		line += "  " + detailStyle.Render(detail)
	}

	return line
}

// detailLine renders an entry's detail map as "key=value" pairs in sorted
// key order.
func detailLine(detail map[string]any) string {
	if len(detail) == 0 {
		return ""
	}

	keys := make([]string, 0, len(detail))
	for key := range detail {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, detail[key]))
	}

	return strings.Join(parts, " ")
}
