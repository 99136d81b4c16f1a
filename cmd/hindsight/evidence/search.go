package evidencecmder

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/config"
	"github.com/papercomputeco/hindsight/pkg/evidence"
	"github.com/papercomputeco/hindsight/pkg/logger"
)

var (
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type searchCommander struct {
	query     string
	topK      int
	threshold float64
	ids       []string
	quiet     bool

	settings settings

	debug  bool
	logger *zap.Logger
}

const searchLongDesc string = `Search stored evidence.

Runs a recency-weighted semantic search over the configured vector backend
and prints the ranked results. Scores combine cosine similarity with an
exponential recency decay, and near-duplicate results are filtered.

With --ids, skips the search and fetches the given records directly, in the
order requested.

Use --quiet to output only ids, one per line, for piping into other commands
like hindsight forget.

Examples:
  hindsight search "reactor pressure"
  hindsight search "coolant loop" --top-k 10 --threshold 0.4
  hindsight search --ids 2f1c…,9d8a…
  hindsight forget $(hindsight search "stale note" --quiet --top-k 1)`

const searchShortDesc string = "Search stored evidence"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.settings, err = resolveSettings(cmd, backendFlags, backendFlagKeys)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cmder.query = args[0]
			}
			if cmder.query == "" && len(cmder.ids) == 0 {
				return fmt.Errorf("requires a query argument or --ids")
			}

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
	cmd.Flags().IntVarP(&cmder.topK, "top-k", "k", 5, "Number of results to return")
	cmd.Flags().Float64VarP(&cmder.threshold, "threshold", "t", 0, "Minimum weighted score")
	cmd.Flags().StringSliceVar(&cmder.ids, "ids", nil, "Fetch these record ids directly instead of searching")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only ids, one per line (for piping)")

	return cmd
}

func (c *searchCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	store, err := openStore(c.settings, nil, c.logger, c.debug)
	if err != nil {
		return err
	}
	defer store.Close()

	var results []evidence.SearchResult
	if len(c.ids) > 0 {
		results, err = store.GetByIDs(ctx, c.ids)
	} else {
		results, err = store.Search(ctx, c.query, c.topK, c.threshold)
	}
	if err != nil {
		return err
	}

	if len(results) == 0 {
		if !c.quiet {
			fmt.Println("No results found.")
		}
		return nil
	}

	if c.quiet {
		for _, result := range results {
			fmt.Println(result.ID)
		}
		return nil
	}

	if c.query != "" {
		fmt.Printf("\n%s %s\n\n",
			headerStyle.Render("Search results for:"),
			idStyle.Render(fmt.Sprintf("%q", c.query)),
		)
	} else {
		fmt.Printf("\n%s\n\n", headerStyle.Render("Evidence records:"))
	}

	for i, result := range results {
		printResult(i+1, result)
	}

	return nil
}

func printResult(rank int, result evidence.SearchResult) {
	fmt.Printf("  %s  %s  %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("score: %.4f", result.Score)),
		idStyle.Render(result.ID),
	)

	preview := strings.ReplaceAll(result.Text, "\n", " ")
	if len(preview) > 80 {
		preview = preview[:77] + "..."
	}
	fmt.Printf("  %s\n", previewStyle.Render(preview))

	if line := metadataLine(result.MetadataJSON); line != "" {
		fmt.Printf("  %s\n", dimStyle.Render(line))
	}

	fmt.Println()
}

// metadataLine renders a record's metadata JSON as "key=value" pairs, with
// stored_at and source first when present.
func metadataLine(metadataJSON string) string {
	if metadataJSON == "" || metadataJSON == "{}" {
		return ""
	}

	var metadata map[string]string
	if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
		return ""
	}

	parts := make([]string, 0, len(metadata))
	for _, key := range []string{"stored_at", "source"} {
		if val, ok := metadata[key]; ok {
			parts = append(parts, key+"="+val)
			delete(metadata, key)
		}
	}

	rest := make([]string, 0, len(metadata))
	for key := range metadata {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		parts = append(parts, key+"="+metadata[key])
	}

	return strings.Join(parts, "  ")
}
