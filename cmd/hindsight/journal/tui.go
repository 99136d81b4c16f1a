package journalcmder

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/hindsight/pkg/journal"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

const followPollInterval = 2 * time.Second

var (
	tuiTitleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	tuiMutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tuiDividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	tuiHighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("214")).Bold(true)
)

type journalKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Top  key.Binding
	Quit key.Binding
}

func (k journalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Top, k.Quit}
}

func (k journalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Top, k.Quit},
	}
}

var journalKeys = journalKeyMap{
	Up:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
	Down: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
	Top:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "latest")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type entriesLoadedMsg struct {
	entries []journal.Entry
	err     error
}

type pollTickMsg struct{}

type journalModel struct {
	rec   journal.Recorder
	limit int

	entries []journal.Entry
	cursor  int
	width   int
	height  int
	err     error

	keys journalKeyMap
	help help.Model
}

// runJournalTUI opens the live journal view and blocks until the operator
// quits or ctx is cancelled.
func runJournalTUI(ctx context.Context, rec journal.Recorder, limit int) error {
	entries, err := rec.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("listing journal entries: %w", err)
	}

	model := journalModel{
		rec:     rec,
		limit:   limit,
		entries: entries,
		keys:    journalKeys,
		help:    help.New(),
	}

	program := bubbletea.NewProgram(model, bubbletea.WithContext(ctx), bubbletea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running journal view: %w", err)
	}

	return nil
}

func loadEntriesCmd(rec journal.Recorder, limit int) bubbletea.Cmd {
	return func() bubbletea.Msg {
		entries, err := rec.List(context.Background(), limit)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

func pollTick() bubbletea.Cmd {
	return bubbletea.Tick(followPollInterval, func(time.Time) bubbletea.Msg {
		return pollTickMsg{}
	})
}

func (m journalModel) Init() bubbletea.Cmd {
	return pollTick()
}

func (m journalModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case pollTickMsg:
		return m, loadEntriesCmd(m.rec, m.limit)

	case entriesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.entries = msg.entries
			m.cursor = clamp(m.cursor, len(m.entries)-1)
		}
		return m, pollTick()

	case bubbletea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, bubbletea.Quit
		case key.Matches(msg, m.keys.Up):
			m.cursor = clamp(m.cursor-1, len(m.entries)-1)
		case key.Matches(msg, m.keys.Down):
			m.cursor = clamp(m.cursor+1, len(m.entries)-1)
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
		}
		return m, nil
	}

	return m, nil
}

func (m journalModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder

	title := tuiTitleStyle.Render("hindsight journal")
	count := tuiMutedStyle.Render(fmt.Sprintf("%d entries", len(m.entries)))
	b.WriteString(renderHeaderLine(width, title, count))
	b.WriteString("\n")
	b.WriteString(renderRule(width))
	b.WriteString("\n")

	columns := fmt.Sprintf("%s  %s  %s  %s  %s",
		fitCell("WHEN", 15), fitCell("ACTOR", 9), fitCell("ACTION", 15), fitCell("SUBJECT", 11), "DETAIL")
	b.WriteString(tuiMutedStyle.Render(truncateText(columns, width)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(tuiMutedStyle.Render(fmt.Sprintf("refresh failed: %v", m.err)))
		b.WriteString("\n")
	}

	if len(m.entries) == 0 {
		b.WriteString(tuiMutedStyle.Render("No journal entries yet."))
		b.WriteString("\n")
	} else {
		size := m.height - 6
		if m.err != nil {
			size--
		}
		start, end := visibleRange(len(m.entries), m.cursor, size)
		for i := start; i < end; i++ {
			b.WriteString(m.renderRow(m.entries[i], i == m.cursor, width))
			b.WriteString("\n")
		}
	}

	b.WriteString(renderRule(width))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m journalModel) renderRow(entry journal.Entry, selected bool, width int) string {
	row := fmt.Sprintf("%s  %s  %s  %s  %s",
		entry.CreatedAt.Local().Format("Jan 02 15:04:05"),
		fitCell(entry.Actor, 9),
		fitCell(entry.Action, 15),
		fitCell(entry.Subject, 11),
		detailLine(entry.Detail),
	)
	row = truncateText(row, width-2)

	if selected {
		return tuiHighlightStyle.Render("> " + row)
	}
	return "  " + row
}

// clamp keeps value within [0, upper]. A negative upper collapses to zero.
func clamp(value, upper int) int {
	if upper < 0 {
		upper = 0
	}
	if value < 0 {
		return 0
	}
	if value > upper {
		return upper
	}
	return value
}

// visibleRange returns the half-open window [start, end) of rows to draw so
// the cursor stays in view.
func visibleRange(total, cursor, size int) (int, int) {
	if size <= 0 || total <= size {
		return 0, total
	}

	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > total {
		start = total - size
	}

	return start, start + size
}

// fitCell pads or truncates value to exactly width characters, left aligned.
func fitCell(value string, width int) string {
	if width <= 0 {
		return ""
	}
	return fmt.Sprintf("%-*s", width, truncateText(value, width))
}

func truncateText(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}

func renderRule(width int) string {
	if width <= 0 {
		width = 80
	}
	return tuiDividerStyle.Render(strings.Repeat("─", width))
}

func renderHeaderLine(width int, left, right string) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", gap) + right
}
