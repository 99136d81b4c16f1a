package journalcmder

import (
	"context"
	"errors"
	"time"

	bubbletea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/hindsight/pkg/journal"
	journalmem "github.com/papercomputeco/hindsight/pkg/journal/inmemory"
)

var errRefresh = errors.New("backend unavailable")

func testEntry(actor, action, subject string, detail map[string]any) journal.Entry {
	return journal.Entry{
		ID:        "test-entry",
		Actor:     actor,
		Action:    action,
		Subject:   subject,
		Detail:    detail,
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func keyPress(r rune) bubbletea.KeyMsg {
	return bubbletea.KeyMsg(bubbletea.Key{Type: bubbletea.KeyRunes, Runes: []rune{r}})
}

var _ = Describe("NewJournalCmd", func() {
	var cmd *cobra.Command

	BeforeEach(func() {
		cmd = NewJournalCmd()
	})

	It("is named journal", func() {
		Expect(cmd.Use).To(Equal("journal"))
	})

	It("registers the journal backend flags", func() {
		provider := cmd.Flags().Lookup("journal-provider")
		Expect(provider).NotTo(BeNil())
		Expect(provider.DefValue).To(Equal("sqlite"))

		target := cmd.Flags().Lookup("journal-target")
		Expect(target).NotTo(BeNil())
		Expect(target.DefValue).To(BeEmpty())
	})

	It("defaults to twenty entries", func() {
		limit := cmd.Flags().Lookup("limit")
		Expect(limit).NotTo(BeNil())
		Expect(limit.Shorthand).To(Equal("n"))
		Expect(limit.DefValue).To(Equal("20"))
	})

	It("registers the follow flag", func() {
		follow := cmd.Flags().Lookup("follow")
		Expect(follow).NotTo(BeNil())
		Expect(follow.Shorthand).To(Equal("f"))
		Expect(follow.DefValue).To(Equal("false"))
	})
})

var _ = Describe("openRecorder", func() {
	It("opens an in-memory recorder", func() {
		cmder := &journalCommander{journalProvider: "inmemory"}

		rec, err := cmder.openRecorder(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(rec).NotTo(BeNil())
		Expect(rec.Close()).To(Succeed())
	})

	It("rejects unknown providers", func() {
		cmder := &journalCommander{journalProvider: "carrier-pigeon"}

		_, err := cmder.openRecorder(context.Background())
		Expect(err).To(MatchError(ContainSubstring("unsupported journal provider")))
	})
})

var _ = Describe("detailLine", func() {
	It("returns empty for no detail", func() {
		Expect(detailLine(nil)).To(BeEmpty())
		Expect(detailLine(map[string]any{})).To(BeEmpty())
	})

	It("renders a single pair", func() {
		Expect(detailLine(map[string]any{"chars": 17})).To(Equal("chars=17"))
	})

	It("sorts keys", func() {
		line := detailLine(map[string]any{"zeta": 1, "alpha": "two", "mid": true})
		Expect(line).To(Equal("alpha=two mid=true zeta=1"))
	})
})

var _ = Describe("formatEntry", func() {
	It("includes actor, action, and a shortened subject", func() {
		entry := testEntry(journal.ActorService, journal.ActionEvidenceStore,
			"4f9c1b2a-77aa-4e01-9c2f-0b3d6a1f2e58", map[string]any{"chars": 42})

		line := formatEntry(entry)
		Expect(line).To(ContainSubstring("hindsight"))
		Expect(line).To(ContainSubstring("evidence_store"))
		Expect(line).To(ContainSubstring("4f9c1b2a..."))
		Expect(line).To(ContainSubstring("chars=42"))
	})

	It("omits the subject column when the subject is empty", func() {
		entry := testEntry(journal.ActorOperator, journal.ActionInboxSend, "", nil)

		line := formatEntry(entry)
		Expect(line).To(ContainSubstring("operator"))
		Expect(line).To(ContainSubstring("inbox_send"))
		Expect(line).NotTo(ContainSubstring("..."))
	})
})

var _ = Describe("clamp", func() {
	It("keeps values inside the range", func() {
		Expect(clamp(2, 5)).To(Equal(2))
		Expect(clamp(0, 5)).To(Equal(0))
		Expect(clamp(5, 5)).To(Equal(5))
	})

	It("pins values outside the range", func() {
		Expect(clamp(-1, 5)).To(Equal(0))
		Expect(clamp(9, 5)).To(Equal(5))
	})

	It("collapses a negative upper bound to zero", func() {
		Expect(clamp(3, -1)).To(Equal(0))
	})
})

var _ = Describe("visibleRange", func() {
	It("shows everything when it fits", func() {
		start, end := visibleRange(4, 2, 10)
		Expect(start).To(Equal(0))
		Expect(end).To(Equal(4))
	})

	It("centers the cursor in the window", func() {
		start, end := visibleRange(100, 50, 10)
		Expect(start).To(Equal(45))
		Expect(end).To(Equal(55))
	})

	It("pins the window to the top", func() {
		start, end := visibleRange(100, 2, 10)
		Expect(start).To(Equal(0))
		Expect(end).To(Equal(10))
	})

	It("pins the window to the bottom", func() {
		start, end := visibleRange(100, 99, 10)
		Expect(start).To(Equal(90))
		Expect(end).To(Equal(100))
	})

	It("falls back to the full range for a non-positive size", func() {
		start, end := visibleRange(7, 3, 0)
		Expect(start).To(Equal(0))
		Expect(end).To(Equal(7))
	})
})

var _ = Describe("truncateText", func() {
	It("leaves short text alone", func() {
		Expect(truncateText("abc", 10)).To(Equal("abc"))
	})

	It("truncates with an ellipsis", func() {
		Expect(truncateText("abcdefghij", 5)).To(Equal("ab..."))
	})

	It("cuts hard when there is no room for an ellipsis", func() {
		Expect(truncateText("abcdef", 3)).To(Equal("abc"))
	})

	It("returns empty for a non-positive limit", func() {
		Expect(truncateText("abc", 0)).To(BeEmpty())
	})
})

var _ = Describe("fitCell", func() {
	It("pads short values", func() {
		Expect(fitCell("ab", 5)).To(Equal("ab   "))
	})

	It("truncates long values to the cell width", func() {
		Expect(fitCell("abcdefgh", 5)).To(Equal("ab..."))
	})

	It("returns empty for a non-positive width", func() {
		Expect(fitCell("ab", 0)).To(BeEmpty())
	})
})

var _ = Describe("journalModel", func() {
	var model journalModel

	BeforeEach(func() {
		model = journalModel{
			rec:   journalmem.NewDriver(),
			limit: 20,
			entries: []journal.Entry{
				testEntry(journal.ActorService, journal.ActionGenerate, "", nil),
				testEntry(journal.ActorService, journal.ActionEvidenceStore, "aaa", nil),
				testEntry(journal.ActorOperator, journal.ActionInboxSend, "", nil),
			},
			keys: journalKeys,
		}
	})

	Describe("Update", func() {
		It("tracks the window size", func() {
			updated, _ := model.Update(bubbletea.WindowSizeMsg{Width: 120, Height: 40})
			m := updated.(journalModel)
			Expect(m.width).To(Equal(120))
			Expect(m.height).To(Equal(40))
		})

		It("moves the cursor down and stops at the last entry", func() {
			updated, _ := model.Update(keyPress('j'))
			m := updated.(journalModel)
			Expect(m.cursor).To(Equal(1))

			updated, _ = m.Update(keyPress('j'))
			m = updated.(journalModel)
			updated, _ = m.Update(keyPress('j'))
			m = updated.(journalModel)
			Expect(m.cursor).To(Equal(2))
		})

		It("moves the cursor up and stops at the first entry", func() {
			model.cursor = 1
			updated, _ := model.Update(keyPress('k'))
			m := updated.(journalModel)
			Expect(m.cursor).To(Equal(0))

			updated, _ = m.Update(keyPress('k'))
			m = updated.(journalModel)
			Expect(m.cursor).To(Equal(0))
		})

		It("jumps back to the latest entry", func() {
			model.cursor = 2
			updated, _ := model.Update(keyPress('g'))
			m := updated.(journalModel)
			Expect(m.cursor).To(Equal(0))
		})

		It("quits on q", func() {
			_, cmd := model.Update(keyPress('q'))
			Expect(cmd).NotTo(BeNil())
			Expect(cmd()).To(BeAssignableToTypeOf(bubbletea.QuitMsg{}))
		})

		It("replaces entries on a successful load and schedules the next poll", func() {
			fresh := []journal.Entry{testEntry(journal.ActorService, journal.ActionGenerate, "", nil)}
			model.cursor = 2

			updated, cmd := model.Update(entriesLoadedMsg{entries: fresh})
			m := updated.(journalModel)
			Expect(m.entries).To(HaveLen(1))
			Expect(m.cursor).To(Equal(0))
			Expect(m.err).NotTo(HaveOccurred())
			Expect(cmd).NotTo(BeNil())
		})

		It("keeps the previous entries when a load fails", func() {
			updated, _ := model.Update(entriesLoadedMsg{err: errRefresh})
			m := updated.(journalModel)
			Expect(m.entries).To(HaveLen(3))
			Expect(m.err).To(MatchError(errRefresh))
		})

		It("requests a load on each poll tick", func() {
			_, cmd := model.Update(pollTickMsg{})
			Expect(cmd).NotTo(BeNil())
			Expect(cmd()).To(BeAssignableToTypeOf(entriesLoadedMsg{}))
		})
	})

	Describe("View", func() {
		It("renders the title, entries, and help", func() {
			model.width = 100
			model.height = 30

			view := model.View()
			Expect(view).To(ContainSubstring("hindsight journal"))
			Expect(view).To(ContainSubstring("3 entries"))
			Expect(view).To(ContainSubstring("evidence_store"))
			Expect(view).To(ContainSubstring("quit"))
		})

		It("says so when the journal is empty", func() {
			model.entries = nil
			view := model.View()
			Expect(view).To(ContainSubstring("No journal entries yet."))
		})

		It("surfaces refresh errors", func() {
			model.err = errRefresh
			view := model.View()
			Expect(view).To(ContainSubstring("refresh failed"))
		})
	})
})
