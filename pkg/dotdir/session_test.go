package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/hindsight/pkg/dotdir"
)

var _ = Describe("dotdir.Manager session", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-session-test-*")
		Expect(err).NotTo(HaveOccurred())
		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadSession", func() {
		It("returns nil when no session file exists", func() {
			state, err := m.LoadSession(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})

		It("returns an error for malformed JSON", func() {
			path := filepath.Join(tmpDir, "session.json")
			Expect(os.WriteFile(path, []byte("{not json"), 0o644)).To(Succeed())

			_, err := m.LoadSession(tmpDir)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SaveSession", func() {
		It("round-trips the conversation", func() {
			state := &dotdir.SessionState{
				Messages: []dotdir.SessionMessage{
					{Role: "user", Content: "What is the reactor status?"},
					{Role: "assistant", Content: "All systems nominal."},
				},
			}

			Expect(m.SaveSession(state, tmpDir)).To(Succeed())

			loaded, err := m.LoadSession(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).NotTo(BeNil())
			Expect(loaded.Messages).To(HaveLen(2))
			Expect(loaded.Messages[0].Role).To(Equal("user"))
			Expect(loaded.Messages[1].Content).To(Equal("All systems nominal."))
		})

		It("rejects a nil state", func() {
			Expect(m.SaveSession(nil, tmpDir)).To(HaveOccurred())
		})

		It("overwrites an existing session", func() {
			first := &dotdir.SessionState{
				Messages: []dotdir.SessionMessage{{Role: "user", Content: "one"}},
			}
			Expect(m.SaveSession(first, tmpDir)).To(Succeed())

			second := &dotdir.SessionState{
				Messages: []dotdir.SessionMessage{
					{Role: "user", Content: "one"},
					{Role: "assistant", Content: "two"},
				},
			}
			Expect(m.SaveSession(second, tmpDir)).To(Succeed())

			loaded, err := m.LoadSession(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Messages).To(HaveLen(2))
		})
	})

	Describe("ClearSession", func() {
		It("removes an existing session", func() {
			state := &dotdir.SessionState{
				Messages: []dotdir.SessionMessage{{Role: "user", Content: "hello"}},
			}
			Expect(m.SaveSession(state, tmpDir)).To(Succeed())

			Expect(m.ClearSession(tmpDir)).To(Succeed())

			loaded, err := m.LoadSession(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(BeNil())
		})

		It("is a no-op when no session exists", func() {
			Expect(m.ClearSession(tmpDir)).To(Succeed())
		})
	})
})
