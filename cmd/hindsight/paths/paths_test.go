package paths

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("path resolution", func() {
	var (
		tmpDir      string
		origEvidDB  string
		origJournal string
		origWorkDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "hindsight-paths-*")
		Expect(err).NotTo(HaveOccurred())

		origEvidDB = os.Getenv("HINDSIGHT_EVIDENCE_DB")
		origJournal = os.Getenv("HINDSIGHT_JOURNAL_DB")
		origWorkDir = os.Getenv("HINDSIGHT_WORKSPACE_DIR")
		Expect(os.Unsetenv("HINDSIGHT_EVIDENCE_DB")).To(Succeed())
		Expect(os.Unsetenv("HINDSIGHT_JOURNAL_DB")).To(Succeed())
		Expect(os.Unsetenv("HINDSIGHT_WORKSPACE_DIR")).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Setenv("HINDSIGHT_EVIDENCE_DB", origEvidDB)).To(Succeed())
		Expect(os.Setenv("HINDSIGHT_JOURNAL_DB", origJournal)).To(Succeed())
		Expect(os.Setenv("HINDSIGHT_WORKSPACE_DIR", origWorkDir)).To(Succeed())
		os.RemoveAll(tmpDir)
	})

	Describe("EvidenceDB", func() {
		It("prefers an explicit override", func() {
			path, err := EvidenceDB("/tmp/custom.db", tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal("/tmp/custom.db"))
		})

		It("prefers HINDSIGHT_EVIDENCE_DB over the dotdir default", func() {
			Expect(os.Setenv("HINDSIGHT_EVIDENCE_DB", "/tmp/env.db")).To(Succeed())

			path, err := EvidenceDB("", tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal("/tmp/env.db"))
		})

		It("falls back to evidence.db under the config directory", func() {
			path, err := EvidenceDB("", tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(tmpDir, "evidence.db")))
		})
	})

	Describe("JournalDB", func() {
		It("falls back to journal.db under the config directory", func() {
			path, err := JournalDB("", tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(tmpDir, "journal.db")))
		})
	})

	Describe("Workspace", func() {
		It("creates the workspace directory under the config directory", func() {
			path, err := Workspace("", tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(tmpDir, "workspace")))

			info, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("creates an explicit override directory", func() {
			override := filepath.Join(tmpDir, "elsewhere")

			path, err := Workspace(override, tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(override))

			info, err := os.Stat(override)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})
	})

	Describe("Inbox", func() {
		It("creates the inbox directory under the config directory", func() {
			path, err := Inbox("", tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(tmpDir, "inbox")))

			info, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})
	})

	Describe("CipherKey", func() {
		It("resolves cipher.key under the config directory", func() {
			path, err := CipherKey("", tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(tmpDir, "cipher.key")))
		})
	})
})
