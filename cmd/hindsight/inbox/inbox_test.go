package inboxcmder

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("NewInboxCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewInboxCmd()
		Expect(cmd.Use).To(Equal("inbox"))
	})

	It("has read and send subcommands", func() {
		cmd := NewInboxCmd()

		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("read", "send"))
	})
})

var _ = Describe("newReadCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := newReadCmd()
		Expect(cmd.Use).To(Equal("read"))
	})

	It("has --follow flag defaulting to off", func() {
		cmd := newReadCmd()
		flag := cmd.Flags().Lookup("follow")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("f"))
		Expect(flag.DefValue).To(Equal("false"))
	})

	It("has --dir flag defaulting to empty", func() {
		cmd := newReadCmd()
		flag := cmd.Flags().Lookup("dir")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(BeEmpty())
	})
})

var _ = Describe("newSendCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := newSendCmd()
		Expect(cmd.Use).To(Equal("send <message>"))
	})

	It("requires exactly one argument", func() {
		cmd := newSendCmd()
		Expect(cmd.Args(cmd, []string{})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"hello"})).NotTo(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"a", "b"})).To(HaveOccurred())
	})

	It("has --journal-provider flag defaulting to sqlite", func() {
		cmd := newSendCmd()
		flag := cmd.Flags().Lookup("journal-provider")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("sqlite"))
	})
})

var _ = Describe("openInbox", func() {
	var configDir string

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
	})

	It("creates the key and channel directory on first use", func() {
		box, err := openInbox("", configDir, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		Expect(box.Drop("first contact")).To(Succeed())

		message, err := box.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(message).To(Equal("first contact"))
	})

	It("reuses the persisted key across opens", func() {
		first, err := openInbox("", configDir, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Drop("stable key")).To(Succeed())

		second, err := openInbox("", configDir, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		message, err := second.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(message).To(Equal("stable key"))
	})

	It("honors an explicit channel directory", func() {
		dir := filepath.Join(configDir, "drop")

		box, err := openInbox(dir, configDir, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(box.Drop("custom dir")).To(Succeed())

		message, err := box.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(message).To(Equal("custom dir"))
	})
})

var _ = Describe("sendCommander openRecorder", func() {
	It("opens an inmemory recorder", func() {
		cmder := &sendCommander{journalProvider: "inmemory"}

		rec, err := cmder.openRecorder(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(rec).NotTo(BeNil())
		Expect(rec.Close()).To(Succeed())
	})

	It("rejects an unknown provider", func() {
		cmder := &sendCommander{journalProvider: "carrier-pigeon"}

		_, err := cmder.openRecorder(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unsupported journal provider"))
	})
})
