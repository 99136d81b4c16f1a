package workspacecmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	workspacecmder "github.com/papercomputeco/hindsight/cmd/hindsight/workspace"
)

var _ = Describe("NewWorkspaceCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := workspacecmder.NewWorkspaceCmd()
		Expect(cmd.Use).To(Equal("workspace"))
	})

	It("has --listen flag with default value", func() {
		cmd := workspacecmder.NewWorkspaceCmd()
		flag := cmd.Flags().Lookup("listen")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("l"))
		Expect(flag.DefValue).To(Equal("127.0.0.1:8787"))
	})

	It("has --dir flag defaulting to empty", func() {
		cmd := workspacecmder.NewWorkspaceCmd()
		flag := cmd.Flags().Lookup("dir")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(BeEmpty())
	})

	It("has --no-evidence flag defaulting to off", func() {
		cmd := workspacecmder.NewWorkspaceCmd()
		flag := cmd.Flags().Lookup("no-evidence")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("false"))
	})

	It("has --vector-store-provider flag defaulting to sqlitevec", func() {
		cmd := workspacecmder.NewWorkspaceCmd()
		flag := cmd.Flags().Lookup("vector-store-provider")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("sqlitevec"))
	})

	It("has --journal-provider flag defaulting to sqlite", func() {
		cmd := workspacecmder.NewWorkspaceCmd()
		flag := cmd.Flags().Lookup("journal-provider")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("sqlite"))
	})

	It("has --inbox-dir flag defaulting to empty", func() {
		cmd := workspacecmder.NewWorkspaceCmd()
		flag := cmd.Flags().Lookup("inbox-dir")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(BeEmpty())
	})
})
