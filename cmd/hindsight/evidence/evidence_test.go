package evidencecmder

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewStoreCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewStoreCmd()
		Expect(cmd.Use).To(Equal("store <text>"))
	})

	It("has --source flag defaulting to empty", func() {
		cmd := NewStoreCmd()
		flag := cmd.Flags().Lookup("source")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("s"))
		Expect(flag.DefValue).To(BeEmpty())
	})

	It("has --vector-store-provider flag defaulting to sqlitevec", func() {
		cmd := NewStoreCmd()
		flag := cmd.Flags().Lookup("vector-store-provider")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("sqlitevec"))
	})

	It("has --ollama-target flag with default value", func() {
		cmd := NewStoreCmd()
		flag := cmd.Flags().Lookup("ollama-target")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("o"))
		Expect(flag.DefValue).To(Equal("http://localhost:11434"))
	})

	It("requires exactly one argument", func() {
		cmd := NewStoreCmd()
		Expect(cmd.Args(cmd, []string{})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"some text"})).NotTo(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"a", "b"})).To(HaveOccurred())
	})
})

var _ = Describe("NewSearchCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewSearchCmd()
		Expect(cmd.Use).To(Equal("search <query>"))
	})

	It("has --top-k flag with default value", func() {
		cmd := NewSearchCmd()
		flag := cmd.Flags().Lookup("top-k")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("k"))
		Expect(flag.DefValue).To(Equal("5"))
	})

	It("has --threshold flag with default value", func() {
		cmd := NewSearchCmd()
		flag := cmd.Flags().Lookup("threshold")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("t"))
		Expect(flag.DefValue).To(Equal("0"))
	})

	It("has --ids flag defaulting to empty", func() {
		cmd := NewSearchCmd()
		flag := cmd.Flags().Lookup("ids")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("[]"))
	})

	It("has --quiet flag defaulting to off", func() {
		cmd := NewSearchCmd()
		flag := cmd.Flags().Lookup("quiet")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("q"))
		Expect(flag.DefValue).To(Equal("false"))
	})

	It("accepts at most one argument", func() {
		cmd := NewSearchCmd()
		Expect(cmd.Args(cmd, []string{})).NotTo(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"query"})).NotTo(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"a", "b"})).To(HaveOccurred())
	})
})

var _ = Describe("NewForgetCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewForgetCmd()
		Expect(cmd.Use).To(Equal("forget <id>"))
	})

	It("requires exactly one argument", func() {
		cmd := NewForgetCmd()
		Expect(cmd.Args(cmd, []string{})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"some-id"})).NotTo(HaveOccurred())
	})

	It("has --vector-store-target flag defaulting to empty", func() {
		cmd := NewForgetCmd()
		flag := cmd.Flags().Lookup("vector-store-target")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(BeEmpty())
	})
})

var _ = Describe("metadataLine", func() {
	It("returns empty for missing or empty metadata", func() {
		Expect(metadataLine("")).To(BeEmpty())
		Expect(metadataLine("{}")).To(BeEmpty())
	})

	It("puts stored_at and source first", func() {
		line := metadataLine(`{"source":"maintenance-log","stored_at":"2026-02-11T08:00:00Z"}`)
		Expect(line).To(Equal("stored_at=2026-02-11T08:00:00Z  source=maintenance-log"))
	})

	It("appends remaining keys in sorted order", func() {
		line := metadataLine(`{"zeta":"1","alpha":"2","source":"ops"}`)
		Expect(line).To(Equal("source=ops  alpha=2  zeta=1"))
	})

	It("returns empty for malformed metadata", func() {
		Expect(metadataLine("not json")).To(BeEmpty())
	})
})
