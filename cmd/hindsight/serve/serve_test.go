package servecmder

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewServeCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewServeCmd()
		Expect(cmd.Use).To(Equal("serve"))
	})

	It("has --api-listen flag with default value", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("api-listen")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("a"))
		Expect(flag.DefValue).To(Equal(":8081"))
	})

	It("has --ollama-target flag with default value", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("ollama-target")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("o"))
		Expect(flag.DefValue).To(Equal("http://localhost:11434"))
	})

	It("has --chat-model flag with default value", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("chat-model")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("qwen3-4b"))
	})

	It("has --embedding-model flag with default value", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("embedding-model")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("qwen3-embedding:0.6b"))
	})

	It("has --embedding-dimensions flag with default value", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("embedding-dimensions")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("1024"))
	})

	It("has --max-records flag with default value", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("max-records")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("500"))
	})

	It("has --vector-store-provider flag defaulting to sqlitevec", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("vector-store-provider")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("sqlitevec"))
	})

	It("has --journal-provider flag defaulting to sqlite", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("journal-provider")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("sqlite"))
	})

	It("has --events-provider flag defaulting to nop", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("events-provider")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("nop"))
	})

	It("has --events-topic flag with default value", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("events-topic")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("hindsight.events"))
	})

	It("has --workspace flag defaulting to off", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("workspace")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("w"))
		Expect(flag.DefValue).To(Equal("false"))
	})

	It("has --workspace-listen flag with default value", func() {
		cmd := NewServeCmd()
		flag := cmd.Flags().Lookup("workspace-listen")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("127.0.0.1:8787"))
	})
})

var _ = Describe("baseURLFor", func() {
	It("turns a loopback listen address into a base URL", func() {
		Expect(baseURLFor("127.0.0.1:8787")).To(Equal("http://127.0.0.1:8787"))
	})

	It("maps a wildcard host to loopback", func() {
		Expect(baseURLFor(":8787")).To(Equal("http://127.0.0.1:8787"))
		Expect(baseURLFor("0.0.0.0:8787")).To(Equal("http://127.0.0.1:8787"))
	})

	It("falls back to the default on unparseable input", func() {
		Expect(baseURLFor("not a listen addr")).To(Equal("http://127.0.0.1:8787"))
	})
})

var _ = Describe("splitQdrantTarget", func() {
	It("splits host and port", func() {
		host, port, err := splitQdrantTarget("qdrant.internal:7443")
		Expect(err).NotTo(HaveOccurred())
		Expect(host).To(Equal("qdrant.internal"))
		Expect(port).To(Equal(7443))
	})

	It("leaves the port zero for a bare hostname", func() {
		host, port, err := splitQdrantTarget("qdrant.internal")
		Expect(err).NotTo(HaveOccurred())
		Expect(host).To(Equal("qdrant.internal"))
		Expect(port).To(BeZero())
	})

	It("defaults to localhost for an empty target", func() {
		host, port, err := splitQdrantTarget("")
		Expect(err).NotTo(HaveOccurred())
		Expect(host).To(Equal("localhost"))
		Expect(port).To(BeZero())
	})

	It("rejects a non-numeric port", func() {
		_, _, err := splitQdrantTarget("qdrant.internal:grpc")
		Expect(err).To(HaveOccurred())
	})
})
