package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent hindsight configuration stored as
// config.toml in the .hindsight/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version      int                `toml:"version"`
	API          APIConfig          `toml:"api"`
	Workspace    WorkspaceConfig    `toml:"workspace"`
	Ollama       OllamaConfig       `toml:"ollama"`
	Evidence     EvidenceConfig     `toml:"evidence"`
	Orchestrator OrchestratorConfig `toml:"orchestrator"`
	VectorStore  VectorStoreConfig  `toml:"vector_store"`
	Journal      JournalConfig      `toml:"journal"`
	Events       EventsConfig       `toml:"events"`
	Inbox        InboxConfig        `toml:"inbox"`
}

// APIConfig holds API server settings. Listen is the bind address; Target is
// the full URL CLI commands use to reach a running server.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
	Target string `toml:"target,omitempty"`
}

// WorkspaceConfig holds workspace server settings. Dir is the sandboxed
// directory the file routes operate on; empty resolves to
// .hindsight/workspace at startup.
type WorkspaceConfig struct {
	Listen string `toml:"listen,omitempty"`
	Dir    string `toml:"dir,omitempty"`
}

// OllamaConfig holds the chat, completion, and embedding backend settings.
// EmbeddingDimensions must match the vector width the embedding model
// produces; sqlitevec and qdrant size their indexes from it.
type OllamaConfig struct {
	Target              string `toml:"target,omitempty"`
	ChatModel           string `toml:"chat_model,omitempty"`
	EmbeddingModel      string `toml:"embedding_model,omitempty"`
	EmbeddingDimensions uint   `toml:"embedding_dimensions,omitempty"`
}

// EvidenceConfig holds evidence store tuning.
type EvidenceConfig struct {
	MaxRecords         int     `toml:"max_records,omitempty"`
	RecencyHalfLife    string  `toml:"recency_half_life,omitempty"`
	DiversityThreshold float64 `toml:"diversity_threshold,omitempty"`
}

// OrchestratorConfig holds generation loop settings.
type OrchestratorConfig struct {
	MaxToolDepth int `toml:"max_tool_depth,omitempty"`
}

// VectorStoreConfig holds vector index settings. Target is a file path for
// sqlitevec, a gRPC address for qdrant, or a base URL for chroma; empty
// resolves per provider at startup.
type VectorStoreConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
}

// JournalConfig holds provenance journal settings. Target is a file path for
// sqlite, a DSN for postgres, or a URL for libsql.
type JournalConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
}

// EventsConfig holds event stream settings.
type EventsConfig struct {
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// InboxConfig holds the encrypted operator channel location; empty resolves
// to .hindsight/inbox at startup.
type InboxConfig struct {
	Dir string `toml:"dir,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"api.target": {
		get: func(c *Config) string { return c.API.Target },
		set: func(c *Config, v string) error { c.API.Target = v; return nil },
	},
	"workspace.listen": {
		get: func(c *Config) string { return c.Workspace.Listen },
		set: func(c *Config, v string) error { c.Workspace.Listen = v; return nil },
	},
	"workspace.dir": {
		get: func(c *Config) string { return c.Workspace.Dir },
		set: func(c *Config, v string) error { c.Workspace.Dir = v; return nil },
	},
	"ollama.target": {
		get: func(c *Config) string { return c.Ollama.Target },
		set: func(c *Config, v string) error { c.Ollama.Target = v; return nil },
	},
	"ollama.chat_model": {
		get: func(c *Config) string { return c.Ollama.ChatModel },
		set: func(c *Config, v string) error { c.Ollama.ChatModel = v; return nil },
	},
	"ollama.embedding_model": {
		get: func(c *Config) string { return c.Ollama.EmbeddingModel },
		set: func(c *Config, v string) error { c.Ollama.EmbeddingModel = v; return nil },
	},
	"ollama.embedding_dimensions": {
		get: func(c *Config) string {
			if c.Ollama.EmbeddingDimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Ollama.EmbeddingDimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid value for ollama.embedding_dimensions: %w", err)
			}
			c.Ollama.EmbeddingDimensions = uint(n)
			return nil
		},
	},
	"evidence.max_records": {
		get: func(c *Config) string {
			if c.Evidence.MaxRecords == 0 {
				return ""
			}
			return strconv.Itoa(c.Evidence.MaxRecords)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for evidence.max_records: %w", err)
			}
			c.Evidence.MaxRecords = n
			return nil
		},
	},
	"evidence.recency_half_life": {
		get: func(c *Config) string { return c.Evidence.RecencyHalfLife },
		set: func(c *Config, v string) error { c.Evidence.RecencyHalfLife = v; return nil },
	},
	"evidence.diversity_threshold": {
		get: func(c *Config) string {
			if c.Evidence.DiversityThreshold == 0 {
				return ""
			}
			return strconv.FormatFloat(c.Evidence.DiversityThreshold, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for evidence.diversity_threshold: %w", err)
			}
			c.Evidence.DiversityThreshold = f
			return nil
		},
	},
	"orchestrator.max_tool_depth": {
		get: func(c *Config) string {
			if c.Orchestrator.MaxToolDepth == 0 {
				return ""
			}
			return strconv.Itoa(c.Orchestrator.MaxToolDepth)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for orchestrator.max_tool_depth: %w", err)
			}
			c.Orchestrator.MaxToolDepth = n
			return nil
		},
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.target": {
		get: func(c *Config) string { return c.VectorStore.Target },
		set: func(c *Config, v string) error { c.VectorStore.Target = v; return nil },
	},
	"journal.provider": {
		get: func(c *Config) string { return c.Journal.Provider },
		set: func(c *Config, v string) error { c.Journal.Provider = v; return nil },
	},
	"journal.target": {
		get: func(c *Config) string { return c.Journal.Target },
		set: func(c *Config, v string) error { c.Journal.Target = v; return nil },
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return strings.Join(c.Events.Brokers, ",") },
		set: func(c *Config, v string) error {
			c.Events.Brokers = nil
			for _, broker := range strings.Split(v, ",") {
				if broker = strings.TrimSpace(broker); broker != "" {
					c.Events.Brokers = append(c.Events.Brokers, broker)
				}
			}
			return nil
		},
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
	"inbox.dir": {
		get: func(c *Config) string { return c.Inbox.Dir },
		set: func(c *Config, v string) error { c.Inbox.Dir = v; return nil },
	},
}
