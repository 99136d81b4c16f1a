package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/hindsight/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the HINDSIGHT_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (HINDSIGHT_API_LISTEN, HINDSIGHT_OLLAMA_TARGET, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: HINDSIGHT_API_LISTEN, HINDSIGHT_JOURNAL_PROVIDER, etc.
	v.SetEnvPrefix("HINDSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// API
	v.SetDefault("api.listen", d.API.Listen)
	v.SetDefault("api.target", d.API.Target)

	// Workspace
	v.SetDefault("workspace.listen", d.Workspace.Listen)
	v.SetDefault("workspace.dir", d.Workspace.Dir)

	// Ollama
	v.SetDefault("ollama.target", d.Ollama.Target)
	v.SetDefault("ollama.chat_model", d.Ollama.ChatModel)
	v.SetDefault("ollama.embedding_model", d.Ollama.EmbeddingModel)
	v.SetDefault("ollama.embedding_dimensions", d.Ollama.EmbeddingDimensions)

	// Evidence
	v.SetDefault("evidence.max_records", d.Evidence.MaxRecords)
	v.SetDefault("evidence.recency_half_life", d.Evidence.RecencyHalfLife)
	v.SetDefault("evidence.diversity_threshold", d.Evidence.DiversityThreshold)

	// Orchestrator
	v.SetDefault("orchestrator.max_tool_depth", d.Orchestrator.MaxToolDepth)

	// Vector store
	v.SetDefault("vector_store.provider", d.VectorStore.Provider)
	v.SetDefault("vector_store.target", d.VectorStore.Target)

	// Journal
	v.SetDefault("journal.provider", d.Journal.Provider)
	v.SetDefault("journal.target", d.Journal.Target)

	// Events
	v.SetDefault("events.provider", d.Events.Provider)
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)

	// Inbox
	v.SetDefault("inbox.dir", d.Inbox.Dir)
}
