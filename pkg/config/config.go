package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/hindsight/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	ddm := dotdir.NewManager()
	target, err := ddm.Target(override)
	if err != nil {
		return nil, err
	}

	cfger := &Configer{ddm: ddm}

	// If no .hindsight/ directory was resolved, targetPath stays empty;
	// LoadConfig will return defaults and SaveConfig will error clearly.
	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	if _, err := os.Stat(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Always set targetPath when the directory exists so SaveConfig
	// can create or overwrite the file.
	cfger.targetPath = path

	return cfger, nil
}

// orderedKeys fixes the display order of config keys, following the TOML
// section layout. Keys registered in configKeys but missing here are
// appended in sorted order by ValidConfigKeys.
var orderedKeys = []string{
	"api.listen",
	"api.target",
	"workspace.listen",
	"workspace.dir",
	"ollama.target",
	"ollama.chat_model",
	"ollama.embedding_model",
	"ollama.embedding_dimensions",
	"evidence.max_records",
	"evidence.recency_half_life",
	"evidence.diversity_threshold",
	"orchestrator.max_tool_depth",
	"vector_store.provider",
	"vector_store.target",
	"journal.provider",
	"journal.target",
	"events.provider",
	"events.brokers",
	"events.topic",
	"inbox.dir",
}

// ValidConfigKeys returns the sorted list of all supported configuration key names.
func ValidConfigKeys() []string {
	result := make([]string, 0, len(configKeys))
	seen := make(map[string]bool, len(configKeys))

	for _, k := range orderedKeys {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
			seen[k] = true
		}
	}

	var extras []string
	for k := range configKeys {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)

	return append(result, extras...)
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads the configuration from config.toml in the target .hindsight/ directory.
// If the file does not exist, returns DefaultConfig() so callers always receive
// a fully-populated Config with sane defaults. Fields explicitly set in the file
// override the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	// Merge in defaults: fill in any zero-value fields from the loaded config
	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from DefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}

	if cfg.API.Listen == "" {
		cfg.API.Listen = defaults.API.Listen
	}
	if cfg.API.Target == "" {
		cfg.API.Target = defaults.API.Target
	}

	if cfg.Workspace.Listen == "" {
		cfg.Workspace.Listen = defaults.Workspace.Listen
	}

	if cfg.Ollama.Target == "" {
		cfg.Ollama.Target = defaults.Ollama.Target
	}
	if cfg.Ollama.ChatModel == "" {
		cfg.Ollama.ChatModel = defaults.Ollama.ChatModel
	}
	if cfg.Ollama.EmbeddingModel == "" {
		cfg.Ollama.EmbeddingModel = defaults.Ollama.EmbeddingModel
	}
	if cfg.Ollama.EmbeddingDimensions == 0 {
		cfg.Ollama.EmbeddingDimensions = defaults.Ollama.EmbeddingDimensions
	}

	if cfg.Evidence.MaxRecords == 0 {
		cfg.Evidence.MaxRecords = defaults.Evidence.MaxRecords
	}
	if cfg.Evidence.RecencyHalfLife == "" {
		cfg.Evidence.RecencyHalfLife = defaults.Evidence.RecencyHalfLife
	}
	if cfg.Evidence.DiversityThreshold == 0 {
		cfg.Evidence.DiversityThreshold = defaults.Evidence.DiversityThreshold
	}

	if cfg.Orchestrator.MaxToolDepth == 0 {
		cfg.Orchestrator.MaxToolDepth = defaults.Orchestrator.MaxToolDepth
	}

	if cfg.VectorStore.Provider == "" {
		cfg.VectorStore.Provider = defaults.VectorStore.Provider
	}

	if cfg.Journal.Provider == "" {
		cfg.Journal.Provider = defaults.Journal.Provider
	}

	if cfg.Events.Provider == "" {
		cfg.Events.Provider = defaults.Events.Provider
	}
	if cfg.Events.Topic == "" {
		cfg.Events.Topic = defaults.Events.Topic
	}
}

// SaveConfig persists the configuration to config.toml in the target .hindsight/ directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	switch {
	case cfg == nil:
		return errors.New("cannot save nil config")
	case c.targetPath == "":
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string representation of the given key.
// Returns an error if the key is not a valid config key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// presets maps each recognized preset name to its vector store settings.
var presets = map[string]VectorStoreConfig{
	"sqlitevec": {Provider: "sqlitevec"},
	"qdrant":    {Provider: "qdrant", Target: "localhost:6334"},
	"chroma":    {Provider: "chroma", Target: "http://localhost:8000"},
	"inmemory":  {Provider: "inmemory"},
}

// PresetConfig returns a Config preconfigured for the named vector store
// backend. Supported presets: "sqlitevec", "qdrant", "chroma", "inmemory".
// Fields left zero are filled from defaults when the config is loaded.
// Returns an error if the preset name is not recognized.
func PresetConfig(name string) (*Config, error) {
	vs, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %q (available: %s)",
			name, strings.Join(ValidPresetNames(), ", "))
	}

	return &Config{
		Version:     CurrentV,
		VectorStore: vs,
	}, nil
}

// ValidPresetNames returns the list of recognized preset names.
func ValidPresetNames() []string {
	return []string{"sqlitevec", "qdrant", "chroma", "inmemory"}
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
