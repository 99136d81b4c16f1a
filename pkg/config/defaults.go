package config

const (
	defaultAPIListen       = ":8081"
	defaultAPITarget       = "http://localhost:8081"
	defaultWorkspaceListen = "127.0.0.1:8787"

	defaultOllamaTarget        = "http://localhost:11434"
	defaultChatModel           = "qwen3-4b"
	defaultEmbeddingModel      = "qwen3-embedding:0.6b"
	defaultEmbeddingDimensions = 1024

	defaultMaxRecords         = 500
	defaultRecencyHalfLife    = "6h"
	defaultDiversityThreshold = 0.9

	defaultMaxToolDepth = 5

	defaultVectorProvider  = "sqlitevec"
	defaultJournalProvider = "sqlite"

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "hindsight.events"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
// Workspace.Dir, VectorStore.Target, Journal.Target, and Inbox.Dir default
// to empty and are resolved against the .hindsight directory at startup.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
			Target: defaultAPITarget,
		},
		Workspace: WorkspaceConfig{
			Listen: defaultWorkspaceListen,
		},
		Ollama: OllamaConfig{
			Target:              defaultOllamaTarget,
			ChatModel:           defaultChatModel,
			EmbeddingModel:      defaultEmbeddingModel,
			EmbeddingDimensions: defaultEmbeddingDimensions,
		},
		Evidence: EvidenceConfig{
			MaxRecords:         defaultMaxRecords,
			RecencyHalfLife:    defaultRecencyHalfLife,
			DiversityThreshold: defaultDiversityThreshold,
		},
		Orchestrator: OrchestratorConfig{
			MaxToolDepth: defaultMaxToolDepth,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
		},
		Journal: JournalConfig{
			Provider: defaultJournalProvider,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
