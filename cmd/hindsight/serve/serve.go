// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/api"
	"github.com/papercomputeco/hindsight/cmd/hindsight/paths"
	"github.com/papercomputeco/hindsight/pkg/cipher"
	"github.com/papercomputeco/hindsight/pkg/config"
	"github.com/papercomputeco/hindsight/pkg/embeddings"
	embeddingutils "github.com/papercomputeco/hindsight/pkg/embeddings/utils"
	"github.com/papercomputeco/hindsight/pkg/eventstream"
	"github.com/papercomputeco/hindsight/pkg/eventstream/kafka"
	"github.com/papercomputeco/hindsight/pkg/eventstream/nop"
	"github.com/papercomputeco/hindsight/pkg/evidence"
	"github.com/papercomputeco/hindsight/pkg/inbox"
	"github.com/papercomputeco/hindsight/pkg/journal"
	journalmem "github.com/papercomputeco/hindsight/pkg/journal/inmemory"
	"github.com/papercomputeco/hindsight/pkg/journal/libsql"
	"github.com/papercomputeco/hindsight/pkg/journal/postgres"
	journalsqlite "github.com/papercomputeco/hindsight/pkg/journal/sqlite"
	"github.com/papercomputeco/hindsight/pkg/llm/ollama"
	"github.com/papercomputeco/hindsight/pkg/logger"
	"github.com/papercomputeco/hindsight/pkg/orchestrator"
	"github.com/papercomputeco/hindsight/pkg/tools"
	"github.com/papercomputeco/hindsight/pkg/tools/httpcall"
	"github.com/papercomputeco/hindsight/pkg/tools/websearch"
	"github.com/papercomputeco/hindsight/pkg/vector"
	vectorutils "github.com/papercomputeco/hindsight/pkg/vector/utils"
	"github.com/papercomputeco/hindsight/pkg/worker"
	"github.com/papercomputeco/hindsight/workspace"
)

type ServeCommander struct {
	apiListen          string
	withWorkspace      bool
	workspaceListen    string
	workspaceDir       string
	ollamaTarget       string
	chatModel          string
	embeddingModel     string
	embeddingDims      uint
	maxRecords         uint
	recencyHalfLife    string
	diversityThreshold float64
	maxToolDepth       int
	vectorProvider     string
	vectorTarget       string
	journalProvider    string
	journalTarget      string
	eventsProvider     string
	eventsBrokers      []string
	eventsTopic        string
	inboxDir           string
	configDir          string
	debug              bool
	logger             *zap.Logger
}

const serveLongDesc string = `Run the Hindsight API server.

Wires the evidence store, generation loop, journal, and event stream from
config.toml (flags and HINDSIGHT_* environment variables override it), then
serves the evidence and generation API.

Examples:
  hindsight serve
  hindsight serve --workspace
  hindsight serve --vector-store-provider qdrant --vector-store-target localhost:6334
  hindsight serve --events-provider kafka --events-brokers localhost:9092`

const serveShortDesc string = "Run the Hindsight API server"

var serveFlags = config.FlagSet{
	config.FlagAPIListen:       {Name: "api-listen", Shorthand: "a", ViperKey: "api.listen", Description: "Address for the API server to listen on"},
	config.FlagWorkspaceListen: {Name: "workspace-listen", ViperKey: "workspace.listen", Description: "Address for the workspace server to listen on"},
	config.FlagWorkspaceDir:    {Name: "workspace-dir", ViperKey: "workspace.dir", Description: "Directory the workspace server sandboxes file operations to"},
	config.FlagOllamaTarget:    {Name: "ollama-target", Shorthand: "o", ViperKey: "ollama.target", Description: "Ollama base URL for chat and embeddings"},
	config.FlagChatModel:       {Name: "chat-model", ViperKey: "ollama.chat_model", Description: "Chat model used by the generation loop"},
	config.FlagEmbeddingModel:  {Name: "embedding-model", ViperKey: "ollama.embedding_model", Description: "Embedding model used by the evidence store"},
	config.FlagEmbeddingDims:   {Name: "embedding-dimensions", ViperKey: "ollama.embedding_dimensions", Description: "Embedding vector width, must match the embedding model"},
	config.FlagMaxRecords:      {Name: "max-records", ViperKey: "evidence.max_records", Description: "Evidence record cap before oldest-first eviction"},
	config.FlagVectorStoreProv: {Name: "vector-store-provider", ViperKey: "vector_store.provider", Description: "Vector index backend (sqlitevec, chroma, qdrant, inmemory)"},
	config.FlagVectorStoreTgt:  {Name: "vector-store-target", ViperKey: "vector_store.target", Description: "Vector backend target: path, URL, or host:port depending on provider"},
	config.FlagJournalProv:     {Name: "journal-provider", ViperKey: "journal.provider", Description: "Journal backend (sqlite, postgres, libsql, inmemory)"},
	config.FlagJournalTgt:      {Name: "journal-target", ViperKey: "journal.target", Description: "Journal backend target: path, DSN, or URL depending on provider"},
	config.FlagEventsProv:      {Name: "events-provider", ViperKey: "events.provider", Description: "Event stream backend (kafka, nop)"},
	config.FlagEventsBrokers:   {Name: "events-brokers", ViperKey: "events.brokers", Description: "Kafka bootstrap broker addresses"},
	config.FlagEventsTopic:     {Name: "events-topic", ViperKey: "events.topic", Description: "Kafka topic events are written to"},
}

// serveFlagKeys lists the registry keys bound to viper in PreRunE.
var serveFlagKeys = []string{
	config.FlagAPIListen,
	config.FlagWorkspaceListen,
	config.FlagWorkspaceDir,
	config.FlagOllamaTarget,
	config.FlagChatModel,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagMaxRecords,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagJournalProv,
	config.FlagJournalTgt,
	config.FlagEventsProv,
	config.FlagEventsBrokers,
	config.FlagEventsTopic,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, err := cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}
			cmder.configDir = configDir

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, serveFlags, serveFlagKeys)

			// Effective values after flag > env > file > default resolution.
			cmder.apiListen = v.GetString("api.listen")
			cmder.workspaceListen = v.GetString("workspace.listen")
			cmder.workspaceDir = v.GetString("workspace.dir")
			cmder.ollamaTarget = v.GetString("ollama.target")
			cmder.chatModel = v.GetString("ollama.chat_model")
			cmder.embeddingModel = v.GetString("ollama.embedding_model")
			cmder.embeddingDims = v.GetUint("ollama.embedding_dimensions")
			cmder.maxRecords = v.GetUint("evidence.max_records")
			cmder.recencyHalfLife = v.GetString("evidence.recency_half_life")
			cmder.diversityThreshold = v.GetFloat64("evidence.diversity_threshold")
			cmder.maxToolDepth = v.GetInt("orchestrator.max_tool_depth")
			cmder.vectorProvider = v.GetString("vector_store.provider")
			cmder.vectorTarget = v.GetString("vector_store.target")
			cmder.journalProvider = v.GetString("journal.provider")
			cmder.journalTarget = v.GetString("journal.target")
			cmder.eventsProvider = v.GetString("events.provider")
			cmder.eventsBrokers = v.GetStringSlice("events.brokers")
			cmder.eventsTopic = v.GetString("events.topic")
			cmder.inboxDir = v.GetString("inbox.dir")

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagAPIListen, &cmder.apiListen)
	config.AddStringFlag(cmd, serveFlags, config.FlagWorkspaceListen, &cmder.workspaceListen)
	config.AddStringFlag(cmd, serveFlags, config.FlagWorkspaceDir, &cmder.workspaceDir)
	config.AddStringFlag(cmd, serveFlags, config.FlagOllamaTarget, &cmder.ollamaTarget)
	config.AddStringFlag(cmd, serveFlags, config.FlagChatModel, &cmder.chatModel)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, serveFlags, config.FlagEmbeddingDims, &cmder.embeddingDims)
	config.AddUintFlag(cmd, serveFlags, config.FlagMaxRecords, &cmder.maxRecords)
	config.AddStringFlag(cmd, serveFlags, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, serveFlags, config.FlagJournalProv, &cmder.journalProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagJournalTgt, &cmder.journalTarget)
	config.AddStringFlag(cmd, serveFlags, config.FlagEventsProv, &cmder.eventsProvider)
	config.AddStringSliceFlag(cmd, serveFlags, config.FlagEventsBrokers, &cmder.eventsBrokers)
	config.AddStringFlag(cmd, serveFlags, config.FlagEventsTopic, &cmder.eventsTopic)
	cmd.Flags().BoolVarP(&cmder.withWorkspace, "workspace", "w", false, "Run the workspace server alongside the API server")

	return cmd
}

func (c *ServeCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	rec, err := c.createRecorder(ctx)
	if err != nil {
		return err
	}
	defer rec.Close()

	events := c.createPublisher()
	defer events.Close()

	pool, err := worker.NewPool(&worker.Config{Logger: c.logger})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Close()

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: "ollama",
		TargetURL:    c.ollamaTarget,
		Model:        c.embeddingModel,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	store, err := c.createStore(embedder, rec, events, pool)
	if err != nil {
		return err
	}
	defer store.Close()

	llmClient, err := ollama.New(ollama.Config{
		BaseURL: c.ollamaTarget,
		Model:   c.chatModel,
	})
	if err != nil {
		return fmt.Errorf("creating ollama client: %w", err)
	}

	registry := tools.NewRegistry(c.logger,
		websearch.New(websearch.Config{}, c.logger),
		httpcall.New(httpcall.Config{}, c.logger),
	)
	executor := api.NewJournaledExecutor(registry, rec, pool, c.logger)

	orch := orchestrator.New(orchestrator.Config{
		MaxToolDepth:     c.maxToolDepth,
		WorkspaceBaseURL: baseURLFor(c.workspaceListen),
	}, llmClient, llmClient, embedder, executor, c.logger)

	apiServer, err := api.NewServer(api.Config{
		ListenAddr: c.apiListen,
		Journal:    rec,
		Events:     events,
		Pool:       pool,
	}, store, orch, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	c.logger.Info("starting API server",
		zap.String("listen", c.apiListen),
		zap.String("vector_store", c.vectorProvider),
		zap.String("journal", c.journalProvider),
		zap.String("events", c.eventsProvider),
		zap.String("chat_model", c.chatModel),
	)

	errChan := make(chan error, 2)

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	var workspaceServer *workspace.Server
	if c.withWorkspace {
		workspaceServer, err = c.createWorkspace(rec, events, pool, store)
		if err != nil {
			return err
		}

		c.logger.Info("starting workspace server",
			zap.String("listen", c.workspaceListen),
		)

		go func() {
			if err := workspaceServer.Run(); err != nil {
				errChan <- fmt.Errorf("workspace server error: %w", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		if workspaceServer != nil {
			if err := workspaceServer.Shutdown(); err != nil {
				c.logger.Warn("workspace shutdown failed", zap.Error(err))
			}
		}
		return apiServer.Shutdown()
	}
}

// createStore builds the vector driver and the evidence store, with capacity
// evictions recorded through the journal and event stream.
func (c *ServeCommander) createStore(embedder embeddings.Embedder, rec journal.Recorder, events eventstream.Publisher, pool *worker.Pool) (*evidence.Store, error) {
	driver, err := c.createVectorDriver()
	if err != nil {
		return nil, err
	}

	halfLife, err := time.ParseDuration(c.recencyHalfLife)
	if err != nil {
		return nil, fmt.Errorf("parsing evidence.recency_half_life: %w", err)
	}

	onEvict := func(ids []string) {
		job := func(ctx context.Context) {
			for _, id := range ids {
				entry := journal.NewEntry(journal.ActorService, journal.ActionEvidenceEvict, id, nil)
				if err := rec.Record(ctx, entry); err != nil {
					c.logger.Warn("journal record failed", zap.String("action", entry.Action), zap.Error(err))
				}

				event := eventstream.EvidenceDeletedEvent{
					Envelope:   eventstream.NewEnvelope(eventstream.EventTypeEvidenceDeleted),
					EvidenceID: id,
					Evicted:    true,
				}
				if err := events.Publish(ctx, event); err != nil {
					c.logger.Warn("event publish failed", zap.String("event_id", event.ID()), zap.Error(err))
				}
			}
		}
		if !pool.Enqueue("evidence-evicted", job) {
			job(context.Background())
		}
	}

	return evidence.NewStore(evidence.Config{
		MaxEvidence:        int(c.maxRecords),
		RecencyHalfLife:    halfLife,
		DiversityThreshold: c.diversityThreshold,
		OnEvict:            onEvict,
	}, embedder, driver, c.logger), nil
}

func (c *ServeCommander) createVectorDriver() (vector.Driver, error) {
	switch c.vectorProvider {
	case "sqlitevec":
		dbPath, err := paths.EvidenceDB(c.vectorTarget, c.configDir)
		if err != nil {
			return nil, fmt.Errorf("resolving evidence database path: %w", err)
		}
		c.logger.Info("using sqlite-vec index", zap.String("path", dbPath))
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "sqlitevec",
			DBPath:       dbPath,
			Dimensions:   c.embeddingDims,
			Logger:       c.logger,
		})

	case "qdrant":
		host, port, err := splitQdrantTarget(c.vectorTarget)
		if err != nil {
			return nil, err
		}
		c.logger.Info("using qdrant index", zap.String("host", host), zap.Int("port", port))
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "qdrant",
			Host:         host,
			Port:         port,
			Dimensions:   c.embeddingDims,
			Slogger:      logger.New(logger.WithDebug(c.debug)),
		})

	case "chroma":
		c.logger.Info("using chroma index", zap.String("url", c.vectorTarget))
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "chroma",
			TargetURL:    c.vectorTarget,
			Slogger:      logger.New(logger.WithDebug(c.debug)),
		})

	case "inmemory":
		c.logger.Info("using in-memory index")
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "inmemory",
		})

	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", c.vectorProvider)
	}
}

func (c *ServeCommander) createRecorder(ctx context.Context) (journal.Recorder, error) {
	switch c.journalProvider {
	case "sqlite":
		dbPath, err := paths.JournalDB(c.journalTarget, c.configDir)
		if err != nil {
			return nil, fmt.Errorf("resolving journal database path: %w", err)
		}
		rec, err := journalsqlite.NewSQLiteDriver(dbPath)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite journal: %w", err)
		}
		return rec, nil

	case "postgres":
		rec, err := postgres.NewDriver(ctx, c.journalTarget)
		if err != nil {
			return nil, fmt.Errorf("creating postgres journal: %w", err)
		}
		return rec, nil

	case "libsql":
		rec, err := libsql.NewDriver(ctx, c.journalTarget)
		if err != nil {
			return nil, fmt.Errorf("creating libsql journal: %w", err)
		}
		return rec, nil

	case "inmemory":
		return journalmem.NewDriver(), nil

	default:
		return nil, fmt.Errorf("unsupported journal provider: %s", c.journalProvider)
	}
}

func (c *ServeCommander) createPublisher() eventstream.Publisher {
	if c.eventsProvider == "kafka" {
		return kafka.NewPublisher(kafka.Config{
			Brokers: c.eventsBrokers,
			Topic:   c.eventsTopic,
		})
	}
	return nop.NewPublisher()
}

func (c *ServeCommander) createWorkspace(rec journal.Recorder, events eventstream.Publisher, pool *worker.Pool, store *evidence.Store) (*workspace.Server, error) {
	keyPath, err := paths.CipherKey("", c.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving cipher key path: %w", err)
	}
	key, err := cipher.LoadOrCreateKey(keyPath)
	if err != nil {
		return nil, fmt.Errorf("loading cipher key: %w", err)
	}
	ciph, err := cipher.New(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	inboxDir, err := paths.Inbox(c.inboxDir, c.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving inbox dir: %w", err)
	}
	box := inbox.New(inboxDir, ciph, c.logger)

	wsDir, err := paths.Workspace(c.workspaceDir, c.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace dir: %w", err)
	}

	return workspace.NewServer(workspace.Config{
		ListenAddr: c.workspaceListen,
		Dir:        wsDir,
		Journal:    rec,
		Events:     events,
		Pool:       pool,
	}, store, box, ciph, c.logger)
}

// splitQdrantTarget parses a host:port target, defaulting the port to
// Qdrant's gRPC port when absent.
func splitQdrantTarget(target string) (string, int, error) {
	if target == "" {
		return "localhost", 0, nil
	}

	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		// Bare hostname; the driver fills in the default port.
		return target, 0, nil
	}

	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		return "", 0, fmt.Errorf("invalid qdrant target %q: %w", target, err)
	}
	return host, port, nil
}

// baseURLFor turns a listen address into the base URL the generation loop
// hands out in workspace directives. Wildcard hosts map to loopback.
func baseURLFor(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return orchestrator.DefaultWorkspaceBaseURL
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, port))
}
