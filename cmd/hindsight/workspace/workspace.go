// Package workspacecmder provides the workspace command for running the
// sandboxed workspace server on its own.
package workspacecmder

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/cmd/hindsight/paths"
	"github.com/papercomputeco/hindsight/pkg/cipher"
	"github.com/papercomputeco/hindsight/pkg/config"
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
	"github.com/papercomputeco/hindsight/pkg/logger"
	"github.com/papercomputeco/hindsight/pkg/vector"
	vectorutils "github.com/papercomputeco/hindsight/pkg/vector/utils"
	"github.com/papercomputeco/hindsight/pkg/worker"
	"github.com/papercomputeco/hindsight/workspace"
)

type workspaceCommander struct {
	listen             string
	dir                string
	noEvidence         bool
	ollamaTarget       string
	embeddingModel     string
	embeddingDims      uint
	maxRecords         uint
	recencyHalfLife    string
	diversityThreshold float64
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

const workspaceLongDesc string = `Run the sandboxed workspace server on its own.

The workspace server exposes file, evidence, inbox, and cipher operations
over plain text on localhost. The generation loop reaches it through its
http_request tool.

Examples:
  hindsight workspace
  hindsight workspace --listen 127.0.0.1:9787
  hindsight workspace --no-evidence`

const workspaceShortDesc string = "Run the workspace server"

var workspaceFlags = config.FlagSet{
	config.FlagWorkspaceListen: {Name: "listen", Shorthand: "l", ViperKey: "workspace.listen", Description: "Address for the workspace server to listen on"},
	config.FlagWorkspaceDir:    {Name: "dir", ViperKey: "workspace.dir", Description: "Directory file operations are sandboxed to"},
	config.FlagInboxDir:        {Name: "inbox-dir", ViperKey: "inbox.dir", Description: "Directory holding the encrypted operator channel"},
	config.FlagVectorStoreProv: {Name: "vector-store-provider", ViperKey: "vector_store.provider", Description: "Vector index backend (sqlitevec, chroma, qdrant, inmemory)"},
	config.FlagVectorStoreTgt:  {Name: "vector-store-target", ViperKey: "vector_store.target", Description: "Vector backend target: path, URL, or host:port depending on provider"},
	config.FlagJournalProv:     {Name: "journal-provider", ViperKey: "journal.provider", Description: "Journal backend (sqlite, postgres, libsql, inmemory)"},
	config.FlagJournalTgt:      {Name: "journal-target", ViperKey: "journal.target", Description: "Journal backend target: path, DSN, or URL depending on provider"},
}

var workspaceFlagKeys = []string{
	config.FlagWorkspaceListen,
	config.FlagWorkspaceDir,
	config.FlagInboxDir,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagJournalProv,
	config.FlagJournalTgt,
}

func NewWorkspaceCmd() *cobra.Command {
	cmder := &workspaceCommander{}

	cmd := &cobra.Command{
		Use:   "workspace",
		Short: workspaceShortDesc,
		Long:  workspaceLongDesc,
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
			config.BindRegisteredFlags(v, cmd, workspaceFlags, workspaceFlagKeys)

			cmder.listen = v.GetString("workspace.listen")
			cmder.dir = v.GetString("workspace.dir")
			cmder.inboxDir = v.GetString("inbox.dir")
			cmder.ollamaTarget = v.GetString("ollama.target")
			cmder.embeddingModel = v.GetString("ollama.embedding_model")
			cmder.embeddingDims = v.GetUint("ollama.embedding_dimensions")
			cmder.maxRecords = v.GetUint("evidence.max_records")
			cmder.recencyHalfLife = v.GetString("evidence.recency_half_life")
			cmder.diversityThreshold = v.GetFloat64("evidence.diversity_threshold")
			cmder.vectorProvider = v.GetString("vector_store.provider")
			cmder.vectorTarget = v.GetString("vector_store.target")
			cmder.journalProvider = v.GetString("journal.provider")
			cmder.journalTarget = v.GetString("journal.target")
			cmder.eventsProvider = v.GetString("events.provider")
			cmder.eventsBrokers = v.GetStringSlice("events.brokers")
			cmder.eventsTopic = v.GetString("events.topic")

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

	config.AddStringFlag(cmd, workspaceFlags, config.FlagWorkspaceListen, &cmder.listen)
	config.AddStringFlag(cmd, workspaceFlags, config.FlagWorkspaceDir, &cmder.dir)
	config.AddStringFlag(cmd, workspaceFlags, config.FlagInboxDir, &cmder.inboxDir)
	config.AddStringFlag(cmd, workspaceFlags, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, workspaceFlags, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, workspaceFlags, config.FlagJournalProv, &cmder.journalProvider)
	config.AddStringFlag(cmd, workspaceFlags, config.FlagJournalTgt, &cmder.journalTarget)
	cmd.Flags().BoolVar(&cmder.noEvidence, "no-evidence", false, "Serve without evidence routes (file, inbox, and cipher only)")

	return cmd
}

func (c *workspaceCommander) run(ctx context.Context) error {
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

	var store *evidence.Store
	if !c.noEvidence {
		store, err = c.createStore(rec, events, pool)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	keyPath, err := paths.CipherKey("", c.configDir)
	if err != nil {
		return fmt.Errorf("resolving cipher key path: %w", err)
	}
	key, err := cipher.LoadOrCreateKey(keyPath)
	if err != nil {
		return fmt.Errorf("loading cipher key: %w", err)
	}
	ciph, err := cipher.New(key)
	if err != nil {
		return fmt.Errorf("creating cipher: %w", err)
	}

	boxDir, err := paths.Inbox(c.inboxDir, c.configDir)
	if err != nil {
		return fmt.Errorf("resolving inbox dir: %w", err)
	}
	box := inbox.New(boxDir, ciph, c.logger)

	wsDir, err := paths.Workspace(c.dir, c.configDir)
	if err != nil {
		return fmt.Errorf("resolving workspace dir: %w", err)
	}

	server, err := workspace.NewServer(workspace.Config{
		ListenAddr: c.listen,
		Dir:        wsDir,
		Journal:    rec,
		Events:     events,
		Pool:       pool,
	}, store, box, ciph, c.logger)
	if err != nil {
		return fmt.Errorf("creating workspace server: %w", err)
	}

	c.logger.Info("starting workspace server",
		zap.String("listen", c.listen),
		zap.String("dir", wsDir),
		zap.Bool("evidence", store != nil),
	)

	return server.Run()
}

func (c *workspaceCommander) createStore(rec journal.Recorder, events eventstream.Publisher, pool *worker.Pool) (*evidence.Store, error) {
	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: "ollama",
		TargetURL:    c.ollamaTarget,
		Model:        c.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

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

func (c *workspaceCommander) createVectorDriver() (vector.Driver, error) {
	switch c.vectorProvider {
	case "sqlitevec":
		dbPath, err := paths.EvidenceDB(c.vectorTarget, c.configDir)
		if err != nil {
			return nil, fmt.Errorf("resolving evidence database path: %w", err)
		}
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "sqlitevec",
			DBPath:       dbPath,
			Dimensions:   c.embeddingDims,
			Logger:       c.logger,
		})

	case "qdrant":
		host, portStr, err := net.SplitHostPort(c.vectorTarget)
		port := 0
		if err != nil {
			host = c.vectorTarget
		} else if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
			return nil, fmt.Errorf("invalid qdrant target %q: %w", c.vectorTarget, err)
		}
		if host == "" {
			host = "localhost"
		}
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "qdrant",
			Host:         host,
			Port:         port,
			Dimensions:   c.embeddingDims,
			Slogger:      logger.New(logger.WithDebug(c.debug)),
		})

	case "chroma":
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "chroma",
			TargetURL:    c.vectorTarget,
			Slogger:      logger.New(logger.WithDebug(c.debug)),
		})

	case "inmemory":
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "inmemory",
		})

	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", c.vectorProvider)
	}
}

func (c *workspaceCommander) createRecorder(ctx context.Context) (journal.Recorder, error) {
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

func (c *workspaceCommander) createPublisher() eventstream.Publisher {
	if c.eventsProvider == "kafka" {
		return kafka.NewPublisher(kafka.Config{
			Brokers: c.eventsBrokers,
			Topic:   c.eventsTopic,
		})
	}
	return nop.NewPublisher()
}
