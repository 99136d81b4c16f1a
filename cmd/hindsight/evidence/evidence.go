// Package evidencecmder provides the store, search, and forget commands for
// one-shot evidence operations against the configured backend.
package evidencecmder

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/cmd/hindsight/paths"
	"github.com/papercomputeco/hindsight/pkg/config"
	embeddingutils "github.com/papercomputeco/hindsight/pkg/embeddings/utils"
	"github.com/papercomputeco/hindsight/pkg/evidence"
	"github.com/papercomputeco/hindsight/pkg/journal"
	journalmem "github.com/papercomputeco/hindsight/pkg/journal/inmemory"
	"github.com/papercomputeco/hindsight/pkg/journal/libsql"
	"github.com/papercomputeco/hindsight/pkg/journal/postgres"
	journalsqlite "github.com/papercomputeco/hindsight/pkg/journal/sqlite"
	"github.com/papercomputeco/hindsight/pkg/logger"
	"github.com/papercomputeco/hindsight/pkg/vector"
	vectorutils "github.com/papercomputeco/hindsight/pkg/vector/utils"
)

// backendFlags are the registry flags shared by the one-shot evidence
// commands. Everything else comes from config.toml or HINDSIGHT_* env vars.
var backendFlags = config.FlagSet{
	config.FlagOllamaTarget:    {Name: "ollama-target", Shorthand: "o", ViperKey: "ollama.target", Description: "Ollama base URL for embeddings"},
	config.FlagVectorStoreProv: {Name: "vector-store-provider", ViperKey: "vector_store.provider", Description: "Vector index backend (sqlitevec, chroma, qdrant, inmemory)"},
	config.FlagVectorStoreTgt:  {Name: "vector-store-target", ViperKey: "vector_store.target", Description: "Vector backend target: path, URL, or host:port depending on provider"},
}

var backendFlagKeys = []string{
	config.FlagOllamaTarget,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
}

// settings is the resolved backend configuration a one-shot command runs
// against.
type settings struct {
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
	configDir          string
}

// resolveSettings reads the effective backend configuration in PreRunE, with
// any registry flags bound into the viper precedence chain first.
func resolveSettings(cmd *cobra.Command, fs config.FlagSet, keys []string) (settings, error) {
	var s settings

	configDir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return s, fmt.Errorf("could not get config-dir flag: %w", err)
	}
	s.configDir = configDir

	v, err := config.InitViper(configDir)
	if err != nil {
		return s, err
	}
	config.BindRegisteredFlags(v, cmd, fs, keys)

	s.ollamaTarget = v.GetString("ollama.target")
	s.embeddingModel = v.GetString("ollama.embedding_model")
	s.embeddingDims = v.GetUint("ollama.embedding_dimensions")
	s.maxRecords = v.GetUint("evidence.max_records")
	s.recencyHalfLife = v.GetString("evidence.recency_half_life")
	s.diversityThreshold = v.GetFloat64("evidence.diversity_threshold")
	s.vectorProvider = v.GetString("vector_store.provider")
	s.vectorTarget = v.GetString("vector_store.target")
	s.journalProvider = v.GetString("journal.provider")
	s.journalTarget = v.GetString("journal.target")

	return s, nil
}

// openStore builds the embedder, vector driver, and evidence store for a
// one-shot operation. onEvict may be nil.
func openStore(s settings, onEvict func(ids []string), zlog *zap.Logger, debug bool) (*evidence.Store, error) {
	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: "ollama",
		TargetURL:    s.ollamaTarget,
		Model:        s.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	driver, err := openVectorDriver(s, zlog, debug)
	if err != nil {
		return nil, err
	}

	halfLife, err := time.ParseDuration(s.recencyHalfLife)
	if err != nil {
		return nil, fmt.Errorf("parsing evidence.recency_half_life: %w", err)
	}

	return evidence.NewStore(evidence.Config{
		MaxEvidence:        int(s.maxRecords),
		RecencyHalfLife:    halfLife,
		DiversityThreshold: s.diversityThreshold,
		OnEvict:            onEvict,
	}, embedder, driver, zlog), nil
}

func openVectorDriver(s settings, zlog *zap.Logger, debug bool) (vector.Driver, error) {
	switch s.vectorProvider {
	case "sqlitevec":
		dbPath, err := paths.EvidenceDB(s.vectorTarget, s.configDir)
		if err != nil {
			return nil, fmt.Errorf("resolving evidence database path: %w", err)
		}
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "sqlitevec",
			DBPath:       dbPath,
			Dimensions:   s.embeddingDims,
			Logger:       zlog,
		})

	case "qdrant":
		host, portStr, err := net.SplitHostPort(s.vectorTarget)
		port := 0
		if err != nil {
			host = s.vectorTarget
		} else if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
			return nil, fmt.Errorf("invalid qdrant target %q: %w", s.vectorTarget, err)
		}
		if host == "" {
			host = "localhost"
		}
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "qdrant",
			Host:         host,
			Port:         port,
			Dimensions:   s.embeddingDims,
			Slogger:      logger.New(logger.WithDebug(debug)),
		})

	case "chroma":
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "chroma",
			TargetURL:    s.vectorTarget,
			Slogger:      logger.New(logger.WithDebug(debug)),
		})

	case "inmemory":
		return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: "inmemory",
		})

	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", s.vectorProvider)
	}
}

// openRecorder opens the configured journal so operator-initiated mutations
// leave provenance entries like server-side ones do.
func openRecorder(ctx context.Context, s settings) (journal.Recorder, error) {
	switch s.journalProvider {
	case "sqlite":
		dbPath, err := paths.JournalDB(s.journalTarget, s.configDir)
		if err != nil {
			return nil, fmt.Errorf("resolving journal database path: %w", err)
		}
		rec, err := journalsqlite.NewSQLiteDriver(dbPath)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite journal: %w", err)
		}
		return rec, nil

	case "postgres":
		rec, err := postgres.NewDriver(ctx, s.journalTarget)
		if err != nil {
			return nil, fmt.Errorf("creating postgres journal: %w", err)
		}
		return rec, nil

	case "libsql":
		rec, err := libsql.NewDriver(ctx, s.journalTarget)
		if err != nil {
			return nil, fmt.Errorf("creating libsql journal: %w", err)
		}
		return rec, nil

	case "inmemory":
		return journalmem.NewDriver(), nil

	default:
		return nil, fmt.Errorf("unsupported journal provider: %s", s.journalProvider)
	}
}
