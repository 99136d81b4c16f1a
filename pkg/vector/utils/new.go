package vectorutils

import (
	"fmt"
	"log/slog"

	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/vector"
	"github.com/papercomputeco/hindsight/pkg/vector/chroma"
	"github.com/papercomputeco/hindsight/pkg/vector/inmemory"
	"github.com/papercomputeco/hindsight/pkg/vector/qdrant"
	"github.com/papercomputeco/hindsight/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string

	// DBPath backs the sqlitevec provider.
	DBPath string

	// TargetURL points chroma at its REST endpoint.
	TargetURL string

	// Host, Port, and APIKey point qdrant at its gRPC endpoint.
	Host   string
	Port   int
	APIKey string

	// CollectionName applies to chroma and qdrant.
	CollectionName string

	// Dimensions applies to sqlitevec and qdrant.
	Dimensions uint

	Logger  *zap.Logger
	Slogger *slog.Logger
}

func NewVectorDriver(o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "sqlitevec":
		return sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
			DBPath:     o.DBPath,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL:            o.TargetURL,
			CollectionName: o.CollectionName,
		}, o.Slogger)
	case "qdrant":
		return qdrant.NewDriver(qdrant.Config{
			Host:           o.Host,
			Port:           o.Port,
			APIKey:         o.APIKey,
			CollectionName: o.CollectionName,
			Dimensions:     o.Dimensions,
		}, o.Slogger)
	case "inmemory":
		return inmemory.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
