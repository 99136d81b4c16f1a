// Package libsql provides a libSQL/Turso-backed journal recorder using ent ORM.
package libsql

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/tursodatabase/go-libsql" // register the libsql driver

	"github.com/papercomputeco/hindsight/pkg/journal/ent"
	entdriver "github.com/papercomputeco/hindsight/pkg/journal/ent/driver"
)

// Driver implements journal.Recorder using libSQL via the ent driver.
type Driver struct {
	*entdriver.EntDriver
}

// NewDriver creates a new libSQL-backed recorder.
// The url can be a local file ("file:journal.db") or a remote Turso database
// ("libsql://<name>.turso.io?authToken=...").
func NewDriver(ctx context.Context, url string) (*Driver, error) {
	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Wrap the database connection with ent's SQL driver; libSQL speaks the
	// SQLite dialect.
	drv := entsql.OpenDB(dialect.SQLite, db)
	client := ent.NewClient(ent.Driver(drv))

	// Run ent's auto-migration to create/update the schema
	if err := client.Schema.Create(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Driver{
		EntDriver: &entdriver.EntDriver{
			Client: client,
		},
	}, nil
}
