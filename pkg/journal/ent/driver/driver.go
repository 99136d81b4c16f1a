// Package entdriver
package entdriver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/journal/ent"
	"github.com/papercomputeco/hindsight/pkg/journal/ent/entry"
)

// EntDriver provides journal operations using an ent client.
// It is database-agnostic and can be embedded by specific drivers.
type EntDriver struct {
	Client *ent.Client
}

// Record appends one entry, stamping a missing id and creation time.
func (ed *EntDriver) Record(ctx context.Context, e journal.Entry) error {
	if e.Action == "" {
		return journal.ErrNoAction
	}

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	create := ed.Client.Entry.Create().
		SetID(e.ID).
		SetActor(e.Actor).
		SetAction(e.Action).
		SetCreatedAt(e.CreatedAt)

	if e.Subject != "" {
		create.SetSubject(e.Subject)
	}
	if len(e.Detail) > 0 {
		create.SetDetail(e.Detail)
	}

	if err := create.Exec(ctx); err != nil {
		return fmt.Errorf("recording journal entry: %w", err)
	}

	return nil
}

// List returns entries newest first. A non-positive limit returns all entries.
func (ed *EntDriver) List(ctx context.Context, limit int) ([]journal.Entry, error) {
	query := ed.Client.Entry.Query().
		Order(ent.Desc(entry.FieldCreatedAt))

	if limit > 0 {
		query = query.Limit(limit)
	}

	rows, err := query.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying journal entries: %w", err)
	}

	entries := make([]journal.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, journal.Entry{
			ID:        row.ID,
			Actor:     row.Actor,
			Action:    row.Action,
			Subject:   row.Subject,
			Detail:    row.Detail,
			CreatedAt: row.CreatedAt,
		})
	}

	return entries, nil
}

// Close closes the database connection.
func (ed *EntDriver) Close() error {
	return ed.Client.Close()
}
