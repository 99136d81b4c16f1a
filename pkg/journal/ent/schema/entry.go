package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Entry holds the schema definition for the journal Entry entity, one
// append-only provenance record per operation.
type Entry struct {
	ent.Schema
}

// Fields of the Entry.
func (Entry) Fields() []ent.Field {
	return []ent.Field{
		// id is a uuid assigned when the entry is recorded
		field.String("id").
			Unique().
			Immutable().
			NotEmpty(),

		// actor identifies who performed the operation
		field.String("actor").
			NotEmpty(),

		// action is the operation kind (e.g., "evidence_store", "generate")
		field.String("action").
			NotEmpty(),

		// subject is the id or path the action applied to
		field.String("subject").
			Optional(),

		// detail holds free-form context for the action as JSON
		field.JSON("detail", map[string]any{}).
			Optional(),

		// created_at is the timestamp when the entry was recorded
		field.Time("created_at").
			Default(time.Now).
			Immutable().
			Annotations(entsql.Default("CURRENT_TIMESTAMP")),
	}
}

// Indexes of the Entry.
func (Entry) Indexes() []ent.Index {
	return []ent.Index{
		// Index on action for filtering the journal by operation kind
		index.Fields("action"),

		// Index on actor for filtering by who acted
		index.Fields("actor"),

		// Index on created_at for the recent-entries view
		index.Fields("created_at"),
	}
}
