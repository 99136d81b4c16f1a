// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/papercomputeco/hindsight/pkg/journal/ent/entry"
	"github.com/papercomputeco/hindsight/pkg/journal/ent/schema"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	entryFields := schema.Entry{}.Fields()
	_ = entryFields
	// entryDescActor is the schema descriptor for actor field.
	entryDescActor := entryFields[1].Descriptor()
	// entry.ActorValidator is a validator for the "actor" field. It is called by the builders before save.
	entry.ActorValidator = entryDescActor.Validators[0].(func(string) error)
	// entryDescAction is the schema descriptor for action field.
	entryDescAction := entryFields[2].Descriptor()
	// entry.ActionValidator is a validator for the "action" field. It is called by the builders before save.
	entry.ActionValidator = entryDescAction.Validators[0].(func(string) error)
	// entryDescCreatedAt is the schema descriptor for created_at field.
	entryDescCreatedAt := entryFields[5].Descriptor()
	// entry.DefaultCreatedAt holds the default value on creation for the created_at field.
	entry.DefaultCreatedAt = entryDescCreatedAt.Default.(func() time.Time)
	// entryDescID is the schema descriptor for id field.
	entryDescID := entryFields[0].Descriptor()
	// entry.IDValidator is a validator for the "id" field. It is called by the builders before save.
	entry.IDValidator = entryDescID.Validators[0].(func(string) error)
}
