// Package workspace provides the sandboxed workspace HTTP server. It exposes
// file, evidence, inbox, and cipher operations over plain text on localhost,
// which the generation loop reaches through its http_request tool.
package workspace

import (
	"github.com/papercomputeco/hindsight/pkg/eventstream"
	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/worker"
)

// Config is the workspace server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., "127.0.0.1:8787")
	ListenAddr string

	// Dir is the workspace directory all file operations are sandboxed to.
	Dir string

	// Journal records operation provenance. Optional; nil disables
	// journaling.
	Journal journal.Recorder

	// Events publishes domain events. Optional; nil disables publishing.
	Events eventstream.Publisher

	// Pool runs journal writes and event publishes off the request path.
	// Optional; with no pool provenance work runs inline.
	Pool *worker.Pool
}
