// Package api provides the HTTP API server for storing, searching, and
// generating against evidence.
package api

import (
	"github.com/papercomputeco/hindsight/pkg/eventstream"
	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/worker"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// Journal records operation provenance. Optional; nil disables
	// journaling.
	Journal journal.Recorder

	// Events publishes domain events. Optional; nil disables publishing.
	Events eventstream.Publisher

	// Pool runs journal writes and event publishes off the request path.
	// Optional; with no pool provenance work runs inline.
	Pool *worker.Pool

	// MCPNoop disables the MCP endpoint (i.e., MCP capabilities are
	// disabled).
	MCPNoop bool
}
