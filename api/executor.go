package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/llm"
	"github.com/papercomputeco/hindsight/pkg/tools"
	"github.com/papercomputeco/hindsight/pkg/worker"
)

// JournaledExecutor wraps a tool executor and records every call in the
// provenance journal. The wrapped result is returned unchanged; journal
// failures never affect the tool loop.
type JournaledExecutor struct {
	inner   tools.Executor
	journal journal.Recorder
	pool    *worker.Pool
	logger  *zap.Logger
}

// NewJournaledExecutor decorates inner with journal recording. With a pool
// the record is written off the calling goroutine; without one it is
// written inline.
func NewJournaledExecutor(inner tools.Executor, rec journal.Recorder, pool *worker.Pool, logger *zap.Logger) *JournaledExecutor {
	return &JournaledExecutor{
		inner:   inner,
		journal: rec,
		pool:    pool,
		logger:  logger,
	}
}

// Execute runs the named tool and journals the call.
func (e *JournaledExecutor) Execute(ctx context.Context, name string, args map[string]any) string {
	result := e.inner.Execute(ctx, name, args)

	entry := journal.NewEntry(journal.ActorService, journal.ActionToolCall, name, map[string]any{
		"args":         args,
		"result_chars": len(result),
	})

	record := func(ctx context.Context) {
		if err := e.journal.Record(ctx, entry); err != nil {
			e.logger.Warn("journal record failed",
				zap.String("action", entry.Action),
				zap.String("tool", name),
				zap.Error(err),
			)
		}
	}

	if e.pool != nil {
		e.pool.Enqueue("tool-call-journal", record)
	} else {
		record(ctx)
	}

	return result
}

// Schema passes through the inner executor's tool definitions.
func (e *JournaledExecutor) Schema() []llm.Tool {
	return e.inner.Schema()
}

// Ensure JournaledExecutor implements Executor
var _ tools.Executor = (*JournaledExecutor)(nil)
