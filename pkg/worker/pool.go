// Package worker provides a bounded asynchronous worker pool for background
// jobs such as journal writes and event publishes.
//
// The pool decouples provenance work from the API's HTTP hot path so that
// request latency never depends on the journal or event stream backends.
package worker

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Job is a unit of background work executed by the pool.
type Job func(ctx context.Context)

// queued pairs a job with the name it is logged under.
type queued struct {
	name string
	job  Job
}

// Config is the configuration options for the worker pool.
type Config struct {
	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Pool executes jobs asynchronously via a fixed set of worker goroutines.
type Pool struct {
	queue  chan queued
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	wp := &Pool{
		queue:  make(chan queued, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(name string, job Job) bool {
	if job == nil {
		return false
	}

	select {
	case p.queue <- queued{name: name, job: job}:
		p.logger.Debug("job queued", zap.String("job", name))
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped", zap.String("job", name))
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the HTTP server has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", zap.Uint("worker_id", id))

	for q := range p.queue {
		q.job(context.Background())
		p.logger.Debug("job finished", zap.String("job", q.name))
	}

	p.logger.Debug("worker stopped", zap.Uint("worker_id", id))
}
