package worker

import (
	"context"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

// newTestPool creates a pool with the given sizing.
// Callers should "wp.Close()" to drain enqueued jobs before asserting.
func newTestPool(workers, queueSize uint) *Pool {
	logger, _ := zap.NewDevelopment()

	wp, err := NewPool(&Config{
		NumWorkers: workers,
		QueueSize:  queueSize,
		Logger:     logger,
	})
	Expect(err).NotTo(HaveOccurred())

	return wp
}

var _ = Describe("Worker Pool", func() {
	Describe("Enqueue", func() {
		It("returns true when the queue has capacity", func() {
			wp := newTestPool(0, 0)
			ok := wp.Enqueue("noop", func(context.Context) {})
			Expect(ok).To(BeTrue())
			wp.Close()
		})

		It("rejects nil jobs", func() {
			wp := newTestPool(0, 0)
			Expect(wp.Enqueue("nothing", nil)).To(BeFalse())
			wp.Close()
		})

		It("returns false when the queue is full", func() {
			wp := newTestPool(1, 1)

			started := make(chan struct{})
			gate := make(chan struct{})

			// Occupy the single worker, then fill the single queue slot.
			ok := wp.Enqueue("blocker", func(context.Context) {
				close(started)
				<-gate
			})
			Expect(ok).To(BeTrue())
			<-started

			Expect(wp.Enqueue("fills the slot", func(context.Context) {})).To(BeTrue())
			Expect(wp.Enqueue("dropped", func(context.Context) {})).To(BeFalse())

			close(gate)
			wp.Close()
		})
	})

	Describe("Close", func() {
		It("drains every enqueued job before returning", func() {
			wp := newTestPool(2, 16)

			var ran atomic.Int64
			for range 10 {
				ok := wp.Enqueue("count", func(context.Context) {
					ran.Add(1)
				})
				Expect(ok).To(BeTrue())
			}

			wp.Close()
			Expect(ran.Load()).To(Equal(int64(10)))
		})

		It("passes a usable context to jobs", func() {
			wp := newTestPool(1, 4)

			var sawContext atomic.Bool
			wp.Enqueue("inspect", func(ctx context.Context) {
				sawContext.Store(ctx != nil && ctx.Err() == nil)
			})

			wp.Close()
			Expect(sawContext.Load()).To(BeTrue())
		})
	})

	Describe("NewPool", func() {
		It("applies worker and queue defaults", func() {
			logger, _ := zap.NewDevelopment()
			c := &Config{Logger: logger}

			wp, err := NewPool(c)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.NumWorkers).To(Equal(defaultNumWorkers))
			Expect(c.QueueSize).To(Equal(defaultJobQueueSize))
			wp.Close()
		})
	})
})
