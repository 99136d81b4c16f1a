package kafka_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/hindsight/pkg/eventstream"
	"github.com/papercomputeco/hindsight/pkg/eventstream/kafka"
)

var _ = Describe("Publisher", func() {
	It("creates a non-nil publisher", func() {
		p := kafka.NewPublisher(kafka.Config{
			Brokers: []string{"localhost:9092"},
			Topic:   "hindsight.events",
		})
		Expect(p).NotTo(BeNil())
	})

	It("rejects nil events before touching the network", func() {
		p := kafka.NewPublisher(kafka.Config{
			Brokers: []string{"localhost:9092"},
			Topic:   "hindsight.events",
		})
		err := p.Publish(context.Background(), nil)
		Expect(err).To(MatchError(eventstream.ErrNilEvent))
	})

	It("closes without ever writing", func() {
		p := kafka.NewPublisher(kafka.Config{
			Brokers: []string{"localhost:9092"},
			Topic:   "hindsight.events",
		})
		Expect(p.Close()).To(Succeed())
	})
})
