package nop_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/hindsight/pkg/eventstream"
	"github.com/papercomputeco/hindsight/pkg/eventstream/nop"
)

var _ = Describe("Publisher", func() {
	var p *nop.Publisher

	BeforeEach(func() {
		p = nop.NewPublisher()
	})

	It("still rejects nil events", func() {
		err := p.Publish(context.Background(), nil)
		Expect(err).To(MatchError(eventstream.ErrNilEvent))
	})

	It("swallows real events without error", func() {
		event := eventstream.EvidenceStoredEvent{
			Envelope:   eventstream.NewEnvelope(eventstream.EventTypeEvidenceStored),
			EvidenceID: "rec_1",
			Text:       "noted",
		}
		Expect(p.Publish(context.Background(), event)).To(Succeed())
	})

	It("closes without error", func() {
		Expect(p.Close()).To(Succeed())
	})
})
