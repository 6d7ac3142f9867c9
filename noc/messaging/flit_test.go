package messaging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/nocsim/sim"
)

var _ = Describe("FlitBuilder", func() {
	var (
		ids sim.IDGenerator
	)

	BeforeEach(func() {
		ids = sim.NewIDGenerator()
	})

	It("should build the flits of a packet", func() {
		flits := FlitBuilder{}.
			WithFlitIDs(ids).
			WithPacketID(7).
			WithTransactionID(3).
			WithClass(1).
			WithSrc(2).
			WithDest(5).
			WithSize(3).
			WithCreationTime(10).
			WithTransactionStartTime(4).
			Watched(true).
			Recorded(true).
			Build()

		Expect(flits).To(HaveLen(3))

		for i, f := range flits {
			Expect(f.ID).To(Equal(i))
			Expect(f.PID).To(Equal(7))
			Expect(f.TID).To(Equal(3))
			Expect(f.Class).To(Equal(1))
			Expect(f.Src).To(Equal(2))
			Expect(f.Dest).To(Equal(5))
			Expect(f.CTime).To(Equal(sim.Cycle(10)))
			Expect(f.TTime).To(Equal(sim.Cycle(4)))
			Expect(f.ITime).To(Equal(sim.NoCycle))
			Expect(f.ATime).To(Equal(sim.NoCycle))
			Expect(f.Watch).To(BeTrue())
			Expect(f.Record).To(BeTrue())
		}

		Expect(flits[0].Head).To(BeTrue())
		Expect(flits[0].Tail).To(BeFalse())
		Expect(flits[1].Head || flits[1].Tail).To(BeFalse())
		Expect(flits[2].Tail).To(BeTrue())
	})

	It("should build a single flit that is both head and tail", func() {
		flits := FlitBuilder{}.WithFlitIDs(ids).WithSize(1).Build()

		Expect(flits[0].Head).To(BeTrue())
		Expect(flits[0].Tail).To(BeTrue())
		Expect(flits[0].String()).To(ContainSubstring("single"))
	})

	It("should continue the flit ID sequence", func() {
		FlitBuilder{}.WithFlitIDs(ids).WithSize(2).Build()
		flits := FlitBuilder{}.WithFlitIDs(ids).WithSize(1).Build()

		Expect(flits[0].ID).To(Equal(2))
	})

	It("should panic on an empty packet", func() {
		Expect(func() {
			FlitBuilder{}.WithFlitIDs(ids).Build()
		}).To(Panic())
	})

	It("should panic without an ID generator", func() {
		Expect(func() {
			FlitBuilder{}.WithSize(1).Build()
		}).To(Panic())
	})
})
