package buffering

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/sim"
)

var _ = Describe("Buffer", func() {
	var (
		buf *Buffer
	)

	BeforeEach(func() {
		buf = MakeBuilder().
			WithNumVCs(2).
			WithVCCapacity(1).
			Build("Buf")
	})

	It("should name its virtual channels", func() {
		Expect(buf.NumVCs()).To(Equal(2))
		Expect(buf.VC(1).Name()).To(Equal("Buf.vc_1"))
		Expect(buf.VC(1).Capacity()).To(Equal(1))
	})

	It("should keep virtual channels independent", func() {
		flits := makeFlits(3)

		Expect(buf.AddFlit(0, flits[0])).To(BeTrue())
		Expect(buf.Full(0)).To(BeTrue())
		Expect(buf.Empty(1)).To(BeTrue())
		Expect(buf.AddFlit(0, flits[1])).To(BeFalse())
		Expect(buf.AddFlit(1, flits[2])).To(BeTrue())

		Expect(buf.Size()).To(Equal(2))
		Expect(buf.FrontFlit(1)).To(BeIdenticalTo(flits[2]))
		Expect(buf.RemoveFlit(0)).To(BeIdenticalTo(flits[0]))
		Expect(buf.Size()).To(Equal(1))
	})

	It("should clear all virtual channels", func() {
		flits := makeFlits(2)
		buf.AddFlit(0, flits[0])
		buf.AddFlit(1, flits[1])

		buf.Clear()

		Expect(buf.Size()).To(Equal(0))
	})

	It("should hook every virtual channel", func() {
		hook := &hookRecorder{}
		buf.AcceptHook(hook)
		flits := makeFlits(2)

		buf.AddFlit(0, flits[0])
		buf.AddFlit(1, flits[1])

		Expect(hook.positions).To(Equal([]*sim.HookPos{HookPosVCPush, HookPosVCPush}))
	})

	It("should build strict virtual channels", func() {
		buf = MakeBuilder().WithVCCapacity(1).WithStrictCapacity().Build("Buf")
		flits := makeFlits(2)
		buf.AddFlit(0, flits[0])

		Expect(func() { buf.AddFlit(0, flits[1]) }).To(Panic())
	})

	It("should read its size from the configuration", func() {
		cfg := config.New()
		Expect(cfg.Set("num_vcs", 3)).To(Succeed())
		Expect(cfg.Set("vc_buf_size", 5)).To(Succeed())

		buf = MakeBuilder().WithConfig(cfg).Build("Buf")

		Expect(buf.NumVCs()).To(Equal(3))
		Expect(buf.VC(2).Capacity()).To(Equal(5))

		flits := makeFlits(6)
		for i := 0; i < 5; i++ {
			Expect(buf.AddFlit(2, flits[i])).To(BeTrue())
		}
		Expect(buf.AddFlit(2, flits[5])).To(BeFalse())
	})

	It("should read the strict capacity from the configuration", func() {
		cfg := config.New()
		Expect(cfg.Set("num_vcs", 1)).To(Succeed())
		Expect(cfg.Set("vc_buf_size", 1)).To(Succeed())
		Expect(cfg.Set("strict_vc_capacity", 1)).To(Succeed())

		buf = MakeBuilder().WithConfig(cfg).Build("Buf")
		flits := makeFlits(2)
		Expect(buf.AddFlit(0, flits[0])).To(BeTrue())

		Expect(func() { buf.AddFlit(0, flits[1]) }).To(Panic())
	})

	It("should panic without virtual channels", func() {
		Expect(func() { MakeBuilder().WithNumVCs(0).Build("Buf") }).To(Panic())
	})
})
