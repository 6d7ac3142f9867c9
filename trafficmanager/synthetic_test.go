package trafficmanager

import (
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/noc/network"
	"github.com/sarchlab/nocsim/sim"
)

func newTestConfig(pairs ...string) *config.Configuration {
	cfg := config.New()
	Expect(cfg.Set("nodes", 4)).To(Succeed())
	Expect(cfg.Set("num_vcs", 2)).To(Succeed())

	for _, p := range pairs {
		Expect(cfg.Assign(p)).To(Succeed())
	}

	return cfg
}

func buildSynthetic(cfg *config.Configuration) (*Manager, *SyntheticWorkload) {
	net := network.MakeBuilder().WithConfig(cfg).Build("Network")
	m := MakeBuilder().WithConfig(cfg).WithNetwork(net).Build("TM")

	w, err := NewSyntheticWorkload(cfg, m, sim.NewRandom(1))
	Expect(err).NotTo(HaveOccurred())

	return m, w
}

var _ = Describe("PacketSizeDistribution", func() {
	It("should weight sizes by their rates", func() {
		d := NewPacketSizeDistribution([]int{1, 2, 4}, []int{1, 2, 1})

		Expect(d.MaxVal()).To(Equal(3))
		Expect(d.Average()).To(BeNumerically("~", 2.25, 1e-9))

		rng := sim.NewRandom(7)
		counts := map[int]int{}
		n := 40000
		for i := 0; i < n; i++ {
			counts[d.Next(rng)]++
		}

		Expect(float64(counts[1]) / float64(n)).To(BeNumerically("~", 0.25, 0.02))
		Expect(float64(counts[2]) / float64(n)).To(BeNumerically("~", 0.5, 0.02))
		Expect(float64(counts[4]) / float64(n)).To(BeNumerically("~", 0.25, 0.02))
	})

	It("should always return a single size", func() {
		d := NewPacketSizeDistribution([]int{5}, []int{0})

		Expect(d.Next(sim.NewRandom(1))).To(Equal(5))
		Expect(d.Average()).To(Equal(5.0))
	})

	It("should never draw a size with a zero rate", func() {
		d := NewPacketSizeDistribution([]int{1, 8}, []int{0, 3})
		rng := sim.NewRandom(3)

		for i := 0; i < 1000; i++ {
			Expect(d.Next(rng)).To(Equal(8))
		}
	})

	It("should panic on mismatched lists", func() {
		Expect(func() {
			NewPacketSizeDistribution([]int{1, 2}, []int{1})
		}).To(Panic())
	})

	It("should panic when all rates are zero", func() {
		Expect(func() {
			NewPacketSizeDistribution([]int{1, 2}, []int{0, 0})
		}).To(Panic())
	})
})

var _ = Describe("SyntheticWorkload", func() {
	Context("configuration", func() {
		It("should read per-class packet sizes and rates", func() {
			_, w := buildSynthetic(newTestConfig(
				"packet_size={{1,2,4}}",
				"packet_size_rate={{1,2,1}}",
			))

			Expect(w.PacketSize(0).Sizes()).To(Equal([]int{1, 2, 4}))
			Expect(w.AveragePacketSize(0)).To(BeNumerically("~", 2.25, 1e-9))
		})

		It("should spread a single rate over all the sizes", func() {
			_, w := buildSynthetic(newTestConfig(
				"packet_size={{1,3}}",
				"packet_size_rate=2",
			))

			Expect(w.PacketSize(0).Rates()).To(Equal([]int{2, 2}))
			Expect(w.PacketSize(0).MaxVal()).To(Equal(3))
			Expect(w.AveragePacketSize(0)).To(Equal(2.0))
		})

		It("should map reply classes back to their request classes", func() {
			_, w := buildSynthetic(newTestConfig(
				"classes=3", "reply_class={2,-1,-1}"))

			Expect(w.ReplyClass(0)).To(Equal(2))
			Expect(w.RequestClass(2)).To(Equal(0))
			Expect(w.RequestClass(0)).To(Equal(-1))
			Expect(w.RequestClass(1)).To(Equal(-1))
		})

		It("should panic when two classes share a reply class", func() {
			cfg := newTestConfig("classes=3", "reply_class={2,2,-1}")

			Expect(func() { buildSynthetic(cfg) }).To(Panic())
		})

		It("should panic when a reply class has a reply of its own", func() {
			cfg := newTestConfig("classes=3", "reply_class={1,2,-1}")

			Expect(func() { buildSynthetic(cfg) }).To(Panic())
		})

		It("should panic when a class replies to itself", func() {
			cfg := newTestConfig("classes=2", "reply_class={0,-1}")

			Expect(func() { buildSynthetic(cfg) }).To(Panic())
		})

		It("should panic when a reply class does not exist", func() {
			cfg := newTestConfig("classes=2", "reply_class={2,-1}")

			Expect(func() { buildSynthetic(cfg) }).To(Panic())
		})

		It("should reject unknown traffic patterns", func() {
			cfg := newTestConfig("traffic=zigzag")
			net := network.MakeBuilder().WithConfig(cfg).Build("Network")
			m := MakeBuilder().WithConfig(cfg).WithNetwork(net).Build("TM")

			_, err := NewSyntheticWorkload(cfg, m, sim.NewRandom(1))

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("class 0"))
		})
	})

	Context("injection", func() {
		var (
			mockCtrl  *gomock.Controller
			pattern   *MockPattern
			injection *MockInjectionProcess
			m         *Manager
			w         *SyntheticWorkload
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			pattern = NewMockPattern(mockCtrl)
			injection = NewMockInjectionProcess(mockCtrl)

			m, w = buildSynthetic(newTestConfig())
			w.SetPattern(0, pattern)
			w.SetInjectionProcess(0, injection)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should catch up on missed cycles with the earliest issue time", func() {
			injection.EXPECT().Test(0).Return(true)
			injection.EXPECT().Test(gomock.Any()).Return(false).AnyTimes()
			pattern.EXPECT().Dest(0).Return(3)
			m.time = 2

			w.Inject()

			Expect(m.NumPartialFlits(0, 0)).To(Equal(1))
			Expect(m.partialPackets[0][0][0].CTime).To(Equal(sim.Cycle(0)))
			Expect(m.partialPackets[0][0][0].Dest).To(Equal(3))
			Expect(w.QueueTime(0, 0)).To(Equal(sim.Cycle(1)))
			Expect(w.QueueTime(0, 1)).To(Equal(sim.Cycle(3)))
			Expect(m.RequestsOutstanding(0, 0)).To(Equal(1))
			Expect(m.PacketSeqNo(0, 0)).To(Equal(1))
		})

		It("should issue at most one packet per source", func() {
			injection.EXPECT().Test(gomock.Any()).Return(true).AnyTimes()
			pattern.EXPECT().Dest(gomock.Any()).Return(1).AnyTimes()
			m.time = 5

			w.Inject()
			w.Inject()

			for s := 0; s < 4; s++ {
				Expect(m.NumPartialFlits(0, s)).To(Equal(1))
				Expect(w.QueueTime(0, s)).To(Equal(sim.Cycle(1)))
			}
		})

		It("should keep reply classes passive", func() {
			m, w = buildSynthetic(newTestConfig(
				"classes=2", "reply_class={1,-1}"))
			w.SetInjectionProcess(0, injection)
			w.SetInjectionProcess(1, NewMockInjectionProcess(mockCtrl))
			injection.EXPECT().Test(gomock.Any()).Return(false).AnyTimes()
			m.time = 5

			w.Inject()

			for s := 0; s < 4; s++ {
				Expect(w.QueueTime(1, s)).To(Equal(sim.Cycle(5)))
				Expect(m.HasPartialPacket(1, s)).To(BeFalse())
			}
		})

		It("should stop injecting once a source passes the drain time", func() {
			injection.EXPECT().Test(gomock.Any()).Return(false).AnyTimes()
			m.time = 3
			m.SetState(Running)
			m.SetState(Draining)

			Expect(w.PacketsOutstanding()).To(BeTrue())

			w.Inject()

			for s := 0; s < 4; s++ {
				Expect(w.Drained(0, s)).To(BeTrue())
			}
			Expect(w.PacketsOutstanding()).To(BeFalse())

			m.time = 10
			w.Inject()

			Expect(w.QueueTime(0, 0)).To(Equal(sim.Cycle(4)))
			Expect(w.Drained(0, 0)).To(BeTrue())
		})

		It("should not drain a source that still has a packet queued", func() {
			injection.EXPECT().Test(gomock.Any()).Return(false).AnyTimes()
			m.GeneratePacket(2, 0, 1, 0, 0, -1, sim.NoCycle)
			m.time = 3
			m.SetState(Draining)

			w.Inject()

			Expect(w.Drained(0, 2)).To(BeFalse())
			Expect(w.Drained(0, 1)).To(BeTrue())
		})

		It("should rewind on reset", func() {
			pattern.EXPECT().Reset().Times(2)
			injection.EXPECT().Reset().Times(2)
			w.qtime[0][1] = 7
			w.qdrained[0][1] = true

			m.ResetSim()
			m.ResetSim()

			Expect(w.QueueTime(0, 1)).To(Equal(sim.Cycle(0)))
			Expect(w.Drained(0, 1)).To(BeFalse())
		})
	})

	Context("retirement", func() {
		It("should complete a transaction without a reply", func() {
			m, w := buildSynthetic(newTestConfig())
			m.GeneratePacket(1, 2, 1, 0, 0, -1, sim.NoCycle)
			m.AddRequestsOutstanding(0, 1, 1)
			f := m.partialPackets[0][1][0]
			f.ATime = 6

			w.RetirePacket(f, f, 2)

			Expect(m.RequestsOutstanding(0, 1)).To(Equal(0))
			Expect(w.TransactionLatency(0).Average()).To(Equal(6.0))
			Expect(w.PairLatency(0, 2, 1).NumSamples()).To(Equal(1))
		})

		It("should not record unrecorded packets while running", func() {
			m, w := buildSynthetic(newTestConfig())
			m.GeneratePacket(1, 2, 1, 0, 0, -1, sim.NoCycle)
			m.AddRequestsOutstanding(0, 1, 1)
			f := m.partialPackets[0][1][0]
			m.SetState(Running)

			w.RetirePacket(f, f, 2)

			Expect(m.RequestsOutstanding(0, 1)).To(Equal(0))
			Expect(w.TransactionLatency(0).NumSamples()).To(Equal(0))
		})

		It("should answer a request and complete on the reply", func() {
			m, w := buildSynthetic(newTestConfig(
				"classes=2", "reply_class={1,-1}"))

			m.GeneratePacket(3, 1, 1, 0, 0, -1, sim.NoCycle)
			m.AddRequestsOutstanding(0, 3, 1)
			req := m.partialPackets[0][3][0]
			req.ATime = 4

			w.RetirePacket(req, req, 1)

			Expect(m.PacketSeqNo(0, 1)).To(Equal(1))
			Expect(m.RequestsOutstanding(0, 3)).To(Equal(1))
			Expect(m.NumPartialFlits(1, 1)).To(Equal(1))

			reply := m.partialPackets[1][1][0]
			Expect(reply.Src).To(Equal(1))
			Expect(reply.Dest).To(Equal(3))
			Expect(reply.CTime).To(Equal(sim.Cycle(5)))
			Expect(reply.TID).To(Equal(req.TID))
			Expect(reply.TTime).To(Equal(sim.Cycle(0)))

			reply.ATime = 9
			w.RetirePacket(reply, reply, 3)

			Expect(m.RequestsOutstanding(0, 3)).To(Equal(0))
			Expect(w.TransactionLatency(0).Average()).To(Equal(9.0))
			Expect(w.TransactionLatency(1).NumSamples()).To(Equal(0))
			Expect(w.PairLatency(0, 3, 1).NumSamples()).To(Equal(1))
		})
	})

	Context("statistics", func() {
		It("should skip reply classes when accumulating", func() {
			m, w := buildSynthetic(newTestConfig(
				"classes=2", "reply_class={1,-1}"))
			w.TransactionLatency(0).AddSample(12)

			Expect(func() { w.UpdateOverallStats() }).NotTo(Panic())
			Expect(w.overallAvgTlat[0]).To(Equal(12.0))
			Expect(w.overallAvgTlat[1]).To(Equal(0.0))
			Expect(m.TotalSims()).To(Equal(0))
		})

		It("should clear the transaction latency", func() {
			_, w := buildSynthetic(newTestConfig())
			w.TransactionLatency(0).AddSample(3)
			w.PairLatency(0, 1, 2).AddSample(3)

			w.ClearStats()

			Expect(w.TransactionLatency(0).NumSamples()).To(Equal(0))
			Expect(w.PairLatency(0, 1, 2).NumSamples()).To(Equal(0))
		})

		It("should report the transaction latency", func() {
			m, w := buildSynthetic(newTestConfig("traffic=tornado"))
			m.totalSims = 2
			w.overallMinTlat[0] = 10
			w.overallAvgTlat[0] = 30
			w.overallMaxTlat[0] = 50

			before, after := w.OverallClassStatsCSV(0)
			Expect(before).To(Equal([]string{"tornado", "1"}))
			Expect(after).To(Equal([]string{"5", "15", "25"}))

			buf := new(bytes.Buffer)
			w.DisplayOverallClassStats(0, buf)
			Expect(buf.String()).To(ContainSubstring(
				"Overall average transaction latency = 15 (2 samples)"))
		})

		It("should write the pair latency as a MATLAB row", func() {
			_, w := buildSynthetic(newTestConfig())
			w.PairLatency(0, 0, 1).AddSample(4)

			buf := new(bytes.Buffer)
			w.WriteClassStats(0, buf)

			Expect(buf.String()).To(HavePrefix("pair_tlat(1,:) = [ 0 4 0 "))
			Expect(buf.String()).To(HaveSuffix("];\n"))
		})
	})

	Context("running", func() {
		It("should complete a trial", func() {
			m, w := buildSynthetic(newTestConfig(
				"sample_period=100",
				"warmup_periods=1",
				"max_samples=2",
				"injection_rate=0.2",
			))

			Expect(m.Run()).To(Succeed())

			Expect(m.TotalSims()).To(Equal(1))
			Expect(m.State()).To(Equal(Draining))
			Expect(w.TransactionLatency(0).NumSamples()).To(BeNumerically(">", 0))
			Expect(m.NumMeasuredInFlightFlits(0)).To(Equal(0))

			buf := new(bytes.Buffer)
			Expect(m.OverallStatsCSV(buf)).To(Succeed())
			Expect(strings.Split(strings.TrimSpace(buf.String()), "\n")).
				To(HaveLen(2))
		})

		It("should complete trials with replies", func() {
			m, w := buildSynthetic(newTestConfig(
				"classes=2",
				"reply_class={1,-1}",
				"sample_period=100",
				"warmup_periods=1",
				"max_samples=2",
				"sim_count=2",
				"injection_rate={0.1,0}",
				"packet_size={{1,2}}",
			))

			Expect(m.Run()).To(Succeed())

			Expect(m.TotalSims()).To(Equal(2))
			Expect(w.TransactionLatency(0).NumSamples()).To(BeNumerically(">", 0))
			for s := 0; s < 4; s++ {
				Expect(m.RequestsOutstanding(0, s)).To(Equal(0))
			}
		})

		It("should stay drained once the network is quiescent", func() {
			m, w := buildSynthetic(newTestConfig(
				"sample_period=50",
				"warmup_periods=1",
				"max_samples=1",
				"injection_rate=0.2",
			))

			Expect(m.Run()).To(Succeed())
			Expect(m.PacketsOutstanding()).To(BeFalse())

			for i := 0; i < 50; i++ {
				m.Step()

				Expect(m.PacketsOutstanding()).To(BeFalse())
			}

			for s := 0; s < 4; s++ {
				Expect(w.Drained(0, s)).To(BeTrue())
				Expect(m.HasPartialPacket(0, s)).To(BeFalse())
				Expect(m.RequestsOutstanding(0, s)).To(Equal(0))
			}
		})

		It("should start from zero after each reset and clear", func() {
			m, w := buildSynthetic(newTestConfig(
				"classes=2",
				"reply_class={1,-1}",
				"sample_period=50",
				"warmup_periods=1",
				"max_samples=1",
				"injection_rate={0.2,0}",
			))
			Expect(m.Run()).To(Succeed())

			for round := 0; round < 2; round++ {
				m.ResetSim()
				m.ClearStats()

				Expect(m.Time()).To(Equal(sim.Cycle(0)))
				Expect(m.State()).To(Equal(WarmingUp))
				Expect(m.DrainTime()).To(Equal(sim.NoCycle))

				for c := 0; c < 2; c++ {
					Expect(w.TransactionLatency(c).NumSamples()).To(Equal(0))
					Expect(m.NumInFlightFlits(c)).To(Equal(0))
					Expect(m.NumMeasuredInFlightFlits(c)).To(Equal(0))
					Expect(m.platStats[c].NumSamples()).To(Equal(0))
					Expect(m.sentFlits[c]).To(BeZero())
					Expect(m.acceptedFlits[c]).To(BeZero())

					for s := 0; s < 4; s++ {
						Expect(w.QueueTime(c, s)).To(Equal(sim.Cycle(0)))
						Expect(w.Drained(c, s)).To(BeFalse())
						Expect(m.RequestsOutstanding(c, s)).To(Equal(0))
						Expect(m.PacketSeqNo(c, s)).To(Equal(0))
						Expect(m.HasPartialPacket(c, s)).To(BeFalse())

						for d := 0; d < 4; d++ {
							Expect(w.PairLatency(c, d, s).NumSamples()).To(Equal(0))
						}
					}
				}
			}

			Expect(m.Run()).To(Succeed())
			Expect(m.TotalSims()).To(Equal(2))
		})

		It("should report snapshots at the end of each sample", func() {
			m, _ := buildSynthetic(newTestConfig(
				"sample_period=50",
				"warmup_periods=0",
				"max_samples=3",
			))

			hook := &snapshotRecorder{}
			m.AcceptHook(hook)

			Expect(m.Run()).To(Succeed())

			snapshots := hook.snapshots

			Expect(snapshots).To(HaveLen(4))
			Expect(snapshots[0].State).To(Equal("running"))
			Expect(snapshots[0].Time).To(Equal(sim.Cycle(50)))
			Expect(snapshots[3].State).To(Equal("draining"))
		})

		It("should time out when the network cannot drain", func() {
			m, _ := buildSynthetic(newTestConfig(
				"sample_period=10",
				"warmup_periods=0",
				"max_samples=1",
				"drain_timeout=0",
			))

			err := m.Run()

			Expect(errors.Is(err, ErrDrainTimeout)).To(BeTrue())
		})
	})
})

type snapshotRecorder struct {
	snapshots []Snapshot
}

func (r *snapshotRecorder) Func(ctx sim.HookCtx) {
	if s, ok := ctx.Item.(Snapshot); ok {
		r.snapshots = append(r.snapshots, s)
	}
}
