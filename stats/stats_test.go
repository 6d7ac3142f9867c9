package stats

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Stats", func() {
	var s *Stats

	BeforeEach(func() {
		s = New("lat", 1.0, 10)
	})

	It("should report zeros when empty", func() {
		Expect(s.NumSamples()).To(Equal(0))
		Expect(s.Min()).To(Equal(0.0))
		Expect(s.Max()).To(Equal(0.0))
		Expect(s.Average()).To(Equal(0.0))
		Expect(s.StdDev()).To(Equal(0.0))
	})

	It("should track min, max and average", func() {
		s.AddSample(2)
		s.AddSample(4)
		s.AddSample(9)

		Expect(s.NumSamples()).To(Equal(3))
		Expect(s.Min()).To(Equal(2.0))
		Expect(s.Max()).To(Equal(9.0))
		Expect(s.Average()).To(BeNumerically("~", 5.0))
		Expect(s.Sum()).To(Equal(15.0))
	})

	It("should put samples in bins and clamp outliers", func() {
		s.AddSample(0.5)
		s.AddSample(3)
		s.AddSample(100)
		s.AddSample(-1)

		h := s.Histogram()
		Expect(h[0]).To(Equal(2))
		Expect(h[3]).To(Equal(1))
		Expect(h[9]).To(Equal(1))
	})

	It("should compute the standard deviation", func() {
		for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
			s.AddSample(v)
		}

		Expect(s.StdDev()).To(BeNumerically("~", 2.0, 1e-9))
	})

	It("should clear", func() {
		s.AddSample(3)
		s.Clear()

		Expect(s.NumSamples()).To(Equal(0))
		Expect(s.Histogram()).To(Equal(make([]int, 10)))
		Expect(s.Max()).To(Equal(0.0))
	})

	It("should display", func() {
		s.AddSample(3)
		buf := bytes.NewBuffer(nil)
		s.Display(buf)
		Expect(buf.String()).To(ContainSubstring("lat: 1 samples"))
	})
})

var _ = Describe("Registry", func() {
	It("should register and find stats", func() {
		r := NewRegistry()
		a := r.NewStats("b", 1, 1)
		r.NewStats("a", 1, 1)

		Expect(r.Get("b")).To(BeIdenticalTo(a))
		Expect(r.Get("c")).To(BeNil())
		Expect(r.Names()).To(Equal([]string{"a", "b"}))
		Expect(func() { r.NewStats("a", 1, 1) }).To(Panic())
	})

	It("should clear all", func() {
		r := NewRegistry()
		a := r.NewStats("a", 1, 1)
		a.AddSample(1)

		r.ClearAll()

		Expect(a.NumSamples()).To(Equal(0))
	})
})
