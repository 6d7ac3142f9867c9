package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IDGenerator", func() {
	It("should hand out consecutive ids", func() {
		g := NewIDGenerator()

		Expect(g.Peek()).To(Equal(0))
		Expect(g.Generate()).To(Equal(0))
		Expect(g.Generate()).To(Equal(1))
		Expect(g.Peek()).To(Equal(2))
	})

	It("should restart after reset", func() {
		g := NewIDGenerator()
		g.Generate()
		g.Generate()

		g.Reset()

		Expect(g.Generate()).To(Equal(0))
	})

	It("should name runs uniquely", func() {
		Expect(RunID()).NotTo(Equal(RunID()))
	})
})
