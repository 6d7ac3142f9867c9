package tracing

import (
	"sync"

	"github.com/sarchlab/nocsim/datarecording"
	"github.com/sarchlab/nocsim/noc/buffering"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

const vcTrafficTable = "vc_traffic"

// A FlitCounter counts the flits pushed into each virtual channel and the
// flits of each class.
type FlitCounter struct {
	lock       sync.Mutex
	filter     FlitFilter
	names      []string
	vcCount    map[string]uint64
	classCount map[int]uint64
	totalFlits uint64
}

type vcTrafficEntry struct {
	VC    string
	Flits int
}

// NewFlitCounter creates a new FlitCounter.
func NewFlitCounter(filter FlitFilter) *FlitCounter {
	return &FlitCounter{
		filter:     filter,
		vcCount:    make(map[string]uint64),
		classCount: make(map[int]uint64),
	}
}

// Func counts a flit when it is pushed into a virtual channel.
func (c *FlitCounter) Func(ctx sim.HookCtx) {
	if ctx.Pos != buffering.HookPosVCPush {
		return
	}

	f, ok := ctx.Item.(*messaging.Flit)
	if !ok || !c.filter(f) {
		return
	}

	name := "?"
	if n, ok := ctx.Domain.(named); ok {
		name = n.Name()
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if _, found := c.vcCount[name]; !found {
		c.names = append(c.names, name)
	}

	c.vcCount[name]++
	c.classCount[f.Class]++
	c.totalFlits++
}

// Names returns the virtual channels that received flits, in the order of
// their first flit.
func (c *FlitCounter) Names() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]string(nil), c.names...)
}

// Count returns the number of flits pushed into a virtual channel.
func (c *FlitCounter) Count(vc string) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.vcCount[vc]
}

// ClassCount returns the number of pushes of the flits of a class.
func (c *FlitCounter) ClassCount(class int) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.classCount[class]
}

// Total returns the number of pushes counted.
func (c *FlitCounter) Total() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.totalFlits
}

// Record writes one row per virtual channel into the vc_traffic table.
func (c *FlitCounter) Record(rec datarecording.DataRecorder) {
	rec.CreateTable(vcTrafficTable, vcTrafficEntry{})

	for _, name := range c.Names() {
		rec.InsertData(vcTrafficTable, vcTrafficEntry{
			VC:    name,
			Flits: int(c.Count(name)),
		})
	}

	rec.Flush()
}
