// Package messaging defines the units that travel through the network.
package messaging

import (
	"fmt"

	"github.com/sarchlab/nocsim/sim"
)

// Flit is the smallest transferring unit on a network. A packet is a sequence
// of flits that starts with a head flit and ends with a tail flit.
type Flit struct {
	ID    int
	PID   int
	TID   int
	Class int
	VC    int

	Src, Dest int

	// CTime is when the packet was created, ITime when the flit entered the
	// network, ATime when it arrived at the destination, and TTime when the
	// transaction it belongs to started.
	CTime, ITime, ATime, TTime sim.Cycle

	Head, Tail bool

	// Watch flits are traced on the watch stream.
	Watch bool

	// Record flits count toward the measured statistics.
	Record bool

	Hops int
}

func (f *Flit) String() string {
	kind := "body"

	switch {
	case f.Head && f.Tail:
		kind = "single"
	case f.Head:
		kind = "head"
	case f.Tail:
		kind = "tail"
	}

	return fmt.Sprintf("flit %d (%s, pid %d, tid %d, class %d, %d -> %d)",
		f.ID, kind, f.PID, f.TID, f.Class, f.Src, f.Dest)
}

// FlitBuilder can build the flits of one packet.
type FlitBuilder struct {
	flitIDs       sim.IDGenerator
	pid, tid      int
	class         int
	src, dest     int
	size          int
	ctime, ttime  sim.Cycle
	watch, record bool
}

// WithFlitIDs sets the generator that assigns the flit IDs.
func (b FlitBuilder) WithFlitIDs(g sim.IDGenerator) FlitBuilder {
	b.flitIDs = g
	return b
}

// WithPacketID sets the packet ID shared by all the flits.
func (b FlitBuilder) WithPacketID(pid int) FlitBuilder {
	b.pid = pid
	return b
}

// WithTransactionID sets the transaction ID shared by all the flits.
func (b FlitBuilder) WithTransactionID(tid int) FlitBuilder {
	b.tid = tid
	return b
}

// WithClass sets the traffic class of the packet.
func (b FlitBuilder) WithClass(class int) FlitBuilder {
	b.class = class
	return b
}

// WithSrc sets the source node.
func (b FlitBuilder) WithSrc(src int) FlitBuilder {
	b.src = src
	return b
}

// WithDest sets the destination node.
func (b FlitBuilder) WithDest(dest int) FlitBuilder {
	b.dest = dest
	return b
}

// WithSize sets the number of flits in the packet.
func (b FlitBuilder) WithSize(size int) FlitBuilder {
	b.size = size
	return b
}

// WithCreationTime sets when the packet is created.
func (b FlitBuilder) WithCreationTime(t sim.Cycle) FlitBuilder {
	b.ctime = t
	return b
}

// WithTransactionStartTime sets when the transaction started.
func (b FlitBuilder) WithTransactionStartTime(t sim.Cycle) FlitBuilder {
	b.ttime = t
	return b
}

// Watched marks the flits to be traced.
func (b FlitBuilder) Watched(watch bool) FlitBuilder {
	b.watch = watch
	return b
}

// Recorded marks the flits as counting toward the measured statistics.
func (b FlitBuilder) Recorded(record bool) FlitBuilder {
	b.record = record
	return b
}

// Build creates the flits of the packet, head first.
func (b FlitBuilder) Build() []*Flit {
	if b.size <= 0 {
		panic(fmt.Sprintf("packet %d must have at least one flit", b.pid))
	}

	if b.flitIDs == nil {
		panic("flit builder requires an id generator")
	}

	flits := make([]*Flit, b.size)
	for i := 0; i < b.size; i++ {
		flits[i] = &Flit{
			ID:     b.flitIDs.Generate(),
			PID:    b.pid,
			TID:    b.tid,
			Class:  b.class,
			Src:    b.src,
			Dest:   b.dest,
			CTime:  b.ctime,
			ITime:  sim.NoCycle,
			ATime:  sim.NoCycle,
			TTime:  b.ttime,
			Head:   i == 0,
			Tail:   i == b.size-1,
			Watch:  b.watch,
			Record: b.record,
		}
	}

	return flits
}
