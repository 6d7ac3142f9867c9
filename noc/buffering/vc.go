// Package buffering provides the per-link virtual-channel buffers whose
// occupancy is the backpressure signal of the network.
package buffering

import (
	"fmt"
	"io"
	"log"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// HookPosVCPush marks when a flit is pushed into a virtual channel.
var HookPosVCPush = &sim.HookPos{Name: "VC Push"}

// HookPosVCPop marks when a flit is popped from a virtual channel.
var HookPosVCPop = &sim.HookPos{Name: "VC Pop"}

// A VirtualChannel is a bounded FIFO of the flits of one virtual channel on one
// link.
type VirtualChannel struct {
	sim.HookableBase

	name     string
	capacity int
	strict   bool
	flits    []*messaging.Flit
}

// NewVirtualChannel creates a virtual channel that holds up to capacity flits.
func NewVirtualChannel(name string, capacity int) *VirtualChannel {
	if capacity < 0 {
		log.Panicf("virtual channel %s cannot have a negative capacity", name)
	}

	return &VirtualChannel{
		name:     name,
		capacity: capacity,
		flits:    make([]*messaging.Flit, 0, capacity),
	}
}

// Name returns the name of the virtual channel.
func (vc *VirtualChannel) Name() string {
	return vc.name
}

// Capacity returns the maximum number of flits the channel can hold.
func (vc *VirtualChannel) Capacity() int {
	return vc.capacity
}

// Size returns the number of flits in the channel.
func (vc *VirtualChannel) Size() int {
	return len(vc.flits)
}

// Empty tells if the channel holds no flit.
func (vc *VirtualChannel) Empty() bool {
	return len(vc.flits) == 0
}

// Full tells if the channel cannot take another flit.
func (vc *VirtualChannel) Full() bool {
	return len(vc.flits) == vc.capacity
}

// AddFlit appends a flit at the tail of the channel. It returns false and
// leaves the channel untouched if the channel is full. A strict channel panics
// instead, since a correct allocator never offers a flit to a full channel.
func (vc *VirtualChannel) AddFlit(f *messaging.Flit) bool {
	if vc.Full() {
		if vc.strict {
			log.Panicf("capacity violation: %s is full (%d flits), cannot add %s",
				vc.name, vc.capacity, f)
		}

		return false
	}

	vc.flits = append(vc.flits, f)

	if vc.NumHooks() > 0 {
		vc.InvokeHook(sim.HookCtx{
			Domain: vc,
			Pos:    HookPosVCPush,
			Item:   f,
		})
	}

	return true
}

// RemoveFlit dequeues the flit at the head of the channel. Removing from an
// empty channel is a caller error.
func (vc *VirtualChannel) RemoveFlit() *messaging.Flit {
	if len(vc.flits) == 0 {
		log.Panicf("cannot remove a flit from empty %s", vc.name)
	}

	f := vc.flits[0]
	vc.flits[0] = nil
	vc.flits = vc.flits[1:]

	if vc.NumHooks() > 0 {
		vc.InvokeHook(sim.HookCtx{
			Domain: vc,
			Pos:    HookPosVCPop,
			Item:   f,
		})
	}

	return f
}

// FrontFlit returns the flit at the head of the channel without removing it,
// or nil if the channel is empty.
func (vc *VirtualChannel) FrontFlit() *messaging.Flit {
	if len(vc.flits) == 0 {
		return nil
	}

	return vc.flits[0]
}

// Clear drops all the flits in the channel.
func (vc *VirtualChannel) Clear() {
	vc.flits = vc.flits[:0]
}

// Display writes the content of the channel.
func (vc *VirtualChannel) Display(w io.Writer) {
	fmt.Fprintf(w, "%s: %d/%d flits\n", vc.name, len(vc.flits), vc.capacity)

	for _, f := range vc.flits {
		fmt.Fprintf(w, "  %s\n", f)
	}
}
