package buffering

import (
	"io"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// A Buffer owns the virtual channels of one link. Every operation names the
// virtual channel it works on; the index must be in [0, NumVCs()). The buffer
// has no policy across virtual channels, that belongs to the allocator that
// reads it.
type Buffer struct {
	name string
	vcs  []*VirtualChannel
}

// Name returns the name of the buffer.
func (b *Buffer) Name() string {
	return b.name
}

// NumVCs returns the number of virtual channels.
func (b *Buffer) NumVCs() int {
	return len(b.vcs)
}

// VC returns the virtual channel at the given index.
func (b *Buffer) VC(vc int) *VirtualChannel {
	return b.vcs[vc]
}

// VCs returns all the virtual channels.
func (b *Buffer) VCs() []*VirtualChannel {
	return b.vcs
}

// AddFlit adds a flit to a virtual channel.
func (b *Buffer) AddFlit(vc int, f *messaging.Flit) bool {
	return b.vcs[vc].AddFlit(f)
}

// RemoveFlit removes the head flit of a virtual channel.
func (b *Buffer) RemoveFlit(vc int) *messaging.Flit {
	return b.vcs[vc].RemoveFlit()
}

// FrontFlit peeks the head flit of a virtual channel.
func (b *Buffer) FrontFlit(vc int) *messaging.Flit {
	return b.vcs[vc].FrontFlit()
}

// Empty tells if a virtual channel is empty.
func (b *Buffer) Empty(vc int) bool {
	return b.vcs[vc].Empty()
}

// Full tells if a virtual channel is full.
func (b *Buffer) Full(vc int) bool {
	return b.vcs[vc].Full()
}

// Size returns the total number of flits over all virtual channels.
func (b *Buffer) Size() int {
	n := 0
	for _, vc := range b.vcs {
		n += vc.Size()
	}

	return n
}

// AcceptHook registers a hook on every virtual channel.
func (b *Buffer) AcceptHook(hook sim.Hook) {
	for _, vc := range b.vcs {
		vc.AcceptHook(hook)
	}
}

// Clear drops the flits of all the virtual channels.
func (b *Buffer) Clear() {
	for _, vc := range b.vcs {
		vc.Clear()
	}
}

// Display dumps every virtual channel.
func (b *Buffer) Display(w io.Writer) {
	for _, vc := range b.vcs {
		vc.Display(w)
	}
}
