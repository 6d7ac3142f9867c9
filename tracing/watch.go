// Package tracing provides hooks that observe flits moving through the
// virtual channels of a network.
package tracing

import (
	"log"

	"github.com/sarchlab/nocsim/noc/buffering"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// A FlitFilter decides if a flit is traced.
type FlitFilter func(f *messaging.Flit) bool

// WatchedOnly selects the flits that belong to watched packets.
func WatchedOnly(f *messaging.Flit) bool {
	return f.Watch
}

// AllFlits selects every flit.
func AllFlits(_ *messaging.Flit) bool {
	return true
}

type named interface {
	Name() string
}

// WatchHook writes a line every time a selected flit enters or leaves a
// virtual channel.
type WatchHook struct {
	out    *log.Logger
	filter FlitFilter
}

// NewWatchHook creates a WatchHook that traces the flits of watched packets.
func NewWatchHook(out *log.Logger) *WatchHook {
	return &WatchHook{
		out:    out,
		filter: WatchedOnly,
	}
}

// WithFilter replaces the flit selection.
func (h *WatchHook) WithFilter(filter FlitFilter) *WatchHook {
	h.filter = filter
	return h
}

// Func logs the move of the flit.
func (h *WatchHook) Func(ctx sim.HookCtx) {
	f, ok := ctx.Item.(*messaging.Flit)
	if !ok || !h.filter(f) {
		return
	}

	var action string

	switch ctx.Pos {
	case buffering.HookPosVCPush:
		action = "enters"
	case buffering.HookPosVCPop:
		action = "leaves"
	default:
		return
	}

	where := "?"
	if n, ok := ctx.Domain.(named); ok {
		where = n.Name()
	}

	h.out.Printf("%s | %s %s", where, f, action)
}

// AttachToBuffers registers the hook on every virtual channel of the buffers.
func AttachToBuffers(hook sim.Hook, bufs ...*buffering.Buffer) {
	for _, b := range bufs {
		b.AcceptHook(hook)
	}
}
