// Package traffic provides the traffic patterns that pick destinations and the
// injection processes that decide when sources issue packets.
package traffic

import (
	"errors"
	"fmt"
	"math/bits"
	"math/rand"
	"strings"

	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/sim"
)

// ErrUnknownPattern is returned for a traffic pattern name that the factory
// does not know.
var ErrUnknownPattern = errors.New("unknown traffic pattern")

// A Pattern picks the destination of the packets issued by a source.
type Pattern interface {
	// Dest returns the destination node for a packet from source.
	Dest(source int) int

	// Reset returns the pattern to its initial state.
	Reset()
}

// SplitName separates a pattern description like "hotspot({1,2},{3,1})" into its name
// and its parameter list.
func SplitName(desc string) (name string, params []string) {
	desc = strings.TrimSpace(desc)

	open := strings.IndexByte(desc, '(')
	if open < 0 || !strings.HasSuffix(desc, ")") {
		return desc, nil
	}

	name = desc[:open]
	params = config.TokenizeStr("{" + desc[open+1:len(desc)-1] + "}")

	return name, params
}

// New creates the pattern named by desc for a network of the given size.
func New(
	desc string,
	nodes int,
	cfg *config.Configuration,
	rng sim.RandomSource,
) (Pattern, error) {
	if nodes <= 0 {
		return nil, fmt.Errorf("traffic pattern %s needs at least one node", desc)
	}

	name, params := SplitName(desc)

	switch name {
	case "uniform":
		return &uniform{nodes: nodes, rng: rng}, nil
	case "neighbor":
		return &neighbor{nodes: nodes}, nil
	case "tornado":
		return &tornado{nodes: nodes}, nil
	case "bitcomp", "transpose", "shuffle", "bitrev":
		return newBitPattern(name, nodes)
	case "randperm":
		return newRandPerm(nodes, int64(cfg.GetInt("perm_seed"))), nil
	case "hotspot":
		return newHotspot(nodes, params, rng)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPattern, desc)
	}
}

type uniform struct {
	nodes int
	rng   sim.RandomSource
}

func (p *uniform) Dest(_ int) int {
	return p.rng.Intn(p.nodes)
}

func (p *uniform) Reset() {}

type neighbor struct {
	nodes int
}

func (p *neighbor) Dest(source int) int {
	return (source + 1) % p.nodes
}

func (p *neighbor) Reset() {}

// tornado sends each packet half way around the ring.
type tornado struct {
	nodes int
}

func (p *tornado) Dest(source int) int {
	offset := (p.nodes+1)/2 - 1
	return (source + offset) % p.nodes
}

func (p *tornado) Reset() {}

type bitPattern struct {
	kind     string
	nodeBits int
	mask     int
}

func newBitPattern(kind string, nodes int) (Pattern, error) {
	if nodes&(nodes-1) != 0 {
		return nil, fmt.Errorf("traffic pattern %s requires a power-of-two "+
			"number of nodes, got %d", kind, nodes)
	}

	nodeBits := bits.TrailingZeros(uint(nodes))

	if kind == "transpose" && nodeBits%2 != 0 {
		return nil, fmt.Errorf("traffic pattern transpose requires an even "+
			"number of address bits, got %d nodes", nodes)
	}

	return &bitPattern{kind: kind, nodeBits: nodeBits, mask: nodes - 1}, nil
}

func (p *bitPattern) Dest(source int) int {
	switch p.kind {
	case "bitcomp":
		return ^source & p.mask
	case "transpose":
		shift := p.nodeBits / 2
		return ((source >> shift) | (source << shift)) & p.mask
	case "shuffle":
		if p.nodeBits == 0 {
			return 0
		}

		return ((source << 1) & p.mask) | ((source >> (p.nodeBits - 1)) & 1)
	case "bitrev":
		return int(bits.Reverse(uint(source)) >> (bits.UintSize - p.nodeBits))
	}

	panic("unknown bit pattern " + p.kind)
}

func (p *bitPattern) Reset() {}

type randPerm struct {
	seed int64
	perm []int
}

func newRandPerm(nodes int, seed int64) *randPerm {
	p := &randPerm{seed: seed, perm: make([]int, nodes)}
	p.Reset()

	return p
}

func (p *randPerm) Dest(source int) int {
	return p.perm[source]
}

func (p *randPerm) Reset() {
	r := rand.New(rand.NewSource(p.seed))
	copy(p.perm, r.Perm(len(p.perm)))
}

// hotspot sends to a set of hot nodes, picked by weight.
type hotspot struct {
	hosts   []int
	weights []int
	total   int
	rng     sim.RandomSource
}

func newHotspot(
	nodes int,
	params []string,
	rng sim.RandomSource,
) (Pattern, error) {
	if len(params) == 0 {
		return nil, errors.New("traffic pattern hotspot needs a list of nodes")
	}

	hosts, err := config.TokenizeInt(params[0])
	if err != nil {
		return nil, err
	}

	weights := make([]int, len(hosts))
	for i := range weights {
		weights[i] = 1
	}

	if len(params) > 1 {
		given, err := config.TokenizeInt(params[1])
		if err != nil {
			return nil, err
		}

		weights = config.BroadcastInts(given, len(hosts))
	}

	p := &hotspot{hosts: hosts, weights: weights, rng: rng}

	for i, h := range hosts {
		if h < 0 || h >= nodes {
			return nil, fmt.Errorf("hotspot node %d is out of range", h)
		}

		if weights[i] < 0 {
			return nil, fmt.Errorf("hotspot weight %d is negative", weights[i])
		}

		p.total += weights[i]
	}

	if p.total <= 0 {
		return nil, errors.New("hotspot weights must not all be zero")
	}

	return p, nil
}

func (p *hotspot) Dest(_ int) int {
	pct := p.rng.Intn(p.total)

	for i, w := range p.weights {
		if pct < w {
			return p.hosts[i]
		}

		pct -= w
	}

	return p.hosts[len(p.hosts)-1]
}

func (p *hotspot) Reset() {}
