package traffic

import (
	"fmt"

	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/sim"
)

// An InjectionProcess decides, once per cycle, whether a source issues a
// packet.
type InjectionProcess interface {
	// Test tells if the source issues a packet in this cycle.
	Test(source int) bool

	// Reset returns the process to its initial state.
	Reset()
}

// NewInjectionProcess creates the injection process with the given name. The
// rate is in packets per cycle per source.
func NewInjectionProcess(
	name string,
	nodes int,
	rate float64,
	cfg *config.Configuration,
	rng sim.RandomSource,
) (InjectionProcess, error) {
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("injection rate %g is not in [0, 1]", rate)
	}

	switch name {
	case "bernoulli":
		return &bernoulli{rate: rate, rng: rng}, nil
	case "on_off":
		return newOnOff(nodes, rate,
			cfg.GetFloat("burst_alpha"),
			cfg.GetFloat("burst_beta"),
			cfg.GetFloat("burst_r1"),
			rng)
	default:
		return nil, fmt.Errorf("unknown injection process %s", name)
	}
}

type bernoulli struct {
	rate float64
	rng  sim.RandomSource
}

func (p *bernoulli) Test(_ int) bool {
	return p.rng.Float64() < p.rate
}

func (p *bernoulli) Reset() {}

// onOff is a two-state Markov process. A source switches from off to on with
// probability alpha and from on to off with probability beta, and issues with
// probability r1 while on.
type onOff struct {
	alpha, beta, r1 float64
	rng             sim.RandomSource
	initial         []bool
	state           []bool
}

func newOnOff(
	nodes int,
	rate, alpha, beta, r1 float64,
	rng sim.RandomSource,
) (*onOff, error) {
	if alpha <= 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, fmt.Errorf("on_off probabilities alpha %g, beta %g are "+
			"out of range", alpha, beta)
	}

	if r1 < 0 {
		r1 = rate * (alpha + beta) / alpha
	}

	if r1 > 1 {
		return nil, fmt.Errorf("on_off rate %g cannot be reached with "+
			"alpha %g and beta %g", rate, alpha, beta)
	}

	p := &onOff{
		alpha:   alpha,
		beta:    beta,
		r1:      r1,
		rng:     rng,
		initial: make([]bool, nodes),
		state:   make([]bool, nodes),
	}

	onProbability := alpha / (alpha + beta)
	for i := range p.initial {
		p.initial[i] = rng.Float64() < onProbability
	}

	p.Reset()

	return p, nil
}

func (p *onOff) Test(source int) bool {
	if p.state[source] {
		p.state[source] = p.rng.Float64() >= p.beta
	} else {
		p.state[source] = p.rng.Float64() < p.alpha
	}

	return p.state[source] && p.rng.Float64() < p.r1
}

func (p *onOff) Reset() {
	copy(p.state, p.initial)
}
