package policies

import (
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/zeu5/game-dynamics/core"
)

// EpsilonGreedy explores uniformly at random with probability epsilon and
// otherwise plays the argmax action of the member's current state. Ties in
// the argmax break to the lowest action index so runs stay reproducible.
//
// Epsilon holds either one shared value or one value per batch member. When
// Schedule is set it overrides Epsilon with an annealed value per round.
type EpsilonGreedy struct {
	Epsilon  []float64
	Schedule *DecaySchedule
}

var _ core.Policy = &EpsilonGreedy{}

// NewEpsilonGreedy builds a policy with one epsilon shared by all members.
func NewEpsilonGreedy(epsilon float64) *EpsilonGreedy {
	return &EpsilonGreedy{Epsilon: []float64{epsilon}}
}

// NewEpsilonGreedyPerMember builds a policy with one epsilon per batch member.
func NewEpsilonGreedyPerMember(epsilon []float64) *EpsilonGreedy {
	return &EpsilonGreedy{Epsilon: epsilon}
}

func (p *EpsilonGreedy) SelectActions(rctx *core.RoundContext, pop *core.Population, actions *etensor.Int, streams *core.Streams) error {
	if p.Schedule != nil {
		if err := p.Schedule.Validate(); err != nil {
			return err
		}
	} else {
		if len(p.Epsilon) != 1 && len(p.Epsilon) != pop.Batch {
			return fmt.Errorf("%w: %d epsilon values for batch size %d", core.ErrConfigMismatch, len(p.Epsilon), pop.Batch)
		}
		for _, e := range p.Epsilon {
			if e < 0 || e > 1 {
				return fmt.Errorf("%w: epsilon %v not in [0,1]", core.ErrInvalidParameter, e)
			}
		}
	}

	spec := pop.Spec
	for b := 0; b < pop.Batch; b++ {
		rng := streams.Member(b)
		eps := p.epsilonFor(rctx, b)
		for pl := 0; pl < spec.Players; pl++ {
			na := spec.Actions[pl]
			var a int
			if rng.Float64() < eps {
				a = rng.Intn(na)
			} else {
				a = argmax(pop.QRow(pl, b, pop.State(b, pl)))
			}
			actions.Values[b*spec.Players+pl] = a
		}
	}
	return nil
}

func (p *EpsilonGreedy) epsilonFor(rctx *core.RoundContext, member int) float64 {
	if p.Schedule != nil {
		return p.Schedule.At(rctx.Round)
	}
	if len(p.Epsilon) == 1 {
		return p.Epsilon[0]
	}
	return p.Epsilon[member]
}

// argmax returns the index of the largest value, first occurrence on ties.
func argmax(vals []float64) int {
	best := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[best] {
			best = i
		}
	}
	return best
}
