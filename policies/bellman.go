package policies

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
	"github.com/zeu5/game-dynamics/core"
)

// Bellman is the one-step Q-learning update:
//
//	Q[s,a] += alpha * (r + gamma * max_a' Q[s',a'] - Q[s,a])
//
// Only the entry addressed by the chosen action changes; every other entry
// is untouched. Alpha holds one shared learning rate or one per batch member
// in (0,1]; Gamma the discount(s) in [0,1]. For stateless repeated games
// gamma is conventionally 0 and the bootstrap term reads the current state.
type Bellman struct {
	Alpha []float64
	Gamma []float64
}

var _ core.UpdateRule = &Bellman{}

func NewBellman(alpha, gamma float64) *Bellman {
	return &Bellman{Alpha: []float64{alpha}, Gamma: []float64{gamma}}
}

func NewBellmanPerMember(alpha, gamma []float64) *Bellman {
	return &Bellman{Alpha: alpha, Gamma: gamma}
}

func (u *Bellman) Update(rctx *core.RoundContext, pop *core.Population, actions *etensor.Int, rewards *etensor.Float64, next *etensor.Int) (float64, error) {
	if len(u.Alpha) != 1 && len(u.Alpha) != pop.Batch {
		return 0, fmt.Errorf("%w: %d alpha values for batch size %d", core.ErrConfigMismatch, len(u.Alpha), pop.Batch)
	}
	if len(u.Gamma) != 1 && len(u.Gamma) != pop.Batch {
		return 0, fmt.Errorf("%w: %d gamma values for batch size %d", core.ErrConfigMismatch, len(u.Gamma), pop.Batch)
	}
	for _, a := range u.Alpha {
		if a <= 0 || a > 1 {
			return 0, fmt.Errorf("%w: alpha %v not in (0,1]", core.ErrInvalidParameter, a)
		}
	}
	for _, g := range u.Gamma {
		if g < 0 || g > 1 {
			return 0, fmt.Errorf("%w: gamma %v not in [0,1]", core.ErrInvalidParameter, g)
		}
	}

	spec := pop.Spec
	total := 0.0
	for b := 0; b < pop.Batch; b++ {
		alpha := u.Alpha[0]
		if len(u.Alpha) > 1 {
			alpha = u.Alpha[b]
		}
		gamma := u.Gamma[0]
		if len(u.Gamma) > 1 {
			gamma = u.Gamma[b]
		}
		for pl := 0; pl < spec.Players; pl++ {
			i := b*spec.Players + pl
			a := actions.Values[i]
			r := rewards.Values[i]
			s := pop.State(b, pl)
			ns := s
			if next != nil {
				ns = next.Values[i]
			}
			nextMax := maxVal(pop.QRow(pl, b, ns))
			row := pop.QRow(pl, b, s)
			d := alpha * (r + gamma*nextMax - row[a])
			row[a] += d
			total += math.Abs(d)
		}
	}
	return total, nil
}

func maxVal(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
