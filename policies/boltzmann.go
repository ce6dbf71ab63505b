package policies

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/zeu5/game-dynamics/core"
)

// Boltzmann samples actions from a softmax distribution over the member's Q
// values. Temperature approaching 0 concentrates on the argmax; large
// temperatures approach the uniform distribution.
//
// The row maximum is subtracted before exponentiating so low temperatures do
// not overflow. Temperature holds one shared value or one per batch member
// and must be strictly positive.
type Boltzmann struct {
	Temperature []float64
}

var _ core.Policy = &Boltzmann{}

func NewBoltzmann(temperature float64) *Boltzmann {
	return &Boltzmann{Temperature: []float64{temperature}}
}

func NewBoltzmannPerMember(temperature []float64) *Boltzmann {
	return &Boltzmann{Temperature: temperature}
}

func (p *Boltzmann) SelectActions(rctx *core.RoundContext, pop *core.Population, actions *etensor.Int, streams *core.Streams) error {
	if len(p.Temperature) != 1 && len(p.Temperature) != pop.Batch {
		return fmt.Errorf("%w: %d temperature values for batch size %d", core.ErrConfigMismatch, len(p.Temperature), pop.Batch)
	}
	for _, t := range p.Temperature {
		if t <= 0 {
			return fmt.Errorf("%w: temperature %v must be > 0", core.ErrInvalidParameter, t)
		}
	}

	spec := pop.Spec
	weights := make([]float64, spec.MaxActions())
	for b := 0; b < pop.Batch; b++ {
		rng := streams.Member(b)
		temp := p.Temperature[0]
		if len(p.Temperature) > 1 {
			temp = p.Temperature[b]
		}
		for pl := 0; pl < spec.Players; pl++ {
			na := spec.Actions[pl]
			row := pop.QRow(pl, b, pop.State(b, pl))
			softmaxWeights(row, temp, weights[:na])
			i, ok := sampleuv.NewWeighted(weights[:na], rng).Take()
			if !ok {
				return fmt.Errorf("%w: degenerate softmax weights for batch %d player %d", core.ErrInvalidParameter, b, pl)
			}
			actions.Values[b*spec.Players+pl] = i
		}
	}
	return nil
}

// softmaxWeights fills out with exp((q - max(q)) / temp). The weights are
// proportional to the softmax distribution; they are not normalized since
// the weighted sampler normalizes internally.
func softmaxWeights(q []float64, temp float64, out []float64) {
	largest := q[0]
	for _, v := range q[1:] {
		if v > largest {
			largest = v
		}
	}
	for i, v := range q {
		out[i] = math.Exp((v - largest) / temp)
	}
}
