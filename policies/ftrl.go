package policies

import (
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/zeu5/game-dynamics/core"
)

// FTRL implements follow-the-regularized-leader selection: the argmax of the
// Q values after subtracting their own softmax as a regularizer. Selection is
// deterministic given the Q values; no entropy is consumed.
type FTRL struct {
	Temperature float64
}

var _ core.Policy = &FTRL{}

func NewFTRL(temperature float64) *FTRL {
	return &FTRL{Temperature: temperature}
}

func (p *FTRL) SelectActions(rctx *core.RoundContext, pop *core.Population, actions *etensor.Int, streams *core.Streams) error {
	if p.Temperature <= 0 {
		return fmt.Errorf("%w: temperature %v must be > 0", core.ErrInvalidParameter, p.Temperature)
	}
	spec := pop.Spec
	weights := make([]float64, spec.MaxActions())
	reg := make([]float64, spec.MaxActions())
	for b := 0; b < pop.Batch; b++ {
		for pl := 0; pl < spec.Players; pl++ {
			na := spec.Actions[pl]
			row := pop.QRow(pl, b, pop.State(b, pl))
			softmaxWeights(row, p.Temperature, weights[:na])
			sum := 0.0
			for _, w := range weights[:na] {
				sum += w
			}
			for i := 0; i < na; i++ {
				reg[i] = row[i] - weights[i]/sum
			}
			actions.Values[b*spec.Players+pl] = argmax(reg[:na])
		}
	}
	return nil
}
