package policies

import (
	"github.com/emer/etable/etensor"
	"github.com/zeu5/game-dynamics/core"
)

// Random picks uniformly among each player's actions, ignoring Q values.
// Baseline for comparing learning dynamics against pure noise.
type Random struct{}

var _ core.Policy = &Random{}

func NewRandom() *Random {
	return &Random{}
}

func (p *Random) SelectActions(rctx *core.RoundContext, pop *core.Population, actions *etensor.Int, streams *core.Streams) error {
	spec := pop.Spec
	for b := 0; b < pop.Batch; b++ {
		rng := streams.Member(b)
		for pl := 0; pl < spec.Players; pl++ {
			actions.Values[b*spec.Players+pl] = rng.Intn(spec.Actions[pl])
		}
	}
	return nil
}
