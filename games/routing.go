package games

import (
	"github.com/emer/etable/etensor"
	"github.com/zeu5/game-dynamics/core"
)

// countLoads tallies how many players of one batch member chose each action.
// Congestion payoffs are computed from these aggregate loads and then looked
// up per player, one pass each, so cost stays linear in the batch size.
func countLoads(acts []int, counts []float64) {
	for i := range counts {
		counts[i] = 0
	}
	for _, a := range acts {
		counts[a]++
	}
}

// BraessAugmented is the Braess Paradox network with the added crossing
// link. Routes: 0 = upper path, 1 = lower path, 2 = crossing link that uses
// the variable half of both. At the Nash equilibrium every agent crosses and
// average travel time is 2; without the link it would be 1.5.
type BraessAugmented struct {
	cfg  RouteConfig
	spec *core.GameSpec
}

var _ core.Game = &BraessAugmented{}

func NewBraessAugmented(cfg RouteConfig) (*BraessAugmented, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BraessAugmented{cfg: cfg, spec: core.UniformSpec(cfg.Agents, 3, 1)}, nil
}

func (g *BraessAugmented) Spec() *core.GameSpec { return g.spec }

func (g *BraessAugmented) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
	if err := core.ValidateActions(g.spec, actions); err != nil {
		return err
	}
	n := float64(g.cfg.Agents)
	batch := actions.Dim(0)
	counts := make([]float64, 3)
	for b := 0; b < batch; b++ {
		base := b * g.spec.Players
		acts := actions.Values[base : base+g.spec.Players]
		countLoads(acts, counts)
		up := (counts[0] + counts[2]) / n
		down := (counts[1] + counts[2]) / n
		costs := [3]float64{
			-(1 + up),
			-(1 + down),
			-(up + down + g.cfg.Cost),
		}
		for i, a := range acts {
			rewards.Values[base+i] = costs[a]
		}
	}
	return nil
}

// BraessInitial is the Braess network without the crossing link. The Nash
// equilibrium splits agents evenly over the two paths, which is also the
// optimum: average travel time 1.5.
type BraessInitial struct {
	cfg  RouteConfig
	spec *core.GameSpec
}

var _ core.Game = &BraessInitial{}

func NewBraessInitial(cfg RouteConfig) (*BraessInitial, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BraessInitial{cfg: cfg, spec: core.UniformSpec(cfg.Agents, 2, 1)}, nil
}

func (g *BraessInitial) Spec() *core.GameSpec { return g.spec }

func (g *BraessInitial) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
	if err := core.ValidateActions(g.spec, actions); err != nil {
		return err
	}
	n := float64(g.cfg.Agents)
	batch := actions.Dim(0)
	counts := make([]float64, 2)
	for b := 0; b < batch; b++ {
		base := b * g.spec.Players
		acts := actions.Values[base : base+g.spec.Players]
		countLoads(acts, counts)
		costs := [2]float64{
			-(1 + counts[0]/n),
			-(1 + counts[1]/n),
		}
		for i, a := range acts {
			rewards.Values[base+i] = costs[a]
		}
	}
	return nil
}

// TwoRoute is a two-path routing game whose cost constant interpolates
// between a Pigou-like network and one whose equilibrium matches the optimal
// average travel time.
type TwoRoute struct {
	cfg  RouteConfig
	spec *core.GameSpec
}

var _ core.Game = &TwoRoute{}

func NewTwoRoute(cfg RouteConfig) (*TwoRoute, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &TwoRoute{cfg: cfg, spec: core.UniformSpec(cfg.Agents, 2, 1)}, nil
}

func (g *TwoRoute) Spec() *core.GameSpec { return g.spec }

func (g *TwoRoute) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
	if err := core.ValidateActions(g.spec, actions); err != nil {
		return err
	}
	n := float64(g.cfg.Agents)
	batch := actions.Dim(0)
	counts := make([]float64, 2)
	for b := 0; b < batch; b++ {
		base := b * g.spec.Players
		acts := actions.Values[base : base+g.spec.Players]
		countLoads(acts, counts)
		up := counts[0] / n
		costs := [2]float64{
			-(up + g.cfg.Cost),
			-((1 - up) + (1 - g.cfg.Cost)),
		}
		for i, a := range acts {
			rewards.Values[base+i] = costs[a]
		}
	}
	return nil
}

// Pigou is the classic two-path Pigou network: route 0 has the fixed cost
// from the config (1 in the classic game), route 1 costs the fraction of
// agents taking it.
type Pigou struct {
	cfg  RouteConfig
	spec *core.GameSpec
}

var _ core.Game = &Pigou{}

func NewPigou(cfg RouteConfig) (*Pigou, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pigou{cfg: cfg, spec: core.UniformSpec(cfg.Agents, 2, 1)}, nil
}

func (g *Pigou) Spec() *core.GameSpec { return g.spec }

func (g *Pigou) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
	if err := core.ValidateActions(g.spec, actions); err != nil {
		return err
	}
	n := float64(g.cfg.Agents)
	batch := actions.Dim(0)
	counts := make([]float64, 2)
	for b := 0; b < batch; b++ {
		base := b * g.spec.Players
		acts := actions.Values[base : base+g.spec.Players]
		countLoads(acts, counts)
		costs := [2]float64{
			-g.cfg.Cost,
			-(counts[1] / n),
		}
		for i, a := range acts {
			rewards.Values[base+i] = costs[a]
		}
	}
	return nil
}

// Pigou3 is a three-path Pigou variant: one variable-cost path and two
// fixed-cost paths at cost 1.
type Pigou3 struct {
	cfg  RouteConfig
	spec *core.GameSpec
}

var _ core.Game = &Pigou3{}

func NewPigou3(cfg RouteConfig) (*Pigou3, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pigou3{cfg: cfg, spec: core.UniformSpec(cfg.Agents, 3, 1)}, nil
}

func (g *Pigou3) Spec() *core.GameSpec { return g.spec }

func (g *Pigou3) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
	if err := core.ValidateActions(g.spec, actions); err != nil {
		return err
	}
	n := float64(g.cfg.Agents)
	batch := actions.Dim(0)
	counts := make([]float64, 3)
	for b := 0; b < batch; b++ {
		base := b * g.spec.Players
		acts := actions.Values[base : base+g.spec.Players]
		countLoads(acts, counts)
		costs := [3]float64{
			-(counts[0] / n),
			-1,
			-1,
		}
		for i, a := range acts {
			rewards.Values[base+i] = costs[a]
		}
	}
	return nil
}
