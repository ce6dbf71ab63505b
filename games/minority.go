package games

import (
	"github.com/emer/etable/etensor"
	"github.com/zeu5/game-dynamics/core"
)

// Minority rewards the side of the population below the threshold: if at
// most threshold * agents chose action 0, action 0 is the minority and pays
// 1 while action 1 pays 0, and vice versa.
type Minority struct {
	cfg  MinorityConfig
	spec *core.GameSpec
}

var _ core.Game = &Minority{}

func NewMinority(cfg MinorityConfig) (*Minority, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Minority{cfg: cfg, spec: core.UniformSpec(cfg.Agents, 2, 1)}, nil
}

func (g *Minority) Spec() *core.GameSpec { return g.spec }

func (g *Minority) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
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
		var payoffs [2]float64
		if n*g.cfg.Threshold >= counts[0] {
			payoffs = [2]float64{1, 0}
		} else {
			payoffs = [2]float64{0, 1}
		}
		for i, a := range acts {
			rewards.Values[base+i] = payoffs[a]
		}
	}
	return nil
}

// MinorityMeanField is a smoothed minority variant: each side's payoff is
// 1 - 2 * fraction choosing it, so payoffs shrink continuously as a side
// gets crowded instead of flipping at a threshold.
type MinorityMeanField struct {
	cfg  MinorityConfig
	spec *core.GameSpec
}

var _ core.Game = &MinorityMeanField{}

func NewMinorityMeanField(cfg MinorityConfig) (*MinorityMeanField, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MinorityMeanField{cfg: cfg, spec: core.UniformSpec(cfg.Agents, 2, 1)}, nil
}

func (g *MinorityMeanField) Spec() *core.GameSpec { return g.spec }

func (g *MinorityMeanField) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
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
		fracA := counts[0] / n
		payoffs := [2]float64{
			1 - 2*fracA,
			1 - 2*(1-fracA),
		}
		for i, a := range acts {
			rewards.Values[base+i] = payoffs[a]
		}
	}
	return nil
}

// ElFarol is the bar-attendance game: staying home (action 0) has a fixed
// cost, going to the bar (action 1) is worthwhile only while attendance
// stays below the threshold fraction.
type ElFarol struct {
	cfg  MinorityConfig
	spec *core.GameSpec
}

var _ core.Game = &ElFarol{}

func NewElFarol(cfg MinorityConfig) (*ElFarol, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ElFarol{cfg: cfg, spec: core.UniformSpec(cfg.Agents, 2, 1)}, nil
}

func (g *ElFarol) Spec() *core.GameSpec { return g.spec }

func (g *ElFarol) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
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
		pct := counts[1] / n
		bar := 4*pct - 2
		if pct > g.cfg.Threshold {
			bar = 2 - 4*pct
		}
		costs := [2]float64{-1, -bar}
		for i, a := range acts {
			rewards.Values[base+i] = costs[a]
		}
	}
	return nil
}
