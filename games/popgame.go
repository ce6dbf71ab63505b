package games

import (
	"math"

	"github.com/emer/etable/etensor"
	"github.com/zeu5/game-dynamics/core"
)

// PopulationGame is the technology-adoption game from "Catastrophe by Design
// in Population Games" (https://doi.org/10.1145/3583782): agents choose the
// weak (action 0, carrying an extra cost) or strong technology, and each
// side's utility scales with its adoption fraction raised to exponent - 1.
type PopulationGame struct {
	cfg  PopulationConfig
	spec *core.GameSpec
}

var _ core.Game = &PopulationGame{}

func NewPopulationGame(cfg PopulationConfig) (*PopulationGame, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PopulationGame{cfg: cfg, spec: core.UniformSpec(cfg.Agents, 2, 1)}, nil
}

func (g *PopulationGame) Spec() *core.GameSpec { return g.spec }

func (g *PopulationGame) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
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
		fracWeak := counts[0] / n
		fracStrong := counts[1] / n
		utilities := [2]float64{
			g.cfg.V*math.Pow(fracWeak*g.cfg.K, g.cfg.Exponent-1) - g.cfg.Cost,
			g.cfg.V * math.Pow(fracStrong*g.cfg.K, g.cfg.Exponent-1),
		}
		for i, a := range acts {
			rewards.Values[base+i] = utilities[a]
		}
	}
	return nil
}

// PublicGoods is an n-player public goods game over discrete contribution
// levels. Each agent keeps what it does not contribute and receives the
// shared pot, which multiplies the sum of contributions raised to beta.
type PublicGoods struct {
	cfg  PublicGoodsConfig
	spec *core.GameSpec
}

var _ core.Game = &PublicGoods{}

func NewPublicGoods(cfg PublicGoodsConfig) (*PublicGoods, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PublicGoods{cfg: cfg, spec: core.UniformSpec(cfg.Agents, cfg.Levels, 1)}, nil
}

func (g *PublicGoods) Spec() *core.GameSpec { return g.spec }

func (g *PublicGoods) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
	if err := core.ValidateActions(g.spec, actions); err != nil {
		return err
	}
	levels := float64(g.cfg.Levels)
	batch := actions.Dim(0)
	for b := 0; b < batch; b++ {
		base := b * g.spec.Players
		acts := actions.Values[base : base+g.spec.Players]
		pot := 0.0
		for _, a := range acts {
			pot += math.Pow(float64(a)/levels, g.cfg.Beta)
		}
		pot *= g.cfg.Multiplier
		for i, a := range acts {
			rewards.Values[base+i] = 1 - float64(a)/levels + pot
		}
	}
	return nil
}
