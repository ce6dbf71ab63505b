package games

import (
	"github.com/emer/etable/etensor"
	"github.com/zeu5/game-dynamics/core"
)

// PrisonersDilemma is the two-player dilemma with action 0 = cooperate and
// action 1 = defect. The game is stateful: both players observe the number
// of defections in the previous round (0, 1 or 2) as their state.
type PrisonersDilemma struct {
	cfg  PrisonersDilemmaConfig
	spec *core.GameSpec

	// payoff[a0][a1] = (player 0 payoff, player 1 payoff)
	payoff [2][2][2]float64
}

var _ core.Game = &PrisonersDilemma{}

func NewPrisonersDilemma(cfg PrisonersDilemmaConfig) (*PrisonersDilemma, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &PrisonersDilemma{cfg: cfg, spec: core.UniformSpec(2, 2, 3)}
	g.payoff[0][0] = [2]float64{cfg.Reward, cfg.Reward}
	g.payoff[0][1] = [2]float64{cfg.Sucker, cfg.Temptation}
	g.payoff[1][0] = [2]float64{cfg.Temptation, cfg.Sucker}
	g.payoff[1][1] = [2]float64{cfg.Punishment, cfg.Punishment}
	return g, nil
}

func (g *PrisonersDilemma) Spec() *core.GameSpec { return g.spec }

func (g *PrisonersDilemma) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
	if err := core.ValidateActions(g.spec, actions); err != nil {
		return err
	}
	batch := actions.Dim(0)
	for b := 0; b < batch; b++ {
		base := b * 2
		a0, a1 := actions.Values[base], actions.Values[base+1]
		pay := g.payoff[a0][a1]
		rewards.Values[base] = pay[0]
		rewards.Values[base+1] = pay[1]
		if next != nil {
			s := a0 + a1
			next.Values[base] = s
			next.Values[base+1] = s
		}
	}
	return nil
}

// Duopoly is a two-firm pricing game over discrete price levels. The firm
// with the lower price captures the whole linear demand 1 - p; ties split
// it. Each firm's state is the opponent's previous price level, so pricing
// strategies can condition on the last observed move.
type Duopoly struct {
	cfg  DuopolyConfig
	spec *core.GameSpec

	prices []float64
}

var _ core.Game = &Duopoly{}

func NewDuopoly(cfg DuopolyConfig) (*Duopoly, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prices := make([]float64, cfg.Levels)
	step := (cfg.MaxPrice - cfg.MinPrice) / float64(cfg.Levels-1)
	for i := range prices {
		prices[i] = cfg.MinPrice + float64(i)*step
	}
	return &Duopoly{
		cfg:    cfg,
		spec:   core.UniformSpec(2, cfg.Levels, cfg.Levels),
		prices: prices,
	}, nil
}

func (g *Duopoly) Spec() *core.GameSpec { return g.spec }

func (g *Duopoly) Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error {
	if err := core.ValidateActions(g.spec, actions); err != nil {
		return err
	}
	batch := actions.Dim(0)
	for b := 0; b < batch; b++ {
		base := b * 2
		a0, a1 := actions.Values[base], actions.Values[base+1]
		p0, p1 := g.prices[a0], g.prices[a1]
		var r0, r1 float64
		switch {
		case p0 < p1:
			r0 = (1 - p0) * p0
		case p0 > p1:
			r1 = (1 - p1) * p1
		default:
			r0 = 0.5 * (1 - p0)
			r1 = r0
		}
		rewards.Values[base] = r0
		rewards.Values[base+1] = r1
		if next != nil {
			next.Values[base] = a1
			next.Values[base+1] = a0
		}
	}
	return nil
}
