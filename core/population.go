package core

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
)

// Population holds the evolving state of a batch of independent agent
// populations: one Q tensor per player with shape (batch, states, actions)
// and the current state index per (batch, player).
//
// Q tensors are mutated only by update rules and initializers. No operation
// on a Population may mix values across the batch axis: each batch member is
// an independent experiment and coupling them silently corrupts results.
type Population struct {
	Spec    *GameSpec
	Batch   int
	QTables []*etensor.Float64
	States  *etensor.Int
}

// NewPopulation creates a population with zero-initialized Q values and all
// members at state 0.
func NewPopulation(spec *GameSpec, batch int) *Population {
	qts := make([]*etensor.Float64, spec.Players)
	for p := 0; p < spec.Players; p++ {
		qts[p] = etensor.NewFloat64([]int{batch, spec.States, spec.Actions[p]}, nil, []string{"Batch", "State", "Action"})
	}
	return &Population{
		Spec:    spec,
		Batch:   batch,
		QTables: qts,
		States:  etensor.NewInt([]int{batch, spec.Players}, nil, []string{"Batch", "Player"}),
	}
}

// Check verifies that the population's shapes agree with the given spec.
func (pop *Population) Check(spec *GameSpec) error {
	if !pop.Spec.Equal(spec) {
		return fmt.Errorf("%w: population built for different game spec", ErrConfigMismatch)
	}
	if len(pop.QTables) != spec.Players {
		return fmt.Errorf("%w: %d q-tables for %d players", ErrConfigMismatch, len(pop.QTables), spec.Players)
	}
	for p, q := range pop.QTables {
		if q.NumDims() != 3 || q.Dim(0) != pop.Batch || q.Dim(1) != spec.States || q.Dim(2) != spec.Actions[p] {
			return fmt.Errorf("%w: q-table shape for player %d disagrees with spec", ErrConfigMismatch, p)
		}
	}
	if pop.States.NumDims() != 2 || pop.States.Dim(0) != pop.Batch || pop.States.Dim(1) != spec.Players {
		return fmt.Errorf("%w: state tensor shape disagrees with spec", ErrConfigMismatch)
	}
	return nil
}

// InitUniform fills every Q entry with a uniform draw in [qmin, qmax). Each
// batch member's values come from its own stream so that initialization does
// not couple members.
func (pop *Population) InitUniform(qmin, qmax float64, streams *Streams) {
	for _, q := range pop.QTables {
		per := q.Dim(1) * q.Dim(2)
		for b := 0; b < pop.Batch; b++ {
			rng := streams.Member(b)
			for i := b * per; i < (b+1)*per; i++ {
				q.Values[i] = qmin + (qmax-qmin)*rng.Float64()
			}
		}
	}
}

// InitValues sets one player's Q table from a (states, actions) matrix,
// broadcast identically to every batch member. This covers aligned and
// misaligned starting beliefs used in coordination experiments.
func (pop *Population) InitValues(player int, m [][]float64) error {
	q := pop.QTables[player]
	ns, na := q.Dim(1), q.Dim(2)
	if len(m) != ns {
		return fmt.Errorf("%w: %d state rows for %d states", ErrConfigMismatch, len(m), ns)
	}
	for s, row := range m {
		if len(row) != na {
			return fmt.Errorf("%w: state %d has %d action values for %d actions", ErrConfigMismatch, s, len(row), na)
		}
	}
	per := ns * na
	for b := 0; b < pop.Batch; b++ {
		for s := 0; s < ns; s++ {
			copy(q.Values[b*per+s*na:b*per+(s+1)*na], m[s])
		}
	}
	return nil
}

// QRow returns the Q values of one (batch member, player, state) as a slice
// aliasing the underlying storage.
func (pop *Population) QRow(player, member, state int) []float64 {
	q := pop.QTables[player]
	na := q.Dim(2)
	off := (member*q.Dim(1) + state) * na
	return q.Values[off : off+na]
}

// State returns the current state index of (member, player).
func (pop *Population) State(member, player int) int {
	return pop.States.Values[member*pop.Spec.Players+player]
}

// NonFinite reports whether any Q value is NaN or infinite. Divergence is a
// configuration problem rather than an engine fault, so this is exposed as a
// cheap scan the caller can run at any point without stopping a simulation.
func (pop *Population) NonFinite() bool {
	for _, q := range pop.QTables {
		for _, v := range q.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}

// Clone deep-copies the population, including Q values and states.
func (pop *Population) Clone() *Population {
	out := NewPopulation(pop.Spec, pop.Batch)
	for p, q := range pop.QTables {
		copy(out.QTables[p].Values, q.Values)
	}
	copy(out.States.Values, pop.States.Values)
	return out
}
