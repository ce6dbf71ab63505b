package policies

import (
	"fmt"

	"github.com/zeu5/game-dynamics/core"
)

// NeighborhoodAveraging replaces each player's Q table with the mean of its
// own and its Neighborhood-1 predecessors' tables along the player axis
// (wrapping around). Used in experiments where agents share beliefs within a
// neighborhood. Requires every player to have the same action count; batch
// members never mix.
type NeighborhoodAveraging struct {
	Neighborhood int

	scratch [][]float64
}

var _ core.Transform = &NeighborhoodAveraging{}

func NewNeighborhoodAveraging(neighborhood int) *NeighborhoodAveraging {
	return &NeighborhoodAveraging{Neighborhood: neighborhood}
}

func (na *NeighborhoodAveraging) Apply(rctx *core.RoundContext, pop *core.Population) error {
	spec := pop.Spec
	if na.Neighborhood < 1 || na.Neighborhood > spec.Players {
		return fmt.Errorf("%w: neighborhood %d for %d players", core.ErrInvalidParameter, na.Neighborhood, spec.Players)
	}
	for _, n := range spec.Actions {
		if n != spec.Actions[0] {
			return fmt.Errorf("%w: neighborhood averaging needs homogeneous action counts", core.ErrConfigMismatch)
		}
	}
	if na.Neighborhood == 1 {
		return nil
	}

	if na.scratch == nil {
		na.scratch = make([][]float64, spec.Players)
		for p := range na.scratch {
			na.scratch[p] = make([]float64, len(pop.QTables[p].Values))
		}
	}
	for p, q := range pop.QTables {
		copy(na.scratch[p], q.Values)
	}

	k := float64(na.Neighborhood)
	for p, q := range pop.QTables {
		for i := range q.Values {
			sum := 0.0
			for j := 0; j < na.Neighborhood; j++ {
				src := (p - j + spec.Players) % spec.Players
				sum += na.scratch[src][i]
			}
			q.Values[i] = sum / k
		}
	}
	return nil
}
