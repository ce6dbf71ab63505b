package core

import "github.com/emer/etable/etensor"

// RoundContext carries per-round bookkeeping through policy and update rule
// calls.
type RoundContext struct {
	Round  int
	Rounds int
}

// Policy samples the next joint action for every batch member. It fills
// actions (shape batch, players) reading Q values and states from pop, and
// draws entropy only from the per-member streams. Policies never mutate the
// population.
type Policy interface {
	SelectActions(rctx *RoundContext, pop *Population, actions *etensor.Int, streams *Streams) error
}

// UpdateRule revises Q values from the observed rewards. actions and rewards
// have shape (batch, players); next holds post-transition states for stateful
// games and is nil otherwise. It returns the summed magnitude of the applied
// updates, which callers can use as a convergence signal.
type UpdateRule interface {
	Update(rctx *RoundContext, pop *Population, actions *etensor.Int, rewards *etensor.Float64, next *etensor.Int) (float64, error)
}

// Transform is an optional between-round operation on the population, such as
// averaging Q values within a neighborhood of players. Transforms run after
// the update rule and must preserve batch-member isolation.
type Transform interface {
	Apply(rctx *RoundContext, pop *Population) error
}
