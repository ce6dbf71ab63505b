package policies

import (
	"fmt"
	"math"

	"github.com/zeu5/game-dynamics/core"
)

// DecaySchedule anneals an exploration rate exponentially from Start towards
// End with time constant Decay (in rounds):
//
//	eps(t) = End + (Start - End) * exp(-t / Decay)
//
// A common choice for Decay is an eighth of the simulation horizon.
type DecaySchedule struct {
	Start float64
	End   float64
	Decay float64
}

func (ds *DecaySchedule) Validate() error {
	if ds.Start < 0 || ds.Start > 1 || ds.End < 0 || ds.End > 1 {
		return fmt.Errorf("%w: decay schedule endpoints (%v, %v) not in [0,1]", core.ErrInvalidParameter, ds.Start, ds.End)
	}
	if ds.Decay <= 0 {
		return fmt.Errorf("%w: decay time constant %v must be > 0", core.ErrInvalidParameter, ds.Decay)
	}
	return nil
}

// At returns the annealed value for round t.
func (ds *DecaySchedule) At(t int) float64 {
	return ds.End + (ds.Start-ds.End)*math.Exp(-float64(t)/ds.Decay)
}
