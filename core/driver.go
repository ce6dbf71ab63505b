package core

import (
	"context"
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
)

// Status tracks where a Driver is in its lifecycle.
type Status int

const (
	Initialized Status = iota
	Running
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// EarlyStop terminates a run once the empirical action distribution has
// drifted less than Threshold (L1 distance between consecutive rounds) for
// Window consecutive rounds. Optional: correctness never depends on it.
type EarlyStop struct {
	Window    int
	Threshold float64
}

// DriverConfig sets the horizon and recording options of a run.
type DriverConfig struct {
	Rounds    int
	RecordQ   bool
	EarlyStop *EarlyStop
}

// Driver steps a batch of independent agent populations through repeated
// plays of one game. Rounds are strictly sequential: round t+1's action
// selection depends on round t's updated Q values. Within a round all batch
// members advance together through whole-array operations; that is the only
// axis of parallelism inside a simulation.
//
// A Driver runs one simulation at a time and is not safe for concurrent use.
type Driver struct {
	Game       Game
	Policy     Policy
	Update     UpdateRule
	Transforms []Transform
	Config     DriverConfig

	status Status
}

func NewDriver(game Game, policy Policy, update UpdateRule, cfg DriverConfig) *Driver {
	return &Driver{
		Game:   game,
		Policy: policy,
		Update: update,
		Config: cfg,
		status: Initialized,
	}
}

func (d *Driver) Status() Status {
	return d.status
}

// Run advances the population for the configured number of rounds and
// returns the recorded trajectory. On failure the driver lands in the Failed
// state and the partial trajectory recorded so far is returned alongside the
// error; rows already recorded remain valid.
func (d *Driver) Run(ctx context.Context, pop *Population, streams *Streams) (*Trajectory, error) {
	spec := d.Game.Spec()
	if err := spec.Validate(); err != nil {
		d.status = Failed
		return nil, err
	}
	if err := pop.Check(spec); err != nil {
		d.status = Failed
		return nil, err
	}
	if streams.Batch() != pop.Batch {
		d.status = Failed
		return nil, fmt.Errorf("%w: %d random streams for batch size %d", ErrConfigMismatch, streams.Batch(), pop.Batch)
	}

	d.status = Running
	traj := NewTrajectory(spec, pop.Batch, d.Config.RecordQ)

	actions := etensor.NewInt([]int{pop.Batch, spec.Players}, nil, []string{"Batch", "Player"})
	rewards := etensor.NewFloat64([]int{pop.Batch, spec.Players}, nil, []string{"Batch", "Player"})
	var next *etensor.Int
	if spec.Stateful() {
		next = etensor.NewInt([]int{pop.Batch, spec.Players}, nil, []string{"Batch", "Player"})
	}

	var stop *stopTracker
	if d.Config.EarlyStop != nil {
		stop = newStopTracker(spec, pop.Batch, d.Config.EarlyStop)
	}

	for round := 0; round < d.Config.Rounds; round++ {
		select {
		case <-ctx.Done():
			d.status = Failed
			return traj, ctx.Err()
		default:
		}

		rctx := &RoundContext{Round: round, Rounds: d.Config.Rounds}

		// SELECT
		if err := d.Policy.SelectActions(rctx, pop, actions, streams); err != nil {
			d.status = Failed
			return traj, fmt.Errorf("round %d action selection: %w", round, err)
		}
		// EVALUATE
		if err := d.Game.Payoff(actions, pop.States, rewards, next); err != nil {
			d.status = Failed
			return traj, fmt.Errorf("round %d payoff: %w", round, err)
		}
		// UPDATE
		delta, err := d.Update.Update(rctx, pop, actions, rewards, next)
		if err != nil {
			d.status = Failed
			return traj, fmt.Errorf("round %d update: %w", round, err)
		}
		for _, t := range d.Transforms {
			if err := t.Apply(rctx, pop); err != nil {
				d.status = Failed
				return traj, fmt.Errorf("round %d transform: %w", round, err)
			}
		}
		if next != nil {
			copy(pop.States.Values, next.Values)
		}
		// RECORD
		traj.Record(round, actions, rewards, pop, delta)

		if stop != nil && stop.converged(actions) {
			break
		}
	}

	d.status = Completed
	return traj, nil
}

// stopTracker keeps the sliding window of action-distribution drift used by
// the optional early-stop criterion.
type stopTracker struct {
	cfg    *EarlyStop
	prev   []float64
	cur    []float64
	drifts []float64
	rounds int
	total  float64
}

func newStopTracker(spec *GameSpec, batch int, cfg *EarlyStop) *stopTracker {
	na := spec.MaxActions()
	return &stopTracker{
		cfg:    cfg,
		prev:   make([]float64, na),
		cur:    make([]float64, na),
		drifts: make([]float64, 0, cfg.Window),
		total:  float64(batch * spec.Players),
	}
}

func (st *stopTracker) converged(actions *etensor.Int) bool {
	for i := range st.cur {
		st.cur[i] = 0
	}
	for _, a := range actions.Values {
		st.cur[a]++
	}
	drift := 0.0
	for i := range st.cur {
		st.cur[i] /= st.total
		drift += math.Abs(st.cur[i] - st.prev[i])
	}
	st.prev, st.cur = st.cur, st.prev
	st.rounds++
	if st.rounds == 1 {
		// no previous distribution to compare against
		return false
	}
	st.drifts = append(st.drifts, drift)
	if len(st.drifts) < st.cfg.Window {
		return false
	}
	if len(st.drifts) > st.cfg.Window {
		st.drifts = st.drifts[1:]
	}
	for _, d := range st.drifts {
		if d >= st.cfg.Threshold {
			return false
		}
	}
	return true
}
