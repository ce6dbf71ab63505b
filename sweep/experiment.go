// Package sweep runs batches of independent simulations — parameter-sweep
// members, Monte-Carlo repeats, policy comparisons — across a pool of
// workers. Each experiment owns a private game, population and random
// stream; workers share nothing mutable.
package sweep

import (
	"github.com/zeu5/game-dynamics/analysis"
	"github.com/zeu5/game-dynamics/core"
)

// Experiment is one self-contained simulation: a game, the learning
// machinery, a batch size, and the seed its random streams derive from.
type Experiment struct {
	Name       string
	Game       core.Game
	Policy     core.Policy
	Update     core.UpdateRule
	Transforms []core.Transform
	Config     core.DriverConfig
	Batch      int
	Seed       uint64

	// InitQ optionally initializes Q values before the run; the default
	// is all zeros.
	InitQ func(*core.Population, *core.Streams)
}

// Result is the outcome of one experiment: the trajectory, the datasets the
// sweep's analyzers extracted from it, and the error if the run failed.
type Result struct {
	Name       string
	Trajectory *core.Trajectory
	Status     core.Status
	Datasets   map[string]analysis.DataSet
	Err        error
}

// Sweep is a set of experiments analyzed and compared together.
type Sweep struct {
	Experiments []*Experiment
	Analyzers   map[string]analysis.AnalyzerConstructor
	Comparators map[string]analysis.Comparator
}

func NewSweep() *Sweep {
	return &Sweep{
		Experiments: make([]*Experiment, 0),
		Analyzers:   make(map[string]analysis.AnalyzerConstructor),
		Comparators: make(map[string]analysis.Comparator),
	}
}

func (s *Sweep) AddExperiment(e *Experiment) {
	s.Experiments = append(s.Experiments, e)
}

func (s *Sweep) AddAnalysis(name string, ac analysis.AnalyzerConstructor, cmp analysis.Comparator) {
	s.Analyzers[name] = ac
	s.Comparators[name] = cmp
}
