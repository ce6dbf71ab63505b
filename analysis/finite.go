package analysis

import (
	"github.com/zeu5/game-dynamics/core"
)

type NonFiniteDataSet struct {
	// FirstRound is the earliest recorded round with a NaN or infinite
	// value, or -1 if all values stayed finite.
	FirstRound int
}

// NonFiniteAnalyzer surfaces numeric divergence after a run. Divergence is a
// configuration problem, not an engine failure, so it is reported rather
// than raised.
type NonFiniteAnalyzer struct {
	first int
}

var _ Analyzer = &NonFiniteAnalyzer{}

func NewNonFiniteAnalyzer() *NonFiniteAnalyzer {
	return &NonFiniteAnalyzer{first: -1}
}

func (n *NonFiniteAnalyzer) Reset() {
	n.first = -1
}

func (n *NonFiniteAnalyzer) Analyze(traj *core.Trajectory) {
	if n.first < 0 {
		n.first = traj.NonFiniteRound()
	}
}

func (n *NonFiniteAnalyzer) DataSet() DataSet {
	return &NonFiniteDataSet{FirstRound: n.first}
}

type NonFiniteAnalyzerConstructor struct{}

var _ AnalyzerConstructor = &NonFiniteAnalyzerConstructor{}

func NewNonFiniteAnalyzerConstructor() *NonFiniteAnalyzerConstructor {
	return &NonFiniteAnalyzerConstructor{}
}

func (c *NonFiniteAnalyzerConstructor) NewAnalyzer() Analyzer {
	return NewNonFiniteAnalyzer()
}
