package analysis

import (
	"github.com/zeu5/game-dynamics/core"
)

type ActionDistDataSet struct {
	// Dist[r][a] is the empirical probability of action a at round r,
	// pooled over batch members and players.
	Dist [][]float64
}

// ActionDistAnalyzer tracks the empirical action distribution per round.
// External plotting reconstructs action-share and simplex views from it.
type ActionDistAnalyzer struct {
	dist [][]float64
}

var _ Analyzer = &ActionDistAnalyzer{}

func NewActionDistAnalyzer() *ActionDistAnalyzer {
	return &ActionDistAnalyzer{dist: make([][]float64, 0)}
}

func (a *ActionDistAnalyzer) Reset() {
	a.dist = make([][]float64, 0)
}

func (a *ActionDistAnalyzer) Analyze(traj *core.Trajectory) {
	spec := traj.Spec()
	total := float64(traj.Batch() * spec.Players)
	for r := 0; r < traj.Len(); r++ {
		counts := make([]float64, spec.MaxActions())
		for b := 0; b < traj.Batch(); b++ {
			for p := 0; p < spec.Players; p++ {
				counts[traj.Action(r, b, p)]++
			}
		}
		for i := range counts {
			counts[i] /= total
		}
		a.dist = append(a.dist, counts)
	}
}

func (a *ActionDistAnalyzer) DataSet() DataSet {
	out := make([][]float64, len(a.dist))
	for i, d := range a.dist {
		out[i] = make([]float64, len(d))
		copy(out[i], d)
	}
	return &ActionDistDataSet{Dist: out}
}

type ActionDistAnalyzerConstructor struct{}

var _ AnalyzerConstructor = &ActionDistAnalyzerConstructor{}

func NewActionDistAnalyzerConstructor() *ActionDistAnalyzerConstructor {
	return &ActionDistAnalyzerConstructor{}
}

func (c *ActionDistAnalyzerConstructor) NewAnalyzer() Analyzer {
	return NewActionDistAnalyzer()
}
