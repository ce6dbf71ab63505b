// Package analysis post-processes trajectories into datasets external
// tooling can plot or compare: welfare over time, action distributions, and
// numeric-health checks. Analyzers accumulate over the trajectories of one
// experiment; comparators consume the datasets of several experiments.
package analysis

import "github.com/zeu5/game-dynamics/core"

type DataSet interface{}

type Analyzer interface {
	Analyze(*core.Trajectory)
	DataSet() DataSet
	Reset()
}

// AnalyzerConstructor builds a fresh analyzer per experiment so that
// concurrent experiments never share analyzer state.
type AnalyzerConstructor interface {
	NewAnalyzer() Analyzer
}

type Comparator interface {
	Compare(names []string, datasets []DataSet)
}
