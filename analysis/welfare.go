package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/zeu5/game-dynamics/core"
)

// WelfareKind selects how one batch member's per-player rewards aggregate
// into a welfare value.
type WelfareKind int

const (
	AverageWelfare WelfareKind = iota
	MinWelfare
	MaxWelfare
)

type WelfareDataSet struct {
	// Welfare[r] is the welfare at round r, averaged over batch members.
	Welfare []float64
}

// WelfareAnalyzer reduces rewards to a per-round welfare series. Average
// welfare divides the reward sum by the player count; min and max take the
// worst and best-off player.
type WelfareAnalyzer struct {
	kind    WelfareKind
	welfare []float64
}

var _ Analyzer = &WelfareAnalyzer{}

func NewWelfareAnalyzer(kind WelfareKind) *WelfareAnalyzer {
	return &WelfareAnalyzer{kind: kind, welfare: make([]float64, 0)}
}

func (w *WelfareAnalyzer) Reset() {
	w.welfare = make([]float64, 0)
}

func (w *WelfareAnalyzer) Analyze(traj *core.Trajectory) {
	spec := traj.Spec()
	members := make([]float64, traj.Batch())
	for r := 0; r < traj.Len(); r++ {
		for b := 0; b < traj.Batch(); b++ {
			members[b] = w.memberWelfare(traj, r, b, spec.Players)
		}
		w.welfare = append(w.welfare, stat.Mean(members, nil))
	}
}

func (w *WelfareAnalyzer) memberWelfare(traj *core.Trajectory, round, member, players int) float64 {
	switch w.kind {
	case MinWelfare:
		m := traj.Reward(round, member, 0)
		for p := 1; p < players; p++ {
			if r := traj.Reward(round, member, p); r < m {
				m = r
			}
		}
		return m
	case MaxWelfare:
		m := traj.Reward(round, member, 0)
		for p := 1; p < players; p++ {
			if r := traj.Reward(round, member, p); r > m {
				m = r
			}
		}
		return m
	default:
		sum := 0.0
		for p := 0; p < players; p++ {
			sum += traj.Reward(round, member, p)
		}
		return sum / float64(players)
	}
}

func (w *WelfareAnalyzer) DataSet() DataSet {
	out := make([]float64, len(w.welfare))
	copy(out, w.welfare)
	return &WelfareDataSet{Welfare: out}
}

type WelfareAnalyzerConstructor struct {
	kind WelfareKind
}

var _ AnalyzerConstructor = &WelfareAnalyzerConstructor{}

func NewWelfareAnalyzerConstructor(kind WelfareKind) *WelfareAnalyzerConstructor {
	return &WelfareAnalyzerConstructor{kind: kind}
}

func (c *WelfareAnalyzerConstructor) NewAnalyzer() Analyzer {
	return NewWelfareAnalyzer(c.kind)
}
