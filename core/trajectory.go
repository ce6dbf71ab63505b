package core

import (
	"fmt"
	"math"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// Trajectory is the append-only record of a simulation run: one row per
// round holding the joint actions, per-player rewards, state indices for
// stateful games, the summed update magnitude, and (opt-in) full Q-table
// snapshots per player. It is the sole interface the external plotting and
// analysis layers consume; rows are never mutated after recording.
type Trajectory struct {
	Table *etable.Table

	spec      *GameSpec
	batch     int
	recordQ   bool
	nonFinite int
}

// NewTrajectory creates an empty trajectory for the given spec and batch
// size. recordQ opts in to per-round Q-table snapshots.
func NewTrajectory(spec *GameSpec, batch int, recordQ bool) *Trajectory {
	sch := etable.Schema{
		{Name: "Round", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Actions", Type: etensor.INT64, CellShape: []int{batch, spec.Players}, DimNames: []string{"Batch", "Player"}},
		{Name: "Rewards", Type: etensor.FLOAT64, CellShape: []int{batch, spec.Players}, DimNames: []string{"Batch", "Player"}},
		{Name: "QDelta", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}
	if spec.Stateful() {
		sch = append(sch, etable.Column{Name: "States", Type: etensor.INT64, CellShape: []int{batch, spec.Players}, DimNames: []string{"Batch", "Player"}})
	}
	if recordQ {
		for p := 0; p < spec.Players; p++ {
			sch = append(sch, etable.Column{
				Name:      QColumn(p),
				Type:      etensor.FLOAT64,
				CellShape: []int{batch, spec.States, spec.Actions[p]},
				DimNames:  []string{"Batch", "State", "Action"},
			})
		}
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, 0)
	dt.SetMetaData("name", "Trajectory")
	return &Trajectory{
		Table:     dt,
		spec:      spec,
		batch:     batch,
		recordQ:   recordQ,
		nonFinite: -1,
	}
}

// QColumn is the trajectory column name of player p's Q snapshot.
func QColumn(player int) string {
	return fmt.Sprintf("Q%d", player)
}

// Record appends one round. The population is read after the round's update
// (and transition, for stateful games) has been applied.
func (tr *Trajectory) Record(round int, actions *etensor.Int, rewards *etensor.Float64, pop *Population, qDelta float64) {
	row := tr.Table.Rows
	tr.Table.SetNumRows(row + 1)
	tr.Table.SetCellFloat("Round", row, float64(round))
	tr.Table.SetCellTensor("Actions", row, actions)
	tr.Table.SetCellTensor("Rewards", row, rewards)
	tr.Table.SetCellFloat("QDelta", row, qDelta)
	if tr.spec.Stateful() {
		tr.Table.SetCellTensor("States", row, pop.States)
	}
	if tr.recordQ {
		for p, q := range pop.QTables {
			tr.Table.SetCellTensor(QColumn(p), row, q)
		}
	}
	if tr.nonFinite < 0 {
		for _, r := range rewards.Values {
			if math.IsNaN(r) || math.IsInf(r, 0) {
				tr.nonFinite = round
				break
			}
		}
	}
	if tr.nonFinite < 0 && pop.NonFinite() {
		tr.nonFinite = round
	}
}

// Len is the number of recorded rounds.
func (tr *Trajectory) Len() int {
	return tr.Table.Rows
}

// Batch is the number of independent batch members recorded per round.
func (tr *Trajectory) Batch() int {
	return tr.batch
}

// Spec returns the game spec the trajectory was recorded against.
func (tr *Trajectory) Spec() *GameSpec {
	return tr.spec
}

// Action returns the action of (member, player) at the given round.
func (tr *Trajectory) Action(round, member, player int) int {
	cell := tr.Table.CellTensor("Actions", round)
	return int(cell.FloatVal1D(member*tr.spec.Players + player))
}

// Reward returns the reward of (member, player) at the given round.
func (tr *Trajectory) Reward(round, member, player int) float64 {
	cell := tr.Table.CellTensor("Rewards", round)
	return cell.FloatVal1D(member*tr.spec.Players + player)
}

// State returns the state index of (member, player) after the given round's
// transition. Only stateful games record states.
func (tr *Trajectory) State(round, member, player int) int {
	cell := tr.Table.CellTensor("States", round)
	return int(cell.FloatVal1D(member*tr.spec.Players + player))
}

// QDelta returns the summed update magnitude of the given round.
func (tr *Trajectory) QDelta(round int) float64 {
	return tr.Table.CellFloat("QDelta", round)
}

// NonFiniteRound reports the first recorded round at which a reward or Q
// value was NaN or infinite, or -1 if every recorded value was finite. The
// check happens as rows are recorded, so reading it costs nothing.
func (tr *Trajectory) NonFiniteRound() int {
	return tr.nonFinite
}
