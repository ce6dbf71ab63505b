package games

import (
	"context"
	"math"
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/zeu5/game-dynamics/core"
	"github.com/zeu5/game-dynamics/policies"
)

func classicDilemma(t *testing.T) *PrisonersDilemma {
	t.Helper()
	g, err := NewPrisonersDilemma(PrisonersDilemmaConfig{
		Reward: 3, Temptation: 5, Sucker: 0, Punishment: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestPrisonersDilemmaPayoffTable(t *testing.T) {
	g := classicDilemma(t)

	cases := []struct {
		a0, a1   int
		r0, r1   float64
		defected int
	}{
		{0, 0, 3, 3, 0},
		{0, 1, 0, 5, 1},
		{1, 0, 5, 0, 1},
		{1, 1, 1, 1, 2},
	}
	actions := etensor.NewInt([]int{1, 2}, nil, []string{"Batch", "Player"})
	rewards := etensor.NewFloat64([]int{1, 2}, nil, []string{"Batch", "Player"})
	states := etensor.NewInt([]int{1, 2}, nil, []string{"Batch", "Player"})
	next := etensor.NewInt([]int{1, 2}, nil, []string{"Batch", "Player"})
	for _, c := range cases {
		actions.Values[0], actions.Values[1] = c.a0, c.a1
		if err := g.Payoff(actions, states, rewards, next); err != nil {
			t.Fatal(err)
		}
		if rewards.Values[0] != c.r0 || rewards.Values[1] != c.r1 {
			t.Errorf("(%d,%d): rewards (%v,%v), want (%v,%v)",
				c.a0, c.a1, rewards.Values[0], rewards.Values[1], c.r0, c.r1)
		}
		if next.Values[0] != c.defected || next.Values[1] != c.defected {
			t.Errorf("(%d,%d): next state (%d,%d), want %d for both",
				c.a0, c.a1, next.Values[0], next.Values[1], c.defected)
		}
	}
}

// defectionRate plays the dilemma with a fixed epsilon and reports the
// fraction of defections over the last 200 rounds.
func defectionRate(t *testing.T, eps float64) float64 {
	t.Helper()
	g := classicDilemma(t)
	const batch = 20
	pop := core.NewPopulation(g.Spec(), batch)
	d := core.NewDriver(g, policies.NewEpsilonGreedy(eps), policies.NewBellman(0.1, 0.9), core.DriverConfig{Rounds: 1000})
	traj, err := d.Run(context.Background(), pop, core.NewStreams(101, batch))
	if err != nil {
		t.Fatal(err)
	}
	defects, total := 0, 0
	for r := traj.Len() - 200; r < traj.Len(); r++ {
		for b := 0; b < batch; b++ {
			for p := 0; p < 2; p++ {
				if traj.Action(r, b, p) == 1 {
					defects++
				}
				total++
			}
		}
	}
	return float64(defects) / float64(total)
}

func TestDilemmaDefectionGrowsAsExplorationShrinks(t *testing.T) {
	if testing.Short() {
		t.Skip("long simulation")
	}
	high := defectionRate(t, 0.5)
	low := defectionRate(t, 0.05)
	if low <= high {
		t.Errorf("defection rate %v at eps 0.05 not above %v at eps 0.5", low, high)
	}
	// defection strictly dominates, so near-greedy play should mostly defect
	if low < 0.8 {
		t.Errorf("defection rate %v at eps 0.05, want mostly defection", low)
	}
}

func TestDuopolyPayoffs(t *testing.T) {
	g, err := NewDuopoly(DuopolyConfig{Levels: 5, MinPrice: 0, MaxPrice: 1})
	if err != nil {
		t.Fatal(err)
	}
	// price grid 0, 0.25, 0.5, 0.75, 1

	actions := etensor.NewInt([]int{1, 2}, nil, []string{"Batch", "Player"})
	rewards := etensor.NewFloat64([]int{1, 2}, nil, []string{"Batch", "Player"})
	states := etensor.NewInt([]int{1, 2}, nil, []string{"Batch", "Player"})
	next := etensor.NewInt([]int{1, 2}, nil, []string{"Batch", "Player"})

	// undercutting firm captures the demand
	actions.Values[0], actions.Values[1] = 1, 3
	if err := g.Payoff(actions, states, rewards, next); err != nil {
		t.Fatal(err)
	}
	if want := (1 - 0.25) * 0.25; math.Abs(rewards.Values[0]-want) > 1e-12 {
		t.Errorf("low-price firm reward %v, want %v", rewards.Values[0], want)
	}
	if rewards.Values[1] != 0 {
		t.Errorf("high-price firm reward %v, want 0", rewards.Values[1])
	}
	// each firm's next state is the opponent's move
	if next.Values[0] != 3 || next.Values[1] != 1 {
		t.Errorf("next states (%d,%d), want (3,1)", next.Values[0], next.Values[1])
	}

	// ties split the demand
	actions.Values[0], actions.Values[1] = 2, 2
	if err := g.Payoff(actions, states, rewards, next); err != nil {
		t.Fatal(err)
	}
	if want := 0.5 * (1 - 0.5); rewards.Values[0] != want || rewards.Values[1] != want {
		t.Errorf("tie rewards (%v,%v), want %v each", rewards.Values[0], rewards.Values[1], want)
	}
}
