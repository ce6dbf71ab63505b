package policies

import (
	"errors"
	"math"
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/zeu5/game-dynamics/core"
)

func selectInto(t *testing.T, p core.Policy, pop *core.Population, streams *core.Streams, round int) *etensor.Int {
	t.Helper()
	actions := etensor.NewInt([]int{pop.Batch, pop.Spec.Players}, nil, []string{"Batch", "Player"})
	rctx := &core.RoundContext{Round: round, Rounds: 1000}
	if err := p.SelectActions(rctx, pop, actions, streams); err != nil {
		t.Fatalf("select actions: %v", err)
	}
	return actions
}

func TestEpsilonGreedyExploitsArgmax(t *testing.T) {
	spec := core.UniformSpec(1, 3, 1)
	pop := core.NewPopulation(spec, 2)
	if err := pop.InitValues(0, [][]float64{{0.1, 0.9, 0.4}}); err != nil {
		t.Fatal(err)
	}
	streams := core.NewStreams(11, 2)

	p := NewEpsilonGreedy(0)
	for round := 0; round < 20; round++ {
		actions := selectInto(t, p, pop, streams, round)
		for b := 0; b < 2; b++ {
			if a := actions.Values[b]; a != 1 {
				t.Fatalf("member %d chose %d, want argmax 1", b, a)
			}
		}
	}
}

func TestEpsilonGreedyTieBreaksLowestIndex(t *testing.T) {
	spec := core.UniformSpec(1, 4, 1)
	pop := core.NewPopulation(spec, 1)
	if err := pop.InitValues(0, [][]float64{{0.5, 0.5, 0.5, 0.2}}); err != nil {
		t.Fatal(err)
	}
	streams := core.NewStreams(1, 1)

	p := NewEpsilonGreedy(0)
	for round := 0; round < 10; round++ {
		actions := selectInto(t, p, pop, streams, round)
		if a := actions.Values[0]; a != 0 {
			t.Fatalf("tie broke to %d, want lowest index 0", a)
		}
	}
}

func TestEpsilonGreedyFullExplorationIsUniform(t *testing.T) {
	spec := core.UniformSpec(1, 2, 1)
	pop := core.NewPopulation(spec, 1)
	// bias the table hard; epsilon 1 must ignore it
	if err := pop.InitValues(0, [][]float64{{100, -100}}); err != nil {
		t.Fatal(err)
	}
	streams := core.NewStreams(17, 1)

	p := NewEpsilonGreedy(1)
	const n = 10000
	counts := [2]int{}
	for round := 0; round < n; round++ {
		actions := selectInto(t, p, pop, streams, round)
		counts[actions.Values[0]]++
	}
	// six standard deviations of Binomial(10000, 0.5)
	if d := math.Abs(float64(counts[0]) - n/2); d > 300 {
		t.Errorf("action counts %v too far from uniform", counts)
	}
}

func TestEpsilonGreedyInvalidEpsilon(t *testing.T) {
	spec := core.UniformSpec(1, 2, 1)
	pop := core.NewPopulation(spec, 1)
	streams := core.NewStreams(1, 1)
	actions := etensor.NewInt([]int{1, 1}, nil, []string{"Batch", "Player"})
	rctx := &core.RoundContext{Round: 0, Rounds: 1}

	for _, eps := range []float64{-0.1, 1.5} {
		p := NewEpsilonGreedy(eps)
		err := p.SelectActions(rctx, pop, actions, streams)
		if !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("epsilon %v: got %v, want invalid parameter", eps, err)
		}
	}
}

func TestEpsilonGreedyPerMemberLengthMismatch(t *testing.T) {
	spec := core.UniformSpec(1, 2, 1)
	pop := core.NewPopulation(spec, 3)
	streams := core.NewStreams(1, 3)
	actions := etensor.NewInt([]int{3, 1}, nil, []string{"Batch", "Player"})
	rctx := &core.RoundContext{Round: 0, Rounds: 1}

	p := NewEpsilonGreedyPerMember([]float64{0.1, 0.2})
	err := p.SelectActions(rctx, pop, actions, streams)
	if !errors.Is(err, core.ErrConfigMismatch) {
		t.Errorf("got %v, want config mismatch", err)
	}
}

func TestDecaySchedule(t *testing.T) {
	ds := &DecaySchedule{Start: 1, End: 0.05, Decay: 100}
	if err := ds.Validate(); err != nil {
		t.Fatal(err)
	}
	if got := ds.At(0); got != 1 {
		t.Errorf("eps(0) = %v, want 1", got)
	}
	prev := ds.At(0)
	for _, tt := range []int{10, 100, 1000, 10000} {
		cur := ds.At(tt)
		if cur >= prev {
			t.Errorf("eps(%d) = %v did not decrease from %v", tt, cur, prev)
		}
		prev = cur
	}
	if got := ds.At(1 << 20); math.Abs(got-0.05) > 1e-6 {
		t.Errorf("eps at large t = %v, want to approach 0.05", got)
	}

	bad := &DecaySchedule{Start: 1.2, End: 0, Decay: 10}
	if err := bad.Validate(); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("got %v, want invalid parameter", err)
	}
	bad = &DecaySchedule{Start: 1, End: 0, Decay: 0}
	if err := bad.Validate(); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("got %v, want invalid parameter", err)
	}
}
