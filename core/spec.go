package core

import "fmt"

// GameSpec describes the structure of one game instance: how many players
// take part, how many actions each player has, and the size of the finite
// state set. It is built once per configuration and never mutated; all batch
// members share the same spec.
//
// Stateless repeated games use States == 1 with every batch member pinned to
// state 0, so the same simulation loop serves stateful and stateless games.
type GameSpec struct {
	Players int
	Actions []int // action count per player
	States  int
}

// UniformSpec builds a spec where every player has the same action count.
func UniformSpec(players, actions, states int) *GameSpec {
	acts := make([]int, players)
	for i := range acts {
		acts[i] = actions
	}
	return &GameSpec{
		Players: players,
		Actions: acts,
		States:  states,
	}
}

func (gs *GameSpec) Validate() error {
	if gs.Players <= 0 {
		return fmt.Errorf("%w: players must be positive, got %d", ErrConfigMismatch, gs.Players)
	}
	if len(gs.Actions) != gs.Players {
		return fmt.Errorf("%w: %d action counts for %d players", ErrConfigMismatch, len(gs.Actions), gs.Players)
	}
	for p, na := range gs.Actions {
		if na <= 0 {
			return fmt.Errorf("%w: player %d has %d actions", ErrConfigMismatch, p, na)
		}
	}
	if gs.States < 1 {
		return fmt.Errorf("%w: states must be >= 1, got %d", ErrConfigMismatch, gs.States)
	}
	return nil
}

// Stateful reports whether the game carries state across rounds.
func (gs *GameSpec) Stateful() bool {
	return gs.States > 1
}

// MaxActions is the largest per-player action count, used to size scratch
// buffers shared across players.
func (gs *GameSpec) MaxActions() int {
	m := 0
	for _, na := range gs.Actions {
		if na > m {
			m = na
		}
	}
	return m
}

func (gs *GameSpec) Equal(other *GameSpec) bool {
	if gs.Players != other.Players || gs.States != other.States || len(gs.Actions) != len(other.Actions) {
		return false
	}
	for p, na := range gs.Actions {
		if other.Actions[p] != na {
			return false
		}
	}
	return true
}
