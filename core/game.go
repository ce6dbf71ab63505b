package core

import (
	"errors"
	"fmt"

	"github.com/emer/etable/etensor"
)

var (
	// ErrInvalidAction is returned when an action index falls outside a
	// player's valid range.
	ErrInvalidAction = errors.New("action index out of range")
	// ErrInvalidParameter is returned when a learning rate, discount,
	// temperature or exploration rate is outside its valid domain.
	ErrInvalidParameter = errors.New("parameter outside valid domain")
	// ErrConfigMismatch is returned when a population or configuration
	// disagrees with the game spec it is used with.
	ErrConfigMismatch = errors.New("configuration mismatch")
)

// Game is the contract every game family implements. A game is a pure
// function of its fixed configuration and the inputs to Payoff: no hidden
// mutable state, no implicit randomness.
//
// Payoff computes per-player rewards for a whole batch of joint actions in
// one call. actions and rewards have shape (batch, players). For stateful
// games states holds the current state index per (batch, player) and next is
// filled with the transition; stateless games receive next == nil and must
// ignore states beyond indexing (every member sits at state 0).
type Game interface {
	Spec() *GameSpec
	Payoff(actions *etensor.Int, states *etensor.Int, rewards *etensor.Float64, next *etensor.Int) error
}

// ValidateActions checks every action index in the batch against the spec's
// per-player range. Games call this before evaluating payoffs so a contract
// violation surfaces at the point of the bad index.
func ValidateActions(spec *GameSpec, actions *etensor.Int) error {
	if actions.NumDims() != 2 || actions.Dim(1) != spec.Players {
		return fmt.Errorf("%w: action tensor has %d player columns, spec has %d players", ErrConfigMismatch, actions.Dim(actions.NumDims()-1), spec.Players)
	}
	batch := actions.Dim(0)
	for b := 0; b < batch; b++ {
		base := b * spec.Players
		for p := 0; p < spec.Players; p++ {
			a := actions.Values[base+p]
			if a < 0 || a >= spec.Actions[p] {
				return fmt.Errorf("%w: batch %d player %d action %d (valid range [0,%d))",
					ErrInvalidAction, b, p, a, spec.Actions[p])
			}
		}
	}
	return nil
}
