// Package game implements the Parchís rules: board topology, the rules engine
// that resolves a single piece move, and the turn state machine that drives
// dice rolls, move choices, bonuses and turn order.
package game

import (
	"errors"
	"fmt"
)

// Invalid player actions. They never change the game state.
var (
	ErrWrongPhase       = errors.New("action not allowed in the current phase")
	ErrNotCurrentPlayer = errors.New("piece does not belong to the current player")
	ErrNoLegalMoves     = errors.New("piece has no legal moves")
	ErrInvalidOption    = errors.New("move option index out of range")
	ErrMovePending      = errors.New("a move is still being animated")
	ErrInvalidDice      = errors.New("dice values must be between 0 and 6")
	ErrUnknownPiece     = errors.New("unknown piece")
)

// ConfigError reports a malformed board, rule set or piece setup.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
}
