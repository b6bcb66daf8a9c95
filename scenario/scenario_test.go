package scenario

import (
	"strings"
	"testing"

	"parchis/game"

	"github.com/stretchr/testify/require"
)

const blockadeScenario = `
title: Blockade must be broken
current: 0
pieces:
  - {player: 0, piece: 0, tile: 25}
  - {player: 0, piece: 1, tile: 25}
  - {player: 0, piece: 2, tile: 5}
  - {player: 1, piece: 0, tile: 8}
`

func newState(t *testing.T) *game.State {
	t.Helper()
	state, err := game.NewState(game.MustStandardBoard(), []int{0, 1, 2, 3}, 4)
	require.NoError(t, err)
	return state
}

func TestLoadAndApply(t *testing.T) {
	s, err := Load(strings.NewReader(blockadeScenario))
	require.NoError(t, err)
	require.Equal(t, "Blockade must be broken", s.Title)
	require.Len(t, s.Pieces, 4)

	state := newState(t)
	require.NoError(t, s.Apply(state))

	require.Equal(t, 2, state.CountAt(25))
	p, _ := state.PieceBySlot(1, 0)
	require.Equal(t, 8, p.Tile)
	p, _ = state.PieceBySlot(0, 3)
	require.True(t, p.InBase(), "Unlisted pieces stay in base")

	board := state.Board
	m, err := game.NewMachine(state, game.NewRules(board, game.NewStandardRules()), []int{0, 1, 2, 3},
		game.WithFirstPlayer(s.Current))
	require.NoError(t, err)
	require.NoError(t, m.RollDice(3, 3))
	require.Equal(t, []int{0, 1}, m.SortedPieceIDs(), "Only the blockade pieces may move on doubles")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		scenario Scenario
	}{
		{"current player out of range", Scenario{Current: 4}},
		{"unknown player", Scenario{Pieces: []Entry{{Player: 5, Piece: 0, Tile: 1}}}},
		{"unknown piece", Scenario{Pieces: []Entry{{Player: 0, Piece: 4, Tile: 1}}}},
		{"tile out of range", Scenario{Pieces: []Entry{{Player: 0, Piece: 0, Tile: 100}}}},
		{"piece placed twice", Scenario{Pieces: []Entry{{Player: 0, Piece: 0, Tile: 1}, {Player: 0, Piece: 0, Tile: 2}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newState(t)
			err := tt.scenario.Apply(state)
			var cfgErr *game.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, 0, state.CountAt(1), "A rejected scenario changes nothing")
		})
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("title: x\nplayers: 3\n"))
	require.Error(t, err)
}
