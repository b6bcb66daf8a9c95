package main

import (
	"os"
	"path/filepath"
	"testing"

	"parchis/engine"
	"parchis/game"
	"parchis/player"
	"parchis/replay"

	"github.com/stretchr/testify/require"
)

func TestRunReplaySeating(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("players: 4\nlogLevel: warn\n"), 0644))

	path := filepath.Join(dir, "two-players.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	choosers := []player.Chooser{player.NewRandom(1), player.NewRandom(2)}
	e, err := engine.LocalEngine(game.NewStandardRules(), []int{0, 2}, choosers,
		engine.WithSeed(3), engine.WithMaxTurns(50), engine.WithReplay(f))
	require.NoError(t, err)
	_, err = e.Run()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	t.Run("wrong seat count names the flag", func(t *testing.T) {
		err := runReplay([]string{"-config", cfgPath, path})
		require.ErrorIs(t, err, replay.ErrDesync)
		require.ErrorContains(t, err, "-players")
	})

	t.Run("recorded seat count replays", func(t *testing.T) {
		require.NoError(t, runReplay([]string{"-config", cfgPath, "-players", "2", path}))
	})
}
