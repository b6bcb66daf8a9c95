package config

import (
	"os"
	"path/filepath"
	"testing"

	"parchis/game"
	"parchis/meta"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, game.NewStandardRules(), cfg.RuleSet())
	require.Equal(t, meta.PIECES_PER_PLAYER, cfg.Rules.PiecesPerPlayer)
	require.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
players: 2
chooser: first
logLevel: debug
rules:
  captureBonus: 10
  strictBlockadeBreak: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Players)
	require.Equal(t, "first", cfg.Chooser)
	require.Equal(t, zerolog.DebugLevel, cfg.Level())

	set := cfg.RuleSet()
	require.Equal(t, 10, set.CaptureBonus)
	require.True(t, set.StrictBlockadeBreak)
	require.Equal(t, 5, set.StartRoll, "Missing keys keep their default")
	require.Equal(t, 100, cfg.Games)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"player count", "players: 5\n"},
		{"chooser", "chooser: smart\n"},
		{"log level", "logLevel: loud\n"},
		{"rules", "rules:\n  startRoll: 13\n"},
		{"games", "games: 0\n"},
		{"not yaml", "players: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			var cfgErr *game.ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Seed = 99
	cfg.Rules.EndOnFirstFinish = true
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, cfg.WriteFile(path, 0644))
	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, *loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
