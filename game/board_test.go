package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateBoard(t *testing.T) {
	board := MustStandardBoard()

	t.Run("tile table covers the loop and four home columns", func(t *testing.T) {
		require.Equal(t, 68+4*8, board.Len())
		for i, tile := range board.Tiles() {
			require.Equal(t, i, tile.Index, "Tile index should match its position")
		}
	})

	t.Run("start tiles", func(t *testing.T) {
		require.Equal(t, []int{4, 21, 38, 55}, board.StartTiles())
		for p, start := range board.StartTiles() {
			require.Equal(t, Start, board.Tile(start).Type)
			require.Equal(t, p, board.Tile(start).Owner)
			require.True(t, board.IsPlayerStart(start, p))
		}
	})

	t.Run("home entry tiles", func(t *testing.T) {
		require.Equal(t, []int{67, 16, 33, 50}, board.HomeEntryTiles())
		for _, i := range []int{67, 16, 33, 50} {
			require.Equal(t, HomeEntry, board.Tile(i).Type)
		}
	})

	t.Run("home columns", func(t *testing.T) {
		require.Equal(t, []int{68, 76, 84, 92}, board.FirstHomeRowTiles())
		require.Equal(t, []int{75, 83, 91, 99}, board.HomeTiles())
		for p := 0; p < 4; p++ {
			require.Equal(t, Home, board.Tile(67+8*(p+1)).Type)
			for i := board.FirstHomeRowTile(p); i < board.HomeTile(p); i++ {
				require.Equal(t, HomeRow, board.Tile(i).Type)
				require.Equal(t, p, board.Tile(i).Owner)
			}
		}
	})

	t.Run("safe tiles", func(t *testing.T) {
		for _, i := range []int{11, 28, 45, 62} {
			require.Equal(t, Safe, board.Tile(i).Type)
			require.Equal(t, -1, board.Tile(i).Owner)
			require.True(t, board.IsSafe(i))
		}
		require.True(t, board.IsSafe(4), "Start tiles are safe")
		require.True(t, board.IsSafe(16), "Home entry tiles are safe")
		require.False(t, board.IsSafe(8))
		require.False(t, board.IsSafe(70), "Home rows are not shared tiles")
	})

	t.Run("regenerating yields the same board", func(t *testing.T) {
		again, err := GenerateBoard(StandardLayout())
		require.NoError(t, err)
		require.Equal(t, board.Tiles(), again.Tiles())
	})
}

func TestGenerateBoardRejectsBadLayouts(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(l *Layout)
		field string
	}{
		{"no players", func(l *Layout) { l.Players = 0 }, "layout.players"},
		{"empty track", func(l *Layout) { l.MainTrack = 0 }, "layout.mainTrack"},
		{"home column without rows", func(l *Layout) { l.HomeColumn = 1 }, "layout.homeColumn"},
		{"quarters overflow the track", func(l *Layout) { l.Stride = 30 }, "layout.stride"},
		{"entry outside the track", func(l *Layout) { l.EntryBeforeStart = 0 }, "layout.entryBeforeStart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := StandardLayout()
			tt.edit(&layout)

			board, err := GenerateBoard(layout)

			require.Nil(t, board)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestTileTypeString(t *testing.T) {
	require.Equal(t, "HomeEntry", HomeEntry.String())
	require.Equal(t, "TileType(42)", TileType(42).String())
}
