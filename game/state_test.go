package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	board := MustStandardBoard()

	s, err := NewState(board, []int{0, 2}, 4)
	require.NoError(t, err)
	require.Equal(t, 8, s.Len())
	for i, p := range s.PiecesOf(2) {
		require.Equal(t, i, p.Slot)
		require.True(t, p.InBase())
		require.Zero(t, p.LastMoved)
	}
	require.Empty(t, s.PiecesOf(1))

	_, err = NewState(board, []int{0, 1}, 0)
	require.Error(t, err)
}

func TestAddPieceRejectsBadInput(t *testing.T) {
	s := NewEmptyState(MustStandardBoard())

	_, err := s.AddPiece(4, Base)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "piece.owner", cfgErr.Field)

	_, err = s.AddPiece(0, 100)
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "piece.tile", cfgErr.Field)
}

func TestStateMutation(t *testing.T) {
	board := MustStandardBoard()
	s := newTestState(t, board, testPiece{0, Base}, testPiece{0, 10}, testPiece{1, 10})

	t.Run("arrivals advance the logical clock", func(t *testing.T) {
		first := piece(t, s, 1).LastMoved
		second := piece(t, s, 2).LastMoved
		require.Greater(t, second, first)

		s.MoveToTile(0, 4)
		require.Equal(t, 4, piece(t, s, 0).Tile)
		require.Greater(t, piece(t, s, 0).LastMoved, second)
	})

	t.Run("queries", func(t *testing.T) {
		require.Equal(t, 2, s.CountAt(10))
		require.Len(t, s.PiecesAt(10), 2)
		p, ok := s.PieceBySlot(1, 0)
		require.True(t, ok)
		require.Equal(t, 2, p.ID)
		_, ok = s.PieceBySlot(3, 0)
		require.False(t, ok)
		_, ok = s.Piece(42)
		require.False(t, ok)
	})

	t.Run("copies do not alias", func(t *testing.T) {
		c := s.Copy()
		c.MoveToBase(1)
		require.Equal(t, 10, piece(t, s, 1).Tile)
		require.NotEqual(t, s.Hash(), c.Hash())
		c.MoveToTile(1, 10)
		require.Equal(t, s.Hash(), c.Hash(), "Hash only depends on positions")
	})
}

func TestAllHome(t *testing.T) {
	board := MustStandardBoard()
	home := board.HomeTile(1)

	s := newTestState(t, board, testPiece{1, home}, testPiece{1, home - 1})
	require.False(t, s.AllHome(1))
	s.MoveToTile(1, home)
	require.True(t, s.AllHome(1))
	require.False(t, s.AllHome(0), "A player without pieces has not finished")
}

func TestTraceBuffer(t *testing.T) {
	b := NewTraceBuffer(3)
	require.Empty(t, b.Snapshot())

	for i := 1; i <= 5; i++ {
		b.Add(TraceEntry{MoveID: i})
	}

	require.Equal(t, 3, b.Len())
	var ids []int
	for _, e := range b.Snapshot() {
		ids = append(ids, e.MoveID)
	}
	require.Equal(t, []int{3, 4, 5}, ids, "Snapshot should keep the newest entries, oldest first")

	b.Clear()
	require.Zero(t, b.Len())
	require.Equal(t, DefaultTraceCapacity, len(NewTraceBuffer(0).entries))
}
