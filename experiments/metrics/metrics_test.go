package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"parchis/game"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector(7, 2)
	events := []game.Event{
		game.TurnChanged{Turn: 0, Player: 2},
		game.DiceRolled{Player: 2, Dice1: 3, Dice2: 3},
		game.MoveSelected{Player: 2, Auto: true},
		game.PieceSentToBase{Reason: game.Captured},
		game.BonusGranted{Player: 2, Kind: game.CaptureBonusKind, Steps: 20},
		game.DiceRolled{Player: 2, Dice1: 1, Dice2: 4},
		game.MoveSelected{Player: 2},
		game.BonusForfeited{Player: 2, Steps: []int{20, 10}},
		game.ForcedMove{Player: 2, Kind: game.BlockadeBreak},
		game.ForcedMove{Player: 2, Kind: game.ForcedStart},
		game.PieceSentToBase{Reason: game.DoublesPenalty},
		game.TurnChanged{Turn: 5, Player: 0},
	}
	for _, e := range events {
		c.Listen(e)
	}

	t.Run("cut off game has no winner", func(t *testing.T) {
		m := c.Complete()
		require.False(t, m.Completed)
		require.Equal(t, -1, m.Winner)
		require.Equal(t, int64(7), m.Seed)
		require.Equal(t, 2, m.StartingPlayer)
		require.Equal(t, 5, m.Turns)
		require.Equal(t, 2, m.Rolls)
		require.Equal(t, 1, m.Doubles)
		require.Equal(t, 2, m.TotalMoves)
		require.Equal(t, 1, m.AutoMoves)
		require.Equal(t, 1, m.Captures)
		require.Equal(t, 1, m.DoublesPenalties)
		require.Equal(t, 1, m.BonusesGranted)
		require.Equal(t, 2, m.BonusesForfeited)
		require.Equal(t, 1, m.BlockadeBreaks)
	})

	t.Run("game over sets the ranking", func(t *testing.T) {
		c.Listen(game.GameOver{Ranking: []int{3, 0, 2, 1}})
		m := c.Complete()
		require.True(t, m.Completed)
		require.Equal(t, 3, m.Winner)
		require.Equal(t, []int{3, 0, 2, 1}, m.Ranking)
	})
}

func TestSummarize(t *testing.T) {
	games := []GameMetric{
		{Winner: 0, Completed: true, Turns: 100, TotalMoves: 200, Captures: 4},
		{Winner: 1, Completed: true, Turns: 140, TotalMoves: 260, Captures: 6},
		{Winner: 0, Completed: true, Turns: 120, TotalMoves: 230, Captures: 5},
		{Winner: -1, Turns: 2000, TotalMoves: 3000},
	}

	s := Summarize(games)

	require.Equal(t, 4, s.Games)
	require.Equal(t, 3, s.Completed)
	require.Equal(t, map[int]int{0: 2, 1: 1}, s.Wins)
	require.InDelta(t, 590.0, s.Turns.Mean, 1e-9)
	require.Equal(t, 100.0, s.Turns.Min)
	require.Equal(t, 2000.0, s.Turns.Max)
	require.Equal(t, 120.0, s.Turns.Median)
	require.Greater(t, s.Turns.StdDev, 0.0)
	require.InDelta(t, 3.75, s.Captures.Mean, 1e-9)

	empty := Summarize(nil)
	require.Zero(t, empty.Games)
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "simulation")
	require.NoError(t, err)

	records := []GameRecord{
		{ID: 1, Chooser: "random", GameMetric: GameMetric{Seed: 1, Winner: 2, Ranking: []int{2, 0, 1, 3}, Completed: true, Turns: 90}},
		{ID: 2, Chooser: "random", GameMetric: GameMetric{Seed: 2, Winner: -1, Turns: 2000}},
	}
	require.NoError(t, w.WriteGameRecords(records))
	require.NoError(t, w.WriteSummary(Summarize([]GameMetric{records[0].GameMetric, records[1].GameMetric})))

	f, err := os.Open(filepath.Join(w.Dir(), "game_records.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "id", rows[0][0])
	require.Equal(t, []string{"1", "random", "1", "0", "2", "2 0 1 3", "true", "90"}, rows[1][:8])
	require.Equal(t, "-1", rows[2][4])

	_, err = os.Stat(filepath.Join(w.Dir(), "summary.csv"))
	require.NoError(t, err)
}
