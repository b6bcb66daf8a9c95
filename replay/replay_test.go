package replay

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"parchis/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newMachine(t *testing.T, seed uint64, listeners ...game.Listener) *game.Machine {
	t.Helper()
	board := game.MustStandardBoard()
	set := game.NewStandardRules()
	players, err := game.DefaultPlayers(4)
	require.NoError(t, err)
	state, err := game.NewState(board, players, set.PiecesPerPlayer)
	require.NoError(t, err)

	options := []game.Option{game.WithDice(game.NewRandomDice(seed))}
	for _, l := range listeners {
		options = append(options, game.WithListener(l))
	}
	m, err := game.NewMachine(state, game.NewRules(board, set), players, options...)
	require.NoError(t, err)
	return m
}

// playRandomly drives m with seeded choices, alternating between clicks and
// explicit option picks.
func playRandomly(t *testing.T, m *game.Machine, seed uint64, actions int) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < actions && m.Phase() != game.GameOverPhase; i++ {
		switch m.Phase() {
		case game.WaitingForRoll:
			require.NoError(t, m.Roll())
		case game.WaitingForMove:
			ids := m.SortedPieceIDs()
			id := ids[rng.Intn(len(ids))]
			if i%2 == 0 {
				require.NoError(t, m.OnPieceClicked(id))
			} else {
				require.NoError(t, m.SelectMove(id, rng.Intn(len(m.Options(id)))))
			}
		default:
			t.Fatalf("unexpected phase %s", m.Phase())
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42} {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		require.NoError(t, w.WriteHeader(int64(seed), game.RulesType))
		recorder := NewRecorder(w)

		live := newMachine(t, seed, recorder.Listen)
		playRandomly(t, live, seed, 3000)
		require.NoError(t, recorder.Err())
		require.NotZero(t, recorder.Records())

		r, err := NewReader(&buf)
		require.NoError(t, err)
		require.Equal(t, Header{V: Version, Rules: game.RulesType, Seed: int64(seed)}, r.Header())

		// Dice come from the replay, so the replayed machine's own dice are never used
		replayed := newMachine(t, seed+1000)
		applied, err := Play(r, replayed)
		require.NoError(t, err)
		require.Equal(t, recorder.Records(), applied)

		require.Equal(t, live.State().Pieces(), replayed.State().Pieces(), "Seed %d should replay to the same positions", seed)
		require.Equal(t, live.Ranking(), replayed.Ranking())
		require.Equal(t, live.Phase(), replayed.Phase())
		require.Equal(t, live.CurrentPlayer(), replayed.CurrentPlayer())
	}
}

func TestReaderHeader(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"empty file", "", "missing header"},
		{"only blank lines", "\n  \n\n", "missing header"},
		{"event before header", `{"e":"roll","turn":0,"player":0,"d1":1,"d2":2}`, "missing header"},
		{"newer format", `{"v":2,"rules":"Spanish","seed":1}`, "newer"},
		{"no version", `{"rules":"Spanish","seed":1}`, "missing format version"},
		{"not json", `v=1`, "malformed header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.input))
			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
			require.Contains(t, formatErr.Error(), tt.reason)
		})
	}
}

func TestReaderRecords(t *testing.T) {
	input := strings.Join([]string{
		"",
		`{"v":1,"rules":"Spanish","seed":9}`,
		`{"e":"roll","turn":0,"player":0,"d1":5,"d2":3}`,
		"",
		`{"e":"move","turn":0,"player":0,"piece":2,"moveOption":1,"bonus":0}`,
		"   ",
	}, "\n")

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, int64(9), r.Header().Seed)

	rec, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, Roll{E: "roll", Turn: 0, Player: 0, D1: 5, D2: 3}, rec)

	rec, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, Move{E: "move", Player: 0, Piece: 2, MoveOption: 1}, rec)
	require.Equal(t, 5, r.Line())

	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestReaderRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		{"dice too high", `{"e":"roll","turn":0,"player":0,"d1":7,"d2":3}`},
		{"missing die", `{"e":"roll","turn":0,"player":0,"d1":0,"d2":3}`},
		{"player out of range", `{"e":"roll","turn":0,"player":4,"d1":1,"d2":3}`},
		{"piece out of range", `{"e":"move","turn":0,"player":1,"piece":4,"moveOption":0,"bonus":0}`},
		{"negative option", `{"e":"move","turn":0,"player":1,"piece":0,"moveOption":-1,"bonus":0}`},
		{"unknown tag", `{"e":"chat","turn":0}`},
		{"garbage", `roll 1 2`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `{"v":1,"rules":"Spanish","seed":1}` + "\n" + tt.record + "\n"
			r, err := NewReader(strings.NewReader(input))
			require.NoError(t, err)

			_, err = r.Next()
			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
			require.Equal(t, 2, formatErr.Line)
		})
	}
}

func TestPlayDetectsDesync(t *testing.T) {
	t.Run("roll by the wrong player", func(t *testing.T) {
		input := `{"v":1,"rules":"Spanish","seed":1}` + "\n" +
			`{"e":"roll","turn":0,"player":1,"d1":1,"d2":3}` + "\n"
		r, err := NewReader(strings.NewReader(input))
		require.NoError(t, err)

		applied, err := Play(r, newMachine(t, 1))
		require.ErrorIs(t, err, ErrDesync)
		require.Zero(t, applied)
	})

	t.Run("move the machine rejects", func(t *testing.T) {
		input := `{"v":1,"rules":"Spanish","seed":1}` + "\n" +
			`{"e":"roll","turn":0,"player":0,"d1":1,"d2":3}` + "\n" +
			`{"e":"move","turn":1,"player":1,"piece":0,"moveOption":0,"bonus":0}` + "\n"
		r, err := NewReader(strings.NewReader(input))
		require.NoError(t, err)

		applied, err := Play(r, newMachine(t, 1))
		require.ErrorIs(t, err, ErrDesync)
		require.True(t, errors.Is(err, game.ErrWrongPhase))
		require.Equal(t, 1, applied)
	})
}
