package replay

import (
	"errors"
	"fmt"
	"io"

	"parchis/game"

	"github.com/rs/zerolog/log"
)

// ErrDesync means the recorded events no longer match the game being replayed.
var ErrDesync = errors.New("replay out of sync with the game")

// Play feeds every record of r into m and returns the number applied. It
// stops at the first record the machine rejects.
func Play(r *Reader, m *game.Machine) (int, error) {
	applied := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return applied, nil
		}
		if err != nil {
			return applied, err
		}
		if err := Apply(m, rec); err != nil {
			return applied, fmt.Errorf("line %d: %w", r.Line(), err)
		}
		applied++
	}
}

// Apply plays a single record.
func Apply(m *game.Machine, rec Record) error {
	switch rec := rec.(type) {
	case Roll:
		if rec.Player != m.CurrentPlayer() {
			return fmt.Errorf("%w: roll by player %d during player %d's turn", ErrDesync, rec.Player, m.CurrentPlayer())
		}
		log.Debug().Msgf("Apply roll %d, %d for player %d", rec.D1, rec.D2, rec.Player)
		if err := m.RollDice(rec.D1, rec.D2); err != nil {
			return fmt.Errorf("%w: %w", ErrDesync, err)
		}
	case Move:
		if rec.Player != m.CurrentPlayer() {
			return fmt.Errorf("%w: move by player %d during player %d's turn", ErrDesync, rec.Player, m.CurrentPlayer())
		}
		piece, ok := m.State().PieceBySlot(rec.Player, rec.Piece)
		if !ok {
			return fmt.Errorf("%w: player %d has no piece %d", ErrDesync, rec.Player, rec.Piece)
		}
		opts := m.Options(piece.ID)
		if rec.MoveOption < len(opts) && rec.Bonus > 0 && opts[rec.MoveOption].Steps != rec.Bonus {
			return fmt.Errorf("%w: option %d of piece %d does not play a %d bonus", ErrDesync, rec.MoveOption, rec.Piece, rec.Bonus)
		}
		log.Debug().Msgf("Apply move option %d of piece %d for player %d", rec.MoveOption, rec.Piece, rec.Player)
		if err := m.SelectMove(piece.ID, rec.MoveOption); err != nil {
			return fmt.Errorf("%w: %w", ErrDesync, err)
		}
	default:
		return fmt.Errorf("unknown replay record %T", rec)
	}
	return nil
}
