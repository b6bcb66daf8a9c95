package replay

import (
	"parchis/game"
)

// Recorder writes a live game to a replay. Register Listen on the machine;
// automatic moves are not written since playback repeats them by itself.
type Recorder struct {
	w   *Writer
	err error
	n   int
}

func NewRecorder(w *Writer) *Recorder {
	return &Recorder{w: w}
}

func (r *Recorder) Listen(e game.Event) {
	if r.err != nil {
		return
	}
	switch e := e.(type) {
	case game.DiceRolled:
		r.err = r.w.WriteRoll(e.Turn, e.Player, e.Dice1, e.Dice2)
	case game.MoveSelected:
		if e.Auto {
			return
		}
		bonus := 0
		if e.Option.IsBonus() {
			bonus = e.Option.Steps
		}
		r.err = r.w.WriteMove(e.Turn, e.Player, e.Piece.Slot, e.OptionIndex, bonus)
	default:
		return
	}
	if r.err == nil {
		r.n++
	}
}

// Err returns the first write error. Recording stops after it.
func (r *Recorder) Err() error { return r.err }

// Records returns the number of records written.
func (r *Recorder) Records() int { return r.n }
