package game

import "fmt"

type MoveStatus int

const (
	Invalid MoveStatus = iota
	NormalMove
	Capture
	BlockedByBlockade
	ReachedHome
)

func (s MoveStatus) String() string {
	switch s {
	case Invalid:
		return "Invalid"
	case NormalMove:
		return "Normal"
	case Capture:
		return "Capture"
	case BlockedByBlockade:
		return "BlockedByBlockade"
	case ReachedHome:
		return "ReachedHome"
	default:
		return fmt.Sprintf("MoveStatus(%d)", int(s))
	}
}

// InvalidTarget marks a move without a destination.
const InvalidTarget = -1

// MoveResult is the outcome of resolving one piece move against the board.
type MoveResult struct {
	Status   MoveStatus
	Target   int // Destination tile, InvalidTarget unless the move is playable
	Captured int // ID of the captured piece, -1 if none
}

func invalidMove() MoveResult {
	return MoveResult{Status: Invalid, Target: InvalidTarget, Captured: -1}
}

func blockedMove() MoveResult {
	return MoveResult{Status: BlockedByBlockade, Target: InvalidTarget, Captured: -1}
}

// Playable reports whether the move can be executed.
func (r MoveResult) Playable() bool {
	return r.Status != Invalid && r.Status != BlockedByBlockade
}

func (r MoveResult) String() string {
	return fmt.Sprintf("MoveResult(status=%s, target=%d, captured=%d)", r.Status, r.Target, r.Captured)
}

// MoveOption is a candidate move for the current player. Options are
// recomputed after every roll and every executed move.
type MoveOption struct {
	Piece      int // Piece ID
	Target     int
	Steps      int
	UsesDice1  bool
	UsesDice2  bool
	BonusIndex int // Index in the bonus queue, -1 if the move uses dice
	Result     MoveResult
}

func (o MoveOption) IsBonus() bool { return o.BonusIndex >= 0 }

func (o MoveOption) String() string {
	return fmt.Sprintf("piece=%d target=%d steps=%d dice1=%t dice2=%t bonus=%d",
		o.Piece, o.Target, o.Steps, o.UsesDice1, o.UsesDice2, o.BonusIndex)
}
