package game

import "fmt"

// Base is the tile index of a piece that has not left its base.
const Base = -1

// Piece is one token on the board. Pieces are owned by a State and addressed
// by ID; only the state's mutation methods change them.
type Piece struct {
	ID        int
	Owner     int    // Owner player index
	Slot      int    // Position of the piece among its owner's pieces
	Tile      int    // Current tile index, Base when in base
	LastMoved uint64 // Logical time of the last arrival, 0 if never moved
}

func (p Piece) InBase() bool { return p.Tile == Base }

func (p Piece) String() string {
	return fmt.Sprintf("piece %d (player %d slot %d) at %d", p.ID, p.Owner, p.Slot, p.Tile)
}
