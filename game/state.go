package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"parchis/utils"
)

type StateHash uint64

// State owns every piece of a game by value. The rules engine only reads it;
// the state machine mutates it through MoveToTile and MoveToBase.
type State struct {
	Board  *Board
	pieces []Piece
	clock  uint64 // Logical time, advanced on every arrival
}

// NewEmptyState returns a state without pieces. Pieces are added with AddPiece.
func NewEmptyState(board *Board) *State {
	return &State{Board: board}
}

// NewState creates piecesPerPlayer pieces in base for each listed player.
func NewState(board *Board, players []int, piecesPerPlayer int) (*State, error) {
	if piecesPerPlayer <= 0 {
		return nil, &ConfigError{Field: "piecesPerPlayer", Reason: "must be positive"}
	}
	s := NewEmptyState(board)
	for _, p := range players {
		for i := 0; i < piecesPerPlayer; i++ {
			if _, err := s.AddPiece(p, Base); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// AddPiece places a new piece for owner on tile and returns its ID. The slot
// is the number of pieces the owner already has.
func (s *State) AddPiece(owner, tile int) (int, error) {
	if owner < 0 || owner >= s.Board.Layout.Players {
		return -1, &ConfigError{Field: "piece.owner", Reason: fmt.Sprintf("player %d out of range", owner)}
	}
	if tile != Base && !s.Board.InRange(tile) {
		return -1, &ConfigError{Field: "piece.tile", Reason: fmt.Sprintf("tile %d out of range", tile)}
	}
	id := len(s.pieces)
	s.pieces = append(s.pieces, Piece{
		ID:    id,
		Owner: owner,
		Slot:  len(s.PiecesOf(owner)),
		Tile:  tile,
	})
	if tile != Base {
		s.clock++
		s.pieces[id].LastMoved = s.clock
	}
	return id, nil
}

// copy of the State.
func (s *State) Copy() *State {
	pieces := make([]Piece, len(s.pieces))
	copy(pieces, s.pieces)
	return &State{
		Board:  s.Board, // Board is immutable
		pieces: pieces,
		clock:  s.clock,
	}
}

func (s *State) Len() int { return len(s.pieces) }

// Piece returns the piece with the given ID.
func (s *State) Piece(id int) (Piece, bool) {
	if id < 0 || id >= len(s.pieces) {
		return Piece{}, false
	}
	return s.pieces[id], true
}

// Pieces returns a copy of all pieces, ordered by ID.
func (s *State) Pieces() []Piece {
	out := make([]Piece, len(s.pieces))
	copy(out, s.pieces)
	return out
}

func (s *State) PiecesAt(tile int) []Piece {
	return utils.Filter(s.pieces, func(p Piece) bool { return p.Tile == tile })
}

func (s *State) PiecesOf(player int) []Piece {
	return utils.Filter(s.pieces, func(p Piece) bool { return p.Owner == player })
}

func (s *State) PieceBySlot(player, slot int) (Piece, bool) {
	for _, p := range s.pieces {
		if p.Owner == player && p.Slot == slot {
			return p, true
		}
	}
	return Piece{}, false
}

// CountAt returns the number of pieces on tile.
func (s *State) CountAt(tile int) int {
	n := 0
	for _, p := range s.pieces {
		if p.Tile == tile {
			n++
		}
	}
	return n
}

// AllHome reports whether every piece of player stands on its home tile.
// A player without pieces is never considered finished.
func (s *State) AllHome(player int) bool {
	home := s.Board.HomeTile(player)
	n := 0
	for _, p := range s.pieces {
		if p.Owner != player {
			continue
		}
		if p.Tile != home {
			return false
		}
		n++
	}
	return n > 0
}

// MoveToTile places the piece on tile and stamps its arrival time.
func (s *State) MoveToTile(id, tile int) {
	s.clock++
	s.pieces[id].Tile = tile
	s.pieces[id].LastMoved = s.clock
}

// MoveToBase sends the piece back to its base.
func (s *State) MoveToBase(id int) {
	s.pieces[id].Tile = Base
}

func (s *State) Hash() StateHash {
	hasher := fnv.New64a()

	for _, p := range s.pieces {
		binary.Write(hasher, binary.LittleEndian, int64(p.Owner))
		binary.Write(hasher, binary.LittleEndian, int64(p.Slot))
		binary.Write(hasher, binary.LittleEndian, int64(p.Tile))
	}

	return StateHash(hasher.Sum64())
}
