package game

import (
	"fmt"
)

type TileType int

const (
	Normal TileType = iota
	Safe
	Start
	HomeEntry
	HomeRow
	Home
)

func (t TileType) String() string {
	switch t {
	case Normal:
		return "Normal"
	case Safe:
		return "Safe"
	case Start:
		return "Start"
	case HomeEntry:
		return "HomeEntry"
	case HomeRow:
		return "HomeRow"
	case Home:
		return "Home"
	default:
		return fmt.Sprintf("TileType(%d)", int(t))
	}
}

// Tile is a single cell of the board. Immutable after generation.
type Tile struct {
	Index int
	Type  TileType
	Owner int // Owner player index (-1 indicates unowned)
}

// Layout holds the board geometry. It is built once and shared by every
// component that needs tile arithmetic.
type Layout struct {
	Players          int // Number of player colors on the board
	MainTrack        int // Cells on the shared outer loop
	HomeColumn       int // Private column cells per player, the last one is Home
	Stride           int // Distance between two consecutive players' landmarks
	StartOffset      int // Start tile of player 0
	SafeOffset       int // Safe tile of player 0's quarter
	EntryBeforeStart int // Home entry sits this many cells before the player's start
}

// StandardLayout returns the four-color Spanish board: 68 outer cells and an
// 8-cell home column per player.
func StandardLayout() Layout {
	return Layout{
		Players:          4,
		MainTrack:        68,
		HomeColumn:       8,
		Stride:           17,
		StartOffset:      4,
		SafeOffset:       11,
		EntryBeforeStart: 5,
	}
}

// TotalTiles is the size of the generated tile table.
func (l Layout) TotalTiles() int {
	return l.MainTrack + l.Players*l.HomeColumn
}

func (l Layout) validate() error {
	switch {
	case l.Players <= 0:
		return &ConfigError{Field: "layout.players", Reason: "must be positive"}
	case l.MainTrack <= 0:
		return &ConfigError{Field: "layout.mainTrack", Reason: "must be positive"}
	case l.HomeColumn < 2:
		return &ConfigError{Field: "layout.homeColumn", Reason: "needs at least one home row cell and the home cell"}
	case l.Stride*l.Players > l.MainTrack:
		return &ConfigError{Field: "layout.stride", Reason: "player quarters overflow the main track"}
	case l.EntryBeforeStart <= 0 || l.EntryBeforeStart >= l.MainTrack:
		return &ConfigError{Field: "layout.entryBeforeStart", Reason: "must fall inside the main track"}
	}
	return nil
}

// Board is the static tile table plus the per-player landmark indices.
type Board struct {
	Layout Layout

	tiles        []Tile
	start        []int
	homeEntry    []int
	firstHomeRow []int
	home         []int
}

// GenerateBoard builds the tile table for the given layout. The result only
// depends on the layout, so generating twice yields identical boards.
func GenerateBoard(l Layout) (*Board, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}

	b := &Board{Layout: l, tiles: make([]Tile, l.TotalTiles())}
	for i := range b.tiles {
		b.tiles[i] = Tile{Index: i, Type: Normal, Owner: -1}
	}

	for p := 0; p < l.Players; p++ {
		start := l.StartOffset + l.Stride*p
		if err := b.setTile(start, Start, p); err != nil {
			return nil, err
		}
		if err := b.setTile(l.SafeOffset+l.Stride*p, Safe, -1); err != nil {
			return nil, err
		}
		entry := (start - l.EntryBeforeStart + l.MainTrack) % l.MainTrack
		if err := b.setTile(entry, HomeEntry, p); err != nil {
			return nil, err
		}
		if err := b.setHomeColumn(l.MainTrack+l.HomeColumn*p, p); err != nil {
			return nil, err
		}
	}

	b.start = b.landmarks(Start)
	b.homeEntry = b.landmarks(HomeEntry)
	b.home = b.landmarks(Home)
	b.firstHomeRow = make([]int, l.Players)
	for p := range b.firstHomeRow {
		b.firstHomeRow[p] = b.home[p] - (l.HomeColumn - 1)
	}
	return b, nil
}

// MustStandardBoard generates the standard board. The standard layout is
// known to be valid.
func MustStandardBoard() *Board {
	b, err := GenerateBoard(StandardLayout())
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Board) setTile(index int, t TileType, owner int) error {
	if index < 0 || index >= len(b.tiles) {
		return &ConfigError{
			Field:  "board.tiles",
			Reason: fmt.Sprintf("invalid tile index %d for type %s owner %d", index, t, owner),
		}
	}
	b.tiles[index].Type = t
	b.tiles[index].Owner = owner
	return nil
}

func (b *Board) setHomeColumn(from, owner int) error {
	for i := 0; i < b.Layout.HomeColumn-1; i++ {
		if err := b.setTile(from+i, HomeRow, owner); err != nil {
			return err
		}
	}
	return b.setTile(from+b.Layout.HomeColumn-1, Home, owner)
}

// landmarks returns, for each player, the index of the owned tile of type t.
func (b *Board) landmarks(t TileType) []int {
	out := make([]int, b.Layout.Players)
	for i := range out {
		out[i] = -1
	}
	for _, tile := range b.tiles {
		if tile.Type == t && tile.Owner >= 0 && out[tile.Owner] == -1 {
			out[tile.Owner] = tile.Index
		}
	}
	return out
}

func (b *Board) Len() int { return len(b.tiles) }

func (b *Board) Tile(index int) Tile { return b.tiles[index] }

// Tiles returns a copy of the tile table.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, len(b.tiles))
	copy(out, b.tiles)
	return out
}

func (b *Board) StartTiles() []int { return append([]int(nil), b.start...) }
func (b *Board) HomeEntryTiles() []int { return append([]int(nil), b.homeEntry...) }
func (b *Board) FirstHomeRowTiles() []int { return append([]int(nil), b.firstHomeRow...) }
func (b *Board) HomeTiles() []int { return append([]int(nil), b.home...) }

func (b *Board) StartTile(player int) int { return b.start[player] }
func (b *Board) HomeEntryTile(player int) int { return b.homeEntry[player] }
func (b *Board) FirstHomeRowTile(player int) int { return b.firstHomeRow[player] }
func (b *Board) HomeTile(player int) int { return b.home[player] }

// InRange reports whether index addresses a tile.
func (b *Board) InRange(index int) bool {
	return index >= 0 && index < len(b.tiles)
}

// IsSafe reports whether enemies may share the tile: Safe, Start and HomeEntry.
func (b *Board) IsSafe(index int) bool {
	switch b.tiles[index].Type {
	case Safe, Start, HomeEntry:
		return true
	}
	return false
}

func (b *Board) IsPlayerStart(index, player int) bool {
	return b.tiles[index].Type == Start && b.tiles[index].Owner == player
}

// IsHome reports whether index is any player's terminal home cell.
func (b *Board) IsHome(index int) bool {
	return b.InRange(index) && b.tiles[index].Type == Home
}

// OnMainTrack reports whether index lies on the shared outer loop.
func (b *Board) OnMainTrack(index int) bool {
	return index >= 0 && index < b.Layout.MainTrack
}
