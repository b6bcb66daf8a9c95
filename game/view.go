package game

// Anchor is a tile position in the presentation layer's coordinates.
type Anchor struct {
	X, Y float64
}

// View is the presentation layer. AnimateMove must call done exactly once
// when the animation is over; the machine stays in MovePending until then.
type View interface {
	TileAnchor(tile int) Anchor
	AnimateMove(piece Piece, path []int, done func())
	LayoutPieces(pieces []Piece)
}

// Selector picks one option when a clicked piece has several.
type Selector interface {
	SelectOption(piece Piece, options []MoveOption) int
}

type SelectorFunc func(piece Piece, options []MoveOption) int

func (f SelectorFunc) SelectOption(piece Piece, options []MoveOption) int {
	return f(piece, options)
}

// FirstOption always picks the first option.
var FirstOption = SelectorFunc(func(Piece, []MoveOption) int { return 0 })
