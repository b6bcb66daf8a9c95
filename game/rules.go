package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Rules resolves single piece moves. It holds no game state of its own: every
// query reads the board and the State passed in.
type Rules struct {
	board *Board
	set   RuleSet
	trace *TraceBuffer

	moveCount int
}

func NewRules(board *Board, set RuleSet) *Rules {
	log.Debug().
		Ints("start", board.StartTiles()).
		Ints("homeEntry", board.HomeEntryTiles()).
		Ints("firstHomeRow", board.FirstHomeRowTiles()).
		Msg("rules initialized")
	return &Rules{
		board: board,
		set:   set,
		trace: NewTraceBuffer(DefaultTraceCapacity),
	}
}

func (r *Rules) Board() *Board { return r.board }
func (r *Rules) Set() RuleSet { return r.set }
func (r *Rules) Trace() *TraceBuffer { return r.trace }
func (r *Rules) StartTile(p int) int { return r.board.StartTile(p) }
func (r *Rules) HomeTile(p int) int { return r.board.HomeTile(p) }
func (r *Rules) IsTileSafe(i int) bool { return r.board.IsSafe(i) }

// isBaseLeave reports whether a piece in base may enter the board with steps.
func (r *Rules) isBaseLeave(steps int) bool {
	return steps == r.set.StartRoll
}

// isHomeRowOvershoot reports whether advancing steps from offset inside the
// home column passes the home cell.
func (r *Rules) isHomeRowOvershoot(offset, steps int) bool {
	return offset+steps > r.board.Layout.HomeColumn-1
}

// isBlockadeFormed reports whether the pieces form a same-owner pair and
// returns the lowest such owner.
func isBlockadeFormed(pieces []Piece) (bool, int) {
	count := map[int]int{}
	owner := -1
	for _, p := range pieces {
		count[p.Owner]++
		if count[p.Owner] == 2 && (owner == -1 || p.Owner < owner) {
			owner = p.Owner
		}
	}
	return owner >= 0, owner
}

// nextAlongPath advances one cell along player's path. Leaving the home entry
// jumps into the player's home column instead of following the loop.
func (r *Rules) nextAlongPath(tile, player int) int {
	switch {
	case tile == r.board.HomeEntryTile(player):
		return r.board.FirstHomeRowTile(player)
	case r.board.OnMainTrack(tile):
		return (tile + 1) % r.board.Layout.MainTrack
	default:
		return tile + 1
	}
}

// TryGetTargetTileIndex returns the destination of moving piece by steps, or
// InvalidTarget. Only geometry is considered.
func (r *Rules) TryGetTargetTileIndex(piece Piece, steps int) int {
	player := piece.Owner

	if piece.InBase() {
		if steps <= 0 || !r.isBaseLeave(steps) {
			return InvalidTarget
		}
		return r.board.StartTile(player)
	}
	if steps < 0 || !r.board.InRange(piece.Tile) {
		return InvalidTarget
	}

	switch r.board.Tile(piece.Tile).Type {
	case Home:
		return InvalidTarget
	case HomeRow:
		first := r.board.FirstHomeRowTile(player)
		offset := piece.Tile - first
		if r.isHomeRowOvershoot(offset, steps) {
			return InvalidTarget
		}
		return first + offset + steps
	}

	pos := piece.Tile
	for i := 0; i < steps; i++ {
		pos = r.nextAlongPath(pos, player)
		if pos > r.board.HomeTile(player) {
			// Walked past the end of the home column
			return InvalidTarget
		}
	}
	return pos
}

// IsBlockadeAtTile reports whether two or more pieces of one owner share tile.
// Stacking on a home tile is always allowed.
func (r *Rules) IsBlockadeAtTile(tile int, s *State) (bool, int) {
	if r.board.IsHome(tile) {
		return false, -1
	}
	return isBlockadeFormed(s.PiecesAt(tile))
}

// IsMoveBlockedByBlockade walks the path of the move and reports whether any
// cell holds a blockade. A foreign blockade on the mover's own start tile is
// left to the capture rule when that tile is the destination.
func (r *Rules) IsMoveBlockedByBlockade(piece Piece, steps int, s *State) bool {
	target := r.TryGetTargetTileIndex(piece, steps)
	if target == InvalidTarget {
		return true
	}

	blocks := func(tile int) bool {
		blocked, owner := r.IsBlockadeAtTile(tile, s)
		if !blocked {
			return false
		}
		if tile == target && owner != piece.Owner && r.board.IsPlayerStart(tile, piece.Owner) {
			return false
		}
		r.addTrace(piece, steps, target, "IsMoveBlockedByBlockade", fmt.Sprintf("blockade by player %d at %d", owner, tile))
		return true
	}

	if piece.InBase() {
		return blocks(r.board.StartTile(piece.Owner))
	}

	pos := piece.Tile
	for step := 1; step <= steps; step++ {
		pos = r.nextAlongPath(pos, piece.Owner)
		if blocks(pos) {
			return true
		}
	}
	return false
}

// moveContext carries one resolution through the stages of TryResolveMove.
type moveContext struct {
	piece  Piece
	steps  int
	state  *State
	target int
}

// resolveStage either decides the move (done) or passes it to the next stage.
type resolveStage func(r *Rules, mc *moveContext) (result MoveResult, done bool)

var resolvePipeline = []resolveStage{
	geometryStage,
	blockadeStage,
	homeStage,
	safeTileStage,
	openTileStage,
}

// TryResolveMove decides the outcome of moving piece by steps.
func (r *Rules) TryResolveMove(piece Piece, steps int, s *State) MoveResult {
	r.moveCount++
	mc := &moveContext{piece: piece, steps: steps, state: s, target: InvalidTarget}

	result := invalidMove()
	for _, stage := range resolvePipeline {
		if res, done := stage(r, mc); done {
			result = res
			break
		}
	}

	r.checkInvariants(s)
	return result
}

func geometryStage(r *Rules, mc *moveContext) (MoveResult, bool) {
	mc.target = r.TryGetTargetTileIndex(mc.piece, mc.steps)
	r.addTrace(mc.piece, mc.steps, mc.target, "TryResolveMove-Geometry", "after geometry check")
	if mc.target == InvalidTarget {
		return invalidMove(), true
	}
	return MoveResult{}, false
}

func blockadeStage(r *Rules, mc *moveContext) (MoveResult, bool) {
	if r.IsMoveBlockedByBlockade(mc.piece, mc.steps, mc.state) {
		return blockedMove(), true
	}
	return MoveResult{}, false
}

func homeStage(r *Rules, mc *moveContext) (MoveResult, bool) {
	if mc.target != r.board.HomeTile(mc.piece.Owner) {
		return MoveResult{}, false
	}
	r.addTrace(mc.piece, mc.steps, mc.target, "TryResolveMove-Home", "reached home")
	return MoveResult{Status: ReachedHome, Target: mc.target, Captured: -1}, true
}

func safeTileStage(r *Rules, mc *moveContext) (MoveResult, bool) {
	if !r.board.IsSafe(mc.target) {
		return MoveResult{}, false
	}
	occupants := mc.state.PiecesAt(mc.target)

	if r.board.IsPlayerStart(mc.target, mc.piece.Owner) && len(occupants) >= 2 {
		var enemies []Piece
		for _, p := range occupants {
			if p.Owner != mc.piece.Owner {
				enemies = append(enemies, p)
			}
		}
		switch len(enemies) {
		case 1:
			r.addTrace(mc.piece, mc.steps, mc.target, "TryResolveMove-OwnStart",
				fmt.Sprintf("capture player %d on start tile", enemies[0].Owner))
			return MoveResult{Status: Capture, Target: mc.target, Captured: enemies[0].ID}, true
		case 2:
			last := lastArrived(enemies[0], enemies[1])
			r.addTrace(mc.piece, mc.steps, mc.target, "TryResolveMove-OwnStart",
				fmt.Sprintf("capture last arrival, player %d", last.Owner))
			return MoveResult{Status: Capture, Target: mc.target, Captured: last.ID}, true
		}
	}

	if len(occupants) >= 2 {
		r.addTrace(mc.piece, mc.steps, mc.target, "TryResolveMove-Safe", "safe tile already holds 2 pieces")
		return invalidMove(), true
	}
	r.addTrace(mc.piece, mc.steps, mc.target, "TryResolveMove-Safe", "normal move")
	return MoveResult{Status: NormalMove, Target: mc.target, Captured: -1}, true
}

func openTileStage(r *Rules, mc *moveContext) (MoveResult, bool) {
	occupants := mc.state.PiecesAt(mc.target)
	if len(occupants) >= 2 {
		r.addTrace(mc.piece, mc.steps, mc.target, "TryResolveMove", "tile already holds 2 pieces")
		return invalidMove(), true
	}

	var enemies []Piece
	for _, p := range occupants {
		if p.Owner != mc.piece.Owner {
			enemies = append(enemies, p)
		}
	}
	switch {
	case len(enemies) == 1:
		r.addTrace(mc.piece, mc.steps, mc.target, "TryResolveMove-Enemies",
			fmt.Sprintf("capture player %d", enemies[0].Owner))
		return MoveResult{Status: Capture, Target: mc.target, Captured: enemies[0].ID}, true
	case len(enemies) > 1:
		// Unreachable while the blockade and occupancy checks hold
		r.addTrace(mc.piece, mc.steps, mc.target, "TryResolveMove-Enemies", "mixed enemy pair on open tile")
		return blockedMove(), true
	}
	r.addTrace(mc.piece, mc.steps, mc.target, "TryResolveMove-Default", "normal move")
	return MoveResult{Status: NormalMove, Target: mc.target, Captured: -1}, true
}

// lastArrived returns whichever piece landed later. Ties go to the higher ID.
func lastArrived(a, b Piece) Piece {
	if a.LastMoved > b.LastMoved || (a.LastMoved == b.LastMoved && a.ID > b.ID) {
		return a
	}
	return b
}

// checkInvariants logs the trace when pieces of different owners share a
// non-safe tile.
func (r *Rules) checkInvariants(s *State) {
	owners := map[int]int{}
	for _, p := range s.pieces {
		if p.InBase() || !r.board.InRange(p.Tile) || r.board.IsSafe(p.Tile) || r.board.IsHome(p.Tile) {
			continue
		}
		if owner, seen := owners[p.Tile]; seen && owner != p.Owner {
			r.trace.Dump(fmt.Sprintf("invariant violation: players %d and %d on non-safe tile %d", owner, p.Owner, p.Tile))
			return
		}
		owners[p.Tile] = p.Owner
	}
}

// GetPathIndices returns the cells visited by the move, one per step. A piece
// leaving base visits only its start tile.
func (r *Rules) GetPathIndices(piece Piece, steps int) []int {
	if piece.InBase() {
		return []int{r.board.StartTile(piece.Owner)}
	}
	path := make([]int, 0, steps)
	pos := piece.Tile
	for i := 0; i < steps; i++ {
		pos = r.nextAlongPath(pos, piece.Owner)
		path = append(path, pos)
	}
	return path
}

// GetProgressScore orders board positions along player's path:
// -1 in base, 0..67 distance from the start tile, 68+ inside the home column.
func (r *Rules) GetProgressScore(tile, player int) int {
	if tile < 0 {
		return -1
	}
	first := r.board.FirstHomeRowTile(player)
	if tile >= first && tile <= r.board.HomeTile(player) {
		return r.board.Layout.MainTrack + tile - first
	}
	if !r.board.OnMainTrack(tile) {
		return -1
	}
	loop := r.board.Layout.MainTrack
	return (tile - r.board.StartTile(player) + loop) % loop
}

func (r *Rules) addTrace(piece Piece, steps, target int, phase, note string) {
	tileType := "Invalid"
	if target != InvalidTarget && r.board.InRange(target) {
		tileType = r.board.Tile(target).Type.String()
	}
	r.trace.Add(TraceEntry{
		MoveID:   r.moveCount,
		Phase:    phase,
		Player:   piece.Owner,
		Steps:    steps,
		From:     piece.Tile,
		To:       target,
		TileType: tileType,
		Note:     note,
	})
}
