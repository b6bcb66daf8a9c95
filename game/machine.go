package game

import (
	"fmt"
	"sort"

	"parchis/utils"

	"github.com/rs/zerolog/log"
)

type Phase int

const (
	WaitingForRoll Phase = iota
	WaitingForMove
	MovePending // A move animation was requested and its completion is awaited
	GameOverPhase
)

func (p Phase) String() string {
	switch p {
	case WaitingForRoll:
		return "WaitingForRoll"
	case WaitingForMove:
		return "WaitingForMove"
	case MovePending:
		return "MovePending"
	case GameOverPhase:
		return "GameOver"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

type Option func(m *Machine)

// WithView sets the presentation layer. Without a view every move completes
// immediately.
func WithView(view View) Option {
	return func(m *Machine) {
		if view != nil {
			m.view = view
		}
	}
}

func WithSelector(selector Selector) Option {
	return func(m *Machine) {
		if selector != nil {
			m.selector = selector
		}
	}
}

func WithDice(dice Dice) Option {
	return func(m *Machine) {
		if dice != nil {
			m.dice = dice
		}
	}
}

// WithFirstPlayer gives the first turn to player. Unseated players are ignored.
func WithFirstPlayer(player int) Option {
	return func(m *Machine) {
		if i := utils.FindIndex(m.players, player); i >= 0 {
			m.current = i
		}
	}
}

func WithListener(listener Listener) Option {
	return func(m *Machine) {
		if listener != nil {
			m.listeners = append(m.listeners, listener)
		}
	}
}

// Machine drives one game: rolls, legal move enumeration, move execution,
// bonuses and turn order. It is single-threaded; callers must not invoke it
// concurrently.
type Machine struct {
	state     *State
	rules     *Rules
	players   []int
	view      View
	selector  Selector
	dice      Dice
	listeners []Listener

	phase       Phase
	current     int // Index into players
	turn        int
	dice1       int
	dice2       int
	dice1Used   bool
	dice2Used   bool
	doubles     int  // Consecutive doubles rolled by the current player
	hadBlockade bool // Current player owned a blockade when the doubles were rolled
	bonuses     []int
	legal       map[int][]MoveOption // Options by piece ID
	ranking     []int
	finished    map[int]bool
}

func NewMachine(state *State, rules *Rules, players []int, options ...Option) (*Machine, error) {
	if len(players) < 2 {
		return nil, &ConfigError{Field: "players", Reason: "at least two players are required"}
	}
	seen := map[int]bool{}
	for _, p := range players {
		if p < 0 || p >= state.Board.Layout.Players {
			return nil, &ConfigError{Field: "players", Reason: fmt.Sprintf("player %d has no seat on the board", p)}
		}
		if seen[p] {
			return nil, &ConfigError{Field: "players", Reason: fmt.Sprintf("player %d listed twice", p)}
		}
		seen[p] = true
	}

	m := &Machine{ // Default values
		state:    state,
		rules:    rules,
		players:  append([]int(nil), players...),
		view:     instantView{},
		selector: FirstOption,
		dice:     NewRandomDice(1),
		phase:    WaitingForRoll,
		legal:    map[int][]MoveOption{},
		finished: map[int]bool{},
	}
	for _, option := range options {
		option(m)
	}
	return m, nil
}

// Subscribe registers a listener for every subsequent event.
func (m *Machine) Subscribe(listener Listener) {
	m.listeners = append(m.listeners, listener)
}

func (m *Machine) Phase() Phase { return m.phase }
func (m *Machine) CurrentPlayer() int { return m.players[m.current] }
func (m *Machine) Players() []int { return append([]int(nil), m.players...) }
func (m *Machine) Turn() int { return m.turn }
func (m *Machine) Dice() (int, int) { return m.dice1, m.dice2 }
func (m *Machine) DiceUsed() (bool, bool) { return m.dice1Used, m.dice2Used }
func (m *Machine) Bonuses() []int { return append([]int(nil), m.bonuses...) }
func (m *Machine) Ranking() []int { return append([]int(nil), m.ranking...) }
func (m *Machine) DoublesInARow() int { return m.doubles }
func (m *Machine) Rules() *Rules { return m.rules }

// State returns the live game state. Callers must treat it as read-only.
func (m *Machine) State() *State { return m.state }

// LegalMoves returns a copy of the current options, keyed by piece ID.
func (m *Machine) LegalMoves() map[int][]MoveOption {
	out := make(map[int][]MoveOption, len(m.legal))
	for id, opts := range m.legal {
		out[id] = append([]MoveOption(nil), opts...)
	}
	return out
}

// Options returns the current options of one piece.
func (m *Machine) Options(pieceID int) []MoveOption {
	return append([]MoveOption(nil), m.legal[pieceID]...)
}

func (m *Machine) MoveCount() int {
	n := 0
	for _, opts := range m.legal {
		n += len(opts)
	}
	return n
}

// Start announces the first turn.
func (m *Machine) Start() {
	m.emit(TurnChanged{Turn: m.turn, Player: m.CurrentPlayer()})
	m.emit(PhaseChanged{Phase: m.phase})
}

// Roll rolls the configured dice.
func (m *Machine) Roll() error {
	if err := m.checkPhase(WaitingForRoll); err != nil {
		return err
	}
	d1, d2 := m.dice.Roll()
	return m.RollDice(d1, d2)
}

// RollDice plays a roll with the given values. A zero value stands for a
// missing die and counts as already used.
func (m *Machine) RollDice(d1, d2 int) error {
	if err := m.checkPhase(WaitingForRoll); err != nil {
		return err
	}
	if d1 < 0 || d1 > 6 || d2 < 0 || d2 > 6 || d1+d2 == 0 {
		log.Debug().Int("d1", d1).Int("d2", d2).Msg("rejected roll")
		return ErrInvalidDice
	}

	player := m.CurrentPlayer()
	m.dice1, m.dice2 = d1, d2
	m.dice1Used, m.dice2Used = d1 == 0, d2 == 0
	log.Debug().Msgf("Player %d rolled %d, %d", player, d1, d2)
	m.emit(DiceRolled{Turn: m.turn, Player: player, Dice1: d1, Dice2: d2})

	if !m.isDoubles() {
		m.doubles = 0
		m.hadBlockade = false
		m.advance()
		return nil
	}

	m.doubles++
	if m.doubles >= m.rules.Set().MaxDoubles {
		log.Debug().Msgf("Player %d rolled %d doubles in a row", player, m.doubles)
		m.applyDoublesPenalty(player)
		m.nextPlayer()
		return nil
	}
	m.hadBlockade = len(m.blockadePieces(player)) > 0
	m.advance()
	return nil
}

// OnPieceClicked plays a move of the clicked piece. With several options the
// Selector decides which one.
func (m *Machine) OnPieceClicked(pieceID int) error {
	piece, opts, err := m.clickable(pieceID)
	if err != nil {
		return err
	}
	index := 0
	if len(opts) > 1 {
		candidates := append([]MoveOption(nil), opts...)
		m.emit(SelectionRequested{Piece: piece, Options: candidates})
		index = m.selector.SelectOption(piece, candidates)
		if index < 0 || index >= len(opts) {
			log.Debug().Int("piece", pieceID).Int("option", index).Msg("selector returned an invalid option")
			return ErrInvalidOption
		}
	}
	m.execute(opts[index], index, false)
	return nil
}

// SelectMove plays the option at index among the piece's current options.
func (m *Machine) SelectMove(pieceID, index int) error {
	_, opts, err := m.clickable(pieceID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(opts) {
		log.Debug().Int("piece", pieceID).Int("option", index).Msg("rejected move option")
		return ErrInvalidOption
	}
	m.execute(opts[index], index, false)
	return nil
}

// EndGame terminates the game. Later actions are rejected.
func (m *Machine) EndGame() {
	if m.phase == GameOverPhase {
		return
	}
	m.endGame()
}

func (m *Machine) checkPhase(want Phase) error {
	switch {
	case m.phase == want:
		return nil
	case m.phase == MovePending:
		log.Debug().Str("phase", m.phase.String()).Msg("a move is in progress")
		return ErrMovePending
	default:
		log.Debug().Str("phase", m.phase.String()).Str("want", want.String()).Msg("action not allowed")
		return ErrWrongPhase
	}
}

func (m *Machine) clickable(pieceID int) (Piece, []MoveOption, error) {
	if err := m.checkPhase(WaitingForMove); err != nil {
		return Piece{}, nil, err
	}
	piece, ok := m.state.Piece(pieceID)
	if !ok {
		log.Debug().Int("piece", pieceID).Msg("unknown piece")
		return Piece{}, nil, ErrUnknownPiece
	}
	if piece.Owner != m.CurrentPlayer() {
		log.Debug().Msgf("That's not your piece: %s", piece)
		return Piece{}, nil, ErrNotCurrentPlayer
	}
	opts := m.legal[pieceID]
	if len(opts) == 0 {
		log.Debug().Msgf("%s has no legal moves", piece)
		return Piece{}, nil, ErrNoLegalMoves
	}
	return piece, opts, nil
}

func (m *Machine) isDoubles() bool {
	return m.dice1 > 0 && m.dice1 == m.dice2
}

// advance enumerates the current player's options and either waits for a
// choice, plays the only option or ends the roll.
func (m *Machine) advance() {
	total := m.computeLegalMoves()
	switch total {
	case 0:
		m.forfeitBonuses()
		if m.isDoubles() && !m.hadBlockade {
			m.clearLegal()
			log.Debug().Msgf("Player %d can roll again", m.CurrentPlayer())
			m.setPhase(WaitingForRoll)
			return
		}
		log.Debug().Msgf("Player %d has no legal moves with roll %d, %d", m.CurrentPlayer(), m.dice1, m.dice2)
		m.nextPlayer()
	case 1:
		var only MoveOption
		for _, opts := range m.legal {
			only = opts[0]
		}
		if piece, _ := m.state.Piece(only.Piece); piece.InBase() {
			m.emit(ForcedMove{Player: m.CurrentPlayer(), Kind: ForcedStart})
		}
		m.execute(only, 0, true)
	default:
		m.setPhase(WaitingForMove)
	}
}

// computeLegalMoves rebuilds the option table: per piece, each unused die,
// the sum of both dice when neither is used, then every pending bonus.
// Pieces are visited by slot.
func (m *Machine) computeLegalMoves() int {
	player := m.CurrentPlayer()
	m.legal = map[int][]MoveOption{}

	baseSeen := false
	for _, piece := range m.state.PiecesOf(player) {
		// Pieces in base are interchangeable, only the first one is offered
		if piece.InBase() {
			if baseSeen {
				continue
			}
			baseSeen = true
		}
		var opts []MoveOption
		if !m.dice1Used {
			opts = m.appendOption(opts, piece, m.dice1, true, false, -1)
		}
		if !m.dice2Used {
			opts = m.appendOption(opts, piece, m.dice2, false, true, -1)
		}
		if !m.dice1Used && !m.dice2Used {
			opts = m.appendOption(opts, piece, m.dice1+m.dice2, true, true, -1)
		}
		for i, steps := range m.bonuses {
			opts = m.appendOption(opts, piece, steps, false, false, i)
		}
		if len(opts) > 0 {
			m.legal[piece.ID] = opts
		}
	}

	if m.isDoubles() {
		m.applyBlockadeBreak(player)
	}

	total := m.MoveCount()
	m.emit(MovesUpdated{Player: player, Count: total})
	return total
}

func (m *Machine) appendOption(opts []MoveOption, piece Piece, steps int, dice1, dice2 bool, bonus int) []MoveOption {
	result := m.rules.TryResolveMove(piece, steps, m.state)
	if !result.Playable() {
		return opts
	}
	return append(opts, MoveOption{
		Piece:      piece.ID,
		Target:     result.Target,
		Steps:      steps,
		UsesDice1:  dice1,
		UsesDice2:  dice2,
		BonusIndex: bonus,
		Result:     result,
	})
}

// blockadePieces returns the IDs of player's pieces standing in a blockade.
func (m *Machine) blockadePieces(player int) map[int]bool {
	out := map[int]bool{}
	for _, piece := range m.state.PiecesOf(player) {
		if piece.InBase() {
			continue
		}
		if blocked, owner := m.rules.IsBlockadeAtTile(piece.Tile, m.state); blocked && owner == player {
			out[piece.ID] = true
		}
	}
	return out
}

// applyBlockadeBreak keeps only blockade pieces' options on a doubles roll
// when at least one of them can move. Strict rules keep only them regardless.
func (m *Machine) applyBlockadeBreak(player int) {
	blockade := m.blockadePieces(player)
	if len(blockade) == 0 {
		return
	}
	movable := false
	for id := range blockade {
		if len(m.legal[id]) > 0 {
			movable = true
			break
		}
	}
	if !movable && !m.rules.Set().StrictBlockadeBreak {
		return
	}
	for id := range m.legal {
		if !blockade[id] {
			delete(m.legal, id)
		}
	}
	m.emit(ForcedMove{Player: player, Kind: BlockadeBreak})
}

func (m *Machine) execute(opt MoveOption, index int, auto bool) {
	player := m.CurrentPlayer()
	piece, _ := m.state.Piece(opt.Piece)
	m.emit(MoveSelected{Turn: m.turn, Player: player, Piece: piece, OptionIndex: index, Option: opt, Auto: auto})

	if opt.UsesDice1 {
		m.dice1Used = true
	}
	if opt.UsesDice2 {
		m.dice2Used = true
	}
	if opt.IsBonus() && opt.BonusIndex < len(m.bonuses) {
		m.bonuses = append(m.bonuses[:opt.BonusIndex], m.bonuses[opt.BonusIndex+1:]...)
	}

	log.Debug().Msgf("Moving %s to %d (%s)", piece, opt.Target, opt.Result.Status)
	path := m.rules.GetPathIndices(piece, opt.Steps)
	m.setPhase(MovePending)
	m.emit(MoveStarted{Piece: piece, Option: opt, Path: path})

	completed := false
	m.view.AnimateMove(piece, path, func() {
		// A game ended mid-animation drops the pending move
		if completed || m.phase == GameOverPhase {
			return
		}
		completed = true
		m.completeMove(opt)
	})
}

func (m *Machine) completeMove(opt MoveOption) {
	player := m.CurrentPlayer()
	set := m.rules.Set()

	m.state.MoveToTile(opt.Piece, opt.Result.Target)
	if opt.Result.Status == Capture {
		m.state.MoveToBase(opt.Result.Captured)
		captured, _ := m.state.Piece(opt.Result.Captured)
		log.Debug().Msgf("Player %d captured %s", player, captured)
		m.emit(PieceSentToBase{Piece: captured, Reason: Captured})
		m.grantBonus(player, CaptureBonusKind, set.CaptureBonus)
	}
	m.view.LayoutPieces(m.state.Pieces())
	moved, _ := m.state.Piece(opt.Piece)
	m.emit(MoveEnded{Piece: moved, Result: opt.Result})

	if opt.Result.Status == ReachedHome {
		m.grantBonus(player, HomeBonusKind, set.HomeBonus)
		if m.state.AllHome(player) {
			m.finishPlayer(player)
			if m.phase != GameOverPhase {
				m.nextPlayer()
			}
			return
		}
	}
	m.continueTurn()
}

func (m *Machine) continueTurn() {
	if m.dice1Used && m.dice2Used && len(m.bonuses) == 0 {
		m.clearLegal()
		if m.isDoubles() {
			log.Debug().Msgf("Player %d can roll again", m.CurrentPlayer())
			m.setPhase(WaitingForRoll)
			return
		}
		m.nextPlayer()
		return
	}
	m.advance()
}

func (m *Machine) grantBonus(player int, kind BonusKind, steps int) {
	if steps <= 0 {
		return
	}
	m.bonuses = append(m.bonuses, steps)
	m.emit(BonusGranted{Player: player, Kind: kind, Steps: steps})
}

func (m *Machine) forfeitBonuses() {
	if len(m.bonuses) == 0 {
		return
	}
	dropped := m.bonuses
	m.bonuses = nil
	log.Debug().Ints("bonuses", dropped).Msgf("Player %d forfeits bonuses", m.CurrentPlayer())
	m.emit(BonusForfeited{Player: m.CurrentPlayer(), Steps: dropped})
}

// applyDoublesPenalty sends the player's most advanced piece that is on the
// board and not home back to base.
func (m *Machine) applyDoublesPenalty(player int) {
	best, bestScore := -1, -1
	home := m.rules.HomeTile(player)
	for _, piece := range m.state.PiecesOf(player) {
		if piece.InBase() || piece.Tile == home {
			continue
		}
		if score := m.rules.GetProgressScore(piece.Tile, player); best == -1 || score > bestScore {
			best, bestScore = piece.ID, score
		}
	}
	if best == -1 {
		return
	}
	m.state.MoveToBase(best)
	penalized, _ := m.state.Piece(best)
	log.Debug().Msgf("Player %d penalized, %s sent to base", player, penalized)
	m.emit(PieceSentToBase{Piece: penalized, Reason: DoublesPenalty})
	m.view.LayoutPieces(m.state.Pieces())
}

func (m *Machine) unfinished() []int {
	return utils.Filter(m.players, func(p int) bool { return !m.finished[p] })
}

func (m *Machine) rank(player int) {
	m.finished[player] = true
	m.ranking = append(m.ranking, player)
	place := len(m.ranking)
	log.Info().Msgf("Player %d finished in place %d", player, place)
	m.emit(PlayerFinished{Player: player, Place: place, Medal: MedalFor(place)})
}

func (m *Machine) finishPlayer(player int) {
	m.rank(player)
	if m.rules.Set().EndOnFirstFinish || len(m.unfinished()) <= 1 {
		m.endGame()
	}
}

func (m *Machine) endGame() {
	if rest := m.unfinished(); len(rest) == 1 {
		m.rank(rest[0])
	}
	m.clearLegal()
	m.setPhase(GameOverPhase)
	log.Info().Ints("ranking", m.ranking).Msgf("Game over after %d turns", m.turn)
	m.emit(GameOver{Ranking: m.Ranking()})
}

// nextPlayer passes the turn to the next active player that has not finished.
func (m *Machine) nextPlayer() {
	m.doubles = 0
	m.hadBlockade = false
	m.bonuses = nil
	m.clearLegal()

	if len(m.unfinished()) <= 1 {
		m.endGame()
		return
	}
	from := m.CurrentPlayer()
	for i := 1; i <= len(m.players); i++ {
		next := m.players[(m.current+i)%len(m.players)]
		if !m.finished[next] {
			m.current = utils.FindIndex(m.players, next)
			break
		}
	}
	m.turn++
	log.Debug().Msgf("Turn %d: player %d -> player %d", m.turn, from, m.CurrentPlayer())
	m.setPhase(WaitingForRoll)
	m.emit(TurnChanged{Turn: m.turn, Player: m.CurrentPlayer()})
}

func (m *Machine) clearLegal() {
	if len(m.legal) > 0 {
		m.legal = map[int][]MoveOption{}
	}
}

func (m *Machine) setPhase(phase Phase) {
	if m.phase == phase {
		return
	}
	m.phase = phase
	m.emit(PhaseChanged{Phase: phase})
}

func (m *Machine) emit(e Event) {
	for _, l := range m.listeners {
		l(e)
	}
}

// SortedPieceIDs returns the IDs of pieces that currently have options.
func (m *Machine) SortedPieceIDs() []int {
	ids := make([]int, 0, len(m.legal))
	for id := range m.legal {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// instantView completes every move as soon as it is requested.
type instantView struct{}

func (instantView) TileAnchor(tile int) Anchor { return Anchor{X: float64(tile)} }

func (instantView) AnimateMove(_ Piece, _ []int, done func()) { done() }

func (instantView) LayoutPieces([]Piece) {}
