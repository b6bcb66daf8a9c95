package game

// Event is a one-way notification emitted by the state machine.
type Event interface {
	isEvent()
}

// Listener receives every event emitted by a Machine, in order.
type Listener func(Event)

type DiceRolled struct {
	Turn   int
	Player int
	Dice1  int
	Dice2  int
}

type TurnChanged struct {
	Turn   int
	Player int
}

type PhaseChanged struct {
	Phase Phase
}

// MovesUpdated is emitted after every legal move enumeration.
type MovesUpdated struct {
	Player int
	Count  int
}

// MoveSelected is emitted when an option is chosen. Auto is set when the
// machine played the only legal option by itself.
type MoveSelected struct {
	Turn        int
	Player      int
	Piece       Piece
	OptionIndex int
	Option      MoveOption
	Auto        bool
}

type MoveStarted struct {
	Piece  Piece
	Option MoveOption
	Path   []int
}

type MoveEnded struct {
	Piece  Piece
	Result MoveResult
}

type SendReason int

const (
	Captured SendReason = iota
	DoublesPenalty
)

func (r SendReason) String() string {
	if r == DoublesPenalty {
		return "penalty"
	}
	return "capture"
}

// PieceSentToBase is emitted when a piece is captured or penalized.
type PieceSentToBase struct {
	Piece  Piece
	Reason SendReason
}

type BonusKind int

const (
	CaptureBonusKind BonusKind = iota
	HomeBonusKind
)

type BonusGranted struct {
	Player int
	Kind   BonusKind
	Steps  int
}

// BonusForfeited is emitted when pending bonuses are dropped because no
// piece could use them.
type BonusForfeited struct {
	Player int
	Steps  []int
}

type Medal int

const (
	NoMedal Medal = iota
	Gold
	Silver
	Bronze
)

func (m Medal) String() string {
	switch m {
	case Gold:
		return "gold"
	case Silver:
		return "silver"
	case Bronze:
		return "bronze"
	}
	return "none"
}

// MedalFor returns the medal awarded for a 1-based placement.
func MedalFor(place int) Medal {
	switch place {
	case 1:
		return Gold
	case 2:
		return Silver
	case 3:
		return Bronze
	}
	return NoMedal
}

type PlayerFinished struct {
	Player int
	Place  int // 1-based
	Medal  Medal
}

// SelectionRequested is emitted when a clicked piece has several options and
// the Selector is asked to pick one.
type SelectionRequested struct {
	Piece   Piece
	Options []MoveOption
}

type ForcedKind int

const (
	BlockadeBreak ForcedKind = iota
	ForcedStart
)

func (k ForcedKind) String() string {
	if k == ForcedStart {
		return "forced-start"
	}
	return "blockade-break"
}

// ForcedMove is a hint for the presentation layer: the player's choice was
// narrowed by a rule.
type ForcedMove struct {
	Player int
	Kind   ForcedKind
}

type GameOver struct {
	Ranking []int
}

func (DiceRolled) isEvent()         {}
func (TurnChanged) isEvent()        {}
func (PhaseChanged) isEvent()       {}
func (MovesUpdated) isEvent()       {}
func (MoveSelected) isEvent()       {}
func (MoveStarted) isEvent()        {}
func (MoveEnded) isEvent()          {}
func (PieceSentToBase) isEvent()    {}
func (BonusGranted) isEvent()       {}
func (BonusForfeited) isEvent()     {}
func (PlayerFinished) isEvent()     {}
func (SelectionRequested) isEvent() {}
func (ForcedMove) isEvent()         {}
func (GameOver) isEvent()           {}
