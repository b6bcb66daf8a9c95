package game

import "parchis/meta"

const RulesType = "Spanish"

// RuleSet holds the numeric rules and house-rule switches of a game.
type RuleSet struct {
	StartRoll       int // Steps required to leave base
	CaptureBonus    int // Bonus steps after capturing
	HomeBonus       int // Bonus steps after reaching home
	MaxDoubles      int // Consecutive doubles that trigger the penalty
	PiecesPerPlayer int

	// StrictBlockadeBreak restricts a doubles roll to blockade pieces even
	// when none of them can move, forfeiting the turn.
	StrictBlockadeBreak bool
	// EndOnFirstFinish ends the game as soon as one player has all pieces home.
	EndOnFirstFinish bool
}

func NewStandardRules() RuleSet {
	return RuleSet{
		StartRoll:       5,
		CaptureBonus:    20,
		HomeBonus:       10,
		MaxDoubles:      3,
		PiecesPerPlayer: meta.PIECES_PER_PLAYER,
	}
}

func (r RuleSet) Validate() error {
	switch {
	case r.StartRoll < 1 || r.StartRoll > 12:
		return &ConfigError{Field: "rules.startRoll", Reason: "must be reachable with two dice"}
	case r.CaptureBonus < 0:
		return &ConfigError{Field: "rules.captureBonus", Reason: "must not be negative"}
	case r.HomeBonus < 0:
		return &ConfigError{Field: "rules.homeBonus", Reason: "must not be negative"}
	case r.MaxDoubles < 1:
		return &ConfigError{Field: "rules.maxDoubles", Reason: "must be positive"}
	case r.PiecesPerPlayer < 1:
		return &ConfigError{Field: "rules.piecesPerPlayer", Reason: "must be positive"}
	}
	return nil
}

// DefaultPlayers returns the player indices seated for a player count.
// Two players sit on opposite corners.
func DefaultPlayers(count int) ([]int, error) {
	switch count {
	case 2:
		return []int{0, 2}, nil
	case 3:
		return []int{0, 1, 2}, nil
	case 4:
		return []int{0, 1, 2, 3}, nil
	}
	return nil, &ConfigError{Field: "players", Reason: "player count must be 2, 3 or 4"}
}
