// Package replay records games as JSON Lines and plays them back through the
// state machine's public entry points.
package replay

import (
	"fmt"

	"parchis/meta"
)

const Version = meta.REPLAY_FORMAT_VERSION

const (
	rollTag = "roll"
	moveTag = "move"
)

// Header is the first record of every replay.
type Header struct {
	V     int    `json:"v"`
	Rules string `json:"rules"`
	Seed  int64  `json:"seed"`
}

// Record is a roll or a move read from a replay.
type Record interface {
	tag() string
}

type Roll struct {
	E      string `json:"e"`
	Turn   int    `json:"turn"`
	Player int    `json:"player"`
	D1     int    `json:"d1"`
	D2     int    `json:"d2"`
}

// Move is a player's choice. Piece is the piece's slot among its owner's
// pieces and Bonus the bonus steps played, 0 for a dice move.
type Move struct {
	E          string `json:"e"`
	Turn       int    `json:"turn"`
	Player     int    `json:"player"`
	Piece      int    `json:"piece"`
	MoveOption int    `json:"moveOption"`
	Bonus      int    `json:"bonus"`
}

func (Roll) tag() string { return rollTag }
func (Move) tag() string { return moveTag }

func (r Roll) validate() error {
	if r.D1 < 1 || r.D1 > 6 || r.D2 < 1 || r.D2 > 6 {
		return fmt.Errorf("invalid dice values %d, %d", r.D1, r.D2)
	}
	if r.Player < 0 || r.Player > 3 {
		return fmt.Errorf("invalid player index %d", r.Player)
	}
	return nil
}

func (m Move) validate() error {
	if m.Player < 0 || m.Player > 3 {
		return fmt.Errorf("invalid player index %d", m.Player)
	}
	if m.Piece < 0 || m.Piece > 3 {
		return fmt.Errorf("invalid piece index %d", m.Piece)
	}
	if m.MoveOption < 0 {
		return fmt.Errorf("invalid move option %d", m.MoveOption)
	}
	return nil
}

// FormatError reports a malformed replay. Line is 1-based, 0 when unknown.
type FormatError struct {
	Line   int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("replay line %d: %s", e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }
