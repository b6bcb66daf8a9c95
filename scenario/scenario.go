// Package scenario loads hand-written board positions from YAML, for
// debugging rules and reproducing reported games.
package scenario

import (
	"fmt"
	"io"
	"os"

	"parchis/game"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Entry places one piece. Tile -1 puts the piece back in base.
type Entry struct {
	Player int `yaml:"player"`
	Piece  int `yaml:"piece"`
	Tile   int `yaml:"tile"`
}

type Scenario struct {
	Title   string  `yaml:"title"`
	Current int     `yaml:"current"` // Player to move
	Pieces  []Entry `yaml:"pieces"`
}

func Load(r io.Reader) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	return &s, nil
}

func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks the scenario against a state's board and pieces.
func (s *Scenario) Validate(state *game.State) error {
	players := state.Board.Layout.Players
	if s.Current < 0 || s.Current >= players {
		return &game.ConfigError{Field: "scenario.current", Reason: fmt.Sprintf("player %d out of range", s.Current)}
	}
	seen := map[[2]int]bool{}
	for i, e := range s.Pieces {
		field := fmt.Sprintf("scenario.pieces[%d]", i)
		if e.Player < 0 || e.Player >= players {
			return &game.ConfigError{Field: field, Reason: fmt.Sprintf("player %d out of range", e.Player)}
		}
		if _, ok := state.PieceBySlot(e.Player, e.Piece); !ok {
			return &game.ConfigError{Field: field, Reason: fmt.Sprintf("player %d has no piece %d", e.Player, e.Piece)}
		}
		if e.Tile != game.Base && !state.Board.InRange(e.Tile) {
			return &game.ConfigError{Field: field, Reason: fmt.Sprintf("tile %d out of range", e.Tile)}
		}
		key := [2]int{e.Player, e.Piece}
		if seen[key] {
			return &game.ConfigError{Field: field, Reason: fmt.Sprintf("piece %d of player %d placed twice", e.Piece, e.Player)}
		}
		seen[key] = true
	}
	return nil
}

// Apply moves the listed pieces in order, so later entries arrive later.
func (s *Scenario) Apply(state *game.State) error {
	if err := s.Validate(state); err != nil {
		return err
	}
	for _, e := range s.Pieces {
		p, _ := state.PieceBySlot(e.Player, e.Piece)
		if e.Tile == game.Base {
			state.MoveToBase(p.ID)
		} else {
			state.MoveToTile(p.ID, e.Tile)
		}
	}
	log.Info().Msgf("Loaded scenario %q with %d pieces", s.Title, len(s.Pieces))
	return nil
}
