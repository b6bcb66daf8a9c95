package player

import (
	"fmt"

	"parchis/game"

	"golang.org/x/exp/rand"
)

// Candidate is one playable option of the current player.
type Candidate struct {
	Piece  int // Piece ID
	Index  int // Index among the piece's options
	Option game.MoveOption
}

// Chooser picks a move whenever the machine waits for one.
type Chooser interface {
	Choose(m *game.Machine) Candidate
}

// Candidates lists the current options ordered by piece ID then option index.
func Candidates(m *game.Machine) []Candidate {
	var out []Candidate
	for _, id := range m.SortedPieceIDs() {
		for i, opt := range m.Options(id) {
			out = append(out, Candidate{Piece: id, Index: i, Option: opt})
		}
	}
	return out
}

// First always plays the first option of the lowest piece.
type First struct{}

func (First) Choose(m *game.Machine) Candidate {
	return Candidates(m)[0]
}

type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Choose(m *game.Machine) Candidate {
	candidates := Candidates(m)
	return candidates[r.rng.Intn(len(candidates))]
}

// Greedy plays the option with the best immediate payoff.
type Greedy struct{}

func (Greedy) Choose(m *game.Machine) Candidate {
	candidates := Candidates(m)
	best, bestScore := 0, Score(m, candidates[0])
	for i := 1; i < len(candidates); i++ {
		if score := Score(m, candidates[i]); score > bestScore {
			best, bestScore = i, score
		}
	}
	return candidates[best]
}

// Score rates a candidate: captures first, then reaching home, leaving base
// and plain progress. Landing on a shared tile is a small bonus.
func Score(m *game.Machine, c Candidate) float64 {
	rules := m.Rules()
	piece, _ := m.State().Piece(c.Piece)
	from := rules.GetProgressScore(piece.Tile, piece.Owner)
	to := rules.GetProgressScore(c.Option.Target, piece.Owner)

	score := float64(to - from)
	switch c.Option.Result.Status {
	case game.Capture:
		score += 100
	case game.ReachedHome:
		score += 80
	}
	if piece.InBase() {
		score += 50
	}
	if rules.IsTileSafe(c.Option.Target) {
		score += 10
	}
	return score
}

// New returns the chooser registered under name.
func New(name string, seed uint64) (Chooser, error) {
	switch name {
	case "first":
		return First{}, nil
	case "random":
		return NewRandom(seed), nil
	case "greedy":
		return Greedy{}, nil
	case "softmax":
		return NewSoftmax(seed, 10), nil
	}
	return nil, fmt.Errorf("unknown chooser %q", name)
}
