package metrics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Distribution describes one per-game quantity over a batch of games.
type Distribution struct {
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	Max    float64
}

func (d Distribution) String() string {
	return fmt.Sprintf("mean=%.1f sd=%.1f min=%.0f median=%.0f max=%.0f", d.Mean, d.StdDev, d.Min, d.Median, d.Max)
}

type Summary struct {
	Games     int
	Completed int
	Wins      map[int]int // Games won by player index
	Turns     Distribution
	Moves     Distribution
	Captures  Distribution
	Penalties Distribution
}

func Summarize(games []GameMetric) Summary {
	s := Summary{Games: len(games), Wins: map[int]int{}}
	if len(games) == 0 {
		return s
	}
	turns := make([]float64, len(games))
	moves := make([]float64, len(games))
	captures := make([]float64, len(games))
	penalties := make([]float64, len(games))
	for i, g := range games {
		if g.Completed {
			s.Completed++
		}
		if g.Winner >= 0 {
			s.Wins[g.Winner]++
		}
		turns[i] = float64(g.Turns)
		moves[i] = float64(g.TotalMoves)
		captures[i] = float64(g.Captures)
		penalties[i] = float64(g.DoublesPenalties)
	}
	s.Turns = distribution(turns)
	s.Moves = distribution(moves)
	s.Captures = distribution(captures)
	s.Penalties = distribution(penalties)
	return s
}

func distribution(values []float64) Distribution {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	d := Distribution{
		Mean:   stat.Mean(sorted, nil),
		Min:    floats.Min(sorted),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Max:    floats.Max(sorted),
	}
	if len(sorted) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	return d
}
