package player

import (
	"math"

	"parchis/game"

	"golang.org/x/exp/rand"
)

// Softmax samples a candidate with probability proportional to
// exp(Score/temperature). Low temperatures approach Greedy.
type Softmax struct {
	rng         *rand.Rand
	temperature float64
}

func NewSoftmax(seed uint64, temperature float64) *Softmax {
	if temperature <= 0 {
		temperature = 1
	}
	return &Softmax{rng: rand.New(rand.NewSource(seed)), temperature: temperature}
}

func (s *Softmax) Choose(m *game.Machine) Candidate {
	candidates := Candidates(m)
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = Score(m, c)
	}
	policy := adjustTemperature(scores, s.temperature)
	return candidates[sample(policy, s.rng.Float64())]
}

func adjustTemperature(scores []float64, temperature float64) []float64 {
	// Shift by the max score to keep exp in range
	maxScore := math.Inf(-1)
	for _, score := range scores {
		maxScore = math.Max(maxScore, score)
	}
	sum := 0.0
	policy := make([]float64, len(scores))
	for i, score := range scores {
		policy[i] = math.Exp((score - maxScore) / temperature)
		sum += policy[i]
	}
	// Normalize
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(policy []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}
