package game

import (
	"golang.org/x/exp/rand"
)

// Dice is the random source for rolls. Roll returns two values in 1..6.
type Dice interface {
	Roll() (int, int)
}

// RandomDice rolls two independent uniform dice from a seeded generator, so
// a game can be reproduced from its seed.
type RandomDice struct {
	rng *rand.Rand
}

func NewRandomDice(seed uint64) *RandomDice {
	return &RandomDice{rng: rand.New(rand.NewSource(seed))}
}

func (d *RandomDice) Roll() (int, int) {
	return d.rng.Intn(6) + 1, d.rng.Intn(6) + 1
}

// FixedDice replays a scripted list of rolls and then repeats the last one.
type FixedDice struct {
	Rolls [][2]int
	next  int
}

func (d *FixedDice) Roll() (int, int) {
	if len(d.Rolls) == 0 {
		return 1, 2
	}
	i := d.next
	if i >= len(d.Rolls) {
		i = len(d.Rolls) - 1
	} else {
		d.next++
	}
	return d.Rolls[i][0], d.Rolls[i][1]
}
