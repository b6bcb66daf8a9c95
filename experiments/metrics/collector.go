package metrics

import (
	"time"

	"parchis/game"
)

type GameMetric struct {
	Seed             int64
	StartingPlayer   int   // Player index
	Winner           int   // Player index, -1 if the game was cut off
	Ranking          []int // Finishing order
	Completed        bool  // False when the turn cap stopped the game
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
	Turns            int
	Rolls            int
	Doubles          int
	TotalMoves       int
	AutoMoves        int
	Captures         int
	DoublesPenalties int
	BonusesGranted   int
	BonusesForfeited int
	BlockadeBreaks   int
}

// Collector builds a GameMetric from the events of one game. Register Listen
// on the machine before the game starts.
type Collector struct {
	metric GameMetric
}

func NewCollector(seed int64, startingPlayer int) *Collector {
	return &Collector{metric: GameMetric{
		Seed:           seed,
		StartingPlayer: startingPlayer,
		Winner:         -1,
		StartTime:      time.Now(),
	}}
}

func (c *Collector) Listen(e game.Event) {
	m := &c.metric
	switch e := e.(type) {
	case game.DiceRolled:
		m.Rolls++
		if e.Dice1 == e.Dice2 {
			m.Doubles++
		}
	case game.TurnChanged:
		m.Turns = e.Turn
	case game.MoveSelected:
		m.TotalMoves++
		if e.Auto {
			m.AutoMoves++
		}
	case game.PieceSentToBase:
		if e.Reason == game.Captured {
			m.Captures++
		} else {
			m.DoublesPenalties++
		}
	case game.BonusGranted:
		m.BonusesGranted++
	case game.BonusForfeited:
		m.BonusesForfeited += len(e.Steps)
	case game.ForcedMove:
		if e.Kind == game.BlockadeBreak {
			m.BlockadeBreaks++
		}
	case game.GameOver:
		m.Completed = true
		m.Ranking = append([]int(nil), e.Ranking...)
		if len(e.Ranking) > 0 {
			m.Winner = e.Ranking[0]
		}
	}
}

// Complete stamps the end time and returns the collected metric.
func (c *Collector) Complete() GameMetric {
	c.metric.EndTime = time.Now()
	c.metric.Duration = c.metric.EndTime.Sub(c.metric.StartTime)
	out := c.metric
	out.Ranking = append([]int(nil), c.metric.Ranking...)
	return out
}
