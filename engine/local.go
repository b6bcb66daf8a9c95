package engine

import (
	"fmt"
	"io"

	"parchis/experiments/metrics"
	"parchis/game"
	"parchis/meta"
	"parchis/player"
	"parchis/replay"

	"github.com/rs/zerolog/log"
)

var _ Engine = (*Local)(nil)

// Local plays a whole game in-process: every player is a Chooser and moves
// complete instantly.
type Local struct {
	Machine   *game.Machine
	choosers  map[int]player.Chooser
	collector *metrics.Collector
	recorder  *replay.Recorder
	maxTurns  int
}

type settings struct {
	seed     int64
	dice     game.Dice
	maxTurns int
	replay   io.Writer
	first    int
	state    *game.State
}

type Option func(s *settings)

// WithSeed seeds the dice. The seed is also written to the replay header.
func WithSeed(seed int64) Option {
	return func(s *settings) {
		s.seed = seed
	}
}

// WithDice replaces the seeded dice.
func WithDice(dice game.Dice) Option {
	return func(s *settings) {
		s.dice = dice
	}
}

func WithMaxTurns(turns int) Option {
	return func(s *settings) {
		s.maxTurns = turns
	}
}

// WithReplay records the game to w.
func WithReplay(w io.Writer) Option {
	return func(s *settings) {
		s.replay = w
	}
}

func WithFirstPlayer(p int) Option {
	return func(s *settings) {
		s.first = p
	}
}

// WithState starts from a prepared position instead of all pieces in base.
func WithState(state *game.State) Option {
	return func(s *settings) {
		s.state = state
	}
}

// LocalEngine seats one chooser per player on the standard board.
func LocalEngine(set game.RuleSet, players []int, choosers []player.Chooser, options ...Option) (*Local, error) {
	if len(players) != len(choosers) {
		return nil, fmt.Errorf("got %d choosers for %d players", len(choosers), len(players))
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	s := settings{seed: 1, maxTurns: meta.MAX_TURNS, first: -1}
	for _, option := range options {
		option(&s)
	}
	if s.dice == nil {
		s.dice = game.NewRandomDice(uint64(s.seed))
	}

	state := s.state
	if state == nil {
		var err error
		state, err = game.NewState(game.MustStandardBoard(), players, set.PiecesPerPlayer)
		if err != nil {
			return nil, err
		}
	}

	e := &Local{
		choosers: map[int]player.Chooser{},
		maxTurns: s.maxTurns,
	}
	for i, p := range players {
		e.choosers[p] = choosers[i]
	}

	machineOptions := []game.Option{game.WithDice(s.dice)}
	if s.first >= 0 {
		machineOptions = append(machineOptions, game.WithFirstPlayer(s.first))
	}
	if s.replay != nil {
		w := replay.NewWriter(s.replay)
		if err := w.WriteHeader(s.seed, game.RulesType); err != nil {
			return nil, err
		}
		e.recorder = replay.NewRecorder(w)
		machineOptions = append(machineOptions, game.WithListener(e.recorder.Listen))
	}

	m, err := game.NewMachine(state, game.NewRules(state.Board, set), players, machineOptions...)
	if err != nil {
		return nil, err
	}
	e.Machine = m
	e.collector = metrics.NewCollector(s.seed, m.CurrentPlayer())
	m.Subscribe(e.collector.Listen)
	return e, nil
}

// Run executes the entire game loop until the game is over or the turn cap
// is reached. A capped game keeps its partial ranking and has no winner.
func (e *Local) Run() (metrics.GameMetric, error) {
	m := e.Machine
	log.Info().Msgf("player %d is starting", m.CurrentPlayer())
	m.Start()

	for m.Phase() != game.GameOverPhase && m.Turn() < e.maxTurns {
		switch m.Phase() {
		case game.WaitingForRoll:
			if err := m.Roll(); err != nil {
				return e.collector.Complete(), fmt.Errorf("turn %d: %w", m.Turn(), err)
			}
		case game.WaitingForMove:
			c := e.choosers[m.CurrentPlayer()].Choose(m)
			if err := m.SelectMove(c.Piece, c.Index); err != nil {
				return e.collector.Complete(), fmt.Errorf("turn %d: %w", m.Turn(), err)
			}
		default:
			return e.collector.Complete(), fmt.Errorf("turn %d: unexpected phase %s", m.Turn(), m.Phase())
		}
		if e.recorder != nil && e.recorder.Err() != nil {
			return e.collector.Complete(), e.recorder.Err()
		}
	}

	metric := e.collector.Complete()
	if metric.Completed {
		log.Info().Ints("ranking", metric.Ranking).Msgf("game over after %d turns", metric.Turns)
	} else {
		log.Info().Msgf("stopped after %d turns (no winner yet)", m.Turn())
	}
	return metric, nil
}
