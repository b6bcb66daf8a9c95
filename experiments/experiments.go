package experiments

import (
	"fmt"

	"parchis/engine"
	"parchis/experiments/metrics"
	"parchis/game"
	"parchis/player"

	"github.com/rs/zerolog/log"
)

// Simulation is a batch of seeded games between identical choosers.
type Simulation struct {
	Name     string
	Games    int
	Seed     int64 // Game i uses Seed+i
	Players  []int
	Chooser  string
	Rules    game.RuleSet
	MaxTurns int
}

// Run plays every game and returns one record per game. Starting seats
// rotate so no player always moves first.
func (s Simulation) Run() ([]metrics.GameRecord, error) {
	records := make([]metrics.GameRecord, 0, s.Games)

	log.Info().Msgf("starting %s experiment...", s.Name)
	for i := 0; i < s.Games; i++ {
		seed := s.Seed + int64(i)
		gameMetric, err := s.runGame(seed, s.Players[i%len(s.Players)])
		if err != nil {
			return records, fmt.Errorf("game %d: %w", i+1, err)
		}
		records = append(records, metrics.GameRecord{
			ID:         i + 1,
			Chooser:    s.Chooser,
			GameMetric: gameMetric,
		})
		log.Debug().Msgf("completed game %d of %d with winner: %d", i+1, s.Games, gameMetric.Winner)
	}
	log.Info().Msgf("completed %s experiment", s.Name)
	return records, nil
}

func (s Simulation) runGame(seed int64, first int) (metrics.GameMetric, error) {
	choosers := make([]player.Chooser, len(s.Players))
	for i := range choosers {
		c, err := player.New(s.Chooser, uint64(seed)*31+uint64(i))
		if err != nil {
			return metrics.GameMetric{}, err
		}
		choosers[i] = c
	}
	e, err := engine.LocalEngine(s.Rules, s.Players, choosers,
		engine.WithSeed(seed),
		engine.WithMaxTurns(s.MaxTurns),
		engine.WithFirstPlayer(first),
	)
	if err != nil {
		return metrics.GameMetric{}, err
	}
	return e.Run()
}

// RunAndStore runs the simulation and writes game records and a summary
// under root.
func (s Simulation) RunAndStore(root string) (metrics.Summary, string, error) {
	records, err := s.Run()
	if err != nil {
		return metrics.Summary{}, "", err
	}

	games := make([]metrics.GameMetric, len(records))
	for i, r := range records {
		games[i] = r.GameMetric
	}
	summary := metrics.Summarize(games)

	writer, err := metrics.NewWriter(root, s.Name)
	if err != nil {
		return summary, "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteGameRecords(records); err != nil {
		return summary, "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteSummary(summary); err != nil {
		return summary, "", fmt.Errorf("failed to write summary: %w", err)
	}
	log.Info().Msg("stored summary")
	return summary, writer.Dir(), nil
}
