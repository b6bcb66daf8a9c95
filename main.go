package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"parchis/config"
	"parchis/engine"
	"parchis/experiments"
	"parchis/game"
	"parchis/player"
	"parchis/replay"
	"parchis/scenario"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: parchis <command> [flags]

commands:
  play      play one game between choosers and record a replay
  replay    play back a replay file and print the final position; pass the
            recording's -players count, seats are not stored in the replay
  simulate  run a batch of games and store metrics
  scenario  load a scenario file and list the legal moves for a roll
  config    write the effective config to the user's config directory`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "play":
		err = runPlay(args)
	case "replay":
		err = runReplay(args)
	case "simulate":
		err = runSimulate(args)
	case "scenario":
		err = runScenario(args)
	case "config":
		err = runConfig(args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msg("parchis failed")
		os.Exit(1)
	}
}

// loadConfig reads the config file named by the -config flag, or the user's
// config file when the flag is empty, then applies the log level.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.Init()
	}
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(cfg.Level())
	if path != "" {
		log.Debug().Msgf("loaded config from %s", path)
	}
	return cfg, nil
}

// commonFlags registers the flags shared by every command. Flag defaults are
// zero values; only flags the user set override the config.
type commonFlags struct {
	config  *string
	seed    *int64
	players *int
	chooser *string
}

func newCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		config:  fs.String("config", "", "Path to a config file"),
		seed:    fs.Int64("seed", 0, "Seed for dice and choosers"),
		players: fs.Int("players", 0, "Number of players (2-4)"),
		chooser: fs.String("chooser", "", "Move chooser: first, random, greedy or softmax"),
	}
}

func (f commonFlags) apply(fs *flag.FlagSet, cfg *config.Config) error {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "seed":
			cfg.Seed = *f.seed
		case "players":
			cfg.Players = *f.players
		case "chooser":
			cfg.Chooser = *f.chooser
		}
	})
	return cfg.Validate()
}

func setup(fs *flag.FlagSet, args []string) (*config.Config, error) {
	f := newCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(*f.config)
	if err != nil {
		return nil, err
	}
	return cfg, f.apply(fs, cfg)
}

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	replayDir := fs.String("replay-dir", "", "Replay folder, defaults to the user's data directory")
	noReplay := fs.Bool("no-replay", false, "Do not record a replay")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}

	players, _ := game.DefaultPlayers(cfg.Players)
	choosers := make([]player.Chooser, len(players))
	for i := range choosers {
		choosers[i], _ = player.New(cfg.Chooser, uint64(cfg.Seed)+uint64(i))
	}
	options := []engine.Option{engine.WithSeed(cfg.Seed), engine.WithMaxTurns(cfg.MaxTurns)}

	if !*noReplay {
		dir := *replayDir
		if dir == "" {
			dir = cfg.ReplayDir
		}
		if dir == "" {
			dir = replay.DefaultDir()
		}
		f, err := replay.Create(dir)
		if err != nil {
			return err
		}
		defer f.Close()
		options = append(options, engine.WithReplay(f))
	}

	e, err := engine.LocalEngine(cfg.RuleSet(), players, choosers, options...)
	if err != nil {
		return err
	}
	metric, err := e.Run()
	if err != nil {
		return err
	}
	fmt.Printf("turns: %d, moves: %d, captures: %d\n", metric.Turns, metric.TotalMoves, metric.Captures)
	printRanking(e.Machine)
	return nil
}

func runReplay(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("replay needs exactly one file argument")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to open replay: %w", err)
	}
	defer f.Close()
	r, err := replay.NewReader(f)
	if err != nil {
		return err
	}
	h := r.Header()
	if h.Rules != game.RulesType {
		log.Warn().Msgf("replay uses %q rules, playing with %q", h.Rules, game.RulesType)
	}

	m, err := newMachine(cfg, nil)
	if err != nil {
		return err
	}
	applied, err := replay.Play(r, m)
	if errors.Is(err, replay.ErrDesync) {
		return fmt.Errorf("%w (replayed with %d players, set -players to the recorded count)", err, cfg.Players)
	}
	if err != nil {
		return err
	}
	log.Info().Msgf("applied %d records from seed %d", applied, h.Seed)
	printPieces(m)
	printRanking(m)
	return nil
}

func runSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	games := fs.Int("games", 0, "Number of games, overrides the config")
	out := fs.String("out", "", "Output folder, overrides the config")
	name := fs.String("name", "simulation", "Experiment name")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *games > 0 {
		cfg.Games = *games
	}
	if *out != "" {
		cfg.OutputDir = *out
	}

	players, _ := game.DefaultPlayers(cfg.Players)
	sim := experiments.Simulation{
		Name:     *name,
		Games:    cfg.Games,
		Seed:     cfg.Seed,
		Players:  players,
		Chooser:  cfg.Chooser,
		Rules:    cfg.RuleSet(),
		MaxTurns: cfg.MaxTurns,
	}
	summary, dir, err := sim.RunAndStore(cfg.OutputDir)
	if err != nil {
		return err
	}
	fmt.Printf("games: %d (%d completed), results in %s\n", summary.Games, summary.Completed, dir)
	fmt.Printf("turns:     %s\n", summary.Turns)
	fmt.Printf("moves:     %s\n", summary.Moves)
	fmt.Printf("captures:  %s\n", summary.Captures)
	fmt.Printf("penalties: %s\n", summary.Penalties)
	for _, p := range players {
		fmt.Printf("player %d won %d games\n", p, summary.Wins[p])
	}
	return nil
}

func runScenario(args []string) error {
	fs := flag.NewFlagSet("scenario", flag.ExitOnError)
	d1 := fs.Int("d1", 5, "First die")
	d2 := fs.Int("d2", 3, "Second die")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("scenario needs exactly one file argument")
	}

	sc, err := scenario.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	// Every seat is filled so that any player in the file has pieces
	cfg.Players = 4
	m, err := newMachine(cfg, sc)
	if err != nil {
		return err
	}
	fmt.Printf("%s: player %d rolls %d, %d\n", sc.Title, m.CurrentPlayer(), *d1, *d2)

	m.Subscribe(func(e game.Event) {
		switch e := e.(type) {
		case game.ForcedMove:
			fmt.Printf("forced: %s\n", e.Kind)
		case game.MoveSelected:
			if e.Auto {
				fmt.Printf("only move played: %s -> %s\n", e.Option, e.Option.Result)
			}
		case game.BonusForfeited:
			fmt.Printf("bonuses forfeited: %v\n", e.Steps)
		}
	})
	if err := m.RollDice(*d1, *d2); err != nil {
		return err
	}
	for _, id := range m.SortedPieceIDs() {
		for i, opt := range m.Options(id) {
			fmt.Printf("piece %d option %d: %s -> %s\n", id, i, opt, opt.Result)
		}
	}
	fmt.Printf("phase: %s, player: %d\n", m.Phase(), m.CurrentPlayer())
	return nil
}

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	path, err := cfg.Save()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// newMachine seats the configured players on a fresh board. A scenario, when
// given, is applied to the pieces and names the player to move.
func newMachine(cfg *config.Config, sc *scenario.Scenario) (*game.Machine, error) {
	players, err := game.DefaultPlayers(cfg.Players)
	if err != nil {
		return nil, err
	}
	set := cfg.RuleSet()
	board := game.MustStandardBoard()
	state, err := game.NewState(board, players, set.PiecesPerPlayer)
	if err != nil {
		return nil, err
	}
	var options []game.Option
	if sc != nil {
		if err := sc.Apply(state); err != nil {
			return nil, err
		}
		options = append(options, game.WithFirstPlayer(sc.Current))
	}
	return game.NewMachine(state, game.NewRules(board, set), players, options...)
}

func printPieces(m *game.Machine) {
	for _, p := range m.State().Pieces() {
		fmt.Println(p)
	}
}

func printRanking(m *game.Machine) {
	for i, p := range m.Ranking() {
		fmt.Printf("%d. player %d %s\n", i+1, p, game.MedalFor(i+1))
	}
	if m.Phase() != game.GameOverPhase {
		fmt.Println("game not finished")
	}
}
