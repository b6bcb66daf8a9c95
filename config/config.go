package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"parchis/game"
	"parchis/meta"
	"parchis/player"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var cfgFile = filepath.Join(meta.APP_NAME, "config.yaml")

type Rules struct {
	StartRoll           int  `yaml:"startRoll"`
	CaptureBonus        int  `yaml:"captureBonus"`
	HomeBonus           int  `yaml:"homeBonus"`
	MaxDoubles          int  `yaml:"maxDoubles"`
	PiecesPerPlayer     int  `yaml:"piecesPerPlayer"`
	StrictBlockadeBreak bool `yaml:"strictBlockadeBreak"`
	EndOnFirstFinish    bool `yaml:"endOnFirstFinish"`
}

type Config struct {
	Players   int    `yaml:"players"`
	Seed      int64  `yaml:"seed"`
	Games     int    `yaml:"games"`
	MaxTurns  int    `yaml:"maxTurns"`
	Chooser   string `yaml:"chooser"` // first, random, greedy or softmax
	LogLevel  string `yaml:"logLevel"`
	ReplayDir string `yaml:"replayDir"` // Empty uses the user's data directory
	OutputDir string `yaml:"outputDir"`
	Rules     Rules  `yaml:"rules"`
}

func Default() Config {
	set := game.NewStandardRules()
	return Config{
		Players:   4,
		Seed:      1,
		Games:     100,
		MaxTurns:  meta.MAX_TURNS,
		Chooser:   "random",
		LogLevel:  "info",
		OutputDir: "experiments",
		Rules: Rules{
			StartRoll:           set.StartRoll,
			CaptureBonus:        set.CaptureBonus,
			HomeBonus:           set.HomeBonus,
			MaxDoubles:          set.MaxDoubles,
			PiecesPerPlayer:     set.PiecesPerPlayer,
			StrictBlockadeBreak: set.StrictBlockadeBreak,
			EndOnFirstFinish:    set.EndOnFirstFinish,
		},
	}
}

// Init loads the user's config file if there is one and validates the result.
func Init() (*Config, string, error) {
	path, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		cfg := Default()
		return &cfg, "", cfg.Validate()
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Load reads a YAML file over the defaults. Missing keys keep their default.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &game.ConfigError{Field: path, Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to the user's config directory.
func (c *Config) Save() (string, error) {
	path, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	return path, c.WriteFile(path, 0664)
}

func (c *Config) WriteFile(path string, perm fs.FileMode) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := game.DefaultPlayers(c.Players); err != nil {
		errs = append(errs, err)
	}
	if c.Games < 1 {
		errs = append(errs, &game.ConfigError{Field: "games", Reason: "must be positive"})
	}
	if c.MaxTurns < 1 {
		errs = append(errs, &game.ConfigError{Field: "maxTurns", Reason: "must be positive"})
	}
	if _, err := player.New(c.Chooser, uint64(c.Seed)); err != nil {
		errs = append(errs, &game.ConfigError{Field: "chooser", Reason: err.Error()})
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, &game.ConfigError{Field: "logLevel", Reason: err.Error()})
	}
	if err := c.RuleSet().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) RuleSet() game.RuleSet {
	return game.RuleSet{
		StartRoll:           c.Rules.StartRoll,
		CaptureBonus:        c.Rules.CaptureBonus,
		HomeBonus:           c.Rules.HomeBonus,
		MaxDoubles:          c.Rules.MaxDoubles,
		PiecesPerPlayer:     c.Rules.PiecesPerPlayer,
		StrictBlockadeBreak: c.Rules.StrictBlockadeBreak,
		EndOnFirstFinish:    c.Rules.EndOnFirstFinish,
	}
}

func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
