// Package config loads microchess settings from a YAML file and
// MICROCHESS_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	mcerrors "github.com/hailam/microchess/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. MICROCHESS_MATCH_GAMES.
const EnvPrefix = "MICROCHESS"

// MaxDepth is the deepest search an agent may be configured with.
const MaxDepth = 8

type Config struct {
	Agent   AgentConfig   `mapstructure:"agent"`
	Match   MatchConfig   `mapstructure:"match"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

// BreadthConfig overrides the per-depth candidate caps. Zero keeps the
// preset value.
type BreadthConfig struct {
	Root     int `mapstructure:"root"`
	Deep     int `mapstructure:"deep"`
	Shallow  int `mapstructure:"shallow"`
	Frontier int `mapstructure:"frontier"`
}

// AgentConfig selects a strategy and overrides its preset. Pointer fields
// distinguish "unset" from false.
type AgentConfig struct {
	Kind          string        `mapstructure:"kind"`
	Name          string        `mapstructure:"name"`
	Eval          string        `mapstructure:"eval"`
	Depth         int           `mapstructure:"depth"`
	Breadth       BreadthConfig `mapstructure:"breadth"`
	Extensions    *bool         `mapstructure:"extensions"`
	MaxExtensions int           `mapstructure:"max_extensions"`
	Danger        *bool         `mapstructure:"danger"`
	Seed          int64         `mapstructure:"seed"`
	Nodes         uint64        `mapstructure:"nodes"`
}

type MatchConfig struct {
	Games      int           `mapstructure:"games"`
	Parallel   int           `mapstructure:"parallel"`
	MaxPlies   int           `mapstructure:"max_plies"`
	Opponent   AgentConfig   `mapstructure:"opponent"`
	TimeBudget time.Duration `mapstructure:"time_budget"` // average per move
	PassScore  int           `mapstructure:"pass_score"`  // minimum wins(A) - wins(B)
	Save       bool          `mapstructure:"save"`
}

type StorageConfig struct {
	Dir      string `mapstructure:"dir"` // empty resolves to the platform data dir
	InMemory bool   `mapstructure:"in_memory"`
}

type ServerConfig struct {
	Addr        string        `mapstructure:"addr"`
	MoveTimeout time.Duration `mapstructure:"move_timeout"`
	LocalCORS   bool          `mapstructure:"local_cors"`
}

type LogConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, err := load(newViper())
	if err != nil {
		panic("default configuration is invalid: " + err.Error())
	}
	return cfg
}

// Load reads the YAML file at path (optional when empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("agent.kind", "tactical")
	v.SetDefault("agent.name", "")
	v.SetDefault("agent.eval", "")
	v.SetDefault("agent.depth", 0)
	v.SetDefault("agent.seed", 0)
	v.SetDefault("agent.nodes", 0)
	v.SetDefault("agent.max_extensions", 0)

	v.SetDefault("match.games", 50)
	v.SetDefault("match.parallel", 4)
	v.SetDefault("match.max_plies", 200)
	v.SetDefault("match.opponent.kind", "random")
	v.SetDefault("match.time_budget", 200*time.Millisecond)
	v.SetDefault("match.pass_score", 40)
	v.SetDefault("match.save", false)

	v.SetDefault("storage.dir", "")
	v.SetDefault("storage.in_memory", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.move_timeout", 5*time.Second)
	v.SetDefault("server.local_cors", false)

	v.SetDefault("log.development", false)
	v.SetDefault("log.level", "info")
	return v
}

func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", mcerrors.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges; it does not resolve agent kinds.
func (c *Config) Validate() error {
	if err := c.Agent.validate("agent"); err != nil {
		return err
	}
	if err := c.Match.Opponent.validate("match.opponent"); err != nil {
		return err
	}
	switch {
	case c.Match.Games < 0:
		return invalid("match.games must not be negative, got %d", c.Match.Games)
	case c.Match.Parallel < 1:
		return invalid("match.parallel must be at least 1, got %d", c.Match.Parallel)
	case c.Match.MaxPlies < 1:
		return invalid("match.max_plies must be at least 1, got %d", c.Match.MaxPlies)
	case c.Match.TimeBudget < 0:
		return invalid("match.time_budget must not be negative")
	case c.Server.MoveTimeout < 0:
		return invalid("server.move_timeout must not be negative")
	}
	return nil
}

// Validate checks the ranges of an agent section on its own.
func (a AgentConfig) Validate() error {
	return a.validate("agent")
}

func (a AgentConfig) validate(section string) error {
	switch {
	case a.Kind == "":
		return invalid("%s.kind is required", section)
	case a.Depth < 0 || a.Depth > MaxDepth:
		return invalid("%s.depth must be between 0 and %d, got %d", section, MaxDepth, a.Depth)
	case a.MaxExtensions < 0:
		return invalid("%s.max_extensions must not be negative", section)
	case a.Breadth.Root < 0 || a.Breadth.Deep < 0 || a.Breadth.Shallow < 0 || a.Breadth.Frontier < 0:
		return invalid("%s.breadth caps must not be negative", section)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{mcerrors.ErrInvalidConfig}, args...)...)
}
