package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vedantwpatil/replaybot/internal/input"
)

const (
	BackendRobotgo = "robotgo"
	BackendXdotool = "xdotool"
	BackendDryRun  = "dry-run"
)

type Config struct {
	Run       RunConfig       `yaml:"run"`
	Motion    MotionConfig    `yaml:"motion"`
	Keys      KeysConfig      `yaml:"keys"`
	Idle      IdleConfig      `yaml:"idle"`
	Inventory InventoryConfig `yaml:"inventory"`
	Logging   LoggingConfig   `yaml:"logging"`
	Record    RecordConfig    `yaml:"record"`
}

// RunConfig controls a replay run. Seed fixes the random stream; 0 picks a
// fresh seed per run.
type RunConfig struct {
	RuntimeSeconds    int    `yaml:"runtime_seconds"`
	StartDelaySeconds int    `yaml:"start_delay_seconds"`
	Seed              uint64 `yaml:"seed"`
	Backend           string `yaml:"backend"`
	XdotoolBin        string `yaml:"xdotool_bin"`
}

type MotionConfig struct {
	Resolution int `yaml:"resolution"`
	Jitter     int `yaml:"jitter"`
}

type KeysConfig struct {
	RepeatMinMs uint32 `yaml:"repeat_min_ms"`
	RepeatMaxMs uint32 `yaml:"repeat_max_ms"`
}

// IdleConfig schedules a break after every EveryPasses passes. 0 disables it.
type IdleConfig struct {
	EveryPasses int     `yaml:"every_passes"`
	MinSeconds  float64 `yaml:"min_seconds"`
	MaxSeconds  float64 `yaml:"max_seconds"`
}

type InventoryConfig struct {
	Match    string `yaml:"match"`
	Columns  int    `yaml:"columns"`
	Rows     int    `yaml:"rows"`
	StepX    uint32 `yaml:"step_x"`
	StepY    uint32 `yaml:"step_y"`
	Modifier string `yaml:"modifier"`
	GapMinMs uint32 `yaml:"gap_min_ms"`
	GapMaxMs uint32 `yaml:"gap_max_ms"`
}

type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	File  string `yaml:"file"`
}

// RecordConfig sets the delay written for every recorded event.
type RecordConfig struct {
	DelayMinMs uint32 `yaml:"delay_min_ms"`
	DelayMaxMs uint32 `yaml:"delay_max_ms"`
}

func NewConfig() *Config {
	return &Config{
		Run: RunConfig{
			RuntimeSeconds: 3600,
			Backend:        BackendRobotgo,
			XdotoolBin:     "xdotool",
		},
		Motion: MotionConfig{
			Resolution: 6400,
			Jitter:     3,
		},
		Keys: KeysConfig{
			RepeatMinMs: 40,
			RepeatMaxMs: 120,
		},
		Idle: IdleConfig{
			EveryPasses: 0,
			MinSeconds:  120,
			MaxSeconds:  300,
		},
		Inventory: InventoryConfig{
			Match:    "clear-inventory",
			Columns:  4,
			Rows:     7,
			StepX:    42,
			StepY:    36,
			Modifier: "shift",
			GapMinMs: 60,
			GapMaxMs: 140,
		},
		Record: RecordConfig{
			DelayMinMs: 600,
			DelayMaxMs: 1200,
		},
	}
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path yields the defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Field: path, Err: err}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting and joins all problems found.
func (c *Config) Validate() error {
	var errs []error
	check := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	if c.Run.RuntimeSeconds < 0 {
		check(invalid("run.runtime_seconds", "must not be negative, got %d", c.Run.RuntimeSeconds))
	}
	if c.Run.StartDelaySeconds < 0 {
		check(invalid("run.start_delay_seconds", "must not be negative, got %d", c.Run.StartDelaySeconds))
	}
	switch c.Run.Backend {
	case BackendRobotgo, BackendXdotool, BackendDryRun:
	default:
		check(invalid("run.backend", "unknown backend %q", c.Run.Backend))
	}
	if c.Motion.Resolution < 1 {
		check(invalid("motion.resolution", "must be at least 1, got %d", c.Motion.Resolution))
	}
	if c.Motion.Jitter < 0 {
		check(invalid("motion.jitter", "must not be negative, got %d", c.Motion.Jitter))
	}
	if c.Keys.RepeatMinMs > c.Keys.RepeatMaxMs {
		check(invalid("keys", "repeat_min_ms %d > repeat_max_ms %d", c.Keys.RepeatMinMs, c.Keys.RepeatMaxMs))
	}
	if c.Idle.EveryPasses < 0 {
		check(invalid("idle.every_passes", "must not be negative, got %d", c.Idle.EveryPasses))
	}
	if c.Idle.MinSeconds < 0 || c.Idle.MinSeconds > c.Idle.MaxSeconds {
		check(invalid("idle", "need 0 <= min_seconds <= max_seconds, got %g and %g", c.Idle.MinSeconds, c.Idle.MaxSeconds))
	}
	if c.Inventory.Columns < 1 || c.Inventory.Rows < 1 {
		check(invalid("inventory", "grid must be at least 1x1, got %dx%d", c.Inventory.Columns, c.Inventory.Rows))
	}
	if c.Inventory.Match == "" {
		check(invalid("inventory.match", "must not be empty"))
	}
	if _, err := input.ParseModifier(c.Inventory.Modifier); err != nil {
		check(&ConfigError{Field: "inventory.modifier", Err: err})
	}
	if c.Inventory.GapMinMs > c.Inventory.GapMaxMs {
		check(invalid("inventory", "gap_min_ms %d > gap_max_ms %d", c.Inventory.GapMinMs, c.Inventory.GapMaxMs))
	}
	if c.Record.DelayMinMs > c.Record.DelayMaxMs {
		check(invalid("record", "delay_min_ms %d > delay_max_ms %d", c.Record.DelayMinMs, c.Record.DelayMaxMs))
	}

	return errors.Join(errs...)
}

func (c *Config) Runtime() time.Duration {
	return time.Duration(c.Run.RuntimeSeconds) * time.Second
}

func (c *Config) StartDelay() time.Duration {
	return time.Duration(c.Run.StartDelaySeconds) * time.Second
}

func (c *Config) IdleRange() (time.Duration, time.Duration) {
	return seconds(c.Idle.MinSeconds), seconds(c.Idle.MaxSeconds)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
