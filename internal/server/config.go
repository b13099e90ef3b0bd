package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

const defaultTickHz = 20.0

// AppConfig holds the host settings. Values are layered: defaults, then the
// JSON config file, then FRESHMAN_ROLL_* environment variables, then flag
// overrides.
type AppConfig struct {
	Addr           string  `env:"FRESHMAN_ROLL_ADDR"`
	TimelineDir    string  `env:"FRESHMAN_ROLL_TIMELINE_DIR"`
	ProgressDB     string  `env:"FRESHMAN_ROLL_PROGRESS_DB"`
	TickHz         float64 `env:"FRESHMAN_ROLL_TICK_HZ"`
	WatchTimelines bool    `env:"FRESHMAN_ROLL_WATCH_TIMELINES"`
}

// DefaultAppConfig returns the built-in settings. An empty TimelineDir
// serves the bundled timelines and an empty ProgressDB keeps progress in
// memory.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Addr:   ":8080",
		TickHz: defaultTickHz,
	}
}

type fileConfig struct {
	Addr           *string  `json:"addr"`
	TimelineDir    *string  `json:"timelineDir"`
	ProgressDB     *string  `json:"progressDb"`
	TickHz         *float64 `json:"tickHz"`
	WatchTimelines *bool    `json:"watchTimelines"`
}

// ConfigOverrides represents optional command-line overrides.
type ConfigOverrides struct {
	Addr           *string
	TimelineDir    *string
	ProgressDB     *string
	TickHz         *float64
	WatchTimelines *bool
}

func (o ConfigOverrides) apply(base AppConfig) AppConfig {
	if o.Addr != nil {
		base.Addr = *o.Addr
	}
	if o.TimelineDir != nil {
		base.TimelineDir = *o.TimelineDir
	}
	if o.ProgressDB != nil {
		base.ProgressDB = *o.ProgressDB
	}
	if o.TickHz != nil {
		base.TickHz = *o.TickHz
	}
	if o.WatchTimelines != nil {
		base.WatchTimelines = *o.WatchTimelines
	}
	return sanitizeConfig(base)
}

func mergeFileConfig(base AppConfig, cfg fileConfig) AppConfig {
	if cfg.Addr != nil {
		base.Addr = *cfg.Addr
	}
	if cfg.TimelineDir != nil {
		base.TimelineDir = *cfg.TimelineDir
	}
	if cfg.ProgressDB != nil {
		base.ProgressDB = *cfg.ProgressDB
	}
	if cfg.TickHz != nil {
		base.TickHz = *cfg.TickHz
	}
	if cfg.WatchTimelines != nil {
		base.WatchTimelines = *cfg.WatchTimelines
	}
	return base
}

func sanitizeConfig(cfg AppConfig) AppConfig {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAppConfig().Addr
	}
	if cfg.TickHz <= 0 || cfg.TickHz > 1000 {
		cfg.TickHz = defaultTickHz
	}
	return cfg
}

// LoadAppConfig builds the config from defaults, the optional JSON file at
// path, the environment and overrides. A missing file is not an error.
func LoadAppConfig(path string, overrides ConfigOverrides) (AppConfig, error) {
	cfg := DefaultAppConfig()
	if path != "" {
		cleanPath := filepath.Clean(path)
		data, err := os.ReadFile(cleanPath)
		switch {
		case err == nil:
			var fc fileConfig
			if err := json.Unmarshal(data, &fc); err != nil {
				return sanitizeConfig(cfg), fmt.Errorf("parse config %q: %w", cleanPath, err)
			}
			cfg = mergeFileConfig(cfg, fc)
		case !os.IsNotExist(err):
			return sanitizeConfig(cfg), fmt.Errorf("read config %q: %w", cleanPath, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return sanitizeConfig(cfg), fmt.Errorf("parse env: %w", err)
	}
	return overrides.apply(cfg), nil
}
