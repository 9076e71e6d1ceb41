// Package config provides configuration for the overlayd service:
// compiled defaults, an optional TOML file, and env var overrides, in
// that order of precedence (env wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all overlayd settings.
type Config struct {
	// HTTP
	Port string `toml:"port"`

	// Render surfaces
	OverlayWidth  int `toml:"overlay_width"`
	OverlayHeight int `toml:"overlay_height"`
	ChartWidth    int `toml:"chart_width"`
	ChartHeight   int `toml:"chart_height"`

	// Feeds
	PoseFeedURL string `toml:"pose_feed_url"`
	GameFeedURL string `toml:"game_feed_url"`

	// Pacing
	RefreshRate int `toml:"refresh_rate"` // ticks per second driving both loops

	// Chart retention
	WindowMinutes int `toml:"window_minutes"`

	// Consent persistence
	ConsentPath string `toml:"consent_path"`

	// Dashboard content source (team stats, scores, predictions)
	StatsBaseURL string `toml:"stats_base_url"`

	// Logging
	LogLevel string `toml:"log_level"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Port:          "8080",
		OverlayWidth:  640,
		OverlayHeight: 480,
		ChartWidth:    900,
		ChartHeight:   260,
		PoseFeedURL:   "ws://localhost:9001/ws/pose",
		GameFeedURL:   "ws://localhost:9001/ws/game",
		RefreshRate:   60,
		WindowMinutes: 18,
		ConsentPath:   "consent.json",
		StatsBaseURL:  "",
		LogLevel:      "info",
	}
}

// Load builds the effective config: defaults, then the TOML file at
// path (a missing file is not an error), then env overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("decode config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setStr("OVERLAY_PORT", &cfg.Port)
	setStr("OVERLAY_POSE_FEED", &cfg.PoseFeedURL)
	setStr("OVERLAY_GAME_FEED", &cfg.GameFeedURL)
	setStr("OVERLAY_CONSENT_PATH", &cfg.ConsentPath)
	setStr("OVERLAY_STATS_URL", &cfg.StatsBaseURL)
	setStr("OVERLAY_LOG_LEVEL", &cfg.LogLevel)
	setInt("OVERLAY_REFRESH_RATE", &cfg.RefreshRate)
	setInt("OVERLAY_WINDOW_MINUTES", &cfg.WindowMinutes)
}

// Refresh returns the tick cadence derived from RefreshRate.
func (c Config) Refresh() time.Duration {
	if c.RefreshRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.RefreshRate)
}

// Window returns the chart retention window.
func (c Config) Window() time.Duration {
	if c.WindowMinutes <= 0 {
		return 18 * time.Minute
	}
	return time.Duration(c.WindowMinutes) * time.Minute
}
