// Package config loads the attack settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/vimy/vimy-raid/inventory"
	"github.com/nstehr/vimy/vimy-raid/rules"
)

var ErrInvalid = errors.New("config: invalid value")

// Strategies lists the deploy strategies a config may select.
var Strategies = []string{"humanbarch", "redline", "foursides", "nearcollectors", "sixteenfingers", "breakthrough"}

// Config is the externally supplied configuration surface.
type Config struct {
	Strategy string `yaml:"strategy"`

	WaveSize  int           `yaml:"wave_size"`
	WaveDelay time.Duration `yaml:"wave_delay"`

	UseKing       bool `yaml:"use_king"`
	UseQueen      bool `yaml:"use_queen"`
	UseWarden     bool `yaml:"use_warden"`
	UseClanTroops bool `yaml:"use_clan_troops"`

	ClusterMergeDistance float64 `yaml:"cluster_merge_distance"`
	MinExposedTargets    int     `yaml:"min_exposed_targets"`
	ExposedDistance      float64 `yaml:"exposed_distance"`

	SnipeWaveCeiling     int     `yaml:"snipe_wave_ceiling"`
	LootGainAbortPercent float64 `yaml:"loot_gain_abort_percent"`
	MinGainPerCluster    int     `yaml:"min_gain_per_cluster"`
	MaxSweepWaves        int     `yaml:"max_sweep_waves"`

	SurrenderOnFirstStar bool          `yaml:"surrender_on_first_star"`
	HeroPollInterval     time.Duration `yaml:"hero_poll_interval"`
	Seed                 uint64        `yaml:"seed"` // 0 seeds from the clock

	SocketPath    string `yaml:"socket_path"`
	ListenAddr    string `yaml:"listen_addr"` // empty disables the HTTP server
	LogLevel      string `yaml:"log_level"`
	DebugImageDir string `yaml:"debug_image_dir"` // empty disables analysis images
}

// Default returns the settings used for keys a file leaves out.
func Default() Config {
	th := rules.DefaultThresholds()
	return Config{
		Strategy:             "humanbarch",
		WaveSize:             10,
		WaveDelay:            2 * time.Second,
		UseKing:              true,
		UseQueen:             true,
		UseWarden:            true,
		UseClanTroops:        true,
		ClusterMergeDistance: 6,
		MinExposedTargets:    th.MinExposedTargets,
		ExposedDistance:      18,
		SnipeWaveCeiling:     th.SnipeWaveCeiling,
		LootGainAbortPercent: th.LootGainAbortPercent,
		MinGainPerCluster:    th.MinGainPerCluster,
		MaxSweepWaves:        th.MaxSweepWaves,
		HeroPollInterval:     100 * time.Millisecond,
		SocketPath:           "/tmp/vimy-raid.sock",
		LogLevel:             "info",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate clamps numeric settings to their working ranges and rejects
// names it does not know.
func (c *Config) Validate() error {
	c.Strategy = strings.ToLower(strings.TrimSpace(c.Strategy))
	if !slices.Contains(Strategies, c.Strategy) {
		return fmt.Errorf("%w: strategy %q", ErrInvalid, c.Strategy)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	c.WaveSize = clampInt(c.WaveSize, 1, 100)
	c.WaveDelay = clampDuration(c.WaveDelay, 0, time.Minute)
	c.ClusterMergeDistance = clamp(c.ClusterMergeDistance, 0, 50)
	c.MinExposedTargets = clampInt(c.MinExposedTargets, 1, 50)
	c.ExposedDistance = clamp(c.ExposedDistance, 1, 50)
	c.SnipeWaveCeiling = clampInt(c.SnipeWaveCeiling, 1, 50)
	c.LootGainAbortPercent = clamp(c.LootGainAbortPercent, 0, 1)
	c.MinGainPerCluster = clampInt(c.MinGainPerCluster, 0, 1_000_000)
	c.MaxSweepWaves = clampInt(c.MaxSweepWaves, 1, 100)
	c.HeroPollInterval = clampDuration(c.HeroPollInterval, 10*time.Millisecond, 5*time.Second)
	return nil
}

// Enabled returns the per-role enable switches.
func (c Config) Enabled() inventory.Enabled {
	return inventory.Enabled{King: c.UseKing, Queen: c.UseQueen, Warden: c.UseWarden, ClanTroops: c.UseClanTroops}
}

// Thresholds returns the decision loop's thresholds.
func (c Config) Thresholds() rules.Thresholds {
	return rules.Thresholds{
		SnipeWaveCeiling:     c.SnipeWaveCeiling,
		LootGainAbortPercent: c.LootGainAbortPercent,
		MinGainPerCluster:    c.MinGainPerCluster,
		MinExposedTargets:    c.MinExposedTargets,
		MaxSweepWaves:        c.MaxSweepWaves,
	}
}

// Level maps log_level to a slog level.
func (c Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("%w: log_level %q", ErrInvalid, s)
	}
	return l, nil
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	return min(max(v, lo), hi)
}
