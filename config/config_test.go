package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "raid.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	before := cfg
	require.NoError(t, cfg.Validate())
	require.Equal(t, before, cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := writeFile(t, `
strategy: FourSides
wave_size: 6
wave_delay: 1500ms
use_queen: false
loot_gain_abort_percent: 0.1
seed: 42
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "foursides", cfg.Strategy)
	require.Equal(t, 6, cfg.WaveSize)
	require.Equal(t, 1500*time.Millisecond, cfg.WaveDelay)
	require.False(t, cfg.UseQueen)
	require.True(t, cfg.UseKing)
	require.Equal(t, uint64(42), cfg.Seed)
	require.InDelta(t, 0.1, cfg.Thresholds().LootGainAbortPercent, 1e-9)
	require.Equal(t, 3000, cfg.MinGainPerCluster)
}

func TestValidateClamps(t *testing.T) {
	cfg := Default()
	cfg.WaveSize = 0
	cfg.LootGainAbortPercent = 3
	cfg.MinExposedTargets = -2
	cfg.HeroPollInterval = 0
	require.NoError(t, cfg.Validate())
	require.Equal(t, 1, cfg.WaveSize)
	require.Equal(t, 1.0, cfg.LootGainAbortPercent)
	require.Equal(t, 1, cfg.MinExposedTargets)
	require.Equal(t, 10*time.Millisecond, cfg.HeroPollInterval)
}

func TestValidateRejectsUnknownNames(t *testing.T) {
	cfg := Default()
	cfg.Strategy = "zerg-rush"
	require.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = Default()
	cfg.LogLevel = "chatty"
	require.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "wave_size: [1, 2"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "strategy: nope"))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLevelAndSwitches(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "debug"
	require.Equal(t, slog.LevelDebug, cfg.Level())

	cfg.UseWarden = false
	en := cfg.Enabled()
	require.True(t, en.King)
	require.False(t, en.Warden)
}
