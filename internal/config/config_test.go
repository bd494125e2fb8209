package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"addr": ":9090",
		"logLevel": "debug",
		"loop": { "tickRate": 30 },
		"session": {
			"world": { "seed": "verdun", "smallCount": 12 },
			"hazards": {
				"barrels": { "explosionRadius": 200, "groups": 2 },
				"wire": { "variants": ["spiral"] }
			}
		},
		"logging": { "sinks": ["console", "json"], "minimumSeverity": "warn", "json": { "flushInterval": "250ms" } }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(cfg), 0644))

	settings, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", settings.Addr)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, 30, settings.Loop.TickRate)
	assert.Equal(t, 3, settings.Loop.CatchupMaxTicks)
	assert.Equal(t, "verdun", settings.Session.World.Seed)
	assert.Equal(t, 12, settings.Session.World.SmallCount)
	require.NotNil(t, settings.Session.Hazards.Barrels)
	assert.Equal(t, 200.0, settings.Session.Hazards.Barrels.ExplosionRadius)
	assert.Equal(t, 2, settings.Session.Hazards.Barrels.Groups)
	assert.Equal(t, 100.0, settings.Session.Hazards.Barrels.Health, "unset keys keep their defaults")
	require.NotEmpty(t, settings.Session.Hazards.Wire.Variants)
	assert.Equal(t, "spiral", settings.Session.Hazards.Wire.Variants[0])
	assert.Equal(t, []string{"console", "json"}, settings.Logging.EnabledSinks)
	assert.Equal(t, logging.SeverityWarn, settings.Logging.MinimumSeverity)
	assert.Equal(t, 250*time.Millisecond, settings.Logging.JSON.FlushInterval)
	assert.Equal(t, filepath.Join(dir, FileName), ConfigFileUsed())
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	settings, err := Load(t.TempDir())
	require.NoError(t, err)

	d := Defaults()
	assert.Equal(t, ":8080", settings.Addr)
	assert.Equal(t, "info", settings.LogLevel)
	assert.Equal(t, d.Loop, settings.Loop)
	assert.Equal(t, d.Session.World.Seed, settings.Session.World.Seed)
	assert.Equal(t, d.Session.Hazards.CullRadius, settings.Session.Hazards.CullRadius)
	assert.Equal(t, logging.SeverityInfo, settings.Logging.MinimumSeverity)
	assert.False(t, settings.Metrics.Influx.Enabled)
	assert.Equal(t, d.Metrics.Influx.URL, settings.Metrics.Influx.URL)
	assert.Equal(t, time.Second, settings.Metrics.Influx.FlushInterval)
	assert.Equal(t, "", ConfigFileUsed())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("HAZARDCORE_ADDR", "127.0.0.1:7000")
	t.Setenv("HAZARDCORE_LOOP_TICKRATE", "20")

	settings, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", settings.Addr)
	assert.Equal(t, 20, settings.Loop.TickRate)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"addr": `), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
