package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/hazards"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/session"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/sim"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/world"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
)

const (
	// FileName is the configuration file looked up in the config directory.
	FileName = "hazardcore.json"
	// EnvPrefix prefixes environment overrides, e.g. HAZARDCORE_ADDR.
	EnvPrefix = "HAZARDCORE"
)

// Settings is the resolved process configuration.
type Settings struct {
	Addr      string `mapstructure:"addr"`
	LogLevel  string `mapstructure:"logLevel"`
	LogPretty bool   `mapstructure:"logPretty"`

	Metrics MetricsConfig  `mapstructure:"metrics"`
	Loop    sim.LoopConfig `mapstructure:"loop"`
	Session session.Config `mapstructure:"session"`
	Logging logging.Config `mapstructure:"logging"`
	Debug   DebugConfig    `mapstructure:"debug"`
}

// MetricsConfig selects the metric exporters besides the in-process counters.
type MetricsConfig struct {
	OTel   bool                   `mapstructure:"otel"`
	Influx telemetry.InfluxConfig `mapstructure:"influx"`
}

// DebugConfig controls the debug surfaces of the HTTP server.
type DebugConfig struct {
	EventStream bool `mapstructure:"eventStream"`
	// Units spawns one unit of each kind at start so hazards have something
	// to act on.
	Units bool `mapstructure:"units"`
}

// Defaults returns the settings used when no file or override is present.
func Defaults() Settings {
	return Settings{
		Addr:      ":8080",
		LogLevel:  "info",
		LogPretty: true,
		Loop:      sim.DefaultLoopConfig(),
		Session: session.Config{
			World:      world.DefaultConfig(),
			Hazards:    hazards.DefaultConfig(),
			ActorSpeed: 160,
		},
		Metrics: MetricsConfig{
			Influx: telemetry.InfluxConfig{
				URL:           "http://localhost:8086",
				Org:           "hazardcore",
				Bucket:        "hazardcore",
				Measurement:   "hazardcore",
				FlushInterval: time.Second,
			},
		},
		Logging: logging.DefaultConfig(),
		Debug:   DebugConfig{EventStream: true},
	}
}

func setDefaults() {
	d := Defaults()
	viper.SetDefault("addr", d.Addr)
	viper.SetDefault("logLevel", d.LogLevel)
	viper.SetDefault("logPretty", d.LogPretty)

	viper.SetDefault("metrics.otel", d.Metrics.OTel)
	viper.SetDefault("metrics.influx.enabled", d.Metrics.Influx.Enabled)
	viper.SetDefault("metrics.influx.url", d.Metrics.Influx.URL)
	viper.SetDefault("metrics.influx.token", d.Metrics.Influx.Token)
	viper.SetDefault("metrics.influx.org", d.Metrics.Influx.Org)
	viper.SetDefault("metrics.influx.bucket", d.Metrics.Influx.Bucket)
	viper.SetDefault("metrics.influx.measurement", d.Metrics.Influx.Measurement)
	viper.SetDefault("metrics.influx.flushInterval", d.Metrics.Influx.FlushInterval)

	viper.SetDefault("loop.tickRate", d.Loop.TickRate)
	viper.SetDefault("loop.catchupMaxTicks", d.Loop.CatchupMaxTicks)
	viper.SetDefault("loop.commandCapacity", d.Loop.CommandCapacity)
	viper.SetDefault("loop.perActorLimit", d.Loop.PerActorLimit)

	viper.SetDefault("session.actorSpeed", d.Session.ActorSpeed)
	viper.SetDefault("session.world.seed", d.Session.World.Seed)
	viper.SetDefault("session.world.referenceRadius", d.Session.World.ReferenceRadius)
	viper.SetDefault("session.world.spawnSafeRadius", d.Session.World.SpawnSafeRadius)
	viper.SetDefault("session.world.smallCount", d.Session.World.SmallCount)
	viper.SetDefault("session.world.largeCount", d.Session.World.LargeCount)
	viper.SetDefault("session.hazards.cullRadius", d.Session.Hazards.CullRadius)

	viper.SetDefault("logging.sinks", d.Logging.EnabledSinks)
	viper.SetDefault("logging.bufferSize", d.Logging.BufferSize)
	viper.SetDefault("logging.minimumSeverity", d.Logging.MinimumSeverity.String())
	viper.SetDefault("logging.dropWarnInterval", d.Logging.DropWarnInterval)
	viper.SetDefault("logging.json.filePath", d.Logging.JSON.FilePath)
	viper.SetDefault("logging.json.flushInterval", d.Logging.JSON.FlushInterval)
	viper.SetDefault("logging.console.useColor", d.Logging.Console.UseColor)
	viper.SetDefault("logging.gelf.address", d.Logging.GELF.Address)
	viper.SetDefault("logging.gelf.facility", d.Logging.GELF.Facility)

	viper.SetDefault("debug.eventStream", d.Debug.EventStream)
	viper.SetDefault("debug.units", d.Debug.Units)
}

// Load reads FileName from configDir, applies HAZARDCORE_* environment
// overrides and decodes the result over Defaults. A missing file is not an
// error; a malformed one is.
func Load(configDir string) (Settings, error) {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	settings := Defaults()
	if err := viper.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	settings.Logging.MinimumSeverity = logging.ParseSeverity(viper.GetString("logging.minimumSeverity"))
	return settings, nil
}

// ConfigFileUsed reports the file Load read, or "" when defaults were used.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
