package logging

import "time"

type Config struct {
	EnabledSinks     []string       `mapstructure:"sinks"`
	BufferSize       int            `mapstructure:"bufferSize"`
	MinimumSeverity  Severity       `mapstructure:"-"`
	Fields           map[string]any `mapstructure:"fields"`
	JSON             JSONConfig     `mapstructure:"json"`
	Console          ConsoleConfig  `mapstructure:"console"`
	GELF             GELFConfig     `mapstructure:"gelf"`
	DropWarnInterval time.Duration  `mapstructure:"dropWarnInterval"`
}

type JSONConfig struct {
	FilePath      string        `mapstructure:"filePath"`
	FlushInterval time.Duration `mapstructure:"flushInterval"`
}

type ConsoleConfig struct {
	UseColor bool `mapstructure:"useColor"`
}

// GELFConfig addresses a Graylog UDP input.
type GELFConfig struct {
	Address  string `mapstructure:"address"`
	Facility string `mapstructure:"facility"`
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{"console"},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			FlushInterval: 2 * time.Second,
		},
	}
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}
