package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// DefaultService names the service on every log line
const DefaultService = "forc3-nutrition"

// Output sinks
const (
	OutputConsole = "console"
	OutputFile    = "file"
	OutputBoth    = "both"
)

// Config holds the log settings loaded under the log.* keys
type Config struct {
	Level            string     `mapstructure:"level"`
	Format           string     `mapstructure:"format"` // json or console
	Output           string     `mapstructure:"output"`
	Service          string     `mapstructure:"service"`
	EnableStacktrace bool       `mapstructure:"enable_stacktrace"`
	File             RotateFile `mapstructure:"file"`
}

// RotateFile configures the rotating log file used by the file and both outputs.
// Sizes are in megabytes and ages in days.
type RotateFile struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig returns JSON logs on stdout at info level
func DefaultConfig() *Config {
	return &Config{
		Level:   "info",
		Format:  "json",
		Output:  OutputConsole,
		Service: DefaultService,
		File: RotateFile{
			Filename:   "logs/forc3.log",
			MaxSize:    100,
			MaxAge:     30,
			MaxBackups: 10,
			Compress:   true,
		},
	}
}

func (c *Config) writesConsole() bool {
	return c.Output == OutputConsole || c.Output == OutputBoth
}

func (c *Config) writesFile() bool {
	return c.Output == OutputFile || c.Output == OutputBoth
}

// Validate rejects settings the logger cannot be built from
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(strings.ToLower(c.Level)); err != nil {
		return fmt.Errorf("invalid log level %q", c.Level)
	}

	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("invalid log format %q, must be json or console", c.Format)
	}

	if !c.writesConsole() && !c.writesFile() {
		return fmt.Errorf("invalid log output %q, must be console, file or both", c.Output)
	}

	if c.writesFile() {
		switch {
		case c.File.Filename == "":
			return fmt.Errorf("log.file.filename is required when output is %q", c.Output)
		case c.File.MaxSize <= 0:
			return fmt.Errorf("log.file.max_size must be positive")
		case c.File.MaxAge <= 0:
			return fmt.Errorf("log.file.max_age must be positive")
		case c.File.MaxBackups < 0:
			return fmt.Errorf("log.file.max_backups must not be negative")
		}
	}

	return nil
}
