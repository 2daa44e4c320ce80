package logger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:   "nil config uses defaults",
			config: nil,
		},
		{
			name:   "default config",
			config: DefaultConfig(),
		},
		{
			name:   "console format",
			config: &Config{Level: "debug", Format: "console", Output: "console"},
		},
		{
			name: "file output",
			config: &Config{
				Level:  "info",
				Format: "json",
				Output: "both",
				File: RotateFile{
					Filename:   filepath.Join(dir, "logs", "forc3.log"),
					MaxSize:    10,
					MaxAge:     7,
					MaxBackups: 3,
				},
			},
		},
		{
			name:    "invalid level",
			config:  &Config{Level: "verbose", Format: "json", Output: "console"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			l.Info("logger ready")
		})
	}
}

func TestNew_FileEntriesCarryService(t *testing.T) {
	tests := []struct {
		name        string
		service     string
		wantService string
	}{
		{name: "configured service", service: "forc3-nutrition-staging", wantService: "forc3-nutrition-staging"},
		{name: "empty service falls back", service: "", wantService: DefaultService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), "forc3.log")
			cfg := DefaultConfig()
			cfg.Output = OutputFile
			cfg.Service = tt.service
			cfg.File.Filename = filename

			l, err := New(cfg)
			require.NoError(t, err)
			l.Info("search served")
			_ = l.Sync()

			data, err := os.ReadFile(filename)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")

			var entry map[string]any
			require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
			assert.Equal(t, tt.wantService, entry["service"])
			assert.Equal(t, "search served", entry["msg"])
			assert.Contains(t, entry, "ts")
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "upper case level", modify: func(c *Config) { c.Level = "WARN" }},
		{name: "bad level", modify: func(c *Config) { c.Level = "verbose" }, wantErr: "invalid log level"},
		{name: "bad format", modify: func(c *Config) { c.Format = "xml" }, wantErr: "invalid log format"},
		{name: "bad output", modify: func(c *Config) { c.Output = "syslog" }, wantErr: "invalid log output"},
		{
			name:    "file without name",
			modify:  func(c *Config) { c.Output = "file"; c.File.Filename = "" },
			wantErr: "filename is required",
		},
		{
			name:    "file without size",
			modify:  func(c *Config) { c.Output = "file"; c.File.MaxSize = 0 },
			wantErr: "max_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRequestID(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))
}
