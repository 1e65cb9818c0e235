package cliconfig

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaudRate != 9600 {
		t.Errorf("BaudRate = %v, want 9600", cfg.BaudRate)
	}
	if cfg.ReadTimeout != 2*time.Second {
		t.Errorf("ReadTimeout = %v, want 2s", cfg.ReadTimeout)
	}
	if cfg.StripPrefix != 8 {
		t.Errorf("StripPrefix = %v, want 8", cfg.StripPrefix)
	}
	if cfg.Separator != "#" {
		t.Errorf("Separator = %q, want #", cfg.Separator)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.LogFile == "" {
		t.Error("Validate should derive LogFile")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero baud", func(c *Config) { c.BaudRate = 0 }, "baud rate"},
		{"data bits", func(c *Config) { c.DataBits = 9 }, "data bits"},
		{"stop bits", func(c *Config) { c.StopBits = 3 }, "stop bits"},
		{"read timeout", func(c *Config) { c.ReadTimeout = 0 }, "read timeout"},
		{"separator", func(c *Config) { c.Separator = "" }, "separator"},
		{"strip prefix", func(c *Config) { c.StripPrefix = -1 }, "strip prefix"},
		{"decode policy", func(c *Config) { c.DecodePolicy = "replace" }, "decode policy"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				if cfg.OutputDir == "" {
					t.Error("OutputDir should default to .")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_SerialAndLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaudRate = 115200
	cfg.StopBits = 2
	cfg.LogLevel = "debug"

	s := cfg.Serial()
	if s.BaudRate != 115200 || s.DataBits != 8 || s.StopBits != 2 || s.ReadTimeout != 2*time.Second {
		t.Errorf("Serial() = %+v", s)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
}

func TestConfigSetter_ChangedFlagsWin(t *testing.T) {
	s := newConfigSetter(map[string]bool{"port": true, "strip-prefix": true})

	port := "/dev/flag"
	s.setString("port", "/dev/file", &port)
	if port != "/dev/flag" {
		t.Errorf("port = %q, flag value should win", port)
	}

	prefix := 4
	zero := 0
	s.setIntPtr("strip-prefix", &zero, &prefix)
	if prefix != 4 {
		t.Errorf("prefix = %d, flag value should win", prefix)
	}

	s = newConfigSetter(nil)
	s.setIntPtr("strip-prefix", &zero, &prefix)
	if prefix != 0 {
		t.Errorf("prefix = %d, explicit zero should apply", prefix)
	}
}
