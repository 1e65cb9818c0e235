package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/labelrec/internal/capture"
	"github.com/bft-labs/labelrec/internal/ports"
)

// Config holds CLI configuration for labelrec.
type Config struct {
	Port        string
	BaudRate    int
	DataBits    int
	StopBits    int
	ReadTimeout time.Duration

	Checklist string
	Person    string
	OutputDir string

	Separator    string
	StripPrefix  int
	DecodePolicy string

	NativeDialogs bool
	WatchDevices  bool
	DeviceDir     string

	LogFile  string
	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BaudRate:      9600,
		DataBits:      8,
		StopBits:      1,
		ReadTimeout:   2 * time.Second,
		OutputDir:     ".",
		Separator:     "#",
		StripPrefix:   capture.DefaultPrefixLen,
		DecodePolicy:  string(capture.DecodeStrict),
		NativeDialogs: true,
		WatchDevices:  true,
		DeviceDir:     "/dev",
		LogFile:       "", // Derived from the home directory during Validate
		LogLevel:      "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.BaudRate <= 0 {
		return fmt.Errorf("baud rate must be positive")
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		return fmt.Errorf("data bits must be between 5 and 8, got %d", c.DataBits)
	}
	if c.StopBits != 1 && c.StopBits != 2 {
		return fmt.Errorf("stop bits must be 1 or 2, got %d", c.StopBits)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.Separator == "" {
		return fmt.Errorf("separator must not be empty")
	}
	if c.StripPrefix < 0 {
		return fmt.Errorf("strip prefix must not be negative")
	}
	if _, err := capture.ParseDecodePolicy(c.DecodePolicy); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogPath()
	}
	return nil
}

// Level returns the parsed log level. Call after Validate.
func (c Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// Serial returns the line settings used to open the port.
func (c Config) Serial() ports.SerialConfig {
	return ports.SerialConfig{
		BaudRate:    c.BaudRate,
		DataBits:    c.DataBits,
		StopBits:    c.StopBits,
		ReadTimeout: c.ReadTimeout,
	}
}

// DefaultLogPath returns ~/.labelrec/labelrec.log, or a file in the temp
// directory when the home directory is unknown.
func DefaultLogPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".labelrec", "labelrec.log")
	}
	return filepath.Join(os.TempDir(), "labelrec.log")
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int from an optional value. Zero is meaningful here
// (strip_prefix = 0 keeps whole lines), so presence decides.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
