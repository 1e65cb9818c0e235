package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Port          string `toml:"port"`
	BaudRate      int    `toml:"baud_rate"`
	DataBits      int    `toml:"data_bits"`
	StopBits      int    `toml:"stop_bits"`
	ReadTimeout   string `toml:"read_timeout"`
	Checklist     string `toml:"checklist"`
	Person        string `toml:"person"`
	OutputDir     string `toml:"output_dir"`
	Separator     string `toml:"separator"`
	StripPrefix   *int   `toml:"strip_prefix"`
	DecodePolicy  string `toml:"decode_policy"`
	NativeDialogs *bool  `toml:"native_dialogs"`
	WatchDevices  *bool  `toml:"watch_devices"`
	DeviceDir     string `toml:"device_dir"`
	LogFile       string `toml:"log_file"`
	LogLevel      string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.labelrec/config.toml if the user home
// directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".labelrec", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", fc.Port, &cfg.Port)
	s.setString("checklist", fc.Checklist, &cfg.Checklist)
	s.setString("person", fc.Person, &cfg.Person)
	s.setString("output-dir", fc.OutputDir, &cfg.OutputDir)
	s.setString("separator", fc.Separator, &cfg.Separator)
	s.setString("decode-policy", fc.DecodePolicy, &cfg.DecodePolicy)
	s.setString("device-dir", fc.DeviceDir, &cfg.DeviceDir)
	s.setString("log-file", fc.LogFile, &cfg.LogFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}

	s.setInt("baud-rate", fc.BaudRate, &cfg.BaudRate)
	s.setInt("data-bits", fc.DataBits, &cfg.DataBits)
	s.setInt("stop-bits", fc.StopBits, &cfg.StopBits)
	s.setIntPtr("strip-prefix", fc.StripPrefix, &cfg.StripPrefix)

	s.setBool("native-dialogs", fc.NativeDialogs, &cfg.NativeDialogs)
	s.setBool("watch-devices", fc.WatchDevices, &cfg.WatchDevices)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
