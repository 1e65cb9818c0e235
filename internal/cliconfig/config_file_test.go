package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	falseVal := false
	zero := 0

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		check      func(t *testing.T, cfg Config)
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Port:          "/dev/ttyUSB1",
				BaudRate:      115200,
				ReadTimeout:   "500ms",
				Checklist:     "/data/list.csv",
				Person:        "ali",
				StripPrefix:   &zero,
				DecodePolicy:  "drop",
				NativeDialogs: &falseVal,
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.Port != "/dev/ttyUSB1" || cfg.BaudRate != 115200 {
					t.Errorf("port/baud = %q/%d", cfg.Port, cfg.BaudRate)
				}
				if cfg.ReadTimeout != 500*time.Millisecond {
					t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
				}
				if cfg.Checklist != "/data/list.csv" || cfg.Person != "ali" {
					t.Errorf("checklist/person = %q/%q", cfg.Checklist, cfg.Person)
				}
				if cfg.StripPrefix != 0 {
					t.Errorf("StripPrefix = %d, want 0", cfg.StripPrefix)
				}
				if cfg.DecodePolicy != "drop" || cfg.NativeDialogs {
					t.Errorf("policy/dialogs = %q/%v", cfg.DecodePolicy, cfg.NativeDialogs)
				}
				if !cfg.WatchDevices {
					t.Error("unset bool should keep its default")
				}
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Port:     "/dev/from-file",
				BaudRate: 19200,
			},
			changed: map[string]bool{"port": true},
			check: func(t *testing.T, cfg Config) {
				if cfg.Port != "" {
					t.Errorf("Port = %q, flag was set", cfg.Port)
				}
				if cfg.BaudRate != 19200 {
					t.Errorf("BaudRate = %d, want 19200", cfg.BaudRate)
				}
			},
		},
		{
			name:       "invalid duration",
			fileConfig: FileConfig{ReadTimeout: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)
			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
port = "/dev/ttyACM0"
baud_rate = 57600
read_timeout = "1s"
output_dir = "/srv/samples"
strip_prefix = 6
watch_devices = false
log_level = "debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error: %v", err)
	}
	if fc.Port != "/dev/ttyACM0" || fc.BaudRate != 57600 || fc.ReadTimeout != "1s" {
		t.Errorf("fc = %+v", fc)
	}
	if fc.StripPrefix == nil || *fc.StripPrefix != 6 {
		t.Errorf("StripPrefix = %v", fc.StripPrefix)
	}
	if fc.WatchDevices == nil || *fc.WatchDevices {
		t.Errorf("WatchDevices = %v", fc.WatchDevices)
	}
	if fc.NativeDialogs != nil {
		t.Error("absent key should stay nil")
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadFileConfig(filepath.Join(tmpDir, "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}

	bad := filepath.Join(tmpDir, "bad.toml")
	if err := os.WriteFile(bad, []byte("baud_rate = \"fast\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFileConfig(bad); err == nil {
		t.Error("type mismatch should fail")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	p := DefaultConfigPath()
	if p != "" && !strings.HasSuffix(p, filepath.Join(".labelrec", "config.toml")) {
		t.Errorf("DefaultConfigPath() = %q", p)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	p := filepath.Join(tmpDir, "x")
	if FileExists(p) {
		t.Error("FileExists on missing file")
	}
	if err := os.WriteFile(p, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(p) {
		t.Error("FileExists on present file")
	}
}
