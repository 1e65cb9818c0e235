package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		changed map[string]bool
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"LABELREC_PORT":           "/dev/ttyUSB3",
				"LABELREC_BAUD_RATE":      "38400",
				"LABELREC_READ_TIMEOUT":   "3s",
				"LABELREC_PERSON":         "bo",
				"LABELREC_STRIP_PREFIX":   "0",
				"LABELREC_WATCH_DEVICES":  "false",
				"LABELREC_NATIVE_DIALOGS": "1",
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.Port != "/dev/ttyUSB3" || cfg.BaudRate != 38400 || cfg.Person != "bo" {
					t.Errorf("cfg = %+v", cfg)
				}
				if cfg.ReadTimeout != 3*time.Second {
					t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
				}
				if cfg.StripPrefix != 0 {
					t.Errorf("StripPrefix = %d, want 0", cfg.StripPrefix)
				}
				if cfg.WatchDevices || !cfg.NativeDialogs {
					t.Errorf("watch/dialogs = %v/%v", cfg.WatchDevices, cfg.NativeDialogs)
				}
			},
		},
		{
			name:    "respects changed flags",
			envVars: map[string]string{"LABELREC_PERSON": "env"},
			changed: map[string]bool{"person": true},
			check: func(t *testing.T, cfg Config) {
				if cfg.Person != "" {
					t.Errorf("Person = %q, flag was set", cfg.Person)
				}
			},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"LABELREC_READ_TIMEOUT": "later"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"LABELREC_BAUD_RATE": "fast"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := DefaultConfig()
			err := ApplyEnvConfig(&cfg, tt.changed)
			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
