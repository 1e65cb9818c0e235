package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (LABELREC_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", os.Getenv("LABELREC_PORT"), &cfg.Port)
	s.setString("checklist", os.Getenv("LABELREC_CHECKLIST"), &cfg.Checklist)
	s.setString("person", os.Getenv("LABELREC_PERSON"), &cfg.Person)
	s.setString("output-dir", os.Getenv("LABELREC_OUTPUT_DIR"), &cfg.OutputDir)
	s.setString("separator", os.Getenv("LABELREC_SEPARATOR"), &cfg.Separator)
	s.setString("decode-policy", os.Getenv("LABELREC_DECODE_POLICY"), &cfg.DecodePolicy)
	s.setString("device-dir", os.Getenv("LABELREC_DEVICE_DIR"), &cfg.DeviceDir)
	s.setString("log-file", os.Getenv("LABELREC_LOG_FILE"), &cfg.LogFile)
	s.setString("log-level", os.Getenv("LABELREC_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("read-timeout", os.Getenv("LABELREC_READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("baud-rate", os.Getenv("LABELREC_BAUD_RATE"), &cfg.BaudRate); err != nil {
		return err
	}
	if err := s.setIntFromString("data-bits", os.Getenv("LABELREC_DATA_BITS"), &cfg.DataBits); err != nil {
		return err
	}
	if err := s.setIntFromString("stop-bits", os.Getenv("LABELREC_STOP_BITS"), &cfg.StopBits); err != nil {
		return err
	}
	if err := s.setIntFromString("strip-prefix", os.Getenv("LABELREC_STRIP_PREFIX"), &cfg.StripPrefix); err != nil {
		return err
	}

	s.setBoolFromString("native-dialogs", os.Getenv("LABELREC_NATIVE_DIALOGS"), &cfg.NativeDialogs)
	s.setBoolFromString("watch-devices", os.Getenv("LABELREC_WATCH_DEVICES"), &cfg.WatchDevices)

	return nil
}
