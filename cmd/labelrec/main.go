package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/labelrec/internal/adapters/dialog"
	fsadapter "github.com/bft-labs/labelrec/internal/adapters/fs"
	"github.com/bft-labs/labelrec/internal/adapters/hotplug"
	logAdapter "github.com/bft-labs/labelrec/internal/adapters/log"
	"github.com/bft-labs/labelrec/internal/adapters/serial"
	"github.com/bft-labs/labelrec/internal/app"
	"github.com/bft-labs/labelrec/internal/capture"
	"github.com/bft-labs/labelrec/internal/cliconfig"
	"github.com/bft-labs/labelrec/internal/ledger"
	"github.com/bft-labs/labelrec/internal/ports"
	"github.com/bft-labs/labelrec/internal/tui"
)

const longHelp = `Record labelled sensor samples from a serial device.

A checklist CSV names the labels to record and how many samples each person
still owes. Start a recording, mark the boundary after every repetition, stop
and save: each closed segment is appended to {output_dir}/{person}/{label}.txt
and the person's done count in the checklist is updated.

Shortcuts: ctrl+n start, ctrl+e stop, ctrl+p mark segment, ctrl+s save.`

var exampleUsage = strings.TrimSpace(`
  labelrec --port /dev/ttyUSB0 --checklist gestures.csv --person ali
  labelrec ports --detailed
  labelrec status --checklist gestures.csv --person ali
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	// loadConfig layers defaults < file < env < changed flags.
	loadConfig := func(cmd *cobra.Command) error {
		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}

		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return err
			}
		}
		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return fmt.Errorf("environment: %w", err)
		}
		return cfg.Validate()
	}

	root := &cobra.Command{
		Use:           "labelrec",
		Short:         "Record labelled sensor samples from a serial device",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.labelrec/config.toml)")
	flags.StringVar(&cfg.Port, "port", cfg.Port, "serial device to connect to on start")
	flags.IntVar(&cfg.BaudRate, "baud-rate", cfg.BaudRate, "serial baud rate")
	flags.IntVar(&cfg.DataBits, "data-bits", cfg.DataBits, "serial data bits")
	flags.IntVar(&cfg.StopBits, "stop-bits", cfg.StopBits, "serial stop bits (1 or 2)")
	flags.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "blocking read timeout")
	flags.StringVar(&cfg.Checklist, "checklist", cfg.Checklist, "checklist CSV file")
	flags.StringVar(&cfg.Person, "person", cfg.Person, "person whose columns are tracked")
	flags.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "root directory for sample files")
	flags.StringVar(&cfg.Separator, "separator", cfg.Separator, "line written after every saved segment")
	flags.IntVar(&cfg.StripPrefix, "strip-prefix", cfg.StripPrefix, "leading characters removed from each saved line")
	flags.StringVar(&cfg.DecodePolicy, "decode-policy", cfg.DecodePolicy, "non-ASCII input handling: strict or drop")
	flags.BoolVar(&cfg.NativeDialogs, "native-dialogs", cfg.NativeDialogs, "use native file pickers")
	flags.BoolVar(&cfg.WatchDevices, "watch-devices", cfg.WatchDevices, "refresh the port list when devices are plugged")
	flags.StringVar(&cfg.DeviceDir, "device-dir", cfg.DeviceDir, "directory watched for serial devices")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file used while the TUI runs (default: $HOME/.labelrec/labelrec.log)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	root.AddCommand(newPortsCmd(&cfg), newStatusCmd(&cfg))

	if err := root.Execute(); err != nil {
		log := logAdapter.NewConsoleLogger(cfg.Level())
		log.Error().Err(err).Msg("labelrec")
		os.Exit(1)
	}
}

func runTUI(cfg cliconfig.Config) error {
	zl, closer, err := logAdapter.NewFileLogger(cfg.LogFile, cfg.Level())
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()
	logger := logAdapter.NewZerologAdapterWithLogger(zl)

	logger.Info("starting",
		ports.String("version", getVersion()),
		ports.String("port", cfg.Port),
		ports.Int("baud_rate", cfg.BaudRate),
		ports.String("checklist", cfg.Checklist),
		ports.String("output_dir", cfg.OutputDir),
	)

	policy, _ := capture.ParseDecodePolicy(cfg.DecodePolicy)
	captureCfg := capture.DefaultConfig()
	captureCfg.DecodePolicy = policy
	// Stop may have to wait out one blocking read.
	captureCfg.JoinTimeout = cfg.ReadTimeout + captureCfg.JoinTimeout

	l := ledger.New(fsadapter.NewChecklistFileRepository(), fsadapter.NewSampleFileStore(), logger)
	surface := tui.NewSurface()
	ctrl := app.NewController(app.Config{
		Serial:    cfg.Serial(),
		Capture:   captureCfg,
		OutputDir: cfg.OutputDir,
		Separator: cfg.Separator,
		PrefixLen: cfg.StripPrefix,
		Person:    cfg.Person,
	}, serial.NewOpener(logger), serial.Lister{}, l, surface, logger)
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	intents := tui.NewDispatcher(ctrl)
	go intents.Run(ctx)

	model := tui.New(tui.Options{
		Intents:       intents,
		Dialogs:       dialog.NewZenity(),
		NativeDialogs: cfg.NativeDialogs,
		Port:          cfg.Port,
		Checklist:     cfg.Checklist,
		OutputDir:     cfg.OutputDir,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	surface.Attach(p.Send)

	if cfg.WatchDevices {
		w := hotplug.NewWatcher(cfg.DeviceDir, func() { intents.Enqueue(app.RefreshPorts{}) }, logger)
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Warn("device watcher unavailable, use p to refresh ports",
					ports.String("dir", cfg.DeviceDir), ports.Err(err))
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	logger.Info("exiting")
	return nil
}
