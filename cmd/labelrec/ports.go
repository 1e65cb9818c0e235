package main

import (
	"fmt"

	"github.com/spf13/cobra"

	logAdapter "github.com/bft-labs/labelrec/internal/adapters/log"
	"github.com/bft-labs/labelrec/internal/adapters/serial"
	"github.com/bft-labs/labelrec/internal/cliconfig"
)

func newPortsCmd(cfg *cliconfig.Config) *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List the serial devices that can be recorded from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logAdapter.NewConsoleLogger(cfg.Level())
			out := cmd.OutOrStdout()
			lister := serial.Lister{}

			if detailed {
				details, err := lister.Details()
				if err != nil {
					return err
				}
				for _, d := range details {
					fmt.Fprintln(out, d.String())
				}
				log.Debug().Int("count", len(details)).Msg("ports listed")
				return nil
			}

			names, err := lister.ListPorts()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				log.Warn().Msg("no serial ports found")
			}
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include USB vendor/product information")
	return cmd
}
