package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	fsadapter "github.com/bft-labs/labelrec/internal/adapters/fs"
	logAdapter "github.com/bft-labs/labelrec/internal/adapters/log"
	"github.com/bft-labs/labelrec/internal/cliconfig"
	"github.com/bft-labs/labelrec/internal/ledger"
)

func newStatusCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a person's progress through a checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Checklist == "" {
				return fmt.Errorf("--checklist is required")
			}
			zl := logAdapter.NewConsoleLogger(cfg.Level())
			l := ledger.New(fsadapter.NewChecklistFileRepository(), fsadapter.NewSampleFileStore(),
				logAdapter.NewZerologAdapterWithLogger(zl))

			t, err := l.Load(cfg.Checklist)
			if err != nil {
				return err
			}
			person := cfg.Person
			if person == "" {
				people := ledger.People(t)
				if len(people) == 0 {
					return fmt.Errorf("%s has no <person>_done_count/<person>_total_count columns", cfg.Checklist)
				}
				person = people[0]
			}

			rows, err := ledger.Summary(t, person)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(person, rows))
			return nil
		},
	}
}

func renderSummary(person string, rows []ledger.RowProgress) string {
	done := lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("LABEL", "DONE", "TOTAL", "")

	var remaining int
	for _, r := range rows {
		mark := ""
		if r.Complete() {
			mark = done.Render("✓")
		} else {
			remaining++
		}
		tbl.Row(r.Label, strconv.Itoa(r.Done), strconv.Itoa(r.Total), mark)
	}
	return fmt.Sprintf("%s\n%s: %d of %d labels remaining", tbl.String(), person, remaining, len(rows))
}
