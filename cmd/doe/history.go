package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/banshee-data/doe/internal/store"
)

func newHistoryCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs archived in the SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openArchive(f)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Run", "Created", "Seed", "Configurations", "Written", "Strategy", "Iterations", "Randomized"})
			for _, r := range runs {
				t.AppendRow(table.Row{
					r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Seed, r.Configurations,
					r.Selected, r.Strategy, r.Iterations, r.Randomized,
				})
			}
			t.Render()
			return nil
		},
	}
	cmd.AddCommand(newHistoryShowCmd(f))
	return cmd
}

func newHistoryShowCmd(f *rootFlags) *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the parameters and configurations of one archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openArchive(f)
			if err != nil {
				return err
			}
			defer s.Close()

			run, err := s.LoadRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s created %s, seed %d, %d configurations (%d written)\n",
				run.ID, run.CreatedAt.Local().Format(time.DateTime), run.Seed, run.Configurations, run.Selected)

			pt := table.NewWriter()
			pt.SetOutputMirror(out)
			pt.AppendHeader(table.Row{"Parameter", "Minimum", "Maximum", "Increment", "Type"})
			for _, p := range run.Parameters {
				pt.AppendRow(table.Row{p.Name, p.Min, p.Max, p.Increment, p.Kind})
			}
			pt.Render()

			header := table.Row{run.IDLabel}
			for _, p := range run.Parameters {
				header = append(header, p.Name)
			}
			header = append(header, "Written")

			ct := table.NewWriter()
			ct.SetOutputMirror(out)
			ct.AppendHeader(header)
			for i, c := range run.Configs {
				if rows > 0 && i == rows {
					break
				}
				row := table.Row{c.ConfigID}
				for _, v := range c.Values {
					row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
				}
				ct.AppendRow(append(row, c.Selected))
			}
			if rows > 0 && len(run.Configs) > rows {
				ct.AppendFooter(table.Row{fmt.Sprintf("%d more", len(run.Configs)-rows)})
			}
			ct.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 20, "configurations to print, 0 for all")
	return cmd
}

func openArchive(f *rootFlags) (*store.Store, error) {
	if f.sqlitePath == "" {
		return nil, errors.New("history needs --sqlite")
	}
	return store.Open(f.sqlitePath)
}
