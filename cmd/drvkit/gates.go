// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/drvkit/drvkit/pkg/gate"
	"github.com/drvkit/drvkit/pkg/reconcile"
)

func newGatesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "gates [dir]",
		Short: "Show which packaging stages run for each package",
		Long: `Resolve the project in dir (default: the current directory) and show, for
every package, whether each packaging stage runs and why it is skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGates(cmd.Context(), app, dirArg(args))
		},
	}
}

func runGates(ctx context.Context, app *App, dir string) error {
	sess, err := app.loadSession(ctx)
	if err != nil {
		return err
	}
	res, err := sess.resolve(dir)
	if err != nil {
		return err
	}
	printGates(app.stdout, res.Resolution.Configs)
	return nil
}

func printGates(w io.Writer, configs []reconcile.ResolvedConfig) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Package", "Stage", "Runs", "Reason"})
	for _, cfg := range configs {
		for _, d := range gate.Plan(cfg) {
			runs := WarningStyle.Render("no")
			if d.Run {
				runs = SuccessStyle.Render("yes")
			}
			t.AppendRow(table.Row{cfg.Package, d.Stage, runs, d.Reason})
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	t.Render()
}
