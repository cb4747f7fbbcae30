// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/drvkit/drvkit/internal/issue"
)

func newIssueCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "issue [id|slug]",
		Short: "Explain a failure and how to fix it",
		Long: `Show the catalog entry for a failure class. Error messages name the entry
to look up. Without an argument, list every entry.`,
		Example: `  drvkit issue
  drvkit issue kit-not-installed
  drvkit issue 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listIssues(app)
				return nil
			}
			return showIssue(cmd.Context(), app, args[0])
		},
	}
}

func listIssues(app *App) {
	t := newTable(app.stdout)
	t.AppendHeader(table.Row{"Id", "Slug", "Title"})
	for _, is := range issue.Values() {
		t.AppendRow(table.Row{is.Id(), is.Slug(), is.Title()})
	}
	t.Render()
}

func showIssue(ctx context.Context, app *App, key string) error {
	is, ok := issue.Lookup(key)
	if !ok {
		slugs := make([]string, 0, len(issue.Values()))
		for _, v := range issue.Values() {
			slugs = append(slugs, v.Slug())
		}
		return fmt.Errorf("unknown issue %q (known: %s)", key, strings.Join(slugs, ", "))
	}

	style := "auto"
	if sess, err := app.loadSession(ctx); err == nil {
		style = string(sess.cfg.UI.ColorScheme)
	}
	out, err := is.Render(style)
	if err != nil {
		return err
	}
	fmt.Fprint(app.stdout, out)
	return nil
}
