// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/drvkit/drvkit/internal/engine"
	"github.com/drvkit/drvkit/pkg/arch"
	"github.com/drvkit/drvkit/pkg/gate"
)

func newResolveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [dir]",
		Short: "Resolve the project and summarize the result",
		Long: `Resolve every package of the project in dir (default: the current directory)
against the installed kit and print the agreed driver model, framework version
and per-package configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), app, dirArg(args))
		},
	}
}

func runResolve(ctx context.Context, app *App, dir string) error {
	sess, err := app.loadSession(ctx)
	if err != nil {
		return err
	}
	res, err := sess.resolve(dir)
	if err != nil {
		return err
	}
	printResolution(app.stdout, res, sess.target())
	return nil
}

func (s *session) target() arch.Arch {
	if s.cfg.Target.Triple == "" {
		return arch.FromTriple(arch.HostTriple())
	}
	return arch.FromTriple(s.cfg.Target.Triple)
}

func printResolution(w io.Writer, res *engine.Result, target arch.Arch) {
	r := res.Resolution
	ws := res.Workspace

	fmt.Fprintln(w, TitleStyle.Render("Resolved "+ws.Name))
	fmt.Fprintln(w)

	kv := func(key, value string) {
		fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(fmt.Sprintf("%-8s", key)), value)
	}
	kv("Root", ws.Root.String())
	kv("Target", fmt.Sprintf("%s (%s)", target.Triple(), target.Token()))

	model := r.Model.String()
	if !r.Version.IsZero() {
		model += " " + r.Version.String()
	}
	kv("Model", model)

	switch inst := r.Installation; {
	case inst == nil:
		kv("Kit", SubtitleStyle.Render("(not consulted)"))
	case inst.Version != "":
		kv("Kit", fmt.Sprintf("%s (%s)", inst.Root, inst.Version))
	default:
		kv("Kit", inst.Root)
	}
	fmt.Fprintln(w)

	t := newTable(w)
	t.AppendHeader(table.Row{"Package", "Model", "Version", "Sample class", "Verify signature", "Stages"})
	for _, cfg := range r.Configs {
		version := "-"
		if !cfg.Version.IsZero() {
			version = cfg.Version.String()
		}
		t.AppendRow(table.Row{
			cfg.Package,
			cfg.Model,
			version,
			yesNo(cfg.SampleClass),
			yesNo(cfg.VerifySignature),
			strconv.Itoa(len(gate.Runnable(cfg))),
		})
	}
	t.Render()
}

// newTable returns a borderless table writer mirroring to w.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
