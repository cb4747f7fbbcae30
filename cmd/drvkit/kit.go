// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drvkit/drvkit/internal/issue"
	"github.com/drvkit/drvkit/pkg/descriptor"
	"github.com/drvkit/drvkit/pkg/kit"
)

func newKitCommand(app *App) *cobra.Command {
	var capture bool

	kitCmd := &cobra.Command{
		Use:   "kit",
		Short: "Show the installed driver kit",
		Long: `Show the driver kit that the configured kit store describes: its install
root, version and the framework versions it provides.

With --capture, print the raw store as a snapshot file instead. A snapshot
can be used on machines without a kit, through --kit-snapshot or the
kit.source and kit.snapshot_path settings.`,
		Example: `  drvkit kit
  drvkit kit --capture > kit.yaml
  drvkit resolve --kit-snapshot kit.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKit(cmd.Context(), app, capture)
		},
	}
	kitCmd.Flags().BoolVar(&capture, "capture", false, "print the kit store as a YAML snapshot")
	return kitCmd
}

func runKit(ctx context.Context, app *App, capture bool) error {
	sess, err := app.loadSession(ctx)
	if err != nil {
		return err
	}
	store, err := sess.kitStore()
	if err == nil {
		err = sess.storeErr
	}
	if err != nil {
		return issue.Classify(err, "open kit store")
	}

	if capture {
		data, err := kit.Capture(store).Marshal()
		if err != nil {
			return fmt.Errorf("failed to encode kit snapshot: %w", err)
		}
		_, err = app.stdout.Write(data)
		return err
	}

	inst, err := kit.Locate(store)
	if err != nil {
		return issue.Classify(err, "locate kit")
	}

	w := app.stdout
	kv := func(key, value string) {
		fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(fmt.Sprintf("%-8s", key)), value)
	}
	fmt.Fprintln(w, TitleStyle.Render("Driver kit"))
	fmt.Fprintln(w)
	kv("Root", inst.Root)
	if inst.Version == "" {
		kv("Version", SubtitleStyle.Render("(unrecorded)"))
	} else {
		kv("Version", inst.Version)
	}
	if n, ok := inst.BuildNumber(); ok {
		kv("Build", strconv.FormatUint(n, 10))
	}
	for _, fw := range []descriptor.Framework{descriptor.FrameworkKMDF, descriptor.FrameworkUMDF} {
		kv(fw.String(), versionList(inst, fw))
	}
	return nil
}

func versionList(inst *kit.Installation, fw descriptor.Framework) string {
	vs := inst.Versions(fw)
	if len(vs) == 0 {
		return WarningStyle.Render("(none installed)")
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = fmt.Sprintf("%d.%d", v.Major(), v.Minor())
	}
	return strings.Join(out, ", ")
}
