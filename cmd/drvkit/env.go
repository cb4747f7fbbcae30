// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/drvkit/drvkit/internal/engine"
	"github.com/drvkit/drvkit/internal/watch"
	"github.com/drvkit/drvkit/internal/workspace"
	"github.com/drvkit/drvkit/pkg/buildenv"
)

func newEnvCommand(app *App) *cobra.Command {
	var opts envOptions

	envCmd := &cobra.Command{
		Use:   "env [dir]",
		Short: "Print the derived build environment",
		Long: `Print the build environment of every package of the project in dir
(default: the current directory), in derivation order.

Keys have the form ` + buildenv.Prefix + `-<SECTION>-<FIELD>. The sh format
renders an env(1) wrapper, since the keys are not valid shell identifiers.

With --watch the environment is printed again whenever a manifest or INX
file under dir changes, until interrupted. Failed re-resolutions are
reported on stderr and do not stop the watch.

Asking for help prints this text instead of an environment and exits with
status 2, so wrappers never mistake help output for an environment.`,
		Example: `  drvkit env
  drvkit env --format json drivers/echo
  drvkit env -p echo-driver --format sh > with-env.sh
  drvkit env --watch --format table`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnv(cmd.Context(), app, dirArg(args), opts)
		},
	}
	envCmd.Flags().StringVarP(&opts.format, "format", "f", "",
		fmt.Sprintf("output format: %s (default from output.format)", strings.Join(buildenv.Formats[string](), ", ")))
	envCmd.Flags().StringSliceVarP(&opts.packages, "package", "p", nil, "only print the named packages")
	envCmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "print again when project inputs change")
	envCmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultDebounce, "quiet period before printing again")
	envCmd.Flags().BoolVar(&opts.clear, "clear", false, "clear the terminal before each reprint")

	envCmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		app.helpRequested = true
		c.Parent().HelpFunc()(c, args)
	})
	return envCmd
}

type envOptions struct {
	format   string
	packages []string
	watch    bool
	debounce time.Duration
	clear    bool
}

// watchPatterns select the files a resolution reads.
var watchPatterns = []string{"**/" + workspace.ManifestName, "**/*.inx"}

func runEnv(ctx context.Context, app *App, dir string, opts envOptions) error {
	sess, err := app.loadSession(ctx)
	if err != nil {
		return err
	}
	format := buildenv.Format(opts.format)
	if format == "" {
		format = sess.cfg.Output.Format
	}
	if ok, errs := format.IsValid(); !ok {
		return errs[0]
	}

	emit := func() error {
		res, rerr := sess.resolve(dir)
		if res == nil {
			return rerr
		}
		envs, err := selectEnvironments(res, opts.packages, rerr)
		if err != nil {
			return err
		}
		data, err := buildenv.Encode(format, envs...)
		if err != nil {
			return err
		}
		_, err = app.stdout.Write(data)
		return err
	}

	if !opts.watch {
		return emit()
	}

	report := func() {
		if err := emit(); err != nil {
			fmt.Fprintln(app.stderr, formatErrorForDisplay(err, app.verbose))
		}
	}
	w, err := watch.New(watch.Config{
		BaseDir:     dir,
		Patterns:    watchPatterns,
		Debounce:    opts.debounce,
		ClearScreen: opts.clear,
		Stdout:      app.stdout,
		Logger:      sess.logger,
		OnChange: func(context.Context, []string) error {
			report()
			return nil
		},
	})
	if err != nil {
		return err
	}
	report()
	sess.logger.Info("watching for changes", "dir", w.BaseDir())
	return w.Run(ctx)
}

// selectEnvironments returns the environments of the named packages in
// derivation order, or all of them when names is empty. resolveErr is
// returned when a named package has no environment because it failed to
// resolve.
func selectEnvironments(res *engine.Result, names []string, resolveErr error) ([]buildenv.Environment, error) {
	if len(names) == 0 {
		return res.Environments, resolveErr
	}
	for _, name := range names {
		if _, ok := res.Workspace.Package(name); !ok {
			return nil, fmt.Errorf("unknown package %q (known: %s)", name, strings.Join(res.Workspace.Names(), ", "))
		}
	}
	var out []buildenv.Environment
	for _, env := range res.Environments {
		if slices.Contains(names, env.Package()) {
			out = append(out, env)
		}
	}
	for _, name := range names {
		if !slices.ContainsFunc(out, func(e buildenv.Environment) bool { return e.Package() == name }) {
			return nil, resolveErr
		}
	}
	return out, nil
}
