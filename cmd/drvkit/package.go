// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/drvkit/drvkit/internal/issue"
	"github.com/drvkit/drvkit/internal/pipeline"
)

// errToolExecution is returned when packaging is requested without --dry-run.
var errToolExecution = errors.New("running the kit tools is not supported")

type packageFlags struct {
	dryRun          bool
	createCert      bool
	verifySignature bool
	jobs            int
	targetDir       string
}

func newPackageCommand(app *App) *cobra.Command {
	var flags packageFlags

	packageCmd := &cobra.Command{
		Use:   "package [dir]",
		Short: "Plan the driver packaging stages",
		Long: `Plan the packaging stages of every driver package in dir (default: the
current directory) and print the kit tool invocations as a shell script.

Stages that do not apply are listed as comments with the reason. Packages are
planned concurrently; the stages of one package keep their order.`,
		Example: `  drvkit package --dry-run
  drvkit package --dry-run --verify-signature --create-cert > package.sh`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			return runPackage(cmd.Context(), app, dirArg(args), flags, func(name string) bool {
				return fs.Changed(name)
			})
		},
	}

	packageCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the commands instead of running them")
	packageCmd.Flags().BoolVar(&flags.createCert, "create-cert", false, "generate a test certificate instead of reusing the store's")
	packageCmd.Flags().BoolVar(&flags.verifySignature, "verify-signature", false, "verify signatures after signing")
	packageCmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "packages planned at once (0 means no limit)")
	packageCmd.Flags().StringVar(&flags.targetDir, "target-dir", "", "build output directory, relative to each package")
	return packageCmd
}

func runPackage(ctx context.Context, app *App, dir string, flags packageFlags, changed func(string) bool) error {
	if !flags.dryRun {
		return issue.NewErrorContext().
			WithOperation("package " + dir).
			WithSuggestion("Run 'drvkit package --dry-run' to print the commands, then run them where the kit is installed").
			Wrap(errToolExecution).
			BuildError()
	}

	sess, err := app.loadSession(ctx)
	if err != nil {
		return err
	}
	pc := &sess.cfg.Package
	if changed("create-cert") {
		pc.CreateCert = flags.createCert
	}
	if changed("verify-signature") {
		pc.VerifySignature = flags.verifySignature
	}
	if changed("jobs") {
		pc.Jobs = flags.jobs
	}
	if changed("target-dir") {
		pc.TargetDir = flags.targetDir
	}

	res, err := sess.resolve(dir)
	if err != nil {
		return err
	}
	plans, err := pipeline.Build(res, pipeline.Options{
		TargetDir:  pc.TargetDir,
		CreateCert: pc.CreateCert,
	})
	if err != nil {
		return issue.Classify(err, "plan packaging")
	}

	reports, err := pipeline.Execute(ctx, plans, pipeline.DryRun(),
		pipeline.WithJobs(pc.Jobs),
		pipeline.WithLogger(sess.logger),
	)
	if err != nil {
		return issue.Classify(err, "plan packaging")
	}
	return pipeline.WriteScript(app.stdout, reports)
}
