// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for drvkit.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/drvkit/drvkit/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the drvkit command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "drvkit",
		Short: "Resolve driver-kit build metadata for driver projects",
		Long: TitleStyle.Render("drvkit") + SubtitleStyle.Render(" - driver-kit build metadata resolver") + `

drvkit reads the driver descriptors of every package in a project, finds the
installed Windows Driver Kit, agrees on one framework version and derives the
build environment each package needs.

` + SubtitleStyle.Render("Examples:") + `
  drvkit resolve              Summarize the resolved project
  drvkit env --format sh      Print the build environment as a shell wrapper
  drvkit gates                Show which packaging stages run
  drvkit package --dry-run    Print the packaging commands
  drvkit kit --capture        Capture the installed kit as a snapshot`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is the drvkit config directory)")
	rootCmd.PersistentFlags().StringVar(&app.flags.target, "target", "", "target triple (default is the host)")
	rootCmd.PersistentFlags().StringVar(&app.flags.kitSnapshot, "kit-snapshot", "", "read the kit from a snapshot file instead of the registry")

	rootCmd.AddCommand(
		newResolveCommand(app),
		newEnvCommand(app),
		newGatesCommand(app),
		newKitCommand(app),
		newPackageCommand(app),
		newConfigCommand(app),
		newIssueCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the resulting code.
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			if msg := formatErrorForDisplay(err, app.verbose); msg != "" {
				fmt.Fprintln(w, msg)
			}
		}),
	)
	os.Exit(int(exitCode(app, err)))
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return ""
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ErrorStyle.Render("Error: ") + ae.Format(verboseMode)
	}
	return ErrorStyle.Render("Error: ") + err.Error()
}
