// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drvkit/drvkit/internal/config"
	"github.com/drvkit/drvkit/internal/issue"
)

// newConfigCommand creates the `drvkit config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage drvkit configuration",
		Long: `Manage drvkit configuration.

Configuration is stored in:
  - Linux: ~/.config/drvkit/config.cue
  - macOS: ~/Library/Application Support/drvkit/config.cue
  - Windows: %APPDATA%\drvkit\config.cue

Every setting can be overridden with a DRVKIT_* environment variable, for
example DRVKIT_TARGET_TRIPLE or DRVKIT_OUTPUT_FORMAT.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	sess, err := app.loadSession(ctx)
	if err != nil {
		return err
	}

	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if sess.path != "" {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), sess.path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, config.GenerateCUE(sess.cfg))
	return nil
}

func initConfig(app *App, force bool) error {
	path, err := config.CreateDefaultConfig(app.loadOptions(), force)
	if err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("create configuration file").
			WithResource(path).
			Wrap(err)
		if errors.Is(err, config.ErrConfigFileExists) {
			ctx.WithSuggestion("Run 'drvkit config init --force' to overwrite it")
		}
		return ctx.BuildError()
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(app *App) error {
	path, err := config.FilePath(app.loadOptions())
	if err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, path)
	return nil
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.flags.configPath}
}
