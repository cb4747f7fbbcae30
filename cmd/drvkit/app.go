// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/drvkit/drvkit/internal/config"
	"github.com/drvkit/drvkit/internal/engine"
	"github.com/drvkit/drvkit/internal/issue"
	"github.com/drvkit/drvkit/pkg/kit"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App reference and reaches configuration through it.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer

		flags         rootFlags
		verbose       bool
		helpRequested bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	rootFlags struct {
		verbose     bool
		configPath  string
		target      string
		kitSnapshot string
	}

	// session is the configuration and logger of one invocation, with the
	// global flags applied on top of the loaded file.
	session struct {
		cfg      *config.Config
		path     string
		logger   *log.Logger
		storeErr error
	}
)

// NewApp creates an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// HelpRequested reports whether a forwarding command printed its help
// instead of its output.
func (a *App) HelpRequested() bool { return a.helpRequested }

func (a *App) loadSession(ctx context.Context) (*session, error) {
	a.verbose = a.flags.verbose
	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return nil, issue.Classify(err, "load configuration")
	}

	cfg := loaded.Config
	if a.flags.target != "" {
		cfg.Target.Triple = a.flags.target
	}
	if a.flags.kitSnapshot != "" {
		cfg.Kit.Source = config.KitSourceSnapshot
		cfg.Kit.SnapshotPath = a.flags.kitSnapshot
	}

	a.verbose = a.flags.verbose || cfg.UI.Verbose
	level := log.WarnLevel
	if a.verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	if loaded.Path != "" {
		logger.Debug("loaded configuration", "path", loaded.Path)
	}

	return &session{cfg: cfg, path: loaded.Path, logger: logger}, nil
}

// kitStore opens the configured kit store. An unavailable registry is not
// fatal: projects without driver packages never consult the kit, so the
// failure is kept in storeErr and reported only if the kit is needed.
func (s *session) kitStore() (kit.Store, error) {
	store, err := s.cfg.KitStore()
	if err == nil {
		return store, nil
	}
	if s.cfg.Kit.Source == config.KitSourceSnapshot {
		return nil, err
	}
	s.logger.Debug("kit store unavailable", "error", err)
	s.storeErr = err
	return kit.MapStore{}, nil
}

// resolve loads and resolves the workspace in dir. A failure confined to the
// driver packages comes with the partial result.
func (s *session) resolve(dir string, opts ...engine.Option) (*engine.Result, error) {
	store, err := s.kitStore()
	if err != nil {
		return nil, issue.Classify(err, "open kit store")
	}

	base := []engine.Option{
		engine.WithLogger(s.logger),
		engine.WithStore(store),
		engine.WithTarget(s.cfg.Target.Triple),
		engine.WithVerifySignature(s.cfg.Package.VerifySignature),
	}
	res, err := engine.New(append(base, opts...)...).ResolveDir(dir)
	if err != nil {
		if s.storeErr != nil && errors.Is(err, kit.ErrNotInstalled) {
			err = s.storeErr
		}
		return res, issue.Classify(err, "resolve "+dir)
	}
	return res, nil
}

func dirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
