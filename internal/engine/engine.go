// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/drvkit/drvkit/internal/inx"
	"github.com/drvkit/drvkit/internal/workspace"
	"github.com/drvkit/drvkit/pkg/arch"
	"github.com/drvkit/drvkit/pkg/buildenv"
	"github.com/drvkit/drvkit/pkg/descriptor"
	"github.com/drvkit/drvkit/pkg/kit"
	"github.com/drvkit/drvkit/pkg/reconcile"
)

// RootPrefix prefixes the pseudo-package name of a workspace root's own
// driver block. Package names cannot contain ':', so it never collides.
const RootPrefix = "workspace:"

type (
	// Engine resolves workspaces against a kit store.
	Engine struct {
		logger          *log.Logger
		store           kit.Store
		target          arch.Arch
		verifySignature bool
	}

	// Option configures an Engine.
	Option func(*Engine)

	// Result is a fully resolved workspace.
	Result struct {
		Workspace   *workspace.Workspace
		Descriptors []descriptor.Descriptor
		Resolution  *reconcile.Resolution
		// Environments holds one entry per resolved workspace package, in name
		// order. The workspace root's own block gets none.
		Environments []buildenv.Environment
	}
)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStore sets the kit store.
func WithStore(s kit.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithTarget sets the target triple. The default is the host triple.
func WithTarget(triple string) Option {
	return func(e *Engine) {
		if triple != "" {
			e.target = arch.FromTriple(triple)
		}
	}
}

// WithVerifySignature requests the signature verification stage.
func WithVerifySignature(v bool) Option {
	return func(e *Engine) { e.verifySignature = v }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: log.New(io.Discard),
		store:  kit.MapStore{},
		target: arch.FromTriple(arch.HostTriple()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Target returns the configured target architecture.
func (e *Engine) Target() arch.Arch { return e.target }

// ResolveDir loads the workspace in dir and resolves it like Resolve.
func (e *Engine) ResolveDir(dir string) (*Result, error) {
	ws, err := workspace.Load(dir)
	if err != nil {
		return nil, err
	}
	return e.Resolve(ws)
}

// Resolve runs the chain on an already loaded workspace. When only the driver
// packages fail to reconcile, the error comes with a partial Result whose
// Environments cover the packages that still resolved.
func (e *Engine) Resolve(ws *workspace.Workspace) (*Result, error) {
	e.logger.Debug("resolving workspace", "root", ws.Root, "packages", len(ws.Packages), "target", e.target.Triple())

	descs, err := e.Describe(ws)
	if err != nil {
		return nil, err
	}

	sample, err := e.sampleClass(ws, descs)
	if err != nil {
		return nil, err
	}

	locate := func() (*kit.Installation, error) {
		inst, err := kit.Locate(e.store)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("located kit", "root", inst.Root, "version", inst.Version)
		return inst, nil
	}

	res, rerr := reconcile.Reconcile(descs, locate, reconcile.Options{
		VerifySignature: e.verifySignature,
		SampleClass:     sample,
	})
	if res == nil {
		return nil, rerr
	}
	if !res.Version.IsZero() {
		e.logger.Debug("selected framework version", "model", res.Model, "version", res.Version)
	}

	out := &Result{Workspace: ws, Descriptors: descs, Resolution: res}
	for _, pkg := range ws.Packages {
		cfg, ok := res.Config(pkg.Name)
		if !ok {
			if _, failed := res.Failed[pkg.Name]; failed {
				continue
			}
			return nil, fmt.Errorf("no resolved config for package %q", pkg.Name)
		}
		env, err := buildenv.Derive(cfg)
		if err != nil {
			return nil, err
		}
		out.Environments = append(out.Environments, env)
	}
	if rerr != nil {
		e.logger.Debug("driver packages unresolved", "packages", len(res.Failed), "error", rerr)
		return out, rerr
	}
	return out, nil
}

// Describe parses the driver block of every package, plus the workspace
// root's own block when present.
func (e *Engine) Describe(ws *workspace.Workspace) ([]descriptor.Descriptor, error) {
	descs := make([]descriptor.Descriptor, 0, len(ws.Packages)+1)
	if ws.HasRootMetadata() {
		d, err := descriptor.Parse(RootPrefix+ws.Name, ws.Metadata, e.target)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	for _, pkg := range ws.Packages {
		d, err := descriptor.Parse(pkg.Name, pkg.Metadata, e.target)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("parsed descriptor", "package", pkg.Name, "model", d.Model())
		descs = append(descs, d)
	}
	return descs, nil
}

// sampleClass inspects the INX template of every driver package.
func (e *Engine) sampleClass(ws *workspace.Workspace, descs []descriptor.Descriptor) (map[string]bool, error) {
	drivers := make(map[string]bool, len(descs))
	for _, d := range descs {
		drivers[d.Package] = d.Model().IsDriver()
	}

	out := make(map[string]bool)
	for _, pkg := range ws.Packages {
		if !drivers[pkg.Name] || !pkg.HasINX() {
			continue
		}
		ok, err := inx.FileHasSampleClass(string(pkg.INXPath()))
		if err != nil {
			return nil, err
		}
		if ok {
			e.logger.Debug("sample-class INX detected", "package", pkg.Name)
			out[pkg.Name] = true
		}
	}
	return out, nil
}
