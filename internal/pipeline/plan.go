// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/drvkit/drvkit/internal/dag"
	"github.com/drvkit/drvkit/internal/engine"
	"github.com/drvkit/drvkit/internal/workspace"
	"github.com/drvkit/drvkit/pkg/buildenv"
	"github.com/drvkit/drvkit/pkg/gate"
	"github.com/drvkit/drvkit/pkg/reconcile"
)

// DefaultTargetDir is the build output directory below each package.
const DefaultTargetDir = "target"

type (
	// Options tunes plan rendering.
	Options struct {
		// TargetDir is the build output directory, relative to the package
		// directory unless absolute.
		TargetDir string
		// CreateCert creates the local test certificate instead of exporting
		// an existing one from the store.
		CreateCert bool
	}

	// Step is one stage of a package plan.
	Step struct {
		Stage    gate.Stage
		Run      bool
		Reason   string
		Commands []Command
		// Outputs lists the files the stage leaves in the package directory.
		Outputs []string
	}

	// PackagePlan is the ordered stage chain of one package.
	PackagePlan struct {
		Package   string
		Config    reconcile.ResolvedConfig
		OutputDir string
		Steps     []Step
	}

	// files are the artifacts of one package.
	files struct {
		binary string
		inf    string
		cat    string
		cert   string
	}
)

// Build renders a plan for every workspace package, in name order.
func Build(res *engine.Result, opts Options) ([]PackagePlan, error) {
	order, err := StageOrder()
	if err != nil {
		return nil, err
	}
	if opts.TargetDir == "" {
		opts.TargetDir = DefaultTargetDir
	}

	plans := make([]PackagePlan, 0, len(res.Workspace.Packages))
	for i, pkg := range res.Workspace.Packages {
		cfg, ok := res.Resolution.Config(pkg.Name)
		if !ok {
			return nil, fmt.Errorf("no resolved config for package %q", pkg.Name)
		}
		p, err := buildPackage(pkg, cfg, res.Environments[i], order, opts)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// StageOrder orders gate.Stages by their declared dependencies.
func StageOrder() ([]gate.Stage, error) {
	g := stageGraph()
	return g.TopologicalSort()
}

func stageGraph() *dag.Graph[gate.Stage] {
	g := dag.New[gate.Stage]()
	for _, s := range gate.Stages() {
		g.AddNode(s)
		for _, dep := range s.DependsOn() {
			g.AddEdge(dep, s)
		}
	}
	return g
}

func buildPackage(pkg workspace.Package, cfg reconcile.ResolvedConfig, env buildenv.Environment, order []gate.Stage, opts Options) (PackagePlan, error) {
	decisions := make(map[gate.Stage]gate.Decision)
	for _, d := range gate.Plan(cfg) {
		decisions[d.Stage] = d
	}

	outDir := opts.TargetDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(string(pkg.Dir), outDir)
	}
	outDir = filepath.Join(outDir, pkg.ArtifactName()+"_package")

	p := PackagePlan{Package: pkg.Name, Config: cfg, OutputDir: outDir}
	artifact := pkg.ArtifactName()
	f := files{
		binary: filepath.Join(outDir, artifact+"."+buildenv.BinaryExtension(cfg.Model)),
		inf:    filepath.Join(outDir, artifact+".inf"),
		cat:    filepath.Join(outDir, artifact+".cat"),
		cert:   filepath.Join(outDir, CertFile),
	}

	for _, s := range order {
		d := decisions[s]
		step := Step{Stage: s, Run: d.Run, Reason: d.Reason}
		if d.Run {
			cmds, outputs, err := render(s, cfg, env, f, outDir, opts)
			if err != nil {
				return PackagePlan{}, err
			}
			step.Commands, step.Outputs = cmds, outputs
		}
		p.Steps = append(p.Steps, step)
	}
	return p, nil
}

func render(s gate.Stage, cfg reconcile.ResolvedConfig, env buildenv.Environment, f files, outDir string, opts Options) ([]Command, []string, error) {
	switch s {
	case gate.GenerateBinary:
		return nil, []string{f.binary}, nil

	case gate.StampInf:
		a, err := env.RequireArch()
		if err != nil {
			return nil, nil, err
		}
		args := []string{"-f", f.inf, "-d", "*", "-a", a.Token(), "-c", filepath.Base(f.cat), "-v", "*"}
		args = append(args, buildenv.StampinfArgs(cfg)...)
		return []Command{{Name: ToolStampinf, Args: args}}, []string{f.inf}, nil

	case gate.VerifyInf:
		flags, _ := buildenv.FlagsFor(cfg)
		args := []string{"/v", flags.InfverifMode}
		if cfg.SampleClass {
			args = append(args, "/msft")
		}
		args = append(args, f.inf)
		return []Command{{Name: ToolInfverif, Args: args}}, nil, nil

	case gate.Catalog:
		a, err := env.RequireArch()
		if err != nil {
			return nil, nil, err
		}
		return []Command{{Name: ToolInf2cat, Args: []string{
			"/driver:" + outDir, "/os:" + a.OSMapping(), "/uselocaltime",
		}}}, []string{f.cat}, nil

	case gate.Sign:
		cert := Command{Name: ToolCertmgr, Args: []string{"-put", "-s", CertStore, "-c", "-n", CertName, f.cert}}
		if opts.CreateCert {
			cert = Command{Name: ToolMakecert, Args: []string{
				"-r", "-pe", "-a", "SHA256", "-eku", "1.3.6.1.5.5.7.3.3",
				"-ss", CertStore, "-n", "CN=" + CertName, f.cert,
			}}
		}
		return []Command{cert, signCommand(f.binary), signCommand(f.cat)}, []string{f.cert}, nil

	case gate.VerifySignature:
		return []Command{verifyCommand(f.binary), verifyCommand(f.cat)}, nil, nil
	}
	return nil, nil, fmt.Errorf("no renderer for stage %s", s)
}

func signCommand(file string) Command {
	return Command{Name: ToolSigntool, Args: []string{
		"sign", "/v", "/s", CertStore, "/n", CertName, "/t", TimestampServer, "/fd", "SHA256", file,
	}}
}

func verifyCommand(file string) Command {
	return Command{Name: ToolSigntool, Args: []string{"verify", "/v", "/pa", file}}
}
