// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/drvkit/drvkit/pkg/gate"
)

const (
	// StatusDone means every command of the stage succeeded.
	StatusDone Status = "done"
	// StatusSkipped means the stage does not apply to the package.
	StatusSkipped Status = "skipped"
	// StatusFailed means a command of the stage returned an error.
	StatusFailed Status = "failed"
	// StatusBlocked means a prerequisite stage failed.
	StatusBlocked Status = "blocked"
)

// ErrStage is wrapped by every StageError.
var ErrStage = errors.New("packaging stage failed")

type (
	// Status is the outcome of one stage.
	Status string

	// Runner executes one command on behalf of a package. It is called
	// concurrently for different packages.
	Runner interface {
		Run(ctx context.Context, pkg string, cmd Command) error
	}

	// RunnerFunc adapts a function to Runner.
	RunnerFunc func(ctx context.Context, pkg string, cmd Command) error

	// StepReport is the outcome of one stage.
	StepReport struct {
		Stage    gate.Stage
		Status   Status
		Reason   string
		Commands []Command
		Outputs  []string
	}

	// Report is the outcome of one package plan.
	Report struct {
		Package string
		Steps   []StepReport
	}

	// StageError reports the first failing stage of a package.
	StageError struct {
		Package string
		Stage   gate.Stage
		Command Command
		Err     error
	}

	// ExecOption configures Execute.
	ExecOption func(*execOptions)

	execOptions struct {
		jobs   int
		logger *log.Logger
	}
)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, pkg string, cmd Command) error {
	return f(ctx, pkg, cmd)
}

// DryRun accepts every command without running it.
func DryRun() Runner {
	return RunnerFunc(func(ctx context.Context, _ string, _ Command) error { return ctx.Err() })
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: stage %s: %s: %v", e.Package, e.Stage, e.Command.Name, e.Err)
}

// Unwrap exposes ErrStage and the command error.
func (e *StageError) Unwrap() []error { return []error{ErrStage, e.Err} }

// WithJobs bounds the number of packages processed at once. Zero or less
// means unbounded.
func WithJobs(n int) ExecOption {
	return func(o *execOptions) { o.jobs = n }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) ExecOption {
	return func(o *execOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Execute walks every plan with r. Packages run concurrently; the stages of a
// package run in plan order. A failed stage blocks the stages that depend on
// it while independent stages still run. Reports are returned in plan order
// even on error, and the error is the first StageError encountered.
func Execute(ctx context.Context, plans []PackagePlan, r Runner, opts ...ExecOption) ([]Report, error) {
	o := execOptions{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	reports := make([]Report, len(plans))
	g, ctx := errgroup.WithContext(ctx)
	if o.jobs > 0 {
		g.SetLimit(o.jobs)
	}
	for i := range plans {
		g.Go(func() error {
			rep, err := runPackage(ctx, plans[i], r, o.logger)
			reports[i] = rep
			return err
		})
	}
	err := g.Wait()
	return reports, err
}

func runPackage(ctx context.Context, p PackagePlan, r Runner, logger *log.Logger) (Report, error) {
	rep := Report{Package: p.Package, Steps: make([]StepReport, 0, len(p.Steps))}
	graph := stageGraph()
	blocked := make(map[gate.Stage]gate.Stage)
	var firstErr error

	for _, step := range p.Steps {
		sr := StepReport{Stage: step.Stage, Reason: step.Reason, Commands: step.Commands, Outputs: step.Outputs}
		switch {
		case !step.Run:
			sr.Status = StatusSkipped
			logger.Debug("stage skipped", "package", p.Package, "stage", step.Stage, "reason", step.Reason)
		case blocked[step.Stage] != "":
			sr.Status = StatusBlocked
			sr.Reason = fmt.Sprintf("prerequisite stage %s failed", blocked[step.Stage])
		default:
			sr.Status = StatusDone
			for _, cmd := range step.Commands {
				if err := r.Run(ctx, p.Package, cmd); err != nil {
					sr.Status = StatusFailed
					sr.Reason = err.Error()
					if firstErr == nil {
						firstErr = &StageError{Package: p.Package, Stage: step.Stage, Command: cmd, Err: err}
					}
					for _, d := range graph.Descendants(step.Stage) {
						if blocked[d] == "" {
							blocked[d] = step.Stage
						}
					}
					break
				}
			}
			if sr.Status == StatusDone {
				logger.Debug("stage done", "package", p.Package, "stage", step.Stage, "commands", len(step.Commands))
			}
		}
		rep.Steps = append(rep.Steps, sr)
	}
	return rep, firstErr
}
