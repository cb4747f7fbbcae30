// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"errors"
	"fmt"

	"github.com/drvkit/drvkit/pkg/descriptor"
	"github.com/drvkit/drvkit/pkg/reconcile"
)

// SampleInfverifBuild is the first kit build whose INF verifier lacks the
// sample-class switch; sample-class packages skip VerifyInf from here on.
const SampleInfverifBuild = 25798

// ErrSkipped is wrapped by every SkipError.
var ErrSkipped = errors.New("stage skipped")

type (
	// Decision is the outcome for one stage.
	Decision struct {
		Stage  Stage
		Run    bool
		Reason string
	}

	// SkipError reports a stage that does not apply. It is not a failure.
	SkipError struct {
		Package string
		Stage   Stage
		Reason  string
	}
)

// Error implements the error interface.
func (e *SkipError) Error() string {
	return fmt.Sprintf("%s: %s skipped: %s", e.Package, e.Stage, e.Reason)
}

// Unwrap returns ErrSkipped.
func (e *SkipError) Unwrap() error { return ErrSkipped }

// IsSkip reports whether err means "not applicable" rather than failure.
func IsSkip(err error) bool { return errors.Is(err, ErrSkipped) }

// Table returns the model-level applicability of every stage.
func Table(model descriptor.DriverModel) map[Stage]bool {
	t := make(map[Stage]bool, len(stageDeps))
	driver := model.IsDriver()
	for _, s := range Stages() {
		t[s] = driver
	}
	return t
}

// Applicable reports whether stage applies to cfg, ignoring dependencies.
func Applicable(stage Stage, cfg reconcile.ResolvedConfig) bool {
	_, ok := reason(stage, cfg)
	return ok
}

// reason returns why stage does not apply, or ok.
func reason(stage Stage, cfg reconcile.ResolvedConfig) (string, bool) {
	if ok, _ := stage.IsValid(); !ok {
		return "unknown stage", false
	}
	if !Table(cfg.Model)[stage] {
		return "package does no driver work", false
	}
	switch stage {
	case VerifySignature:
		if !cfg.VerifySignature {
			return "signature verification not requested", false
		}
	case VerifyInf:
		if cfg.SampleClass && cfg.KitBuildNumber >= SampleInfverifBuild {
			return fmt.Sprintf("INF verifier in kit build %d cannot check sample-class drivers", cfg.KitBuildNumber), false
		}
	}
	return "", true
}

// Plan evaluates every stage in order.
func Plan(cfg reconcile.ResolvedConfig) []Decision {
	stages := Stages()
	runs := make(map[Stage]bool, len(stages))
	out := make([]Decision, 0, len(stages))

	for _, s := range stages {
		d := Decision{Stage: s}
		if why, ok := reason(s, cfg); !ok {
			d.Reason = why
		} else if dep, ok := skippedDep(s, runs); ok {
			d.Reason = fmt.Sprintf("depends on skipped stage %s", dep)
		} else {
			d.Run = true
		}
		runs[s] = d.Run
		out = append(out, d)
	}
	return out
}

func skippedDep(s Stage, runs map[Stage]bool) (Stage, bool) {
	for _, dep := range stageDeps[s] {
		if !runs[dep] {
			return dep, true
		}
	}
	return "", false
}

// Check returns nil when stage runs for cfg and a *SkipError otherwise.
func Check(stage Stage, cfg reconcile.ResolvedConfig) error {
	if ok, errs := stage.IsValid(); !ok {
		return errs[0]
	}
	for _, d := range Plan(cfg) {
		if d.Stage == stage && !d.Run {
			return &SkipError{Package: cfg.Package, Stage: stage, Reason: d.Reason}
		}
	}
	return nil
}

// Runnable returns the stages that run for cfg, in order.
func Runnable(cfg reconcile.ResolvedConfig) []Stage {
	var out []Stage
	for _, d := range Plan(cfg) {
		if d.Run {
			out = append(out, d.Stage)
		}
	}
	return out
}
