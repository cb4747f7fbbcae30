// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	notFound := errors.New("no such file")
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation", &ActionableError{Operation: "locate kit"}, "failed to locate kit"},
		{"resource", &ActionableError{Operation: "load manifest", Resource: "drivers/echo"}, "failed to load manifest: drivers/echo"},
		{"cause", &ActionableError{Operation: "read kit snapshot", Cause: notFound}, "failed to read kit snapshot: no such file"},
		{
			"everything",
			&ActionableError{Operation: "load manifest", Resource: "drivers/echo", Cause: notFound},
			"failed to load manifest: drivers/echo: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("registry key missing")
	ae := &ActionableError{Operation: "open kit store", Cause: cause}
	if !errors.Is(ae, cause) {
		t.Error("errors.Is must reach the cause")
	}
	if (&ActionableError{Operation: "x"}).Unwrap() != nil {
		t.Error("Unwrap() without a cause must be nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions become bullets",
			err: &ActionableError{
				Operation:   "package drivers/echo",
				Suggestions: []string{"Run 'drvkit package --dry-run'", "Run the script where the kit is installed"},
			},
			contains: []string{"failed to package drivers/echo\n", "\n  • Run 'drvkit package --dry-run'", "\n  • Run the script"},
		},
		{
			name:     "quiet output hides the chain",
			err:      &ActionableError{Operation: "load configuration", Cause: errors.New("bad format")},
			contains: []string{"failed to load configuration: bad format"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "verbose output numbers the chain",
			err: &ActionableError{
				Operation: "resolve workspace",
				Cause: &ActionableError{
					Operation: "locate kit",
					Cause:     errors.New("KitsRoot10 not set"),
				},
			},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. failed to locate kit: KitsRoot10 not set",
				"2. KitsRoot10 not set",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() contains %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

type multiErr struct{ errs []error }

func (m *multiErr) Error() string   { return "multi" }
func (m *multiErr) Unwrap() []error { return m.errs }

func TestActionableError_FormatFollowsMultiUnwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("kind")
	cause := errors.New("root cause")
	ae := &ActionableError{Operation: "resolve workspace", Cause: &multiErr{errs: []error{sentinel, cause}}}

	got := ae.Format(true)
	for _, want := range []string{"1. multi", "2. root cause"} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestErrorContext(t *testing.T) {
	t.Parallel()

	cause := errors.New("parse error")
	ae := NewErrorContext().
		WithOperation("load configuration").
		WithResource("config.cue").
		WithSuggestion("Check the syntax").
		WithSuggestions("Run 'drvkit config init --force'", "Run 'drvkit issue config-load-failed'").
		WithIssue(ConfigLoadFailedId).
		Wrap(cause).
		Build()

	want := &ActionableError{
		Operation:   "load configuration",
		Resource:    "config.cue",
		Suggestions: []string{"Check the syntax", "Run 'drvkit config init --force'", "Run 'drvkit issue config-load-failed'"},
		Cause:       cause,
		Issue:       ConfigLoadFailedId,
	}
	if diff := cmp.Diff(want, ae, cmp.Comparer(func(a, b error) bool { return a == b })); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
	if !ae.HasSuggestions() || (&ActionableError{}).HasSuggestions() {
		t.Error("HasSuggestions() disagrees with Suggestions")
	}
}

func TestErrorContext_RequiresOperation(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithResource("drivers/echo")
	if ae := ctx.Build(); ae != nil {
		t.Errorf("Build() = %v, want nil", ae)
	}
	if err := ctx.BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want untyped nil", err)
	}

	var ae *ActionableError
	if err := ctx.WithOperation("resolve").BuildError(); !errors.As(err, &ae) {
		t.Errorf("BuildError() = %T, want *ActionableError", err)
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("resolve").WithResource("drivers/echo")
	first := ctx.Wrap(errors.New("first")).Build()
	second := ctx.Wrap(errors.New("second")).Build()

	if first.Cause.Error() != "first" || second.Cause.Error() != "second" {
		t.Errorf("causes = %v, %v", first.Cause, second.Cause)
	}
	if first.Operation != second.Operation || first.Resource != second.Resource {
		t.Error("reused context must keep operation and resource")
	}
}
