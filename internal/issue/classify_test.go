// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/drvkit/drvkit/pkg/arch"
	"github.com/drvkit/drvkit/pkg/descriptor"
	"github.com/drvkit/drvkit/pkg/kit"
	"github.com/drvkit/drvkit/pkg/reconcile"
)

func TestIdFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Id
		ok   bool
	}{
		{"not installed", &kit.LocatorError{Kind: kit.KindNotInstalled}, KitNotInstalledId, true},
		{"registry unsupported", fmt.Errorf("open: %w", kit.ErrRegistryUnsupported), KitNotInstalledId, true},
		{"partial", &kit.LocatorError{Kind: kit.KindPartialInstallation}, PartialInstallationId, true},
		{"malformed", &kit.LocatorError{Kind: kit.KindMalformedEntry}, MalformedKitEntryId, true},
		{"descriptor", &descriptor.DescriptorError{Package: "echo", Kind: descriptor.KindMissingVersion}, DescriptorInvalidId, true},
		{"mixed", &reconcile.ReconcileError{Kind: reconcile.KindMixedDriverModel}, MixedDriverModelId, true},
		{"conflict", &reconcile.ReconcileError{Kind: reconcile.KindVersionConflict}, VersionConflictId, true},
		{"no match", &reconcile.ReconcileError{Kind: reconcile.KindNoCompatibleVersion}, NoCompatibleVersionId, true},
		{"arch", arch.FromTriple("mips-unknown-none").Require(), UnknownArchitectureId, true},
		{"unknown", errors.New("boom"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := IdFor(tt.err)
			if ok != tt.ok || got != tt.want {
				t.Errorf("IdFor() = %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cause := &reconcile.ReconcileError{
		Kind:      reconcile.KindNoCompatibleVersion,
		Framework: descriptor.FrameworkKMDF,
		PackageA:  "echo",
		RangeA:    ">= 1.35, < 2",
		Available: []string{"1.31", "1.33"},
	}
	err := Classify(cause, "resolve workspace")

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("Classify() = %T, want *ActionableError", err)
	}
	if !errors.Is(err, reconcile.ErrNoCompatibleVersion) {
		t.Error("classified error lost its cause")
	}
	if ae.Issue != NoCompatibleVersionId || ae.Resource != "echo" {
		t.Errorf("ActionableError = %+v", ae)
	}
	out := ae.Format(false)
	for _, want := range []string{"failed to resolve workspace", "Installed versions: 1.31, 1.33", "drvkit issue no-compatible-version"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestClassify_Passthrough(t *testing.T) {
	t.Parallel()

	if Classify(nil, "x") != nil {
		t.Error("Classify(nil) != nil")
	}
	plain := errors.New("boom")
	if got := Classify(plain, "x"); got != plain {
		t.Errorf("Classify(unknown) = %v, want unchanged", got)
	}
	ae := NewErrorContext().WithOperation("load config").BuildError()
	if got := Classify(ae, "x"); got != ae {
		t.Errorf("Classify(actionable) = %v, want unchanged", got)
	}
}
