// SPDX-License-Identifier: MPL-2.0

package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/drvkit/drvkit/pkg/descriptor"
)

const (
	// KindMixedDriverModel means driver packages declared different models.
	KindMixedDriverModel ErrorKind = "mixed-driver-model"
	// KindVersionConflict means two packages' requirements share no installed version.
	KindVersionConflict ErrorKind = "version-conflict"
	// KindNoCompatibleVersion means a package's requirement matches no installed version.
	KindNoCompatibleVersion ErrorKind = "no-compatible-version"
)

var (
	// ErrReconcile is wrapped by every ReconcileError.
	ErrReconcile = errors.New("driver configuration cannot be reconciled")
	// ErrMixedDriverModel is wrapped by KindMixedDriverModel errors.
	ErrMixedDriverModel = errors.New("mixed driver models")
	// ErrVersionConflict is wrapped by KindVersionConflict errors.
	ErrVersionConflict = errors.New("conflicting framework version requirements")
	// ErrNoCompatibleVersion is wrapped by KindNoCompatibleVersion errors.
	ErrNoCompatibleVersion = errors.New("no compatible framework version installed")
)

type (
	// ErrorKind classifies a ReconcileError.
	ErrorKind string

	// ModelGroup is a driver model and the packages that declared it.
	ModelGroup struct {
		Model    descriptor.DriverModel
		Packages []string
	}

	// ReconcileError reports why no consistent configuration exists.
	ReconcileError struct {
		Kind ErrorKind

		// Groups is set for KindMixedDriverModel, ordered by model.
		Groups []ModelGroup

		Framework descriptor.Framework
		// PackageA and RangeA name the offending package for
		// KindNoCompatibleVersion, and the first side of a KindVersionConflict.
		PackageA string
		RangeA   string
		PackageB string
		RangeB   string

		Available   []string
		InstallRoot string
	}
)

// Error implements the error interface.
func (e *ReconcileError) Error() string {
	switch e.Kind {
	case KindMixedDriverModel:
		parts := make([]string, len(e.Groups))
		for i, g := range e.Groups {
			parts[i] = fmt.Sprintf("%s (%s)", g.Model, strings.Join(g.Packages, ", "))
		}
		return fmt.Sprintf("%s: %s", ErrMixedDriverModel, strings.Join(parts, " vs "))
	case KindVersionConflict:
		return fmt.Sprintf("%s: %s requires %s %s, %s requires %s %s; installed: %s",
			ErrVersionConflict, e.PackageA, e.Framework, e.RangeA, e.PackageB, e.Framework, e.RangeB, e.available())
	default:
		return fmt.Sprintf("%s: %s requires %s %s; installed under %s: %s",
			ErrNoCompatibleVersion, e.PackageA, e.Framework, e.RangeA, e.InstallRoot, e.available())
	}
}

func (e *ReconcileError) available() string {
	if len(e.Available) == 0 {
		return "none"
	}
	return strings.Join(e.Available, ", ")
}

// Packages returns every package named by the error.
func (e *ReconcileError) Packages() []string {
	if e.Kind == KindMixedDriverModel {
		var out []string
		for _, g := range e.Groups {
			out = append(out, g.Packages...)
		}
		return out
	}
	if e.PackageB == "" {
		return []string{e.PackageA}
	}
	return []string{e.PackageA, e.PackageB}
}

// Unwrap exposes ErrReconcile and the kind sentinel.
func (e *ReconcileError) Unwrap() []error {
	switch e.Kind {
	case KindMixedDriverModel:
		return []error{ErrReconcile, ErrMixedDriverModel}
	case KindVersionConflict:
		return []error{ErrReconcile, ErrVersionConflict}
	default:
		return []error{ErrReconcile, ErrNoCompatibleVersion}
	}
}
