// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"fmt"

	"github.com/drvkit/drvkit/pkg/types"
)

var (
	// ErrManifest is wrapped by every ManifestError.
	ErrManifest = errors.New("invalid manifest")
	// ErrNoManifest means a directory that should hold a manifest does not.
	ErrNoManifest = errors.New("manifest not found")
	// ErrInvalidPackageName means a package name cannot be used for artifacts.
	ErrInvalidPackageName = errors.New("invalid package name")
	// ErrDuplicatePackage means two members declare the same name.
	ErrDuplicatePackage = errors.New("duplicate package name")
	// ErrEmptyWorkspace means no package was found.
	ErrEmptyWorkspace = errors.New("workspace has no packages")
)

// ManifestError reports a problem with one manifest file.
type ManifestError struct {
	Path types.FilesystemPath
	Err  error
}

// Error implements the error interface.
func (e *ManifestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap exposes ErrManifest and the cause.
func (e *ManifestError) Unwrap() []error {
	return []error{ErrManifest, e.Err}
}
