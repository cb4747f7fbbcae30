// SPDX-License-Identifier: MPL-2.0

package buildenv

import (
	"errors"
	"fmt"
)

var (
	// ErrDerivation is wrapped by every DerivationError.
	ErrDerivation = errors.New("build environment derivation failed")
	// ErrDuplicateKey reports a key emitted twice during derivation.
	ErrDuplicateKey = errors.New("duplicate environment key")
)

// DerivationError reports an environment that cannot serve a consumer.
type DerivationError struct {
	Package string
	Key     string
	Err     error
}

// Error implements the error interface.
func (e *DerivationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s for package %q (%s): %v", ErrDerivation, e.Package, e.Key, e.Err)
	}
	return fmt.Sprintf("%s for package %q: %v", ErrDerivation, e.Package, e.Err)
}

// Unwrap exposes ErrDerivation and the cause.
func (e *DerivationError) Unwrap() []error {
	return []error{ErrDerivation, e.Err}
}
