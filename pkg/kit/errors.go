// SPDX-License-Identifier: MPL-2.0

package kit

import (
	"errors"
	"fmt"

	"github.com/drvkit/drvkit/pkg/descriptor"
)

const (
	// KindNotInstalled means no install root was found.
	KindNotInstalled ErrorKind = "not-installed"
	// KindPartialInstallation means the kit lacks every version of a requested framework.
	KindPartialInstallation ErrorKind = "partial-installation"
	// KindMalformedEntry means a well-known key holds an unparseable value.
	KindMalformedEntry ErrorKind = "malformed-entry"
)

var (
	// ErrLocator is wrapped by every LocatorError.
	ErrLocator = errors.New("driver kit lookup failed")
	// ErrNotInstalled is wrapped by KindNotInstalled errors.
	ErrNotInstalled = errors.New("driver kit is not installed")
	// ErrPartialInstallation is wrapped by KindPartialInstallation errors.
	ErrPartialInstallation = errors.New("driver kit installation is incomplete")
	// ErrMalformedEntry is wrapped by KindMalformedEntry errors.
	ErrMalformedEntry = errors.New("malformed kit entry")
)

type (
	// ErrorKind classifies a LocatorError.
	ErrorKind string

	// LocatorError reports a failed or incomplete kit discovery.
	LocatorError struct {
		Kind      ErrorKind
		Root      string
		Framework descriptor.Framework
		Key       string
		Value     string
		Err       error
	}
)

// Error implements the error interface.
func (e *LocatorError) Error() string {
	switch e.Kind {
	case KindNotInstalled:
		return fmt.Sprintf("%s: %s not found", ErrNotInstalled, e.Key)
	case KindPartialInstallation:
		return fmt.Sprintf("%s: no %s versions installed under %s", ErrPartialInstallation, e.Framework, e.Root)
	default:
		msg := fmt.Sprintf("%s: %s = %q", ErrMalformedEntry, e.Key, e.Value)
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		return msg
	}
}

// Unwrap exposes ErrLocator, the kind sentinel and the underlying cause.
func (e *LocatorError) Unwrap() []error {
	errs := []error{ErrLocator}
	switch e.Kind {
	case KindNotInstalled:
		errs = append(errs, ErrNotInstalled)
	case KindPartialInstallation:
		errs = append(errs, ErrPartialInstallation)
	default:
		errs = append(errs, ErrMalformedEntry)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
