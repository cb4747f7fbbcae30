// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"fmt"
)

const (
	// KindMalformed is a structurally invalid driver block.
	KindMalformed ErrorKind = "malformed"
	// KindUnknownDriverModel is a driver-type outside the known set.
	KindUnknownDriverModel ErrorKind = "unknown-driver-model"
	// KindMissingVersion is a framework model without a usable version declaration.
	KindMissingVersion ErrorKind = "missing-version"
	// KindInvalidVersionRange is an explicit range that does not parse.
	KindInvalidVersionRange ErrorKind = "invalid-version-range"
)

var (
	// ErrDescriptor is wrapped by every DescriptorError.
	ErrDescriptor = errors.New("invalid driver descriptor")
	// ErrMalformed is wrapped by KindMalformed errors.
	ErrMalformed = errors.New("malformed driver block")
	// ErrUnknownDriverModel is wrapped by KindUnknownDriverModel errors.
	ErrUnknownDriverModel = errors.New("unknown driver model")
	// ErrMissingVersion is wrapped by KindMissingVersion errors.
	ErrMissingVersion = errors.New("missing framework version")
	// ErrInvalidVersionRange is wrapped by KindInvalidVersionRange errors.
	ErrInvalidVersionRange = errors.New("invalid version range")
)

type (
	// ErrorKind classifies a DescriptorError.
	ErrorKind string

	// DescriptorError reports why a package's driver block was rejected.
	DescriptorError struct {
		Package string
		Kind    ErrorKind
		// Field is the offending metadata key, when one can be named.
		Field string
		// Value is the offending raw value, when one can be named.
		Value string
		Err   error
	}
)

// Error implements the error interface.
func (e *DescriptorError) Error() string {
	msg := fmt.Sprintf("package %q: %s", e.Package, e.sentinel())
	switch {
	case e.Field != "" && e.Value != "":
		msg += fmt.Sprintf(" (%s = %q)", e.Field, e.Value)
	case e.Field != "":
		msg += fmt.Sprintf(" (%s)", e.Field)
	case e.Value != "":
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes ErrDescriptor, the kind sentinel and the underlying cause.
func (e *DescriptorError) Unwrap() []error {
	errs := []error{ErrDescriptor, e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *DescriptorError) sentinel() error {
	switch e.Kind {
	case KindUnknownDriverModel:
		return ErrUnknownDriverModel
	case KindMissingVersion:
		return ErrMissingVersion
	case KindInvalidVersionRange:
		return ErrInvalidVersionRange
	default:
		return ErrMalformed
	}
}
