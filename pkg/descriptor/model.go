// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ModelNone declares a package that does no driver work.
	ModelNone DriverModel = "NONE"
	// ModelWDM is a legacy kernel-mode driver without a framework.
	ModelWDM DriverModel = "WDM"
	// ModelKMDF is a kernel-mode framework driver.
	ModelKMDF DriverModel = "KMDF"
	// ModelUMDF is a user-mode framework driver.
	ModelUMDF DriverModel = "UMDF"

	// FrameworkKMDF is the kernel-mode driver framework.
	FrameworkKMDF Framework = "KMDF"
	// FrameworkUMDF is the user-mode driver framework.
	FrameworkUMDF Framework = "UMDF"
)

var (
	// ErrInvalidDriverModel is the sentinel error wrapped by InvalidDriverModelError.
	ErrInvalidDriverModel = errors.New("invalid driver model")
	// ErrInvalidFramework is the sentinel error wrapped by InvalidFrameworkError.
	ErrInvalidFramework = errors.New("invalid framework")
)

type (
	// DriverModel is the closed set of driver categories a package can declare.
	DriverModel string

	// InvalidDriverModelError is returned when a DriverModel value is not recognized.
	// It wraps ErrInvalidDriverModel for errors.Is() compatibility.
	InvalidDriverModelError struct {
		Value DriverModel
	}

	// Framework identifies one of the two independently versioned driver frameworks.
	Framework string

	// InvalidFrameworkError is returned when a Framework value is not recognized.
	InvalidFrameworkError struct {
		Value Framework
	}
)

// Models returns every DriverModel in declaration order.
func Models() []DriverModel {
	return []DriverModel{ModelNone, ModelWDM, ModelKMDF, ModelUMDF}
}

// ParseDriverModel normalizes s (case-insensitive, surrounding whitespace
// ignored) and validates it.
func ParseDriverModel(s string) (DriverModel, error) {
	m := DriverModel(strings.ToUpper(strings.TrimSpace(s)))
	if ok, errs := m.IsValid(); !ok {
		return "", errs[0]
	}
	return m, nil
}

// Error implements the error interface.
func (e *InvalidDriverModelError) Error() string {
	return fmt.Sprintf("invalid driver model %q (valid: NONE, WDM, KMDF, UMDF)", e.Value)
}

// Unwrap returns ErrInvalidDriverModel so callers can use errors.Is for programmatic detection.
func (e *InvalidDriverModelError) Unwrap() error { return ErrInvalidDriverModel }

// IsValid returns whether the DriverModel is one of the defined models,
// and a list of validation errors if it is not.
func (m DriverModel) IsValid() (bool, []error) {
	switch m {
	case ModelNone, ModelWDM, ModelKMDF, ModelUMDF:
		return true, nil
	default:
		return false, []error{&InvalidDriverModelError{Value: m}}
	}
}

// IsDriver reports whether the model requests any driver work.
func (m DriverModel) IsDriver() bool { return m != ModelNone && m != "" }

// Framework returns the framework a model is built on, if any.
func (m DriverModel) Framework() (Framework, bool) {
	switch m {
	case ModelKMDF:
		return FrameworkKMDF, true
	case ModelUMDF:
		return FrameworkUMDF, true
	default:
		return "", false
	}
}

// String returns the string representation of the DriverModel.
func (m DriverModel) String() string { return string(m) }

// Error implements the error interface.
func (e *InvalidFrameworkError) Error() string {
	return fmt.Sprintf("invalid framework %q (valid: KMDF, UMDF)", e.Value)
}

// Unwrap returns ErrInvalidFramework so callers can use errors.Is for programmatic detection.
func (e *InvalidFrameworkError) Unwrap() error { return ErrInvalidFramework }

// IsValid returns whether the Framework is KMDF or UMDF.
func (f Framework) IsValid() (bool, []error) {
	switch f {
	case FrameworkKMDF, FrameworkUMDF:
		return true, nil
	default:
		return false, []error{&InvalidFrameworkError{Value: f}}
	}
}

// Model returns the DriverModel built on f.
func (f Framework) Model() DriverModel { return DriverModel(f) }

// keyPrefix returns the lowercase prefix used by the framework's metadata keys.
func (f Framework) keyPrefix() string { return strings.ToLower(string(f)) }

// String returns the string representation of the Framework.
func (f Framework) String() string { return string(f) }
