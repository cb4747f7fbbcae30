// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"errors"
	"fmt"
)

const (
	// GenerateBinary places the driver binary with its model-specific extension.
	GenerateBinary Stage = "generate-binary"
	// StampInf stamps the INX template into an INF.
	StampInf Stage = "stamp-inf"
	// VerifyInf runs INF verification.
	VerifyInf Stage = "verify-inf"
	// Catalog generates the catalog file.
	Catalog Stage = "catalog"
	// Sign signs the binary and the catalog.
	Sign Stage = "sign"
	// VerifySignature verifies the signatures produced by Sign.
	VerifySignature Stage = "verify-signature"
)

// ErrInvalidStage is the sentinel error wrapped by InvalidStageError.
var ErrInvalidStage = errors.New("invalid stage")

type (
	// Stage is a named packaging step.
	Stage string

	// InvalidStageError is returned when a Stage value is not recognized.
	InvalidStageError struct {
		Value Stage
	}
)

var stageDeps = map[Stage][]Stage{
	GenerateBinary:  nil,
	StampInf:        {GenerateBinary},
	VerifyInf:       {StampInf},
	Catalog:         {StampInf},
	Sign:            {Catalog},
	VerifySignature: {Sign},
}

// Stages returns every stage in execution order.
func Stages() []Stage {
	return []Stage{GenerateBinary, StampInf, VerifyInf, Catalog, Sign, VerifySignature}
}

// Error implements the error interface.
func (e *InvalidStageError) Error() string {
	return fmt.Sprintf("invalid stage %q", e.Value)
}

// Unwrap returns ErrInvalidStage.
func (e *InvalidStageError) Unwrap() error { return ErrInvalidStage }

// IsValid returns whether the Stage is known, and a list of validation
// errors if it is not.
func (s Stage) IsValid() (bool, []error) {
	if _, ok := stageDeps[s]; ok {
		return true, nil
	}
	return false, []error{&InvalidStageError{Value: s}}
}

// DependsOn returns the stages that must run before s.
func (s Stage) DependsOn() []Stage {
	return append([]Stage(nil), stageDeps[s]...)
}

// String returns the stage name.
func (s Stage) String() string { return string(s) }
