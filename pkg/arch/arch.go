// SPDX-License-Identifier: MPL-2.0

package arch

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const (
	// Amd64 is the 64-bit x86 architecture.
	Amd64 Kind = "amd64"
	// Arm64 is the 64-bit ARM architecture.
	Arm64 Kind = "arm64"
	// Unknown marks a triple with no entry in the lookup table.
	Unknown Kind = "unknown"

	// UnknownToken is the sentinel emitted for unmapped architectures.
	UnknownToken = "UNKNOWN"

	// TripleAmd64 is the MSVC target triple for x86_64.
	TripleAmd64 = "x86_64-pc-windows-msvc"
	// TripleArm64 is the MSVC target triple for aarch64.
	TripleArm64 = "aarch64-pc-windows-msvc"
)

// ErrUnknownArch is returned when a concrete architecture is required but the
// triple could not be mapped.
var ErrUnknownArch = errors.New("unknown target architecture")

type (
	// Kind is the closed set of architecture variants.
	Kind string

	// Arch is a target architecture derived from a target triple.
	// The zero value is an Unknown architecture with an empty triple.
	Arch struct {
		kind   Kind
		triple string
	}

	// UnknownArchError reports a triple with no architecture mapping.
	UnknownArchError struct {
		Triple string
	}
)

// tripleTable is the complete triple → architecture mapping.
var tripleTable = map[string]Kind{
	TripleAmd64:     Amd64,
	TripleArm64:     Arm64,
	"windows/amd64": Amd64,
	"windows/arm64": Arm64,
}

// osMappingTable maps architectures to the catalog tool's OS identifiers.
var osMappingTable = map[Kind]string{
	Amd64: "10_x64",
	Arm64: "Server10_arm64",
}

// libDirTable maps architectures to the kit's library directory names.
var libDirTable = map[Kind]string{
	Amd64: "x64",
	Arm64: "arm64",
}

// Error implements the error interface.
func (e *UnknownArchError) Error() string {
	if e.Triple == "" {
		return "no target triple configured"
	}
	return fmt.Sprintf("target triple %q has no architecture mapping", e.Triple)
}

// Unwrap returns ErrUnknownArch for errors.Is.
func (e *UnknownArchError) Unwrap() error { return ErrUnknownArch }

// FromTriple maps a target triple through the lookup table. It never fails:
// unmapped triples yield an Unknown Arch that remembers the triple.
func FromTriple(triple string) Arch {
	t := strings.ToLower(strings.TrimSpace(triple))
	if k, ok := tripleTable[t]; ok {
		return Arch{kind: k, triple: t}
	}
	return Arch{kind: Unknown, triple: strings.TrimSpace(triple)}
}

// HostTriple returns the triple matching the running binary's architecture,
// used when no target triple is configured.
func HostTriple() string {
	switch runtime.GOARCH {
	case "amd64":
		return TripleAmd64
	case "arm64":
		return TripleArm64
	default:
		return runtime.GOOS + "/" + runtime.GOARCH
	}
}

// Triples returns the mapped triples in sorted order.
func Triples() []string {
	return []string{TripleArm64, TripleAmd64, "windows/amd64", "windows/arm64"}
}

// Kind returns the architecture variant.
func (a Arch) Kind() Kind {
	if a.kind == "" {
		return Unknown
	}
	return a.kind
}

// Triple returns the triple the architecture was derived from.
func (a Arch) Triple() string { return a.triple }

// IsKnown reports whether the architecture was found in the lookup table.
func (a Arch) IsKnown() bool { return a.Kind() != Unknown }

// Token returns the kit architecture token, or UnknownToken.
func (a Arch) Token() string {
	if !a.IsKnown() {
		return UnknownToken
	}
	return string(a.kind)
}

// OSMapping returns the catalog OS identifier for the architecture, or UnknownToken.
func (a Arch) OSMapping() string {
	if m, ok := osMappingTable[a.Kind()]; ok {
		return m
	}
	return UnknownToken
}

// LibDir returns the kit library directory name for the architecture, or
// UnknownToken.
func (a Arch) LibDir() string {
	if d, ok := libDirTable[a.Kind()]; ok {
		return d
	}
	return UnknownToken
}

// Require returns an error when the architecture is Unknown.
func (a Arch) Require() error {
	if !a.IsKnown() {
		return &UnknownArchError{Triple: a.triple}
	}
	return nil
}

// String returns the architecture token.
func (a Arch) String() string { return a.Token() }
