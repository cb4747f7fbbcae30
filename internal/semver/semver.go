// SPDX-License-Identifier: MPL-2.0

// Package semver is a thin wrapper around github.com/Masterminds/semver/v3
// used for framework version requirements.
package semver

import (
	"fmt"
	"sort"

	mm "github.com/Masterminds/semver/v3"
)

type (
	// Version is a semantic version.
	Version struct {
		v *mm.Version
	}

	// Constraint is a semantic version constraint.
	//
	// Examples:
	// - ">=1.15, <2"
	// - "^1.33"
	// - "~2.31"
	Constraint struct {
		raw string
		c   *mm.Constraints
	}
)

// ParseVersion parses a version string. Partial versions such as "1.33" are
// accepted and padded with zero components.
func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// FromMajorMinor builds the version major.minor.0.
func FromMajorMinor(major, minor uint64) Version {
	return Version{v: mm.New(major, minor, 0, "", "")}
}

// ParseConstraint parses a constraint string.
func ParseConstraint(raw string) (Constraint, error) {
	c, err := mm.NewConstraint(raw)
	if err != nil {
		return Constraint{}, fmt.Errorf("semver: parse constraint %q: %w", raw, err)
	}
	return Constraint{raw: raw, c: c}, nil
}

// MustParseConstraint is like ParseConstraint but panics on error.
func MustParseConstraint(raw string) Constraint {
	c, err := ParseConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// Major returns the major component.
func (v Version) Major() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Major()
}

// Minor returns the minor component.
func (v Version) Minor() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Minor()
}

// IsZero reports whether v was never set.
func (v Version) IsZero() bool { return v.v == nil }

// String returns the full version string.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

// String returns the constraint as written.
func (c Constraint) String() string { return c.raw }

// IsZero reports whether c was never set.
func (c Constraint) IsZero() bool { return c.c == nil }

// Satisfies reports whether v satisfies c. Zero values never satisfy.
func Satisfies(v Version, c Constraint) bool {
	if v.v == nil || c.c == nil {
		return false
	}
	return c.c.Check(v.v)
}

// SatisfiesAll reports whether v satisfies every constraint in cs.
func SatisfiesAll(v Version, cs ...Constraint) bool {
	for _, c := range cs {
		if !Satisfies(v, c) {
			return false
		}
	}
	return true
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// Sort sorts versions in ascending order.
func Sort(vs []Version) {
	sort.SliceStable(vs, func(i, j int) bool { return Compare(vs[i], vs[j]) < 0 })
}

// MaxSatisfying returns the highest version in candidates that satisfies every
// constraint in cs. The result does not depend on candidate order.
func MaxSatisfying(candidates []Version, cs ...Constraint) (Version, bool) {
	var best Version
	found := false
	for _, candidate := range candidates {
		if !SatisfiesAll(candidate, cs...) {
			continue
		}
		if !found || Compare(candidate, best) > 0 {
			best = candidate
			found = true
		}
	}
	return best, found
}

// Filter returns the candidates satisfying every constraint in cs, preserving order.
func Filter(candidates []Version, cs ...Constraint) []Version {
	var out []Version
	for _, candidate := range candidates {
		if SatisfiesAll(candidate, cs...) {
			out = append(out, candidate)
		}
	}
	return out
}
