// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"fmt"
	"strings"

	"github.com/drvkit/drvkit/internal/semver"
)

// Requirement is the set of framework versions a package accepts.
//
// A requirement built from a major/minor pair accepts any version with the
// same major that is at least major.minor. An explicit range replaces that
// default when no pair is given and narrows it when both are present.
type Requirement struct {
	framework   Framework
	constraints []semver.Constraint
}

// NewRequirement builds the default requirement for a declared major/minor pair.
func NewRequirement(fw Framework, major, minor uint64) Requirement {
	raw := fmt.Sprintf(">= %d.%d, < %d", major, minor, major+1)
	return Requirement{framework: fw, constraints: []semver.Constraint{semver.MustParseConstraint(raw)}}
}

// NewRangeRequirement builds a requirement from an explicit constraint string.
func NewRangeRequirement(fw Framework, raw string) (Requirement, error) {
	c, err := semver.ParseConstraint(raw)
	if err != nil {
		return Requirement{}, err
	}
	return Requirement{framework: fw, constraints: []semver.Constraint{c}}, nil
}

// Narrow returns a requirement that also has to satisfy other's constraints.
func (r Requirement) Narrow(other Requirement) Requirement {
	cs := make([]semver.Constraint, 0, len(r.constraints)+len(other.constraints))
	cs = append(cs, r.constraints...)
	cs = append(cs, other.constraints...)
	return Requirement{framework: r.framework, constraints: cs}
}

// Framework returns the framework the requirement applies to.
func (r Requirement) Framework() Framework { return r.framework }

// Constraints returns the constraints a matching version must satisfy.
func (r Requirement) Constraints() []semver.Constraint {
	return append([]semver.Constraint(nil), r.constraints...)
}

// IsZero reports whether r carries no constraints.
func (r Requirement) IsZero() bool { return len(r.constraints) == 0 }

// Matches reports whether v satisfies every constraint of r.
func (r Requirement) Matches(v semver.Version) bool {
	if r.IsZero() {
		return false
	}
	return semver.SatisfiesAll(v, r.constraints...)
}

// String renders the constraints joined with " && ".
func (r Requirement) String() string {
	parts := make([]string, len(r.constraints))
	for i, c := range r.constraints {
		parts[i] = c.String()
	}
	return strings.Join(parts, " && ")
}
