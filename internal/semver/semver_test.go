// SPDX-License-Identifier: MPL-2.0

package semver

import "testing"

func TestSatisfies(t *testing.T) {
	t.Parallel()

	c := MustParseConstraint("^1.15")

	if !Satisfies(MustParseVersion("1.15"), c) {
		t.Fatalf("expected 1.15 to satisfy ^1.15")
	}
	if !Satisfies(MustParseVersion("1.33"), c) {
		t.Fatalf("expected 1.33 to satisfy ^1.15")
	}
	if Satisfies(MustParseVersion("2.0"), c) {
		t.Fatalf("expected 2.0 to NOT satisfy ^1.15")
	}
	if Satisfies(Version{}, c) {
		t.Fatalf("zero version must not satisfy")
	}
}

func TestMaxSatisfying(t *testing.T) {
	t.Parallel()

	candidates := []Version{
		MustParseVersion("1.31"),
		MustParseVersion("1.0"),
		MustParseVersion("2.33"),
		MustParseVersion("1.15"),
	}

	best, ok := MaxSatisfying(candidates, MustParseConstraint(">=1.0, <2"))
	if !ok {
		t.Fatalf("expected to find a satisfying version")
	}
	if Compare(best, MustParseVersion("1.31")) != 0 {
		t.Fatalf("expected best=1.31, got %s", best)
	}

	best, ok = MaxSatisfying(candidates, MustParseConstraint(">=1.0"), MustParseConstraint("<=1.15"))
	if !ok || best.Minor() != 15 {
		t.Fatalf("expected 1.15 under two constraints, got %s (ok=%v)", best, ok)
	}

	if _, ok := MaxSatisfying(candidates, MustParseConstraint(">=3")); ok {
		t.Fatalf("expected no match for >=3")
	}
}

func TestSortIsAscending(t *testing.T) {
	t.Parallel()

	vs := []Version{FromMajorMinor(1, 31), FromMajorMinor(1, 9), FromMajorMinor(1, 15)}
	Sort(vs)
	want := []uint64{9, 15, 31}
	for i, v := range vs {
		if v.Minor() != want[i] {
			t.Fatalf("Sort()[%d] = %s, want minor %d", i, v, want[i])
		}
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	vs := []Version{FromMajorMinor(2, 15), FromMajorMinor(2, 31), FromMajorMinor(2, 33)}
	got := Filter(vs, MustParseConstraint(">=2.31"))
	if len(got) != 2 || got[0].Minor() != 31 || got[1].Minor() != 33 {
		t.Fatalf("Filter() = %v", got)
	}
}
