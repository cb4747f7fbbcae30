// SPDX-License-Identifier: MPL-2.0

package kit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/drvkit/drvkit/internal/semver"
	"github.com/drvkit/drvkit/pkg/descriptor"
)

// Installation is a discovered driver kit.
type Installation struct {
	// Root is the install directory as recorded by the installer.
	Root string
	// Version is the four-part kit version, or empty when unrecorded.
	Version string

	kmdf []semver.Version
	umdf []semver.Version
	// tableErr holds a malformed table's error until its framework is requested.
	tableErr map[descriptor.Framework]error
}

// Locate reads the installation metadata from store. Empty or malformed
// framework tables are accepted here and only reported by Available, so a
// KMDF project is not held back by a broken UMDF table.
func Locate(store Store) (*Installation, error) {
	root, ok := store.Lookup(KeyInstallRoot)
	root = strings.TrimSpace(root)
	if !ok || root == "" {
		return nil, &LocatorError{Kind: KindNotInstalled, Key: KeyInstallRoot}
	}

	inst := &Installation{Root: root}

	if v, ok := store.Lookup(KeyKitVersion); ok {
		v = strings.TrimSpace(v)
		if v != "" {
			if _, err := parseBuildNumber(v); err != nil {
				return nil, &LocatorError{Kind: KindMalformedEntry, Root: root, Key: KeyKitVersion, Value: v, Err: err}
			}
		}
		inst.Version = v
	}

	for _, fw := range []descriptor.Framework{descriptor.FrameworkKMDF, descriptor.FrameworkUMDF} {
		vs, err := readTable(store, root, fw)
		if err != nil {
			if inst.tableErr == nil {
				inst.tableErr = make(map[descriptor.Framework]error)
			}
			inst.tableErr[fw] = err
			continue
		}
		if fw == descriptor.FrameworkUMDF {
			inst.umdf = vs
		} else {
			inst.kmdf = vs
		}
	}
	return inst, nil
}

// TableKey returns the store key listing fw's installed versions.
func TableKey(fw descriptor.Framework) string {
	if fw == descriptor.FrameworkUMDF {
		return KeyUMDFVersions
	}
	return KeyKMDFVersions
}

// Versions returns fw's installed versions in ascending order; possibly empty.
// A malformed table has no versions.
func (i *Installation) Versions(fw descriptor.Framework) []semver.Version {
	var src []semver.Version
	switch fw {
	case descriptor.FrameworkKMDF:
		src = i.kmdf
	case descriptor.FrameworkUMDF:
		src = i.umdf
	}
	return append([]semver.Version(nil), src...)
}

// Available is Versions for a framework a package actually requested: a
// malformed table is reported here, and an empty one is a partial installation.
func (i *Installation) Available(fw descriptor.Framework) ([]semver.Version, error) {
	if ok, errs := fw.IsValid(); !ok {
		return nil, errs[0]
	}
	if err := i.tableErr[fw]; err != nil {
		return nil, err
	}
	vs := i.Versions(fw)
	if len(vs) == 0 {
		return nil, &LocatorError{Kind: KindPartialInstallation, Root: i.Root, Framework: fw, Key: TableKey(fw)}
	}
	return vs, nil
}

// BuildNumber returns the third component of the kit version
// (10.0.26100.0 → 26100). ok is false when the version is unrecorded.
func (i *Installation) BuildNumber() (uint64, bool) {
	if i.Version == "" {
		return 0, false
	}
	n, err := parseBuildNumber(i.Version)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseBuildNumber(version string) (uint64, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("expected four dot-separated components, got %d", len(parts))
	}
	for _, p := range parts {
		if _, err := strconv.ParseUint(p, 10, 32); err != nil {
			return 0, fmt.Errorf("component %q is not a number", p)
		}
	}
	n, _ := strconv.ParseUint(parts[2], 10, 32)
	return n, nil
}

func readTable(store Store, root string, fw descriptor.Framework) ([]semver.Version, error) {
	key := TableKey(fw)
	raw, ok := store.Lookup(key)
	if !ok {
		return nil, nil
	}

	seen := make(map[string]bool)
	var out []semver.Version
	for _, entry := range splitTable(raw) {
		v, err := parseEntry(entry)
		if err != nil {
			return nil, &LocatorError{Kind: KindMalformedEntry, Root: root, Framework: fw, Key: key, Value: entry, Err: err}
		}
		if seen[v.String()] {
			continue
		}
		seen[v.String()] = true
		out = append(out, v)
	}
	semver.Sort(out)
	return out, nil
}

// parseEntry parses a strict major.minor table entry.
func parseEntry(entry string) (semver.Version, error) {
	major, minor, ok := strings.Cut(entry, ".")
	if !ok {
		return semver.Version{}, fmt.Errorf("expected major.minor")
	}
	maj, err := strconv.ParseUint(major, 10, 32)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid major %q", major)
	}
	mnr, err := strconv.ParseUint(minor, 10, 32)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid minor %q", minor)
	}
	return semver.FromMajorMinor(maj, mnr), nil
}
