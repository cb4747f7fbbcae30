// SPDX-License-Identifier: MPL-2.0

package kit

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	// Snapshot is the YAML form of a captured installation.
	//
	//	install_root: 'C:\Program Files (x86)\Windows Kits\10\'
	//	kit_version: 10.0.26100.0
	//	kmdf_versions: ["1.31", "1.33"]
	//	umdf_versions: ["2.31", "2.33"]
	//	keys:
	//	  'SOFTWARE\...': value
	//
	// Named fields take precedence over entries in Keys.
	Snapshot struct {
		InstallRoot  string            `yaml:"install_root,omitempty"`
		KitVersion   string            `yaml:"kit_version,omitempty"`
		KMDFVersions []string          `yaml:"kmdf_versions,omitempty"`
		UMDFVersions []string          `yaml:"umdf_versions,omitempty"`
		Keys         map[string]string `yaml:"keys,omitempty"`
	}

	// SnapshotStore is a Store backed by a Snapshot.
	SnapshotStore struct {
		path   string
		values MapStore
	}
)

// LoadSnapshot reads a snapshot file from disk.
func LoadSnapshot(path string) (*SnapshotStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kit snapshot: %w", err)
	}
	s, err := ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return s, nil
}

// ParseSnapshot decodes snapshot YAML.
func ParseSnapshot(data []byte) (*SnapshotStore, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse kit snapshot: %w", err)
	}
	return &SnapshotStore{values: snap.Values()}, nil
}

// Values flattens the snapshot into well-known keys.
func (s Snapshot) Values() MapStore {
	m := make(MapStore, len(s.Keys)+4)
	for k, v := range s.Keys {
		m[k] = v
	}
	if s.InstallRoot != "" {
		m[KeyInstallRoot] = s.InstallRoot
	}
	if s.KitVersion != "" {
		m[KeyKitVersion] = s.KitVersion
	}
	if s.KMDFVersions != nil {
		m[KeyKMDFVersions] = strings.Join(s.KMDFVersions, VersionSeparator)
	}
	if s.UMDFVersions != nil {
		m[KeyUMDFVersions] = strings.Join(s.UMDFVersions, VersionSeparator)
	}
	return m
}

// Capture reads every well-known key from store into a Snapshot.
func Capture(store Store) Snapshot {
	var snap Snapshot
	snap.InstallRoot, _ = store.Lookup(KeyInstallRoot)
	snap.KitVersion, _ = store.Lookup(KeyKitVersion)
	if v, ok := store.Lookup(KeyKMDFVersions); ok {
		snap.KMDFVersions = splitTable(v)
	}
	if v, ok := store.Lookup(KeyUMDFVersions); ok {
		snap.UMDFVersions = splitTable(v)
	}
	return snap
}

// Marshal encodes the snapshot as YAML.
func (s Snapshot) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Lookup implements Store.
func (s *SnapshotStore) Lookup(key string) (string, bool) {
	return s.values.Lookup(key)
}

// Path returns the file the snapshot was loaded from, if any.
func (s *SnapshotStore) Path() string { return s.path }

func splitTable(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, VersionSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
