// SPDX-License-Identifier: MPL-2.0

package kit

import (
	"errors"
	"sort"
)

const (
	// KeyInstallRoot holds the kit installation directory.
	KeyInstallRoot = `SOFTWARE\Microsoft\Windows Kits\Installed Roots\KitsRoot10`
	// KeyKitVersion holds the four-part kit version, e.g. 10.0.26100.0.
	KeyKitVersion = `SOFTWARE\Microsoft\Windows Kits\Installed Roots\WdkVersion`
	// KeyKMDFVersions holds the ';'-separated list of installed KMDF versions.
	KeyKMDFVersions = `SOFTWARE\Microsoft\Windows Kits\WDF\KMDF\Versions`
	// KeyUMDFVersions holds the ';'-separated list of installed UMDF versions.
	KeyUMDFVersions = `SOFTWARE\Microsoft\Windows Kits\WDF\UMDF\Versions`

	// VersionSeparator separates entries of a version table.
	VersionSeparator = ";"
)

// ErrRegistryUnsupported is returned by OpenRegistryStore on hosts without a registry.
var ErrRegistryUnsupported = errors.New("registry store is only available on windows")

type (
	// Store is a read-only key/value view of the installation metadata.
	Store interface {
		Lookup(key string) (string, bool)
	}

	// MapStore is an in-memory Store.
	MapStore map[string]string

	// LayeredStore consults its stores in order; the first hit wins.
	LayeredStore []Store
)

// Keys returns every well-known key in a stable order.
func Keys() []string {
	return []string{KeyInstallRoot, KeyKitVersion, KeyKMDFVersions, KeyUMDFVersions}
}

// Lookup implements Store.
func (m MapStore) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// SortedKeys returns the store's keys in lexical order.
func (m MapStore) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Layered builds a LayeredStore, skipping nil stores.
func Layered(stores ...Store) LayeredStore {
	out := make(LayeredStore, 0, len(stores))
	for _, s := range stores {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Lookup implements Store.
func (l LayeredStore) Lookup(key string) (string, bool) {
	for _, s := range l {
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}
