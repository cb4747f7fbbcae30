// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package kit

// RegistryStore is unavailable on this platform.
type RegistryStore struct{}

// OpenRegistryStore always fails with ErrRegistryUnsupported.
func OpenRegistryStore() (*RegistryStore, error) {
	return nil, ErrRegistryUnsupported
}

// Lookup implements Store.
func (*RegistryStore) Lookup(string) (string, bool) { return "", false }
