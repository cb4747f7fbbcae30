// SPDX-License-Identifier: MPL-2.0

//go:build windows

package kit

import (
	"strings"

	"golang.org/x/sys/windows/registry"
)

// RegistryStore reads well-known keys from HKEY_LOCAL_MACHINE.
// A key's last path element names the value inside its parent key.
type RegistryStore struct {
	root registry.Key
}

// OpenRegistryStore returns a Store over the local machine registry.
func OpenRegistryStore() (*RegistryStore, error) {
	return &RegistryStore{root: registry.LOCAL_MACHINE}, nil
}

// Lookup implements Store.
func (s *RegistryStore) Lookup(key string) (string, bool) {
	idx := strings.LastIndex(key, `\`)
	if idx < 0 {
		return "", false
	}
	path, name := key[:idx], key[idx+1:]

	// Kit roots are registered in the 32-bit view.
	for _, view := range []uint32{registry.WOW64_32KEY, registry.WOW64_64KEY} {
		k, err := registry.OpenKey(s.root, path, registry.QUERY_VALUE|view)
		if err != nil {
			continue
		}
		v, _, err := k.GetStringValue(name)
		_ = k.Close()
		if err == nil {
			return v, true
		}
	}
	return "", false
}
