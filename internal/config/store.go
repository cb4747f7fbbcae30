// SPDX-License-Identifier: MPL-2.0

package config

import "github.com/drvkit/drvkit/pkg/kit"

// Store returns the non-empty kit overrides as a store.
func (o KitOverrides) Store() kit.MapStore {
	m := kit.MapStore{}
	set := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	set(kit.KeyInstallRoot, o.InstallRoot)
	set(kit.KeyKitVersion, o.KitVersion)
	set(kit.KeyKMDFVersions, o.KMDFVersions)
	set(kit.KeyUMDFVersions, o.UMDFVersions)
	return m
}

// KitStore opens the configured kit source with the overrides layered on top.
func (c *Config) KitStore() (kit.Store, error) {
	overrides := c.Kit.Overrides.Store()

	var base kit.Store
	switch c.Kit.Source {
	case KitSourceSnapshot:
		s, err := kit.LoadSnapshot(c.Kit.SnapshotPath)
		if err != nil {
			return nil, err
		}
		base = s
	default:
		r, err := kit.OpenRegistryStore()
		if err != nil {
			// Without a registry the overrides alone describe the kit.
			if len(overrides) > 0 {
				return overrides, nil
			}
			return nil, err
		}
		base = r
	}
	return kit.Layered(overrides, base), nil
}
