// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/drvkit/drvkit/pkg/kit"
)

// KitRoot is the install root recorded by KitStore.
const KitRoot = `C:\Program Files (x86)\Windows Kits\10\`

// KitStore returns a complete kit with KMDF 1.31 and 1.33 and UMDF 2.31 and
// 2.33 installed. An empty kitVersion leaves the version unrecorded.
func KitStore(kitVersion string) kit.MapStore {
	m := kit.MapStore{
		kit.KeyInstallRoot:  KitRoot,
		kit.KeyKMDFVersions: "1.31;1.33",
		kit.KeyUMDFVersions: "2.31;2.33",
	}
	if kitVersion != "" {
		m[kit.KeyKitVersion] = kitVersion
	}
	return m
}

// WriteTree writes files into a new temporary directory and returns it.
// Keys are slash-separated paths relative to that directory.
func WriteTree(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	WriteFiles(t, root, files)
	return root
}

// WriteFiles writes files below root, creating parent directories.
// The test fails immediately if any write fails.
func WriteFiles(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		MustMkdirAll(t, filepath.Dir(path), 0o755)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}
