// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/drvkit/drvkit/internal/testutil"
)

const kmdfPackage = `[package]
name = "echo-driver"
version = "0.1.0"
description = "Sample KMDF echo driver"

[package.metadata.wdk.driver-model]
driver-type = "KMDF"
kmdf-version-major = 1
target-kmdf-version-minor = 33
`

func TestLoad_SinglePackage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		ManifestName:       kmdfPackage,
		"echo_driver.inx": "[Version]\nClass=Sample\n",
	})

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ws.Name != "echo-driver" || len(ws.Packages) != 1 {
		t.Fatalf("workspace = %+v", ws)
	}
	if ws.HasRootMetadata() {
		t.Error("single package must not report workspace metadata")
	}

	pkg := ws.Packages[0]
	if pkg.Description != "Sample KMDF echo driver" || pkg.Version != "0.1.0" {
		t.Errorf("package = %+v", pkg)
	}
	if !pkg.HasINX() || filepath.Base(string(pkg.INXPath())) != "echo_driver.inx" {
		t.Errorf("INXPath() = %s, HasINX() = %v", pkg.INXPath(), pkg.HasINX())
	}

	dm := pkg.Metadata["wdk"].(map[string]any)["driver-model"].(map[string]any)
	if dm["driver-type"] != "KMDF" || dm["kmdf-version-major"] != int64(1) {
		t.Errorf("metadata = %#v", dm)
	}
}

func TestLoad_Workspace(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		ManifestName: `[workspace]
members = ["drivers/*", "tools/cli"]
exclude = ["drivers/broken"]

[workspace.metadata.wdk.driver-model]
driver-type = "KMDF"
kmdf-version-major = 1
target-kmdf-version-minor = 31
`,
		"drivers/echo/" + ManifestName:   kmdfPackage,
		"drivers/filter/" + ManifestName: "[package]\nname = \"a-filter\"\n",
		"drivers/broken/" + ManifestName: "not toml",
		"drivers/docs/README.md":         "no manifest here",
		"tools/cli/" + ManifestName:      "[package]\nname = \"cli\"\n",
	})

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ws.Name != filepath.Base(root) {
		t.Errorf("Name = %q, want directory name", ws.Name)
	}
	if !ws.HasRootMetadata() {
		t.Error("expected workspace metadata")
	}
	if diff := cmp.Diff([]string{"a-filter", "cli", "echo-driver"}, ws.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if p, ok := ws.Package("cli"); !ok || p.Metadata != nil {
		t.Errorf("Package(cli) = %+v, %v", p, ok)
	}
	if _, ok := ws.Package("broken"); ok {
		t.Error("excluded member was loaded")
	}
}

func TestLoad_RootPackageAndWorkspace(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		ManifestName: `[package]
name = "root-driver"

[workspace]
name = "suite"
members = ["member"]
`,
		"member/" + ManifestName: "[package]\nname = \"member\"\n",
	})

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ws.Name != "suite" {
		t.Errorf("Name = %q, want suite", ws.Name)
	}
	if diff := cmp.Diff([]string{"member", "root-driver"}, ws.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		want  error
	}{
		{
			name:  "no manifest",
			files: map[string]string{"README.md": "x"},
			want:  ErrNoManifest,
		},
		{
			name:  "empty manifest",
			files: map[string]string{ManifestName: "# nothing\n"},
			want:  ErrManifest,
		},
		{
			name:  "unknown key",
			files: map[string]string{ManifestName: "[package]\nname = \"x\"\nflavour = \"kmdf\"\n"},
			want:  ErrManifest,
		},
		{
			name:  "reserved name",
			files: map[string]string{ManifestName: "[package]\nname = \"con\"\n"},
			want:  ErrInvalidPackageName,
		},
		{
			name:  "bad name",
			files: map[string]string{ManifestName: "[package]\nname = \"1driver\"\n"},
			want:  ErrInvalidPackageName,
		},
		{
			name: "duplicate names",
			files: map[string]string{
				ManifestName:          "[workspace]\nmembers = [\"a\", \"b\"]\n",
				"a/" + ManifestName: "[package]\nname = \"same\"\n",
				"b/" + ManifestName: "[package]\nname = \"same\"\n",
			},
			want: ErrDuplicatePackage,
		},
		{
			name:  "empty workspace",
			files: map[string]string{ManifestName: "[workspace]\nmembers = []\n"},
			want:  ErrEmptyWorkspace,
		},
		{
			name:  "missing literal member",
			files: map[string]string{ManifestName: "[workspace]\nmembers = [\"gone\"]\n"},
			want:  ErrManifest,
		},
		{
			name:  "member escapes root",
			files: map[string]string{ManifestName: "[workspace]\nmembers = [\"../elsewhere\"]\n"},
			want:  ErrManifest,
		},
		{
			name: "member without package",
			files: map[string]string{
				ManifestName:          "[workspace]\nmembers = [\"a\"]\n",
				"a/" + ManifestName: "[workspace]\nmembers = []\n",
			},
			want: ErrManifest,
		},
		{
			name:  "whitespace description",
			files: map[string]string{ManifestName: "[package]\nname = \"x\"\ndescription = \"   \"\n"},
			want:  ErrManifest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			testutil.WriteFiles(t, root, tt.files)

			_, err := Load(root)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Load() error = %v, want %v", err, tt.want)
			}
			var me *ManifestError
			if !errors.As(err, &me) || me.Path == "" {
				t.Errorf("expected *ManifestError with a path, got %T", err)
			}
		})
	}
}

func TestValidatePackageName(t *testing.T) {
	t.Parallel()

	valid := []string{"echo", "sample-kmdf-driver", "umdf_2"}
	invalid := []string{"", "-x", "has space", "nul", "LPT1", "com3"}

	for _, name := range valid {
		if err := ValidatePackageName(name); err != nil {
			t.Errorf("ValidatePackageName(%q) = %v", name, err)
		}
	}
	for _, name := range invalid {
		if err := ValidatePackageName(name); !errors.Is(err, ErrInvalidPackageName) {
			t.Errorf("ValidatePackageName(%q) = %v, want ErrInvalidPackageName", name, err)
		}
	}
}
