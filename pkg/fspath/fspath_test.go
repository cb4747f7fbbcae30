// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"path/filepath"
	"testing"

	"github.com/drvkit/drvkit/pkg/fspath"
	"github.com/drvkit/drvkit/pkg/types"
)

func TestJoin(t *testing.T) {
	t.Parallel()

	got := fspath.Join(types.FilesystemPath("workspace"), types.FilesystemPath("drivers"))
	want := types.FilesystemPath(filepath.Join("workspace", "drivers"))
	if got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
}

func TestJoinStr(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("drivers"), "echo", "drvkit.toml")
	want := types.FilesystemPath(filepath.Join("drivers", "echo", "drvkit.toml"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestDirAndBase(t *testing.T) {
	t.Parallel()

	p := types.FilesystemPath(filepath.Join("drivers", "echo", "echo.inx"))
	if got, want := fspath.Dir(p), types.FilesystemPath(filepath.Join("drivers", "echo")); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
	if got := fspath.Base(p); got != "echo.inx" {
		t.Errorf("Base() = %q", got)
	}
}

func TestAbsAndRel(t *testing.T) {
	t.Parallel()

	root, err := fspath.Abs(types.FilesystemPath("."))
	if err != nil {
		t.Fatalf("Abs() error = %v", err)
	}
	if !filepath.IsAbs(string(root)) {
		t.Fatalf("Abs() = %q is not absolute", root)
	}

	rel, err := fspath.Rel(root, fspath.JoinStr(root, "drivers", "echo"))
	if err != nil {
		t.Fatalf("Rel() error = %v", err)
	}
	if rel != filepath.Join("drivers", "echo") {
		t.Errorf("Rel() = %q", rel)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	got := fspath.Clean(types.FilesystemPath("drivers/echo/../echo/./drvkit.toml"))
	want := types.FilesystemPath(filepath.Clean("drivers/echo/../echo/./drvkit.toml"))
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}
