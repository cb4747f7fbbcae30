// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/drvkit/drvkit/pkg/buildenv"
	"github.com/drvkit/drvkit/pkg/descriptor"
	"github.com/drvkit/drvkit/pkg/fspath"
	"github.com/drvkit/drvkit/pkg/types"
)

type (
	// Package is one loaded package manifest.
	Package struct {
		Name        string
		Version     string
		Description types.DescriptionText
		Dir         types.FilesystemPath
		Manifest    types.FilesystemPath
		// Metadata is the raw [package.metadata] table, nil when absent.
		Metadata map[string]any
	}

	// Workspace is a loaded project: a single package or a workspace root
	// with members.
	Workspace struct {
		Root types.FilesystemPath
		Name string
		// Metadata is the raw [workspace.metadata] table, nil when absent.
		Metadata map[string]any
		// Packages is sorted by name.
		Packages []Package
	}
)

// Load reads the manifest in dir and every member it lists.
func Load(dir string) (*Workspace, error) {
	root, err := fspath.Abs(types.FilesystemPath(dir))
	if err != nil {
		return nil, err
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}

	m, path, err := readManifest(root)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{Root: root, Name: fspath.Base(root)}
	if m.Package != nil {
		pkg, err := newPackage(root, path, m.Package)
		if err != nil {
			return nil, err
		}
		ws.Name = pkg.Name
		ws.Packages = append(ws.Packages, pkg)
	}

	if m.Workspace != nil {
		if m.Workspace.Name != "" {
			ws.Name = m.Workspace.Name
		}
		ws.Metadata = m.Workspace.Metadata
		dirs, err := expandMembers(root, path, m.Workspace.Members, m.Workspace.Exclude)
		if err != nil {
			return nil, err
		}
		for _, d := range dirs {
			mm, mpath, err := readManifest(d)
			if err != nil {
				return nil, err
			}
			if mm.Package == nil {
				return nil, &ManifestError{Path: mpath, Err: errors.New("workspace member must declare [package]")}
			}
			if mm.Workspace != nil {
				return nil, &ManifestError{Path: mpath, Err: errors.New("nested workspaces are not supported")}
			}
			pkg, err := newPackage(d, mpath, mm.Package)
			if err != nil {
				return nil, err
			}
			ws.Packages = append(ws.Packages, pkg)
		}
	}

	if len(ws.Packages) == 0 {
		return nil, &ManifestError{Path: path, Err: ErrEmptyWorkspace}
	}

	sort.SliceStable(ws.Packages, func(i, j int) bool { return ws.Packages[i].Name < ws.Packages[j].Name })
	for i := 1; i < len(ws.Packages); i++ {
		if ws.Packages[i].Name == ws.Packages[i-1].Name {
			return nil, &ManifestError{
				Path: ws.Packages[i].Manifest,
				Err:  fmt.Errorf("%w %q (also declared in %s)", ErrDuplicatePackage, ws.Packages[i].Name, ws.Packages[i-1].Manifest),
			}
		}
	}
	return ws, nil
}

// HasRootMetadata reports whether the workspace root declares its own driver block.
func (w *Workspace) HasRootMetadata() bool {
	_, ok := w.Metadata[descriptor.MetadataKey]
	return ok
}

// Package returns the package named name.
func (w *Workspace) Package(name string) (Package, bool) {
	i := slices.IndexFunc(w.Packages, func(p Package) bool { return p.Name == name })
	if i < 0 {
		return Package{}, false
	}
	return w.Packages[i], true
}

// Names returns the package names in order.
func (w *Workspace) Names() []string {
	out := make([]string, len(w.Packages))
	for i, p := range w.Packages {
		out[i] = p.Name
	}
	return out
}

// ArtifactName returns the name used for the package's output files.
func (p Package) ArtifactName() string { return buildenv.ArtifactName(p.Name) }

// INXPath returns the expected location of the package's INX template.
func (p Package) INXPath() types.FilesystemPath {
	return fspath.JoinStr(p.Dir, p.ArtifactName()+".inx")
}

// HasINX reports whether the INX template exists.
func (p Package) HasINX() bool {
	info, err := os.Stat(string(p.INXPath()))
	return err == nil && !info.IsDir()
}

func newPackage(dir, manifestPath types.FilesystemPath, s *packageSection) (Package, error) {
	if err := ValidatePackageName(s.Name); err != nil {
		return Package{}, &ManifestError{Path: manifestPath, Err: err}
	}
	desc := types.DescriptionText(s.Description)
	if ok, errs := desc.IsValid(); !ok {
		return Package{}, &ManifestError{Path: manifestPath, Err: errs[0]}
	}
	return Package{
		Name:        s.Name,
		Version:     s.Version,
		Description: desc,
		Dir:         dir,
		Manifest:    manifestPath,
		Metadata:    s.Metadata,
	}, nil
}

// expandMembers resolves member entries to directories. Literal entries must
// exist; glob entries keep only matches holding a manifest.
func expandMembers(root, manifestPath types.FilesystemPath, members, exclude []string) ([]types.FilesystemPath, error) {
	excluded := make(map[types.FilesystemPath]bool, len(exclude))
	for _, e := range exclude {
		excluded[fspath.Clean(fspath.JoinStr(root, filepath.FromSlash(e)))] = true
	}

	seen := make(map[types.FilesystemPath]bool)
	var out []types.FilesystemPath
	add := func(d types.FilesystemPath) {
		d = fspath.Clean(d)
		if d == root || excluded[d] || seen[d] {
			return
		}
		seen[d] = true
		out = append(out, d)
	}

	for _, member := range members {
		rel := filepath.FromSlash(member)
		if filepath.IsAbs(rel) || strings.HasPrefix(filepath.Clean(rel), "..") {
			return nil, &ManifestError{Path: manifestPath, Err: fmt.Errorf("member %q must be inside the workspace", member)}
		}

		pattern := fspath.JoinStr(root, rel)
		if !strings.ContainsAny(member, "*?[") {
			info, err := os.Stat(string(pattern))
			if err != nil || !info.IsDir() {
				return nil, &ManifestError{Path: manifestPath, Err: fmt.Errorf("member %q is not a directory", member)}
			}
			add(pattern)
			continue
		}

		matches, err := filepath.Glob(string(pattern))
		if err != nil {
			return nil, &ManifestError{Path: manifestPath, Err: fmt.Errorf("member pattern %q: %w", member, err)}
		}
		sort.Strings(matches)
		for _, match := range matches {
			if _, err := os.Stat(filepath.Join(match, ManifestName)); errors.Is(err, fs.ErrNotExist) {
				continue
			}
			add(types.FilesystemPath(match))
		}
	}
	return out, nil
}
