// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"github.com/drvkit/drvkit/internal/platform"
	"github.com/drvkit/drvkit/pkg/buildenv"
	"github.com/drvkit/drvkit/pkg/fspath"
	"github.com/drvkit/drvkit/pkg/types"
)

// ManifestName is the manifest file name looked up in every directory.
const ManifestName = "drvkit.toml"

var packageNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

type (
	manifest struct {
		Package   *packageSection   `toml:"package"`
		Workspace *workspaceSection `toml:"workspace"`
	}

	packageSection struct {
		Name        string         `toml:"name"`
		Version     string         `toml:"version"`
		Description string         `toml:"description"`
		Metadata    map[string]any `toml:"metadata"`
	}

	workspaceSection struct {
		Name     string         `toml:"name"`
		Members  []string       `toml:"members"`
		Exclude  []string       `toml:"exclude"`
		Metadata map[string]any `toml:"metadata"`
	}
)

// readManifest decodes dir's manifest. Unknown keys are rejected so typos
// such as [package.metdata] do not silently drop a driver block.
func readManifest(dir types.FilesystemPath) (*manifest, types.FilesystemPath, error) {
	path := fspath.JoinStr(dir, ManifestName)
	data, err := os.ReadFile(string(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, path, &ManifestError{Path: path, Err: ErrNoManifest}
		}
		return nil, path, &ManifestError{Path: path, Err: err}
	}

	var m manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, path, &ManifestError{Path: path, Err: fmt.Errorf("unknown keys:\n%s", strict.String())}
		}
		return nil, path, &ManifestError{Path: path, Err: err}
	}
	if m.Package == nil && m.Workspace == nil {
		return nil, path, &ManifestError{Path: path, Err: errors.New("neither [package] nor [workspace] is declared")}
	}
	return &m, path, nil
}

// ValidatePackageName checks that name can be used for artifact file names.
func ValidatePackageName(name string) error {
	if !packageNamePattern.MatchString(name) {
		return fmt.Errorf("%w %q: must start with a letter and contain only letters, digits, '-' or '_'", ErrInvalidPackageName, name)
	}
	if platform.IsWindowsReservedName(buildenv.ArtifactName(name)) {
		return fmt.Errorf("%w %q: reserved device name on Windows", ErrInvalidPackageName, name)
	}
	return nil
}
