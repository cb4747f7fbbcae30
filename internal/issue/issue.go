// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

// Issue IDs are stable; new entries go at the end.
const (
	KitNotInstalledId Id = iota + 1
	PartialInstallationId
	MalformedKitEntryId
	DescriptorInvalidId
	MixedDriverModelId
	VersionConflictId
	NoCompatibleVersionId
	ManifestInvalidId
	ConfigLoadFailedId
	UnknownArchitectureId
	StageFailedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is an external reference.
	HttpLink string

	// Issue is a catalog entry explaining a failure class and its remedies.
	Issue struct {
		id       Id
		slug     string
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

// Id returns the numeric ID.
func (i *Issue) Id() Id { return i.id }

// Slug returns the kebab-case name accepted by Lookup.
func (i *Issue) Slug() string { return i.slug }

// MarkdownMsg returns the unrendered body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// ExtLinks returns a copy of the external references.
func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Title returns the first heading of the body.
func (i *Issue) Title() string {
	for _, line := range strings.Split(string(i.mdMsg), "\n") {
		if t, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return i.slug
}

// Render renders the body and links with glamour using stylePath
// ("dark", "light", "notty", "auto" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	kitNotInstalledIssue = &Issue{
		id:   KitNotInstalledId,
		slug: "kit-not-installed",
		mdMsg: `
# No driver kit installation found

A package in this project does driver work, so drvkit needs the kit install
root, but the kit store has no ` + "`KitsRoot10`" + ` entry.

## Things you can try
- Install the Windows Driver Kit, or point drvkit at a snapshot:
~~~
$ drvkit config init
$ drvkit resolve --kit-snapshot kit.yaml
~~~
- Override the root for a single run:
~~~
$ DRVKIT_KIT_OVERRIDES_INSTALL_ROOT='C:\Program Files (x86)\Windows Kits\10\' drvkit resolve
~~~`,
		extLinks: []HttpLink{"https://learn.microsoft.com/windows-hardware/drivers/download-the-wdk"},
	}

	partialInstallationIssue = &Issue{
		id:   PartialInstallationId,
		slug: "partial-installation",
		mdMsg: `
# The kit is only partially installed

The install root was found, but it lists no versions of the framework a package
requested. This usually means the WDK was installed without its KMDF or UMDF
components.

## Things you can try
- Inspect what the kit store reports:
~~~
$ drvkit kit
~~~
- Repair or reinstall the WDK, then run the command again.`,
		extLinks: []HttpLink{"https://learn.microsoft.com/windows-hardware/drivers/download-the-wdk"},
	}

	malformedKitEntryIssue = &Issue{
		id:   MalformedKitEntryId,
		slug: "malformed-kit-entry",
		mdMsg: `
# The kit store holds a value drvkit cannot read

Framework version tables must be ` + "`;`" + `-separated ` + "`major.minor`" + ` entries and
the kit version must have four numeric parts, for example ` + "`10.0.26100.0`" + `.

## Things you can try
- Fix the snapshot file or the ` + "`kit.overrides`" + ` section of your config.
- Capture a fresh snapshot on a machine with a working kit:
~~~
$ drvkit kit --capture > kit.yaml
~~~`,
	}

	descriptorInvalidIssue = &Issue{
		id:   DescriptorInvalidId,
		slug: "descriptor-invalid",
		mdMsg: `
# A driver descriptor is invalid

The ` + "`[package.metadata.wdk.driver-model]`" + ` table of a package is malformed,
names an unknown driver type, or lacks a framework version.

## Example descriptor
~~~toml
[package.metadata.wdk.driver-model]
driver-type = "KMDF"
kmdf-version-major = 1
target-kmdf-version-minor = 33
~~~

Accepted driver types are ` + "`WDM`, `KMDF`, `UMDF`" + ` and ` + "`NONE`" + `.`,
	}

	mixedDriverModelIssue = &Issue{
		id:   MixedDriverModelId,
		slug: "mixed-driver-model",
		mdMsg: `
# Packages declare different driver models

Every package of a project, including the workspace root, must agree on one
driver model. Packages that do no driver work may omit the descriptor.

## Things you can try
- Align the ` + "`driver-type`" + ` of the packages listed in the error.
- Move packages with a different model into their own workspace.`,
	}

	versionConflictIssue = &Issue{
		id:   VersionConflictId,
		slug: "version-conflict",
		mdMsg: `
# Framework version requirements conflict

Two packages request framework versions that no single installed version can
satisfy together.

## Things you can try
- Compare the two ranges named in the error and relax one of them.
- List the versions the kit provides:
~~~
$ drvkit kit
~~~`,
		extLinks: []HttpLink{
			"https://learn.microsoft.com/windows-hardware/drivers/wdf/kmdf-version-history",
			"https://learn.microsoft.com/windows-hardware/drivers/wdf/umdf-version-history",
		},
	}

	noCompatibleVersionIssue = &Issue{
		id:   NoCompatibleVersionId,
		slug: "no-compatible-version",
		mdMsg: `
# No installed framework version satisfies a package

The kit is installed, but none of its framework versions matches the range a
package requested.

## Things you can try
- Lower the requested minor version.
- Install a newer WDK that ships the requested framework version.`,
		extLinks: []HttpLink{
			"https://learn.microsoft.com/windows-hardware/drivers/wdf/kmdf-version-history",
			"https://learn.microsoft.com/windows-hardware/drivers/wdf/umdf-version-history",
		},
	}

	manifestInvalidIssue = &Issue{
		id:   ManifestInvalidId,
		slug: "manifest-invalid",
		mdMsg: `
# A drvkit.toml manifest could not be loaded

## Common causes
- TOML syntax errors or unknown keys
- A package name that is not a valid artifact name
- Workspace members that do not exist or lie outside the workspace
- Two members declaring the same package name

## Minimal workspace
~~~toml
[workspace]
members = ["drivers/*"]
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		slug: "config-load-failed",
		mdMsg: `
# Failed to load the drvkit configuration

## Things you can try
- Check the file for CUE syntax errors:
~~~
$ drvkit config path
$ drvkit config show
~~~
- Recreate the default file:
~~~
$ drvkit config init --force
~~~`,
	}

	unknownArchitectureIssue = &Issue{
		id:   UnknownArchitectureId,
		slug: "unknown-architecture",
		mdMsg: `
# The target architecture is not supported

drvkit maps ` + "`x86_64-pc-windows-msvc`" + ` and ` + "`aarch64-pc-windows-msvc`" + `.
Stages that need an architecture token (INF stamping, cataloging) cannot run
for other targets.

## Things you can try
~~~
$ drvkit resolve --target x86_64-pc-windows-msvc
~~~`,
	}

	stageFailedIssue = &Issue{
		id:   StageFailedId,
		slug: "stage-failed",
		mdMsg: `
# A packaging stage failed

Stages that depend on the failed one were not run. Independent stages of the
same package still ran.

## Things you can try
- Print the planned commands and run them by hand:
~~~
$ drvkit package --dry-run
~~~`,
		extLinks: []HttpLink{
			"https://learn.microsoft.com/windows-hardware/drivers/devtest/stampinf",
			"https://learn.microsoft.com/windows-hardware/drivers/devtest/inf2cat",
			"https://learn.microsoft.com/windows-hardware/drivers/devtest/signtool",
		},
	}

	issues = map[Id]*Issue{
		kitNotInstalledIssue.id:     kitNotInstalledIssue,
		partialInstallationIssue.id: partialInstallationIssue,
		malformedKitEntryIssue.id:   malformedKitEntryIssue,
		descriptorInvalidIssue.id:   descriptorInvalidIssue,
		mixedDriverModelIssue.id:    mixedDriverModelIssue,
		versionConflictIssue.id:     versionConflictIssue,
		noCompatibleVersionIssue.id: noCompatibleVersionIssue,
		manifestInvalidIssue.id:     manifestInvalidIssue,
		configLoadFailedIssue.id:    configLoadFailedIssue,
		unknownArchitectureIssue.id: unknownArchitectureIssue,
		stageFailedIssue.id:         stageFailedIssue,
	}
)

// Values returns every issue ordered by ID.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the issue with id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds an issue by slug or numeric ID.
func Lookup(key string) (*Issue, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if n, err := strconv.Atoi(key); err == nil {
		i := Get(Id(n))
		return i, i != nil
	}
	for _, i := range issues {
		if i.slug == key {
			return i, true
		}
	}
	return nil, false
}
