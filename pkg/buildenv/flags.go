// SPDX-License-Identifier: MPL-2.0

package buildenv

import (
	"fmt"
	"strings"

	"github.com/drvkit/drvkit/pkg/descriptor"
	"github.com/drvkit/drvkit/pkg/reconcile"
)

type (
	// flagTemplate is the per-model compiler, linker and packaging setup.
	// Directory entries are relative to the kit root; {ver} expands to the
	// kit version, {arch} to the library directory and {fw} to major.minor.
	flagTemplate struct {
		includeDirs []string
		libraryDirs []string
		linkArgs    []string
		libraries   []string
		infverif    string
		extension   string
	}

	// Flags is a flag template expanded for one package.
	Flags struct {
		IncludeDirs     []string
		LibraryDirs     []string
		LinkArgs        []string
		Libraries       []string
		StampinfArgs    []string
		InfverifMode    string
		BinaryExtension string
	}
)

var flagTemplates = map[descriptor.DriverModel]flagTemplate{
	descriptor.ModelWDM: {
		includeDirs: []string{`Include\{ver}\km`, `Include\{ver}\shared`},
		libraryDirs: []string{`Lib\{ver}\km\{arch}`},
		linkArgs:    []string{"/DRIVER", "/SUBSYSTEM:NATIVE", "/ENTRY:DriverEntry"},
		libraries:   []string{"ntoskrnl.lib", "hal.lib", "wmilib.lib"},
		infverif:    "/w",
		extension:   "sys",
	},
	descriptor.ModelKMDF: {
		includeDirs: []string{`Include\{ver}\km`, `Include\{ver}\shared`, `Include\wdf\kmdf\{fw}`},
		libraryDirs: []string{`Lib\{ver}\km\{arch}`, `Lib\wdf\kmdf\{arch}\{fw}`},
		linkArgs:    []string{"/DRIVER", "/SUBSYSTEM:NATIVE", "/ENTRY:FxDriverEntry"},
		libraries:   []string{"WdfDriverEntry.lib", "WdfLdr.lib", "ntoskrnl.lib", "hal.lib", "wmilib.lib"},
		infverif:    "/w",
		extension:   "sys",
	},
	descriptor.ModelUMDF: {
		includeDirs: []string{`Include\{ver}\um`, `Include\{ver}\shared`, `Include\wdf\umdf\{fw}`},
		libraryDirs: []string{`Lib\{ver}\um\{arch}`, `Lib\wdf\umdf\{arch}\{fw}`},
		linkArgs:    []string{"/DLL", "/SUBSYSTEM:WINDOWS"},
		libraries:   []string{"WdfDriverStubUm.lib", "ntdll.lib", "OneCoreUAP.lib"},
		infverif:    "/u",
		extension:   "dll",
	},
}

// FlagsFor expands the model's flag template for cfg. ok is false for
// packages that do no driver work. Library directories are omitted when the
// architecture is unmapped.
func FlagsFor(cfg reconcile.ResolvedConfig) (Flags, bool) {
	tmpl, ok := flagTemplates[cfg.Model]
	if !ok {
		return Flags{}, false
	}

	fw := ""
	if !cfg.Version.IsZero() {
		fw = fmt.Sprintf("%d.%d", cfg.Version.Major(), cfg.Version.Minor())
	}
	expand := func(rel string) string {
		r := strings.NewReplacer("{ver}", cfg.KitVersion, "{arch}", cfg.Arch.LibDir(), "{fw}", fw)
		return winJoin(cfg.InstallRoot, r.Replace(rel))
	}

	f := Flags{
		LinkArgs:        append([]string(nil), tmpl.linkArgs...),
		Libraries:       append([]string(nil), tmpl.libraries...),
		StampinfArgs:    StampinfArgs(cfg),
		InfverifMode:    tmpl.infverif,
		BinaryExtension: tmpl.extension,
	}
	for _, d := range tmpl.includeDirs {
		f.IncludeDirs = append(f.IncludeDirs, expand(d))
	}
	if cfg.Arch.IsKnown() {
		for _, d := range tmpl.libraryDirs {
			f.LibraryDirs = append(f.LibraryDirs, expand(d))
		}
	}
	return f, true
}

// StampinfArgs returns the framework version arguments for the INF stamping
// tool: -k major.minor for KMDF, -u major.minor.0 for UMDF, none otherwise.
func StampinfArgs(cfg reconcile.ResolvedConfig) []string {
	if cfg.Version.IsZero() {
		return nil
	}
	switch cfg.Framework {
	case descriptor.FrameworkKMDF:
		return []string{"-k", fmt.Sprintf("%d.%d", cfg.Version.Major(), cfg.Version.Minor())}
	case descriptor.FrameworkUMDF:
		return []string{"-u", fmt.Sprintf("%d.%d.0", cfg.Version.Major(), cfg.Version.Minor())}
	default:
		return nil
	}
}

// BinaryExtension returns the driver binary extension for model, or "" for NONE.
func BinaryExtension(model descriptor.DriverModel) string {
	return flagTemplates[model].extension
}

// winJoin joins Windows path elements with backslashes, collapsing the empty
// segment left by an unrecorded kit version.
func winJoin(root, rel string) string {
	var parts []string
	if r := strings.TrimRight(root, `\/`); r != "" {
		parts = append(parts, r)
	}
	for _, p := range strings.Split(rel, `\`) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, `\`)
}
