// SPDX-License-Identifier: MPL-2.0

package buildenv

import (
	"strconv"
	"strings"

	"github.com/drvkit/drvkit/pkg/descriptor"
	"github.com/drvkit/drvkit/pkg/reconcile"
)

// Derive builds the environment for one resolved package. Packages that do
// no driver work get only their identity and target keys. An unmapped
// architecture is recorded as UNKNOWN and reported later by RequireArch.
func Derive(cfg reconcile.ResolvedConfig) (Environment, error) {
	b := newBuilder(cfg.Package, cfg.Arch)

	model := cfg.Model
	if model == "" {
		model = descriptor.ModelNone
	}
	b.set(SectionDriverModel, FieldDriverType, model.String())

	if !cfg.Version.IsZero() {
		major := strconv.FormatUint(cfg.Version.Major(), 10)
		minor := strconv.FormatUint(cfg.Version.Minor(), 10)
		switch cfg.Framework {
		case descriptor.FrameworkKMDF:
			b.set(SectionDriverModel, FieldKMDFVersionMajor, major)
			b.set(SectionDriverModel, FieldTargetKMDFVersionMinor, minor)
		case descriptor.FrameworkUMDF:
			b.set(SectionDriverModel, FieldUMDFVersionMajor, major)
			b.set(SectionDriverModel, FieldTargetUMDFVersionMinor, minor)
		}
	}

	if model.IsDriver() {
		b.set(SectionKit, FieldInstallRoot, cfg.InstallRoot)
		b.setNonEmpty(SectionKit, FieldVersion, cfg.KitVersion)
		if cfg.KitBuildNumber != 0 {
			b.set(SectionKit, FieldBuildNumber, strconv.FormatUint(cfg.KitBuildNumber, 10))
		}
	}

	b.setNonEmpty(SectionTarget, FieldTriple, cfg.Arch.Triple())
	b.set(SectionTarget, FieldArch, cfg.Arch.Token())
	b.set(SectionTarget, FieldOSMapping, cfg.Arch.OSMapping())

	if flags, ok := FlagsFor(cfg); ok {
		b.set(SectionFlags, FieldIncludeDirs, strings.Join(flags.IncludeDirs, ListSeparator))
		b.setNonEmpty(SectionFlags, FieldLibraryDirs, strings.Join(flags.LibraryDirs, ListSeparator))
		b.set(SectionFlags, FieldLinkArgs, strings.Join(flags.LinkArgs, " "))
		b.set(SectionFlags, FieldLibraries, strings.Join(flags.Libraries, ListSeparator))
		b.setNonEmpty(SectionFlags, FieldStampinfArgs, strings.Join(flags.StampinfArgs, " "))
		b.set(SectionFlags, FieldInfverifMode, flags.InfverifMode)
		b.set(SectionFlags, FieldDriverBinaryExtension, flags.BinaryExtension)
	}

	b.set(SectionPackage, FieldName, cfg.Package)
	b.set(SectionPackage, FieldArtifactName, ArtifactName(cfg.Package))
	if model.IsDriver() {
		b.set(SectionPackage, FieldVerifySignature, strconv.FormatBool(cfg.VerifySignature))
		b.set(SectionPackage, FieldSampleClass, strconv.FormatBool(cfg.SampleClass))
	}

	return b.build()
}
