// SPDX-License-Identifier: MPL-2.0

package buildenv

import "strings"

// Prefix starts every environment key.
const Prefix = "WDK_BUILD_METADATA"

const (
	SectionDriverModel = "DRIVER_MODEL"
	SectionKit         = "KIT"
	SectionTarget      = "TARGET"
	SectionFlags       = "FLAGS"
	SectionPackage     = "PACKAGE"
)

const (
	FieldDriverType             = "DRIVER_TYPE"
	FieldKMDFVersionMajor       = "KMDF_VERSION_MAJOR"
	FieldTargetKMDFVersionMinor = "TARGET_KMDF_VERSION_MINOR"
	FieldUMDFVersionMajor       = "UMDF_VERSION_MAJOR"
	FieldTargetUMDFVersionMinor = "TARGET_UMDF_VERSION_MINOR"

	FieldInstallRoot = "INSTALL_ROOT"
	FieldVersion     = "VERSION"
	FieldBuildNumber = "BUILD_NUMBER"

	FieldTriple    = "TRIPLE"
	FieldArch      = "ARCH"
	FieldOSMapping = "OS_MAPPING"

	FieldIncludeDirs           = "INCLUDE_DIRS"
	FieldLibraryDirs           = "LIBRARY_DIRS"
	FieldLinkArgs              = "LINK_ARGS"
	FieldLibraries             = "LIBRARIES"
	FieldStampinfArgs          = "STAMPINF_ARGS"
	FieldInfverifMode          = "INFVERIF_MODE"
	FieldDriverBinaryExtension = "DRIVER_BINARY_EXTENSION"

	FieldName            = "NAME"
	FieldArtifactName    = "ARTIFACT_NAME"
	FieldVerifySignature = "VERIFY_SIGNATURE"
	FieldSampleClass     = "SAMPLE_CLASS"
)

// ListSeparator joins directory and library lists.
const ListSeparator = ";"

// Key builds the full key for a section and field.
func Key(section, field string) string {
	return Prefix + "-" + section + "-" + field
}

// SplitList splits a ListSeparator-joined value, dropping empty entries.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ListSeparator) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ArtifactName normalizes a package name for use in output file names.
func ArtifactName(pkg string) string {
	return strings.ReplaceAll(pkg, "-", "_")
}
