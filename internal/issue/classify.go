// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/drvkit/drvkit/internal/config"
	"github.com/drvkit/drvkit/internal/pipeline"
	"github.com/drvkit/drvkit/internal/workspace"
	"github.com/drvkit/drvkit/pkg/arch"
	"github.com/drvkit/drvkit/pkg/descriptor"
	"github.com/drvkit/drvkit/pkg/kit"
	"github.com/drvkit/drvkit/pkg/reconcile"
)

// IdFor returns the catalog entry describing err.
func IdFor(err error) (Id, bool) {
	switch {
	case errors.Is(err, kit.ErrNotInstalled), errors.Is(err, kit.ErrRegistryUnsupported):
		return KitNotInstalledId, true
	case errors.Is(err, kit.ErrPartialInstallation):
		return PartialInstallationId, true
	case errors.Is(err, kit.ErrMalformedEntry):
		return MalformedKitEntryId, true
	case errors.Is(err, descriptor.ErrDescriptor):
		return DescriptorInvalidId, true
	case errors.Is(err, reconcile.ErrMixedDriverModel):
		return MixedDriverModelId, true
	case errors.Is(err, reconcile.ErrVersionConflict):
		return VersionConflictId, true
	case errors.Is(err, reconcile.ErrNoCompatibleVersion):
		return NoCompatibleVersionId, true
	case errors.Is(err, workspace.ErrManifest):
		return ManifestInvalidId, true
	case errors.Is(err, config.ErrConfig):
		return ConfigLoadFailedId, true
	case errors.Is(err, arch.ErrUnknownArch):
		return UnknownArchitectureId, true
	case errors.Is(err, pipeline.ErrStage):
		return StageFailedId, true
	}
	return 0, false
}

// Classify wraps err with the operation that failed and remedies for the
// failure class. It returns err unchanged when it is already actionable or
// unknown to the catalog.
func Classify(err error, operation string) error {
	if err == nil {
		return nil
	}
	var ae *ActionableError
	if errors.As(err, &ae) {
		return err
	}
	id, ok := IdFor(err)
	if !ok {
		return err
	}

	ctx := NewErrorContext().WithOperation(operation).WithIssue(id).Wrap(err)
	switch id {
	case KitNotInstalledId:
		ctx.WithSuggestions(
			"Install the Windows Driver Kit",
			"Or set kit.source to snapshot and point kit.snapshot_path at a captured kit",
		)
	case PartialInstallationId:
		var le *kit.LocatorError
		if errors.As(err, &le) {
			ctx.WithResource(le.Root)
			ctx.WithSuggestion(fmt.Sprintf("Install the %s component of the kit", le.Framework))
		}
	case MalformedKitEntryId:
		var le *kit.LocatorError
		if errors.As(err, &le) {
			ctx.WithResource(le.Key)
		}
		ctx.WithSuggestion("Fix the value in the kit snapshot or config overrides")
	case DescriptorInvalidId:
		var de *descriptor.DescriptorError
		if errors.As(err, &de) {
			ctx.WithResource(de.Package)
		}
		ctx.WithSuggestion("Check the [package.metadata.wdk.driver-model] table")
	case MixedDriverModelId, VersionConflictId, NoCompatibleVersionId:
		var re *reconcile.ReconcileError
		if errors.As(err, &re) {
			ctx.WithResource(strings.Join(re.Packages(), ", "))
			if len(re.Available) > 0 {
				ctx.WithSuggestion("Installed versions: " + strings.Join(re.Available, ", "))
			}
		}
	case ManifestInvalidId:
		var me *workspace.ManifestError
		if errors.As(err, &me) {
			ctx.WithResource(string(me.Path))
		}
	case ConfigLoadFailedId:
		ctx.WithSuggestion("Run 'drvkit config show' to inspect the effective configuration")
	case UnknownArchitectureId:
		ctx.WithSuggestion("Pass --target " + arch.TripleAmd64 + " or --target " + arch.TripleArm64)
	case StageFailedId:
		ctx.WithSuggestion("Run 'drvkit package --dry-run' to print the planned commands")
	}
	ctx.WithSuggestion(fmt.Sprintf("Run 'drvkit issue %s' for details", Get(id).Slug()))
	return ctx.BuildError()
}
