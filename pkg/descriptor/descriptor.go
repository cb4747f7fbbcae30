// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/drvkit/drvkit/internal/cueutil"
	"github.com/drvkit/drvkit/pkg/arch"
)

// MetadataKey is the key of the driver block inside a package's metadata table.
const MetadataKey = "wdk"

//go:embed wdk_schema.cue
var wdkSchema []byte

type (
	// DriverConfig is the closed set of parsed driver configurations.
	// Only KMDF and UMDF carry a version requirement.
	DriverConfig interface {
		Model() DriverModel
		isDriverConfig()
	}

	// NoDriver is the configuration of a package without a driver block.
	NoDriver struct{}

	// WDM is a framework-less kernel driver.
	WDM struct{}

	// KMDF is a kernel-mode framework driver.
	KMDF struct {
		Requirement Requirement
	}

	// UMDF is a user-mode framework driver.
	UMDF struct {
		Requirement Requirement
	}

	// Descriptor is a single package's declared driver intent.
	Descriptor struct {
		Package string
		Config  DriverConfig
		Arch    arch.Arch
	}

	wdkBlock struct {
		DriverModel driverModelBlock `json:"driver-model"`
	}

	driverModelBlock struct {
		DriverType string `json:"driver-type"`

		KMDFVersionMajor       *uint64 `json:"kmdf-version-major,omitempty"`
		TargetKMDFVersionMinor *uint64 `json:"target-kmdf-version-minor,omitempty"`
		KMDFVersionRange       string  `json:"kmdf-version-range,omitempty"`

		UMDFVersionMajor       *uint64 `json:"umdf-version-major,omitempty"`
		TargetUMDFVersionMinor *uint64 `json:"target-umdf-version-minor,omitempty"`
		UMDFVersionRange       string  `json:"umdf-version-range,omitempty"`
	}
)

func (NoDriver) Model() DriverModel { return ModelNone }
func (WDM) Model() DriverModel      { return ModelWDM }
func (KMDF) Model() DriverModel     { return ModelKMDF }
func (UMDF) Model() DriverModel     { return ModelUMDF }

func (NoDriver) isDriverConfig() {}
func (WDM) isDriverConfig()      {}
func (KMDF) isDriverConfig()     {}
func (UMDF) isDriverConfig()     {}

// RequirementOf returns the version requirement carried by cfg, if any.
func RequirementOf(cfg DriverConfig) (Requirement, bool) {
	switch c := cfg.(type) {
	case KMDF:
		return c.Requirement, true
	case UMDF:
		return c.Requirement, true
	default:
		return Requirement{}, false
	}
}

// Model returns the declared driver model. A descriptor without a config is NONE.
func (d Descriptor) Model() DriverModel {
	if d.Config == nil {
		return ModelNone
	}
	return d.Config.Model()
}

// Requirement returns the framework version requirement, if the model has one.
func (d Descriptor) Requirement() (Requirement, bool) {
	if d.Config == nil {
		return Requirement{}, false
	}
	return RequirementOf(d.Config)
}

// Parse turns a package's metadata table into a Descriptor. A missing or nil
// "wdk" entry yields NoDriver. Keys the schema does not know are ignored.
// target is recorded on the descriptor unchanged.
func Parse(pkg string, metadata map[string]any, target arch.Arch) (Descriptor, error) {
	d := Descriptor{Package: pkg, Config: NoDriver{}, Arch: target}

	raw, ok := metadata[MetadataKey]
	if !ok || raw == nil {
		return d, nil
	}

	result, err := cueutil.DecodeValue[wdkBlock](wdkSchema, raw, "#Wdk",
		cueutil.WithFilename(pkg+".metadata."+MetadataKey))
	if err != nil {
		return Descriptor{}, &DescriptorError{Package: pkg, Kind: KindMalformed, Err: err}
	}

	cfg, err := classify(pkg, &result.Value.DriverModel)
	if err != nil {
		return Descriptor{}, err
	}
	d.Config = cfg
	return d, nil
}

func classify(pkg string, b *driverModelBlock) (DriverConfig, error) {
	model, err := ParseDriverModel(b.DriverType)
	if err != nil {
		return nil, &DescriptorError{Package: pkg, Kind: KindUnknownDriverModel, Value: b.DriverType, Err: err}
	}

	switch model {
	case ModelNone:
		return NoDriver{}, nil
	case ModelWDM:
		return WDM{}, nil
	}

	if field := strayField(model, b); field != "" {
		return nil, &DescriptorError{
			Package: pkg,
			Kind:    KindMalformed,
			Field:   field,
			Err:     fmt.Errorf("field %q is not allowed for driver type %s", field, model),
		}
	}

	switch model {
	case ModelKMDF:
		req, err := requirement(pkg, FrameworkKMDF, b.KMDFVersionMajor, b.TargetKMDFVersionMinor, b.KMDFVersionRange)
		if err != nil {
			return nil, err
		}
		return KMDF{Requirement: req}, nil
	default:
		req, err := requirement(pkg, FrameworkUMDF, b.UMDFVersionMajor, b.TargetUMDFVersionMinor, b.UMDFVersionRange)
		if err != nil {
			return nil, err
		}
		return UMDF{Requirement: req}, nil
	}
}

// strayField returns the first version field of the other framework. NONE and
// WDM never reach it: they ignore every version field.
func strayField(model DriverModel, b *driverModelBlock) string {
	kmdf := b.KMDFVersionMajor != nil || b.TargetKMDFVersionMinor != nil || b.KMDFVersionRange != ""
	umdf := b.UMDFVersionMajor != nil || b.TargetUMDFVersionMinor != nil || b.UMDFVersionRange != ""

	switch {
	case kmdf && model != ModelKMDF:
		return firstSet(FrameworkKMDF, b.KMDFVersionMajor, b.TargetKMDFVersionMinor)
	case umdf && model != ModelUMDF:
		return firstSet(FrameworkUMDF, b.UMDFVersionMajor, b.TargetUMDFVersionMinor)
	default:
		return ""
	}
}

func firstSet(fw Framework, major, minor *uint64) string {
	switch {
	case major != nil:
		return MajorKey(fw)
	case minor != nil:
		return MinorKey(fw)
	default:
		return RangeKey(fw)
	}
}

func requirement(pkg string, fw Framework, major, minor *uint64, rng string) (Requirement, error) {
	var req Requirement

	switch {
	case major != nil && minor != nil:
		req = NewRequirement(fw, *major, *minor)
	case major != nil:
		return Requirement{}, missing(pkg, fw, MinorKey(fw))
	case minor != nil:
		return Requirement{}, missing(pkg, fw, MajorKey(fw))
	case rng == "":
		return Requirement{}, missing(pkg, fw, MajorKey(fw))
	}

	if rng == "" {
		return req, nil
	}

	explicit, err := NewRangeRequirement(fw, strings.TrimSpace(rng))
	if err != nil {
		return Requirement{}, &DescriptorError{
			Package: pkg,
			Kind:    KindInvalidVersionRange,
			Field:   RangeKey(fw),
			Value:   rng,
			Err:     err,
		}
	}
	if req.IsZero() {
		return explicit, nil
	}
	return req.Narrow(explicit), nil
}

func missing(pkg string, fw Framework, field string) error {
	return &DescriptorError{
		Package: pkg,
		Kind:    KindMissingVersion,
		Field:   field,
		Err:     fmt.Errorf("%s driver requires %s", fw, field),
	}
}

// MajorKey returns the metadata key holding fw's major version.
func MajorKey(fw Framework) string { return fw.keyPrefix() + "-version-major" }

// MinorKey returns the metadata key holding fw's target minor version.
func MinorKey(fw Framework) string { return "target-" + fw.keyPrefix() + "-version-minor" }

// RangeKey returns the metadata key holding fw's explicit version range.
func RangeKey(fw Framework) string { return fw.keyPrefix() + "-version-range" }
