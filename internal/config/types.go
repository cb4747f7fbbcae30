// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/drvkit/drvkit/pkg/buildenv"
)

const (
	// KitSourceRegistry reads the kit from the Windows registry.
	KitSourceRegistry KitSource = "registry"
	// KitSourceSnapshot reads the kit from a YAML snapshot file.
	KitSourceSnapshot KitSource = "snapshot"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrConfig is wrapped by every configuration failure.
	ErrConfig = errors.New("invalid configuration")
	// ErrInvalidKitSource is the sentinel error wrapped by InvalidKitSourceError.
	ErrInvalidKitSource = errors.New("invalid kit source")
	// ErrInvalidColorScheme is the sentinel error wrapped by InvalidColorSchemeError.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
)

type (
	// KitSource selects where the kit installation is read from.
	KitSource string

	// ColorScheme selects the color palette of CLI output.
	ColorScheme string

	// InvalidKitSourceError is returned when a KitSource value is not recognized.
	InvalidKitSourceError struct {
		Value KitSource
	}

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LoadError reports a configuration file that could not be used.
	LoadError struct {
		Path string
		Err  error
	}

	// Config is the full drvkit configuration.
	Config struct {
		Kit     KitConfig     `json:"kit" mapstructure:"kit"`
		Target  TargetConfig  `json:"target" mapstructure:"target"`
		Package PackageConfig `json:"package" mapstructure:"package"`
		Output  OutputConfig  `json:"output" mapstructure:"output"`
		UI      UIConfig      `json:"ui" mapstructure:"ui"`
	}

	// KitConfig selects and overrides the kit store.
	KitConfig struct {
		Source       KitSource    `json:"source" mapstructure:"source"`
		SnapshotPath string       `json:"snapshot_path" mapstructure:"snapshot_path"`
		Overrides    KitOverrides `json:"overrides" mapstructure:"overrides"`
	}

	// KitOverrides take precedence over the configured kit source.
	KitOverrides struct {
		InstallRoot  string `json:"install_root" mapstructure:"install_root"`
		KitVersion   string `json:"kit_version" mapstructure:"kit_version"`
		KMDFVersions string `json:"kmdf_versions" mapstructure:"kmdf_versions"`
		UMDFVersions string `json:"umdf_versions" mapstructure:"umdf_versions"`
	}

	// TargetConfig selects the target architecture.
	TargetConfig struct {
		Triple string `json:"triple" mapstructure:"triple"`
	}

	// PackageConfig tunes the packaging plan.
	PackageConfig struct {
		VerifySignature bool   `json:"verify_signature" mapstructure:"verify_signature"`
		CreateCert      bool   `json:"create_cert" mapstructure:"create_cert"`
		TargetDir       string `json:"target_dir" mapstructure:"target_dir"`
		Jobs            int    `json:"jobs" mapstructure:"jobs"`
	}

	// OutputConfig selects the environment encoding.
	OutputConfig struct {
		Format buildenv.Format `json:"format" mapstructure:"format"`
	}

	// UIConfig tunes terminal output.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Kit:     KitConfig{Source: KitSourceRegistry},
		Package: PackageConfig{TargetDir: "target"},
		Output:  OutputConfig{Format: buildenv.FormatEnv},
		UI:      UIConfig{ColorScheme: ColorSchemeAuto},
	}
}

// Error implements the error interface.
func (e *InvalidKitSourceError) Error() string {
	return fmt.Sprintf("invalid kit source %q (valid: registry, snapshot)", e.Value)
}

// Unwrap returns ErrInvalidKitSource.
func (e *InvalidKitSourceError) Unwrap() error { return ErrInvalidKitSource }

// IsValid returns whether the KitSource is a known source, and a list of
// validation errors if it is not.
func (s KitSource) IsValid() (bool, []error) {
	switch s {
	case KitSourceRegistry, KitSourceSnapshot:
		return true, nil
	default:
		return false, []error{&InvalidKitSourceError{Value: s}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the ColorScheme is one of the defined schemes,
// and a list of validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration %s: %v", e.Path, e.Err)
}

// Unwrap exposes ErrConfig and the cause.
func (e *LoadError) Unwrap() []error { return []error{ErrConfig, e.Err} }

// Validate checks the values a CUE schema cannot see, such as those set
// through environment variables.
func (c *Config) Validate() error {
	var errs []error
	if ok, e := c.Kit.Source.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if c.Kit.Source == KitSourceSnapshot && c.Kit.SnapshotPath == "" {
		errs = append(errs, errors.New("kit.snapshot_path is required when kit.source is snapshot"))
	}
	if ok, e := c.Output.Format.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if ok, e := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if c.Package.Jobs < 0 {
		errs = append(errs, fmt.Errorf("package.jobs must not be negative, got %d", c.Package.Jobs))
	}
	return errors.Join(errs...)
}
