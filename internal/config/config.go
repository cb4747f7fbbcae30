// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/drvkit/drvkit/internal/cueutil"
	"github.com/drvkit/drvkit/internal/platform"
)

const (
	// AppName is the application name used for configuration directories.
	AppName = "drvkit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. DRVKIT_TARGET_TRIPLE.
	EnvPrefix = "DRVKIT"
)

// ErrConfigFileExists is returned by CreateDefaultConfig when a file is
// already present and force is not set.
var ErrConfigFileExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the drvkit configuration directory for the host.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the path Load reads for opts, whether or not it exists.
func FilePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions merges defaults, the config file and the environment. It
// returns the path of the file that was read, empty when none was.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	path, err := FilePath(opts)
	if err != nil {
		return nil, "", &LoadError{Err: err}
	}

	resolvedPath := ""
	switch {
	case fileExists(path):
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", &LoadError{Path: path, Err: err}
		}
		resolvedPath = path
	case opts.ConfigFilePath != "":
		return nil, "", &LoadError{Path: path, Err: fmt.Errorf("config file not found: %w", os.ErrNotExist)}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", &LoadError{Path: resolvedPath, Err: fmt.Errorf("failed to parse config: %w", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", &LoadError{Path: resolvedPath, Err: err}
	}
	return &cfg, resolvedPath, nil
}

// newViper returns a viper instance holding every default, so that each key
// is also bound to its DRVKIT_* environment variable.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("kit.source", defaults.Kit.Source)
	v.SetDefault("kit.snapshot_path", defaults.Kit.SnapshotPath)
	v.SetDefault("kit.overrides.install_root", defaults.Kit.Overrides.InstallRoot)
	v.SetDefault("kit.overrides.kit_version", defaults.Kit.Overrides.KitVersion)
	v.SetDefault("kit.overrides.kmdf_versions", defaults.Kit.Overrides.KMDFVersions)
	v.SetDefault("kit.overrides.umdf_versions", defaults.Kit.Overrides.UMDFVersions)
	v.SetDefault("target.triple", defaults.Target.Triple)
	v.SetDefault("package.verify_signature", defaults.Package.VerifySignature)
	v.SetDefault("package.create_cert", defaults.Package.CreateCert)
	v.SetDefault("package.target_dir", defaults.Package.TargetDir)
	v.SetDefault("package.jobs", defaults.Package.Jobs)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	return v
}

// loadCUEIntoViper validates the file against #Config and merges it.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	res, err := cueutil.ParseAndDecodeString[map[string]any](configSchema, data, "#Config", cueutil.WithFilename(path))
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to the path Load reads
// for opts and returns that path. An existing file is only replaced with force.
func CreateDefaultConfig(opts LoadOptions, force bool) (string, error) {
	path, err := FilePath(opts)
	if err != nil {
		return "", err
	}
	if fileExists(path) && !force {
		return path, fmt.Errorf("%w: %s", ErrConfigFileExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// GenerateCUE renders cfg as a config file. Empty optional strings are left
// out so the file stays valid against the schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// drvkit configuration file\n")
	sb.WriteString("// Every field can be overridden with a DRVKIT_* environment variable,\n")
	sb.WriteString("// e.g. DRVKIT_TARGET_TRIPLE or DRVKIT_KIT_OVERRIDES_INSTALL_ROOT.\n\n")

	sb.WriteString("kit: {\n")
	fmt.Fprintf(&sb, "\tsource: %q\n", cfg.Kit.Source)
	writeOptional(&sb, "\t", "snapshot_path", cfg.Kit.SnapshotPath)
	o := cfg.Kit.Overrides
	if o != (KitOverrides{}) {
		sb.WriteString("\toverrides: {\n")
		writeOptional(&sb, "\t\t", "install_root", o.InstallRoot)
		writeOptional(&sb, "\t\t", "kit_version", o.KitVersion)
		writeOptional(&sb, "\t\t", "kmdf_versions", o.KMDFVersions)
		writeOptional(&sb, "\t\t", "umdf_versions", o.UMDFVersions)
		sb.WriteString("\t}\n")
	}
	sb.WriteString("}\n")

	if cfg.Target.Triple != "" {
		sb.WriteString("\ntarget: {\n")
		fmt.Fprintf(&sb, "\ttriple: %q\n", cfg.Target.Triple)
		sb.WriteString("}\n")
	}

	sb.WriteString("\npackage: {\n")
	fmt.Fprintf(&sb, "\tverify_signature: %v\n", cfg.Package.VerifySignature)
	fmt.Fprintf(&sb, "\tcreate_cert: %v\n", cfg.Package.CreateCert)
	writeOptional(&sb, "\t", "target_dir", cfg.Package.TargetDir)
	fmt.Fprintf(&sb, "\tjobs: %d\n", cfg.Package.Jobs)
	sb.WriteString("}\n")

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Output.Format)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

func writeOptional(sb *strings.Builder, indent, key, value string) {
	if value != "" {
		fmt.Fprintf(sb, "%s%s: %q\n", indent, key, value)
	}
}
