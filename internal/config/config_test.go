// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/google/go-cmp/cmp"

	"github.com/drvkit/drvkit/internal/platform"
	"github.com/drvkit/drvkit/pkg/buildenv"
	"github.com/drvkit/drvkit/pkg/kit"
)

func load(t *testing.T, opts LoadOptions) (*Loaded, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), opts)
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Kit.Source != KitSourceRegistry || cfg.Output.Format != buildenv.FormatEnv {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_NoFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	got, err := load(t, LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Path != "" {
		t.Errorf("Path = %q, want empty", got.Path)
	}
	if diff := cmp.Diff(DefaultConfig(), got.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
kit: {
	source:        "snapshot"
	snapshot_path: "kit.yaml"
	overrides: kmdf_versions: "1.31;1.33"
}
package: {
	verify_signature: true
	jobs:             4
}
output: format: "json"
ui: verbose:    true
`)

	got, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Path != path {
		t.Errorf("Path = %q, want %q", got.Path, path)
	}

	want := DefaultConfig()
	want.Kit = KitConfig{
		Source:       KitSourceSnapshot,
		SnapshotPath: "kit.yaml",
		Overrides:    KitOverrides{KMDFVersions: "1.31;1.33"},
	}
	want.Package.VerifySignature = true
	want.Package.Jobs = 4
	want.Output.Format = buildenv.FormatJSON
	want.UI.Verbose = true
	if diff := cmp.Diff(want, got.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "target: triple: \"x86_64-pc-windows-msvc\"\n")
	t.Setenv("DRVKIT_TARGET_TRIPLE", "aarch64-pc-windows-msvc")
	t.Setenv("DRVKIT_PACKAGE_VERIFY_SIGNATURE", "true")
	t.Setenv("DRVKIT_KIT_OVERRIDES_INSTALL_ROOT", `D:\Kits\10\`)
	t.Setenv("DRVKIT_OUTPUT_FORMAT", "yaml")

	got, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg := got.Config
	if cfg.Target.Triple != "aarch64-pc-windows-msvc" {
		t.Errorf("Target.Triple = %q, environment must win over the file", cfg.Target.Triple)
	}
	if !cfg.Package.VerifySignature || cfg.Kit.Overrides.InstallRoot != `D:\Kits\10\` || cfg.Output.Format != buildenv.FormatYAML {
		t.Errorf("environment overrides not applied: %+v", cfg)
	}
}

func TestLoad_EnvInvalidValue(t *testing.T) {
	t.Setenv("DRVKIT_OUTPUT_FORMAT", "xml")

	_, err := load(t, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrConfig) || !errors.Is(err, buildenv.ErrInvalidFormat) {
		t.Fatalf("Load() error = %v, want invalid format", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "kit: {", ""},
		{"unknown field", "kit: registry: true\n", "registry"},
		{"bad enum", "output: format: \"xml\"\n", "format"},
		{"bad kit version", "kit: overrides: kit_version: \"10.0\"\n", "kit_version"},
		{"negative jobs", "kit: source: \"registry\"\npackage: jobs: -1\n", "jobs"},
		{"snapshot without path", "kit: source: \"snapshot\"\n", "snapshot_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := writeConfig(t, dir, tt.content)
			_, err := load(t, LoadOptions{ConfigDirPath: dir})
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("Load() error = %v, want ErrConfig", err)
			}
			var le *LoadError
			if !errors.As(err, &le) || le.Path != path {
				t.Errorf("LoadError = %+v, want path %s", le, path)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	t.Parallel()

	_, err := load(t, LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "missing.cue")})
	if !errors.Is(err, ErrConfig) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() error = %v, want missing file", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() error = %v, want context.Canceled", err)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	opts := LoadOptions{ConfigDirPath: filepath.Join(t.TempDir(), "nested", AppName)}
	path, err := CreateDefaultConfig(opts, false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}

	got, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load() of generated file error = %v", err)
	}
	if got.Path != path {
		t.Errorf("Path = %q, want %q", got.Path, path)
	}
	if diff := cmp.Diff(DefaultConfig(), got.Config); diff != "" {
		t.Errorf("generated config mismatch (-want +got):\n%s", diff)
	}

	if _, err := CreateDefaultConfig(opts, false); !errors.Is(err, ErrConfigFileExists) {
		t.Errorf("second CreateDefaultConfig() error = %v, want ErrConfigFileExists", err)
	}
	if _, err := CreateDefaultConfig(opts, true); err != nil {
		t.Errorf("forced CreateDefaultConfig() error = %v", err)
	}
}

func TestGenerateCUE_LoadsBack(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Kit = KitConfig{
		Source:       KitSourceSnapshot,
		SnapshotPath: `C:\kits\snap.yaml`,
		Overrides: KitOverrides{
			InstallRoot: `C:\Program Files (x86)\Windows Kits\10\`,
			KitVersion:  "10.0.26100.0",
		},
	}
	cfg.Target.Triple = "aarch64-pc-windows-msvc"
	cfg.Package = PackageConfig{VerifySignature: true, CreateCert: true, TargetDir: "out", Jobs: 2}
	cfg.Output.Format = buildenv.FormatTable
	cfg.UI = UIConfig{Verbose: true, ColorScheme: ColorSchemeDark}

	dir := t.TempDir()
	writeConfig(t, dir, GenerateCUE(cfg))
	got, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(cfg, got.Config); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFilePath(t *testing.T) {
	t.Parallel()

	got, err := FilePath(LoadOptions{ConfigFilePath: "custom.cue", ConfigDirPath: "ignored"})
	if err != nil || got != "custom.cue" {
		t.Errorf("FilePath() = %q, %v", got, err)
	}
	got, err = FilePath(LoadOptions{ConfigDirPath: "dir"})
	if err != nil || got != filepath.Join("dir", "config.cue") {
		t.Errorf("FilePath() = %q, %v", got, err)
	}
}

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	if err != nil || got != dir {
		t.Errorf("ConfigDir() = %q, %v, want %q", got, err, dir)
	}
}

func TestKitStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snap := filepath.Join(dir, "kit.yaml")
	data := "install_root: 'C:\\Kits\\10\\'\nkit_version: 10.0.22621.0\nkmdf_versions: [\"1.31\"]\n"
	if err := os.WriteFile(snap, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Kit.Source = KitSourceSnapshot
	cfg.Kit.SnapshotPath = snap
	cfg.Kit.Overrides.KitVersion = "10.0.26100.0"

	store, err := cfg.KitStore()
	if err != nil {
		t.Fatalf("KitStore() error = %v", err)
	}
	if v, _ := store.Lookup(kit.KeyKitVersion); v != "10.0.26100.0" {
		t.Errorf("kit version = %q, override must win", v)
	}
	if v, _ := store.Lookup(kit.KeyInstallRoot); v != `C:\Kits\10\` {
		t.Errorf("install root = %q, want snapshot value", v)
	}
	if _, ok := store.Lookup(kit.KeyUMDFVersions); ok {
		t.Error("unset key reported present")
	}
}

func TestKitStore_RegistryUnavailable(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == platform.Windows {
		t.Skip("registry is available on windows")
	}

	cfg := DefaultConfig()
	if _, err := cfg.KitStore(); !errors.Is(err, kit.ErrRegistryUnsupported) {
		t.Errorf("KitStore() error = %v, want ErrRegistryUnsupported", err)
	}

	cfg.Kit.Overrides.InstallRoot = `C:\Kits\10\`
	store, err := cfg.KitStore()
	if err != nil {
		t.Fatalf("KitStore() with overrides error = %v", err)
	}
	if v, ok := store.Lookup(kit.KeyInstallRoot); !ok || v != `C:\Kits\10\` {
		t.Errorf("install root = %q, %v", v, ok)
	}
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	if ok, _ := KitSource("cloud").IsValid(); ok {
		t.Error("KitSource(cloud) reported valid")
	}
	if _, errs := ColorScheme("neon").IsValid(); len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("ColorScheme(neon) errors = %v", errs)
	}
}

// TestSchemaMatchesStruct keeps #Config and the mapstructure tags in sync.
func TestSchemaMatchesStruct(t *testing.T) {
	t.Parallel()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatal(schema.Err())
	}

	var walk func(path string, val cue.Value, typ reflect.Type)
	walk = func(path string, val cue.Value, typ reflect.Type) {
		tags := make(map[string]reflect.Type)
		for i := range typ.NumField() {
			f := typ.Field(i)
			tags[f.Tag.Get("mapstructure")] = f.Type
		}

		iter, err := val.Fields(cue.Optional(true))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		seen := make(map[string]bool)
		for iter.Next() {
			name := iter.Selector().Unquoted()
			seen[name] = true
			ft, ok := tags[name]
			if !ok {
				t.Errorf("%s.%s is in the schema but not in %s", path, name, typ.Name())
				continue
			}
			if ft.Kind() == reflect.Struct {
				walk(path+"."+name, iter.Value(), ft)
			}
		}
		for name := range tags {
			if !seen[name] {
				t.Errorf("%s.%s is in %s but not in the schema", path, name, typ.Name())
			}
		}
	}
	walk("#Config", schema.LookupPath(cue.ParsePath("#Config")), reflect.TypeOf(Config{}))
}
