// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"testing"

	"github.com/drvkit/drvkit/internal/semver"
	"github.com/drvkit/drvkit/pkg/arch"
)

func wdk(fields map[string]any) map[string]any {
	return map[string]any{MetadataKey: map[string]any{"driver-model": fields}}
}

func TestParse_NoDriver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		metadata map[string]any
	}{
		{"nil metadata", nil},
		{"no wdk key", map[string]any{"docs": map[string]any{"all-features": true}}},
		{"nil wdk value", map[string]any{MetadataKey: nil}},
		{"explicit none", wdk(map[string]any{"driver-type": "NONE"})},
		{"lowercase none", wdk(map[string]any{"driver-type": "none"})},
		{"none with version fields", wdk(map[string]any{
			"driver-type":               "NONE",
			"kmdf-version-major":        1,
			"target-kmdf-version-minor": 33,
			"umdf-version-range":        ">=2.31",
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := Parse("helper", tt.metadata, arch.FromTriple(arch.TripleAmd64))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if _, ok := d.Config.(NoDriver); !ok {
				t.Errorf("Config = %T, want NoDriver", d.Config)
			}
			if d.Model() != ModelNone {
				t.Errorf("Model() = %q, want NONE", d.Model())
			}
			if _, ok := d.Requirement(); ok {
				t.Error("Requirement() ok = true for NONE")
			}
			if d.Package != "helper" {
				t.Errorf("Package = %q", d.Package)
			}
		})
	}
}

func TestParse_WDM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"bare", map[string]any{"driver-type": "wdm"}},
		{"wdm version fields", map[string]any{
			"driver-type":              "WDM",
			"wdm-version-major":        1,
			"target-wdm-version-minor": 33,
		}},
		{"framework version fields", map[string]any{
			"driver-type":               "WDM",
			"kmdf-version-major":        1,
			"target-kmdf-version-minor": 33,
			"umdf-version-major":        2,
			"umdf-version-range":        "not a range",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := Parse("legacy", wdk(tt.fields), arch.Arch{})
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if _, ok := d.Config.(WDM); !ok {
				t.Fatalf("Config = %T, want WDM", d.Config)
			}
			if _, ok := d.Requirement(); ok {
				t.Error("WDM must not carry a requirement")
			}
		})
	}
}

func TestParse_IgnoresUnknownKeys(t *testing.T) {
	t.Parallel()

	d, err := Parse("drv", wdk(map[string]any{
		"driver-type":               "KMDF",
		"kmdf-version-major":        1,
		"target-kmdf-version-minor": 33,
		"driver-flavor":             "x",
	}), arch.Arch{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Model() != ModelKMDF {
		t.Errorf("Model() = %q, want KMDF", d.Model())
	}
}

func TestParse_FrameworkRequirement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fields    map[string]any
		model     DriverModel
		accepts   []string
		rejects   []string
		rendering string
	}{
		{
			name: "kmdf pair",
			fields: map[string]any{
				"driver-type":               "KMDF",
				"kmdf-version-major":        int64(1),
				"target-kmdf-version-minor": int64(33),
			},
			model:     ModelKMDF,
			accepts:   []string{"1.33.0", "1.35.0"},
			rejects:   []string{"1.31.0", "2.0.0"},
			rendering: ">= 1.33, < 2",
		},
		{
			name: "umdf pair",
			fields: map[string]any{
				"driver-type":               "UMDF",
				"umdf-version-major":        2,
				"target-umdf-version-minor": 31,
			},
			model:   ModelUMDF,
			accepts: []string{"2.31.0", "2.33.0"},
			rejects: []string{"2.15.0", "1.33.0"},
		},
		{
			name: "explicit range only",
			fields: map[string]any{
				"driver-type":        "KMDF",
				"kmdf-version-range": ">=1.31, <1.34",
			},
			model:   ModelKMDF,
			accepts: []string{"1.31.0", "1.33.0"},
			rejects: []string{"1.35.0", "1.29.0"},
		},
		{
			name: "pair narrowed by range",
			fields: map[string]any{
				"driver-type":               "KMDF",
				"kmdf-version-major":        int64(1),
				"target-kmdf-version-minor": int64(31),
				"kmdf-version-range":        "<1.33",
			},
			model:     ModelKMDF,
			accepts:   []string{"1.31.0", "1.32.0"},
			rejects:   []string{"1.33.0", "1.29.0"},
			rendering: ">= 1.31, < 2 && <1.33",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := Parse("drv", wdk(tt.fields), arch.FromTriple(arch.TripleArm64))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if d.Model() != tt.model {
				t.Fatalf("Model() = %q, want %q", d.Model(), tt.model)
			}
			req, ok := d.Requirement()
			if !ok {
				t.Fatal("Requirement() ok = false")
			}
			if fw, _ := tt.model.Framework(); req.Framework() != fw {
				t.Errorf("Framework() = %q, want %q", req.Framework(), fw)
			}
			for _, v := range tt.accepts {
				if !req.Matches(semver.MustParseVersion(v)) {
					t.Errorf("requirement %s should accept %s", req, v)
				}
			}
			for _, v := range tt.rejects {
				if req.Matches(semver.MustParseVersion(v)) {
					t.Errorf("requirement %s should reject %s", req, v)
				}
			}
			if tt.rendering != "" && req.String() != tt.rendering {
				t.Errorf("String() = %q, want %q", req.String(), tt.rendering)
			}
			if d.Arch.Kind() != arch.Arm64 {
				t.Errorf("Arch = %v, want arm64", d.Arch)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		metadata map[string]any
		kind     ErrorKind
		sentinel error
		field    string
	}{
		{
			name:     "unknown driver type",
			metadata: wdk(map[string]any{"driver-type": "KMDFX"}),
			kind:     KindUnknownDriverModel,
			sentinel: ErrUnknownDriverModel,
		},
		{
			name:     "kmdf without versions",
			metadata: wdk(map[string]any{"driver-type": "KMDF"}),
			kind:     KindMissingVersion,
			sentinel: ErrMissingVersion,
			field:    "kmdf-version-major",
		},
		{
			name:     "umdf missing minor",
			metadata: wdk(map[string]any{"driver-type": "UMDF", "umdf-version-major": 2}),
			kind:     KindMissingVersion,
			sentinel: ErrMissingVersion,
			field:    "target-umdf-version-minor",
		},
		{
			name:     "kmdf missing major",
			metadata: wdk(map[string]any{"driver-type": "KMDF", "target-kmdf-version-minor": 33}),
			kind:     KindMissingVersion,
			sentinel: ErrMissingVersion,
			field:    "kmdf-version-major",
		},
		{
			name:     "unparseable range",
			metadata: wdk(map[string]any{"driver-type": "UMDF", "umdf-version-range": "not a range"}),
			kind:     KindInvalidVersionRange,
			sentinel: ErrInvalidVersionRange,
			field:    "umdf-version-range",
		},
		{
			name: "umdf fields on kmdf",
			metadata: wdk(map[string]any{
				"driver-type":               "KMDF",
				"kmdf-version-major":        1,
				"target-kmdf-version-minor": 33,
				"umdf-version-major":        2,
			}),
			kind:     KindMalformed,
			sentinel: ErrMalformed,
			field:    "umdf-version-major",
		},
		{
			name:     "missing driver-model table",
			metadata: map[string]any{MetadataKey: map[string]any{}},
			kind:     KindMalformed,
			sentinel: ErrMalformed,
		},
		{
			name:     "negative major",
			metadata: wdk(map[string]any{"driver-type": "KMDF", "kmdf-version-major": -1, "target-kmdf-version-minor": 33}),
			kind:     KindMalformed,
			sentinel: ErrMalformed,
		},
		{
			name:     "wrong type",
			metadata: wdk(map[string]any{"driver-type": "KMDF", "kmdf-version-major": "one", "target-kmdf-version-minor": 33}),
			kind:     KindMalformed,
			sentinel: ErrMalformed,
		},
		{
			name:     "wdk is not a table",
			metadata: map[string]any{MetadataKey: "KMDF"},
			kind:     KindMalformed,
			sentinel: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse("drv", tt.metadata, arch.Arch{})
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}

			var de *DescriptorError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *DescriptorError", err)
			}
			if de.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", de.Kind, tt.kind)
			}
			if de.Package != "drv" {
				t.Errorf("Package = %q, want drv", de.Package)
			}
			if tt.field != "" && de.Field != tt.field {
				t.Errorf("Field = %q, want %q", de.Field, tt.field)
			}
			if !errors.Is(err, ErrDescriptor) {
				t.Error("errors.Is(err, ErrDescriptor) = false")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(err, %v) = false", tt.sentinel)
			}
		})
	}
}

func TestParse_UnknownModelWrapsValidationError(t *testing.T) {
	t.Parallel()

	_, err := Parse("drv", wdk(map[string]any{"driver-type": "kmdf2"}), arch.Arch{})
	if !errors.Is(err, ErrInvalidDriverModel) {
		t.Fatalf("expected ErrInvalidDriverModel in chain, got %v", err)
	}
	var ime *InvalidDriverModelError
	if !errors.As(err, &ime) {
		t.Fatal("expected *InvalidDriverModelError in chain")
	}
	if ime.Value != "KMDF2" {
		t.Errorf("Value = %q, want normalized KMDF2", ime.Value)
	}
}
