// SPDX-License-Identifier: MPL-2.0

package buildenv

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/syntax"
)

func testEnv(t *testing.T) Environment {
	t.Helper()
	env, err := Derive(kmdfConfig())
	if err != nil {
		t.Fatal(err)
	}
	return env
}

func TestEncode_Dotenv(t *testing.T) {
	t.Parallel()

	out, err := Encode(FormatEnv, testEnv(t))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
	if lines[0] != "WDK_BUILD_METADATA-DRIVER_MODEL-DRIVER_TYPE=KMDF" {
		t.Errorf("first line = %q", lines[0])
	}
	if len(lines) != testEnv(t).Len() {
		t.Errorf("got %d lines, want %d", len(lines), testEnv(t).Len())
	}
}

func TestEncode_ShellParses(t *testing.T) {
	t.Parallel()

	out, err := Encode(FormatSh, testEnv(t), testEnv(t))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(string(out)), "env.sh")
	if err != nil {
		t.Fatalf("generated script does not parse: %v\n%s", err, out)
	}
	if len(file.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(file.Stmts))
	}

	call, ok := file.Stmts[0].Cmd.(*syntax.CallExpr)
	if !ok {
		t.Fatalf("statement is %T, want *syntax.CallExpr", file.Stmts[0].Cmd)
	}
	// env, one word per pair, "$@"
	if got, want := len(call.Args), testEnv(t).Len()+2; got != want {
		t.Errorf("got %d words, want %d", got, want)
	}
	if !strings.Contains(string(out), `'WDK_BUILD_METADATA-KIT-INSTALL_ROOT=C:\Program Files (x86)\Windows Kits\10\'`) {
		t.Errorf("install root not single-quoted:\n%s", out)
	}
}

func TestEncode_JSONPreservesOrder(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	out, err := Encode(FormatJSON, env)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(decoded) != env.Len() {
		t.Errorf("decoded %d keys, want %d", len(decoded), env.Len())
	}

	last := -1
	for _, p := range env.Pairs() {
		idx := strings.Index(string(out), `"`+p.Key+`"`)
		if idx <= last {
			t.Fatalf("key %s out of order", p.Key)
		}
		last = idx
	}

	multi, err := Encode(FormatJSON, env, env)
	if err != nil {
		t.Fatal(err)
	}
	var list []map[string]string
	if err := json.Unmarshal(multi, &list); err != nil || len(list) != 2 {
		t.Fatalf("multi JSON = %v, %v", len(list), err)
	}
}

func TestEncode_YAML(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	out, err := Encode(FormatYAML, env)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var decoded map[string]string
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if decoded["WDK_BUILD_METADATA-PACKAGE-VERIFY_SIGNATURE"] != "true" {
		t.Errorf("boolean-looking value lost its string form:\n%s", out)
	}
	if decoded["WDK_BUILD_METADATA-DRIVER_MODEL-KMDF_VERSION_MAJOR"] != "1" {
		t.Errorf("numeric-looking value lost its string form:\n%s", out)
	}
}

func TestEncode_Table(t *testing.T) {
	t.Parallel()

	out, err := Encode(FormatTable, testEnv(t))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	s := string(out)
	for _, want := range []string{"PACKAGE", "KEY", "sample-kmdf-driver", "DRIVER_MODEL-DRIVER_TYPE", "FxDriverEntry"} {
		if !strings.Contains(s, want) {
			t.Errorf("table missing %q:\n%s", want, s)
		}
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	t.Parallel()

	if _, err := Encode("toml", testEnv(t)); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if ok, _ := Format("toml").IsValid(); ok {
		t.Error("toml reported valid")
	}
	if len(Formats[string]()) != 5 {
		t.Errorf("Formats() = %v", Formats[string]())
	}
}
