// SPDX-License-Identifier: MPL-2.0

package buildenv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/syntax"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format names an output encoding for environments.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}
)

const (
	FormatEnv   Format = "env"
	FormatSh    Format = "sh"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

var allFormats = []Format{FormatEnv, FormatSh, FormatJSON, FormatYAML, FormatTable}

// Formats returns every supported format as T.
func Formats[T string | Format]() []T {
	out := make([]T, len(allFormats))
	for i, f := range allFormats {
		out[i] = T(f)
	}
	return out
}

// IsValid returns whether the Format is supported, and a list of validation
// errors if it is not.
func (f Format) IsValid() (bool, []error) {
	for _, known := range allFormats {
		if f == known {
			return true, nil
		}
	}
	return false, []error{&InvalidFormatError{Value: f}}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("unknown output format %q (valid: %s)", e.Value, strings.Join(Formats[string](), ", "))
}

// Unwrap returns ErrInvalidFormat.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Encode renders envs in the given format. Multiple environments are
// separated by a blank line in line-based formats and become a list in
// structured formats.
func Encode(format Format, envs ...Environment) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatEnv:
		data = encodeDotenv(envs)
	case FormatSh:
		data, err = encodeShell(envs)
	case FormatJSON:
		data, err = encodeJSON(envs)
	case FormatYAML:
		data, err = encodeYAML(envs)
	case FormatTable:
		data = encodeTable(envs)
	default:
		_, errs := format.IsValid()
		err = errs[0]
	}
	if err != nil {
		return nil, fmt.Errorf("encoding build environment as %q failed: %w", format, err)
	}
	return data, nil
}

func encodeDotenv(envs []Environment) []byte {
	var buf bytes.Buffer
	for i, env := range envs {
		if i > 0 {
			buf.WriteByte('\n')
		}
		for _, p := range env.pairs {
			fmt.Fprintf(&buf, "%s=%s\n", p.Key, p.Value)
		}
	}
	return buf.Bytes()
}

// encodeShell renders each environment as an env(1) wrapper. The keys contain
// '-', which rules out export.
func encodeShell(envs []Environment) ([]byte, error) {
	var buf bytes.Buffer
	for i, env := range envs {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "# %s\n", env.pkg)
		buf.WriteString("env \\\n")
		for _, p := range env.pairs {
			word, err := syntax.Quote(p.Key+"="+p.Value, syntax.LangPOSIX)
			if err != nil {
				return nil, fmt.Errorf("quoting %s: %w", p.Key, err)
			}
			fmt.Fprintf(&buf, "\t%s \\\n", word)
		}
		buf.WriteString("\t\"$@\"\n")
	}
	return buf.Bytes(), nil
}

// orderedJSON writes pairs as a JSON object preserving derivation order.
func orderedJSON(buf *bytes.Buffer, pairs []Pair, indent string) error {
	buf.WriteString("{")
	for i, p := range pairs {
		if i > 0 {
			buf.WriteString(",")
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "\n%s  %s: %s", indent, k, v)
	}
	if len(pairs) > 0 {
		buf.WriteString("\n" + indent)
	}
	buf.WriteString("}")
	return nil
}

func encodeJSON(envs []Environment) ([]byte, error) {
	var buf bytes.Buffer
	if len(envs) == 1 {
		if err := orderedJSON(&buf, envs[0].pairs, ""); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}

	buf.WriteString("[")
	for i, env := range envs {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		if err := orderedJSON(&buf, env.pairs, "  "); err != nil {
			return nil, err
		}
	}
	if len(envs) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}

func yamlMapping(pairs []Pair) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range pairs {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Value},
		)
	}
	return node
}

func encodeYAML(envs []Environment) ([]byte, error) {
	var root *yaml.Node
	if len(envs) == 1 {
		root = yamlMapping(envs[0].pairs)
	} else {
		root = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, env := range envs {
			root.Content = append(root.Content, yamlMapping(env.pairs))
		}
	}
	return yaml.Marshal(root)
}

func encodeTable(envs []Environment) []byte {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Package", "Key", "Value"})
	for _, env := range envs {
		for _, p := range env.pairs {
			t.AppendRow(table.Row{env.pkg, strings.TrimPrefix(p.Key, Prefix+"-"), p.Value})
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return buf.Bytes()
}
