// SPDX-License-Identifier: MPL-2.0

package buildenv

import (
	"github.com/drvkit/drvkit/pkg/arch"
)

type (
	// Pair is a single environment entry.
	Pair struct {
		Key   string
		Value string
	}

	// Environment is an immutable ordered set of pairs.
	Environment struct {
		pkg   string
		arch  arch.Arch
		pairs []Pair
		index map[string]int
	}

	builder struct {
		env Environment
		err error
	}
)

func newBuilder(pkg string, a arch.Arch) *builder {
	return &builder{env: Environment{pkg: pkg, arch: a, index: make(map[string]int)}}
}

func (b *builder) set(section, field, value string) {
	if b.err != nil {
		return
	}
	k := Key(section, field)
	if _, dup := b.env.index[k]; dup {
		b.err = &DerivationError{Package: b.env.pkg, Key: k, Err: ErrDuplicateKey}
		return
	}
	b.env.index[k] = len(b.env.pairs)
	b.env.pairs = append(b.env.pairs, Pair{Key: k, Value: value})
}

// setNonEmpty skips empty values.
func (b *builder) setNonEmpty(section, field, value string) {
	if value != "" {
		b.set(section, field, value)
	}
}

func (b *builder) build() (Environment, error) {
	if b.err != nil {
		return Environment{}, b.err
	}
	return b.env, nil
}

// Package returns the package the environment was derived for.
func (e Environment) Package() string { return e.pkg }

// Len returns the number of pairs.
func (e Environment) Len() int { return len(e.pairs) }

// Pairs returns a copy of the pairs in derivation order.
func (e Environment) Pairs() []Pair {
	return append([]Pair(nil), e.pairs...)
}

// Lookup returns the value stored under the full key.
func (e Environment) Lookup(key string) (string, bool) {
	i, ok := e.index[key]
	if !ok {
		return "", false
	}
	return e.pairs[i].Value, true
}

// Get is Lookup for a section and field.
func (e Environment) Get(section, field string) (string, bool) {
	return e.Lookup(Key(section, field))
}

// Environ returns the pairs as KEY=VALUE strings, as accepted by os/exec.
func (e Environment) Environ() []string {
	out := make([]string, len(e.pairs))
	for i, p := range e.pairs {
		out[i] = p.Key + "=" + p.Value
	}
	return out
}

// Arch returns the target architecture, which may be unknown.
func (e Environment) Arch() arch.Arch { return e.arch }

// RequireArch returns the architecture or a DerivationError when it is unmapped.
func (e Environment) RequireArch() (arch.Arch, error) {
	if err := e.arch.Require(); err != nil {
		return arch.Arch{}, &DerivationError{Package: e.pkg, Key: Key(SectionTarget, FieldArch), Err: err}
	}
	return e.arch, nil
}
