// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps the size of parsed input (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	parseOptions struct {
		maxFileSize int64
		filename    string
	}

	// Option configures parsing.
	Option func(*parseOptions)
)

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *parseOptions) {
		o.maxFileSize = size
	}
}

// WithFilename names the input in error messages. For decoded values this is
// usually the package name.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		o.filename = name
	}
}
