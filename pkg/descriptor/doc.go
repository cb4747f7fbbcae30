// SPDX-License-Identifier: MPL-2.0

// Package descriptor parses the per-package driver descriptor.
//
// A descriptor lives in a package's metadata table under the "wdk" key:
//
//	[package.metadata.wdk.driver-model]
//	driver-type = "KMDF"
//	kmdf-version-major = 1
//	target-kmdf-version-minor = 33
//
// The raw block is structurally validated against an embedded CUE schema and
// then turned into a DriverConfig, a closed set of variants where only the
// framework-based models carry a version Requirement. Parsing performs no I/O.
package descriptor
