// SPDX-License-Identifier: MPL-2.0

// Package kit locates the installed driver kit and reports which framework
// versions it provides.
//
// Discovery reads a handful of well-known keys from a Store. On Windows the
// default store is the machine registry; elsewhere (and in tests) a MapStore or
// a YAML SnapshotStore stands in for it. Lookups are never cached between
// invocations.
package kit
