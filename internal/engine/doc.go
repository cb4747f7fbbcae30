// SPDX-License-Identifier: MPL-2.0

// Package engine runs the resolution chain: load manifests, parse driver
// descriptors, locate the kit, reconcile versions and derive one build
// environment per package.
//
// An Engine holds no mutable state after construction. Resolve may be called
// concurrently and always returns the same result for the same inputs.
package engine
