// SPDX-License-Identifier: MPL-2.0

// Package gate decides which packaging stages run for a resolved package.
//
// The decision is a pure function of the ResolvedConfig: a model-level table
// says which stages make sense for a driver model, per-package settings narrow
// it further, and a stage whose dependency is skipped is skipped as well.
package gate
