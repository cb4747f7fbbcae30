// SPDX-License-Identifier: MPL-2.0

// Package reconcile combines every package's driver descriptor with the
// discovered kit into one ResolvedConfig per package.
//
// All packages that do driver work must agree on a single driver model, and
// framework-based packages must agree on a single framework version: the
// highest installed version that satisfies every package's requirement.
// Packages that declare no driver model never participate.
package reconcile
