// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixtures shared by package tests: project trees
// written to temporary directories and in-memory kit stores.
package testutil
