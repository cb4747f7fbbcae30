// SPDX-License-Identifier: MPL-2.0

// Package workspace loads drvkit.toml manifests.
//
// A directory holds either a single package manifest or a workspace manifest
// listing member directories (glob patterns allowed). A workspace root may
// also carry its own driver block under [workspace.metadata]; it is checked
// against the members like any other package.
package workspace
