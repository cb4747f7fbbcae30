// SPDX-License-Identifier: MPL-2.0

// Package pipeline turns a resolved workspace into per-package packaging
// plans and walks them. Each applicable stage is rendered as the native tool
// command lines it would run. Packages are processed concurrently while the
// stages of one package run strictly in order.
package pipeline
