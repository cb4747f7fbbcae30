// SPDX-License-Identifier: MPL-2.0

// Package issue turns resolution failures into operator-facing errors. An
// ActionableError names the failed operation and suggests remedies; the
// catalog holds a Markdown page per failure class, rendered with glamour
// by "drvkit issue".
package issue
