// SPDX-License-Identifier: MPL-2.0

// Package buildenv derives the ordered build environment handed to the
// compiler, linker and packaging tools from a resolved package configuration.
//
// Every key has the form WDK_BUILD_METADATA-<SECTION>-<FIELD>. Derivation is a
// pure function of its input: the same ResolvedConfig always yields the same
// pairs in the same order.
package buildenv
