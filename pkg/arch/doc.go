// SPDX-License-Identifier: MPL-2.0

// Package arch maps target triples to the kit's CPU architecture tokens.
//
// The mapping is a fixed lookup table. Triples that are not in the table map to
// an Unknown architecture that keeps the original triple; callers that need a
// concrete architecture decide whether that is fatal.
package arch
