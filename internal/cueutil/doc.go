// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates input against embedded CUE schemas.
//
// The config file is CUE source and goes through ParseAndDecode. Package
// metadata arrives as a decoded TOML table and goes through DecodeValue:
//
//	//go:embed wdk_schema.cue
//	var wdkSchema []byte
//
//	res, err := cueutil.DecodeValue[wdkBlock](wdkSchema, metadata["wdk"], "#Wdk",
//		cueutil.WithFilename(pkgName))
//
// Errors name the input and the path of the offending field.
package cueutil
