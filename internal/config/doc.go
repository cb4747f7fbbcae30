// SPDX-License-Identifier: MPL-2.0

// Package config handles drvkit configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the user configuration directory
// (XDG_CONFIG_HOME/drvkit on Linux, ~/Library/Application Support/drvkit on macOS,
// %APPDATA%\drvkit on Windows), then overridden by DRVKIT_* environment variables.
// The file is validated against the embedded #Config schema before it is merged.
package config
