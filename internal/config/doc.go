// SPDX-License-Identifier: MPL-2.0

// Package config defines the launch Configuration Record and everything needed
// to build its baseline: the Default Initializer, the pure field validators
// (I/O specs, distribution types, byte sizes) and the optional defaults file.
//
// The defaults file is loaded from ~/.config/jobrun/config.cue (or the XDG or
// platform equivalent), validated against an embedded CUE schema and decoded
// through Viper. Only keys present in the file override the built-in defaults;
// the environment and the command line are applied on top by package resolve.
package config
