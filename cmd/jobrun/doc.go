// SPDX-License-Identifier: MPL-2.0

// Package cmd is the jobrun command line.
//
// jobrun has no subcommands: every argument belongs either to its own option
// table or to the remote command, so cobra flag parsing is disabled and the
// whole argument vector is handed to the resolver. The resolved launch
// request is passed to a Launcher.
package cmd
