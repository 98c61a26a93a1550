// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include a fixed process identity (Host), a logger that
// captures output (NewLogger), and file setup (MustWriteFile).
package testutil
