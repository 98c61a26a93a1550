// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes runtime.GOOS names used for
// platform-specific path lookups.
package platform
