// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated value types shared across jobrun packages.
package types
