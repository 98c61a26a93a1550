// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the small helpers shared by CUE-backed loaders:
// an input size guard and error formatting that prefixes every CUE
// validation failure with the file and the JSON-style path of the field.
package cueutil
