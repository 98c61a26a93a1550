// SPDX-License-Identifier: MPL-2.0

package config

import (
	"math"
	"strconv"
	"strings"
)

const (
	// InvalidSize is returned by ParseSize for input it cannot read.
	InvalidSize = -1

	perTaskMarker = "%"
	mbPerGB       = 1024
)

// ParseIOSpec interprets a stream redirection spec.
//
// A trailing '%' selects one file per task and is stripped from the template.
// "normal" and "none" (case-insensitive) select the normal and suppressed
// modes. The empty spec is normal. Anything else is a single shared file.
func ParseIOSpec(spec string) (IOMode, string) {
	switch {
	case spec == "":
		return IOModeNormal, ""
	case strings.HasSuffix(spec, perTaskMarker):
		return IOModePerTaskFile, strings.TrimSuffix(spec, perTaskMarker)
	case strings.EqualFold(spec, string(IOModeNormal)):
		return IOModeNormal, ""
	case strings.EqualFold(spec, string(IOModeSuppressed)):
		return IOModeSuppressed, ""
	default:
		return IOModeSingleFile, spec
	}
}

// ParseDistribution matches arg case-insensitively as a prefix of "cyclic"
// or "block". Anything else, including the empty string, is
// DistributionUnknown and must be rejected by the caller.
func ParseDistribution(arg string) Distribution {
	// The empty string is a prefix of both names; it selects neither.
	if arg == "" {
		return DistributionUnknown
	}
	for _, d := range []Distribution{DistributionCyclic, DistributionBlock} {
		if len(arg) <= len(d) && strings.EqualFold(arg, string(d)[:len(arg)]) {
			return d
		}
	}
	return DistributionUnknown
}

// ParseSize reads a quantity in megabytes. The number may carry an 'M' or
// 'G' suffix (case-insensitive); 'G' multiplies by 1024. Any other suffix,
// trailing text or overflow yields InvalidSize, so callers check for a
// negative result.
func ParseSize(arg string) int {
	if arg == "" {
		return InvalidSize
	}

	digits, multiplier := arg, 1
	switch last := arg[len(arg)-1]; {
	case last >= '0' && last <= '9':
	case last == 'G' || last == 'g':
		digits, multiplier = arg[:len(arg)-1], mbPerGB
	case last == 'M' || last == 'm':
		digits = arg[:len(arg)-1]
	default:
		return InvalidSize
	}

	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return InvalidSize
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n > math.MaxInt/multiplier {
		return InvalidSize
	}
	return n * multiplier
}
