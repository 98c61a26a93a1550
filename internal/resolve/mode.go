// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"github.com/jobrun/jobrun/internal/config"
)

// Field categories a run mode may accept.
const (
	categoryShape category = 1 << iota
	categoryConstraints
	categoryRemoteCommand
)

type (
	category uint8

	// modeRules is the validation profile of one run mode.
	modeRules struct {
		allowed         category
		requiresCommand bool
		exportsIO       bool
	}
)

var runModes = map[config.RunMode]modeRules{
	config.RunModeNormal: {
		allowed:         categoryShape | categoryConstraints | categoryRemoteCommand,
		requiresCommand: true,
	},
	config.RunModeAllocate: {
		allowed:   categoryShape | categoryConstraints | categoryRemoteCommand,
		exportsIO: true,
	},
	config.RunModeAttach: {
		allowed: categoryRemoteCommand,
	},
}

func rulesFor(mode config.RunMode) modeRules {
	if r, ok := runModes[mode]; ok {
		return r
	}
	return runModes[config.RunModeNormal]
}

func (r modeRules) allows(c category) bool { return r.allowed&c != 0 }
