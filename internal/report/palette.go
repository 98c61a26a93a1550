// SPDX-License-Identifier: MPL-2.0

package report

import "github.com/charmbracelet/lipgloss"

// Color palette shared by the option listing and the CLI.
const (
	// ColorPrimary is purple - used for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for keys, hints and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorError is red - used for errors and violations.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for reconciliation warnings.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - used for commands and flags.
	ColorHighlight = lipgloss.Color("#3B82F6")
)
