// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jobrun/jobrun/internal/report"
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(report.ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(report.ColorMuted)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(report.ColorError)

	// WarningStyle is for reconciliation warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(report.ColorWarning)

	// CmdStyle is for command names and flags.
	CmdStyle = lipgloss.NewStyle().
			Foreground(report.ColorHighlight)
)
