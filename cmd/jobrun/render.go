// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jobrun/jobrun/internal/cliscan"
	"github.com/jobrun/jobrun/internal/config"
	"github.com/jobrun/jobrun/internal/issue"
	"github.com/jobrun/jobrun/internal/resolve"
)

// issueStyle is the glamour style used for catalog entries. "auto" falls
// back to plain text when stdout is not a terminal.
const issueStyle = "auto"

// renderUsage writes the full option help.
func renderUsage(w io.Writer, programName string) {
	fmt.Fprint(w, cliscan.Usage(fmt.Sprintf(resolve.Synopsis, programName), resolve.Options))
}

// renderFailure reports a fatal error: every violation or the error itself.
// Resolution failures (withUsage) add a usage summary. When verbose the
// matching issue catalog entry follows; otherwise a hint points at -v unless
// the error already carries its own suggestions.
func renderFailure(w io.Writer, programName string, err error, verbosity int, withUsage bool) {
	var sb strings.Builder
	mark := ErrorStyle.Render("✗")

	var verr *resolve.VerificationError
	if errors.As(err, &verr) {
		for _, v := range verr.Violations {
			fmt.Fprintf(&sb, "%s %s\n", mark, v.Message)
		}
	} else {
		fmt.Fprintf(&sb, "%s %s: %s\n", mark, programName, formatErrorForDisplay(err, verbosity > 0))
	}

	id := issueFor(err)
	if verbosity == 0 && id != 0 && !hasSuggestions(err) {
		fmt.Fprintf(&sb, "%s\n", SubtitleStyle.Render("Add "+CmdStyle.Render("-v")+" for an explanation."))
	}

	if withUsage {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf(resolve.Synopsis, programName))
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "Try '%s' for more information.\n", CmdStyle.Render(programName+" --help"))
	}
	fmt.Fprint(w, sb.String())

	if verbosity == 0 || id == 0 {
		return
	}
	rendered, renderErr := issue.Get(id).Render(issueStyle)
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}

// renderWarnings prints the warnings produced while reconciling options.
func renderWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("!"), WarningStyle.Render(msg))
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// hasSuggestions reports whether err already tells the user what to try.
func hasSuggestions(err error) bool {
	var ae *issue.ActionableError
	return errors.As(err, &ae) && ae.HasSuggestions()
}

// issueFor maps a resolution failure to its catalog entry, or 0.
func issueFor(err error) issue.Id {
	var (
		verr *resolve.VerificationError
		ae   *issue.ActionableError
	)
	switch {
	case errors.Is(err, config.ErrEnvironment):
		return issue.EnvironmentFailedId
	case errors.Is(err, resolve.ErrModeConflict):
		return issue.ModeConflictId
	case errors.Is(err, resolve.ErrBadArgument):
		return issue.BadArgumentId
	case errors.Is(err, resolve.ErrInvalidValue):
		return issue.InvalidValueId
	case errors.As(err, &verr):
		return verificationIssue(verr)
	case errors.As(err, &ae), errors.Is(err, config.ErrInvalidLoadOptions):
		return issue.ConfigLoadFailedId
	default:
		return 0
	}
}

func verificationIssue(verr *resolve.VerificationError) issue.Id {
	attachOnly := true
	for _, v := range verr.Violations {
		if !strings.HasPrefix(v.Rule, "attach-") {
			attachOnly = false
		}
	}
	switch {
	case attachOnly:
		return issue.AttachShapeId
	case len(verr.Violations) == 1 && verr.Violations[0].Field == resolve.FieldRemoteCommand:
		return issue.MissingRemoteCommandId
	default:
		return issue.VerificationFailedId
	}
}
