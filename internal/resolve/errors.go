// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHelpRequested is returned when --help appears anywhere on the command line.
	ErrHelpRequested = errors.New("help requested")
	// ErrVersionRequested is returned when --version appears anywhere on the command line.
	ErrVersionRequested = errors.New("version requested")
	// ErrModeConflict is the sentinel error wrapped by ModeConflictError.
	ErrModeConflict = errors.New("conflicting run modes")
	// ErrBadArgument is the sentinel error wrapped by BadArgumentError.
	ErrBadArgument = errors.New("bad command-line argument")
	// ErrInvalidValue is the sentinel error wrapped by InvalidValueError.
	ErrInvalidValue = errors.New("invalid option value")
	// ErrVerificationFailed is the sentinel error wrapped by VerificationError.
	ErrVerificationFailed = errors.New("option verification failed")
)

type (
	// ModeConflictError is returned when both --attach and --allocate are given.
	ModeConflictError struct {
		// First is the mode flag that appeared first on the command line.
		First string
		// Second is the conflicting mode flag.
		Second string
	}

	// BadArgumentError is returned when the command line cannot be scanned.
	BadArgumentError struct {
		Err error
	}

	// InvalidValueError is returned when an option value fails its validator.
	InvalidValueError struct {
		Option string
		Value  string
		Err    error
	}

	// Violation is one failed cross-field rule.
	Violation struct {
		// Rule names the rule that failed, e.g. "attach-shape".
		Rule string
		// Field names the offending record field.
		Field   Field
		Message string
	}

	// VerificationError bundles every violation found by Verify.
	VerificationError struct {
		Violations []*Violation
	}
)

// Error implements the error interface for ModeConflictError.
func (e *ModeConflictError) Error() string {
	return fmt.Sprintf("%s cannot be combined with %s", e.Second, e.First)
}

// Unwrap returns ErrModeConflict for errors.Is() compatibility.
func (e *ModeConflictError) Unwrap() error { return ErrModeConflict }

// Error implements the error interface for BadArgumentError.
func (e *BadArgumentError) Error() string {
	return fmt.Sprintf("bad argument: %v", e.Err)
}

// Unwrap returns the scanner error.
func (e *BadArgumentError) Unwrap() error { return e.Err }

// Is reports whether target is ErrBadArgument.
func (e *BadArgumentError) Is(target error) bool { return target == ErrBadArgument }

// Error implements the error interface for InvalidValueError.
func (e *InvalidValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Option, e.Err)
	}
	return fmt.Sprintf("invalid value %q for %s", e.Value, e.Option)
}

// Unwrap returns the validator error.
func (e *InvalidValueError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalidValue.
func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }

// Error implements the error interface for Violation.
func (v *Violation) Error() string { return v.Message }

// Error implements the error interface for VerificationError.
func (e *VerificationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("%d option violation(s): %s", len(e.Violations), strings.Join(msgs, "; "))
}

// Unwrap returns ErrVerificationFailed for errors.Is() compatibility.
func (e *VerificationError) Unwrap() error { return ErrVerificationFailed }
