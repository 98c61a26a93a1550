// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load defaults file"},
			want: "failed to load defaults file",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "load defaults file", Resource: "/etc/jobrun/site.cue"},
			want: "failed to load defaults file: /etc/jobrun/site.cue",
		},
		{
			name: "with cause",
			err: &ActionableError{
				Operation: "load defaults file",
				Resource:  "site.cue",
				Cause:     errors.New("permission denied"),
			},
			want: "failed to load defaults file: site.cue: permission denied",
		},
		{
			name: "cause without resource",
			err:  &ActionableError{Operation: "load defaults file", Cause: errors.New("canceled")},
			want: "failed to load defaults file: canceled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("missing")
	err := &ActionableError{Operation: "read", Cause: cause}

	require.ErrorIs(t, err, cause)
	assert.NoError(t, (&ActionableError{Operation: "read"}).Unwrap())
}

func TestActionableError_Format(t *testing.T) {
	inner := errors.New("inner")
	err := &ActionableError{
		Operation:   "load defaults file",
		Suggestions: []string{"Check CUE syntax", "Unset JOBRUN_CONFIG"},
		Cause:       &ActionableError{Operation: "parse", Cause: inner},
	}

	short := err.Format(false)
	assert.Contains(t, short, "\n  • Check CUE syntax")
	assert.Contains(t, short, "\n  • Unset JOBRUN_CONFIG")
	assert.NotContains(t, short, "Error chain:")

	verbose := err.Format(true)
	assert.Contains(t, verbose, "Error chain:")
	assert.Contains(t, verbose, "1. failed to parse: inner")
	assert.Contains(t, verbose, "2. inner")
}

func TestActionableError_HasSuggestions(t *testing.T) {
	assert.False(t, (&ActionableError{Operation: "x"}).HasSuggestions())
	assert.True(t, (&ActionableError{Operation: "x", Suggestions: []string{"y"}}).HasSuggestions())
}

func TestErrorContext_BuildError(t *testing.T) {
	cause := errors.New("boom")
	ctx := NewErrorContext().
		WithOperation("load defaults file").
		WithResource("site.cue").
		WithSuggestions("first").
		WithSuggestions("second", "third").
		Wrap(cause)

	var ae *ActionableError
	require.ErrorAs(t, ctx.BuildError(), &ae)
	assert.Equal(t, "load defaults file", ae.Operation)
	assert.Equal(t, "site.cue", ae.Resource)
	assert.Equal(t, []string{"first", "second", "third"}, ae.Suggestions)
	require.ErrorIs(t, ae, cause)

	// Later additions do not leak into an error already built.
	ctx.WithSuggestions("fourth")
	assert.Len(t, ae.Suggestions, 3)
}

func TestErrorContext_BuildErrorNeedsOperation(t *testing.T) {
	assert.NoError(t, NewErrorContext().BuildError())
	assert.NoError(t, NewErrorContext().WithResource("site.cue").BuildError())
}
