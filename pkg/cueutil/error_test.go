// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, FormatError(nil, "config.cue"))
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		original := errors.New("some error")
		err := FormatError(original, "config.cue")
		require.Error(t, err)
		assert.ErrorIs(t, err, original)
		assert.Contains(t, err.Error(), "config.cue")
	})

	t.Run("CUE validation error carries the field path", func(t *testing.T) {
		t.Parallel()

		v := cuecontext.New().CompileString(`nprocs: int & >=1
nprocs: 0`)
		require.Error(t, v.Validate())

		err := FormatError(v.Validate(), "config.cue")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config.cue: nprocs")
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty path", nil, ""},
		{"single element", []string{"nprocs"}, "nprocs"},
		{"nested path", []string{"io", "output"}, "io.output"},
		{"array index", []string{"hosts", "0", "name"}, "hosts[0].name"},
		{"leading numeric element", []string{"0", "name"}, "0.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatPath(tt.path))
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckFileSize([]byte("hello"), 100, "config.cue"))
	assert.NoError(t, CheckFileSize(make([]byte, 100), 100, "config.cue"))
	assert.NoError(t, CheckFileSize(nil, 100, "config.cue"))

	err := CheckFileSize(make([]byte, 101), 100, "config.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.cue")
	assert.Contains(t, err.Error(), "101")
	assert.Contains(t, err.Error(), "100")
}
