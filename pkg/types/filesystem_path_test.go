// SPDX-License-Identifier: MPL-2.0

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemPath_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path FilesystemPath
		want bool
	}{
		{"absolute path", "/etc/jobrun/config.cue", true},
		{"relative path", "config.cue", true},
		{"path with spaces", "/path/to/my file.cue", true},
		{"dot path", ".", true},
		{"empty is invalid", "", false},
		{"whitespace only is invalid", "   ", false},
		{"tab only is invalid", "\t", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.path.IsValid()
			assert.Equal(t, tt.want, valid)
			if tt.want {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], ErrInvalidFilesystemPath)
			var fpErr *InvalidFilesystemPathError
			assert.ErrorAs(t, errs[0], &fpErr)
		})
	}
}
