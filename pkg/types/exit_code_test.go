// SPDX-License-Identifier: MPL-2.0

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	for _, code := range []ExitCode{ExitSuccess, ExitFailure, 2, 255} {
		assert.NoError(t, code.Validate(), "code %d", code)
	}
	for _, code := range []ExitCode{-1, 256, 1000} {
		err := code.Validate()
		assert.ErrorIs(t, err, ErrInvalidExitCode, "code %d", code)
		var codeErr *InvalidExitCodeError
		assert.ErrorAs(t, err, &codeErr)
	}
}

func TestExitCode_IsSuccess(t *testing.T) {
	t.Parallel()

	assert.True(t, ExitSuccess.IsSuccess())
	assert.False(t, ExitFailure.IsSuccess())
	assert.Equal(t, "1", ExitFailure.String())
}
