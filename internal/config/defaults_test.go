// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobrun/jobrun/internal/testutil"
)

func TestNewDefault(t *testing.T) {
	t.Parallel()

	host := testutil.NewHost(t)
	got, err := NewDefault(host)
	require.NoError(t, err)

	want := Record{
		User:            "alice",
		UID:             1000,
		WorkingDir:      host.Dir,
		ProcessCount:    1,
		CPUsPerProcess:  1,
		Distribution:    DistributionBlock,
		CoreFormat:      DefaultCoreFormat,
		MinCPUsPerNode:  Unset,
		MinRealMemoryMB: Unset,
		MinTmpDiskMB:    Unset,
		Mode:            RunModeNormal,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewDefault() mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got.ConstraintsGiven())
}

func TestNewDefault_Failures(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	tests := []struct {
		name   string
		mutate func(*testing.T, *testutil.Host)
		op     string
	}{
		{"user lookup", func(_ *testing.T, h *testutil.Host) { h.UserErr = cause }, "resolve invoking user"},
		{"getwd", func(_ *testing.T, h *testutil.Host) { h.WdErr = cause }, "determine working directory"},
		{"missing directory", func(_ *testing.T, h *testutil.Host) { h.Dir = filepath.Join(h.Dir, "gone") }, "read working directory"},
		{"not a directory", func(t *testing.T, h *testutil.Host) {
			h.Dir = testutil.MustWriteFile(t, h.Dir, "file", "x")
		}, "read working directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			host := testutil.NewHost(t)
			tt.mutate(t, host)

			_, err := NewDefault(host)
			require.ErrorIs(t, err, ErrEnvironment)

			var envErr *EnvironmentError
			require.ErrorAs(t, err, &envErr)
			assert.Equal(t, tt.op, envErr.Op)
		})
	}
}

func TestOSHost(t *testing.T) {
	t.Parallel()

	name, _, err := OSHost{}.CurrentUser()
	if err != nil {
		t.Skipf("no user database: %v", err)
	}
	assert.NotEmpty(t, name)
}

// Changes the process working directory; not parallel.
func TestOSHost_Getwd(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(testutil.MustChdir(t, dir))

	wd, err := OSHost{}.Getwd()
	require.NoError(t, err)
	wd, err = filepath.EvalSymlinks(wd)
	require.NoError(t, err)
	assert.Equal(t, dir, wd)

	rec, err := NewDefault(OSHost{})
	if err != nil {
		t.Skipf("no user database: %v", err)
	}
	assert.NotEmpty(t, rec.WorkingDir)
}
