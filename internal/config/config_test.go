// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobrun/jobrun/internal/testutil"
	"github.com/jobrun/jobrun/pkg/platform"
	"github.com/jobrun/jobrun/pkg/types"
)

const fullDefaults = `
nprocs:        4
cpus_per_task: 2
nodes:         2
partition:     "debug"
job_name:      "nightly"
distribution:  "cyclic"
label:         true
overcommit:    true
immediate:     true
output:        "out.%"
input:         "none"
error:         "err.log"
`

func ptr[T any](v T) *T { return &v }

func loadFromDir(t *testing.T, content string) (*FileDefaults, error) {
	t.Helper()
	dir := t.TempDir()
	if content != "" {
		testutil.MustWriteFile(t, dir, ConfigFileName+"."+ConfigFileExt, content)
	}
	return NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
}

func TestLoad_AllKeys(t *testing.T) {
	t.Parallel()

	fd, err := loadFromDir(t, fullDefaults)
	require.NoError(t, err)

	want := &FileDefaults{
		ProcessCount:   ptr(4),
		CPUsPerProcess: ptr(2),
		NodeCount:      ptr(2),
		Partition:      ptr("debug"),
		JobName:        ptr("nightly"),
		Distribution:   ptr("cyclic"),
		LabelOutput:    ptr(true),
		Overcommit:     ptr(true),
		Immediate:      ptr(true),
		Stdout:         ptr("out.%"),
		Stdin:          ptr("none"),
		Stderr:         ptr("err.log"),
	}
	if diff := cmp.Diff(want, fd); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	t.Parallel()

	fd, err := loadFromDir(t, "partition: \"batch\"\n")
	require.NoError(t, err)

	require.NotNil(t, fd.Partition)
	assert.Equal(t, "batch", *fd.Partition)
	assert.Nil(t, fd.ProcessCount)
	assert.Nil(t, fd.Distribution)
}

func TestLoad_NoFileIsEmpty(t *testing.T) {
	t.Parallel()

	fd, err := loadFromDir(t, "")
	require.NoError(t, err)
	assert.Equal(t, &FileDefaults{}, fd)
}

func TestLoad_InvalidFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", "nprocs: [\n"},
		{"zero nprocs", "nprocs: 0\n"},
		{"negative nodes", "nodes: -1\n"},
		{"bad distribution", "distribution: \"plane\"\n"},
		{"empty output", "output: \"\"\n"},
		{"wrong type", "label: \"yes\"\n"},
		{"unknown key", "mincpus: 4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := loadFromDir(t, tt.content)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "load defaults file")
			assert.Contains(t, err.Error(), ConfigFileName+"."+ConfigFileExt)
		})
	}
}

func TestLoad_ForcedFile(t *testing.T) {
	t.Parallel()

	path := testutil.MustWriteFile(t, t.TempDir(), "site.cue", "nodes: 8\n")
	fd, err := NewProvider().Load(t.Context(), LoadOptions{
		ConfigFilePath: types.FilesystemPath(path),
		// Ignored when a file is forced.
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
	})
	require.NoError(t, err)
	require.NotNil(t, fd.NodeCount)
	assert.Equal(t, 8, *fd.NodeCount)
}

func TestLoad_ForcedFileMissing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.cue")
	_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defaults file not found")
	assert.Contains(t, err.Error(), path)
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileDefaults_Apply(t *testing.T) {
	t.Parallel()

	base := Record{
		ProcessCount:   1,
		CPUsPerProcess: 1,
		Distribution:   DistributionBlock,
		Partition:      "default",
		RemoteCommand:  []string{"hostname"},
	}

	fd := &FileDefaults{
		ProcessCount: ptr(4),
		Distribution: ptr("cyclic"),
		Stdout:       ptr("out.%"),
		Immediate:    ptr(true),
	}
	got := fd.Apply(base)

	want := base
	want.RemoteCommand = []string{"hostname"}
	want.ProcessCount = 4
	want.Distribution = DistributionCyclic
	want.Stdout = "out.%"
	want.Immediate = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}

	got.RemoteCommand[0] = "uptime"
	assert.Equal(t, "hostname", base.RemoteCommand[0])
}

func TestFileDefaults_ApplyNil(t *testing.T) {
	t.Parallel()

	var fd *FileDefaults
	base := Record{ProcessCount: 3}
	assert.Equal(t, base, fd.Apply(base))
}

func TestFileDefaults_ApplyIgnoresUnknownDistribution(t *testing.T) {
	t.Parallel()

	fd := &FileDefaults{Distribution: ptr("plane")}
	got := fd.Apply(Record{Distribution: DistributionBlock})
	assert.Equal(t, DistributionBlock, got.Distribution)
}

// Tests below mutate package state and must not run in parallel.

func TestConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == platform.Windows || runtime.GOOS == platform.Darwin {
		t.Skip("XDG_CONFIG_HOME is only consulted on Linux and other Unix systems")
	}
	Reset()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	got, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, AppName), got)
}

func TestLoad_UsesPlatformConfigDir(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, dir, ConfigFileName+"."+ConfigFileExt, "job_name: \"from-override\"\n")
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	fd, err := NewProvider().Load(t.Context(), LoadOptions{})
	require.NoError(t, err)
	require.NotNil(t, fd.JobName)
	assert.Equal(t, "from-override", *fd.JobName)
}
