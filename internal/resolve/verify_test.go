// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobrun/jobrun/internal/config"
)

func rules(violations []*Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Rule+":"+string(v.Field))
	}
	return out
}

func TestVerify_NormalRequiresRemoteCommand(t *testing.T) {
	t.Parallel()

	rec := baseRecord(t)
	v := Verify(rec, Explicit{})

	require.Error(t, v.Err())
	require.ErrorIs(t, v.Err(), ErrVerificationFailed)
	assert.Equal(t, []string{"remote-command:remote_command"}, rules(v.Violations))
	assert.Contains(t, v.Err().Error(), "must supply remote command")
}

func TestVerify_AttachWithoutCommandAccepted(t *testing.T) {
	t.Parallel()

	rec := baseRecord(t)
	rec.Mode = config.RunModeAttach
	rec.AttachJobID = "12"

	v := Verify(rec, Explicit{})
	require.NoError(t, v.Err())
	assert.Empty(t, v.Exports)
}

func TestVerify_AttachRejectsShapeAndConstraints(t *testing.T) {
	t.Parallel()

	rec := baseRecord(t)
	rec.Mode = config.RunModeAttach
	rec.Constraints = "gpu"
	rec.MinCPUsPerNode = 4
	rec.MinRealMemoryMB = 1024
	rec.MinTmpDiskMB = 10
	rec.Contiguous = true
	rec.NodeList = "n1"

	v := Verify(rec, Explicit{ProcessCount: true, NodeCount: true, CPUsPerProcess: true})

	assert.Equal(t, []string{
		"attach-shape:nodes",
		"attach-shape:cpus_per_task",
		"attach-shape:nprocs",
		"attach-constraint:constraint",
		"attach-constraint:mincpus",
		"attach-constraint:mem",
		"attach-constraint:tmp",
		"attach-constraint:contiguous",
		"attach-constraint:nodelist",
	}, rules(v.Violations))
}

func TestVerify_AttachSingleConstraintNamed(t *testing.T) {
	t.Parallel()

	rec := baseRecord(t)
	rec.Mode = config.RunModeAttach
	rec.MinRealMemoryMB = 512

	v := Verify(rec, Explicit{})
	require.Len(t, v.Violations, 1)
	assert.Equal(t, FieldMinMemory, v.Violations[0].Field)
	assert.Contains(t, v.Violations[0].Message, "--mem")
}

func TestVerify_CollectsAllCountViolations(t *testing.T) {
	t.Parallel()

	rec := baseRecord(t)
	rec.ProcessCount = 0
	rec.CPUsPerProcess = -1
	rec.NodeCount = -3

	v := Verify(rec, Explicit{})
	assert.Equal(t, []string{
		"remote-command:remote_command",
		"process-count:nprocs",
		"cpus-per-task:cpus_per_task",
		"node-count:nodes",
	}, rules(v.Violations))
	assert.Contains(t, v.Violations[1].Message, "jobrun: invalid number of processes (-n 0)")

	var verr *VerificationError
	require.ErrorAs(t, v.Err(), &verr)
	assert.Len(t, verr.Violations, 4)
}

func TestVerify_NoAllocateRequiresNodeList(t *testing.T) {
	t.Parallel()

	rec := baseRecord(t)
	rec.RemoteCommand = []string{"hostname"}
	rec.NoAllocate = true

	v := Verify(rec, Explicit{})
	assert.Equal(t, []string{"no-allocate:no_allocate"}, rules(v.Violations))

	rec.NodeList = "n[1-4]"
	assert.NoError(t, Verify(rec, Explicit{}).Err())
}

func TestVerify_Reconciliation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		procs, nodes int
		explicit     Explicit
		wantProcs    int
		wantNodes    int
		wantWarnings int
	}{
		{name: "nodes only", procs: 1, nodes: 4, explicit: Explicit{NodeCount: true}, wantProcs: 4, wantNodes: 4},
		{name: "fewer procs than nodes", procs: 1, nodes: 2, explicit: Explicit{NodeCount: true, ProcessCount: true}, wantProcs: 1, wantNodes: 1, wantWarnings: 1},
		{name: "more procs than nodes", procs: 8, nodes: 2, explicit: Explicit{NodeCount: true, ProcessCount: true}, wantProcs: 8, wantNodes: 2},
		{name: "procs only", procs: 6, nodes: 0, explicit: Explicit{ProcessCount: true}, wantProcs: 6, wantNodes: 0},
		{name: "neither explicit", procs: 1, nodes: 3, explicit: Explicit{}, wantProcs: 1, wantNodes: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := baseRecord(t)
			rec.RemoteCommand = []string{"hostname"}
			rec.ProcessCount = tt.procs
			rec.NodeCount = tt.nodes

			v := Verify(rec, tt.explicit)
			require.NoError(t, v.Err())
			assert.Equal(t, tt.wantProcs, v.Record.ProcessCount)
			assert.Equal(t, tt.wantNodes, v.Record.NodeCount)
			assert.Len(t, v.Warnings, tt.wantWarnings)

			// The input record is untouched.
			assert.Equal(t, tt.procs, rec.ProcessCount)
			assert.Equal(t, tt.nodes, rec.NodeCount)
		})
	}
}

func TestVerify_AllocateExportsFileStreams(t *testing.T) {
	t.Parallel()

	rec := baseRecord(t)
	rec.Mode = config.RunModeAllocate
	rec.Stdout = "job.out"
	rec.Stderr = "job.err%"
	rec.Stdin = "none"

	v := Verify(rec, Explicit{})
	require.NoError(t, v.Err())

	want := []Export{
		{Name: "SLURM_STDOUTMODE", Value: "job.out"},
		{Name: "SLURM_STDERRMODE", Value: "job.err%"},
	}
	if diff := cmp.Diff(want, v.Exports); diff != "" {
		t.Errorf("exports mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "SLURM_STDOUTMODE=job.out", v.Exports[0].String())
}

func TestVerify_AllocateEachStreamUsesItsOwnMode(t *testing.T) {
	t.Parallel()

	rec := baseRecord(t)
	rec.Mode = config.RunModeAllocate
	rec.Stdout = "normal"
	rec.Stderr = "e.%"
	rec.Stdin = "in.txt"

	v := Verify(rec, Explicit{})
	want := []Export{
		{Name: "SLURM_STDERRMODE", Value: "e.%"},
		{Name: "SLURM_STDINMODE", Value: "in.txt"},
	}
	if diff := cmp.Diff(want, v.Exports); diff != "" {
		t.Errorf("exports mismatch (-want +got):\n%s", diff)
	}
}

func TestVerify_NormalModeDoesNotExport(t *testing.T) {
	t.Parallel()

	rec := baseRecord(t)
	rec.RemoteCommand = []string{"hostname"}
	rec.Stdout = "job.out"

	v := Verify(rec, Explicit{})
	require.NoError(t, v.Err())
	assert.Empty(t, v.Exports)
}

func TestVerify_RejectsUnknownEnums(t *testing.T) {
	t.Parallel()

	rec := baseRecord(t)
	rec.RemoteCommand = []string{"hostname"}
	rec.Mode = "batch"
	rec.Distribution = config.DistributionUnknown

	v := Verify(rec, Explicit{})
	assert.Equal(t, []string{"run-mode:mode", "distribution:distribution"}, rules(v.Violations))
	require.ErrorIs(t, v.Err(), ErrVerificationFailed)
	assert.Contains(t, v.Err().Error(), `invalid run mode "batch"`)
	assert.Contains(t, v.Err().Error(), `invalid distribution type "unknown"`)
}

func TestVerify_AttachWithDefaultConstraintsAccepted(t *testing.T) {
	t.Parallel()

	rec := baseRecord(t)
	rec.Mode = config.RunModeAttach
	require.False(t, rec.ConstraintsGiven())

	v := Verify(rec, Explicit{})
	assert.Empty(t, v.Violations)
}
