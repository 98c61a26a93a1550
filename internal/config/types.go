// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

const (
	// DistributionBlock places consecutive tasks on the same node.
	DistributionBlock Distribution = "block"
	// DistributionCyclic places consecutive tasks on consecutive nodes.
	DistributionCyclic Distribution = "cyclic"
	// DistributionUnknown is the parser's rejection value. It is never stored.
	DistributionUnknown Distribution = "unknown"

	// IOModeNormal inherits the stream from the launch client.
	IOModeNormal IOMode = "normal"
	// IOModeSuppressed discards the stream.
	IOModeSuppressed IOMode = "none"
	// IOModeSingleFile sends every task's stream to one shared file.
	IOModeSingleFile IOMode = "single-file"
	// IOModePerTaskFile sends each task's stream to its own templated file.
	IOModePerTaskFile IOMode = "per-task-file"

	// RunModeNormal launches the remote command and waits for it.
	RunModeNormal RunMode = "normal"
	// RunModeAllocate reserves resources and spawns an interactive shell.
	RunModeAllocate RunMode = "allocate"
	// RunModeAttach joins an already running allocation.
	RunModeAttach RunMode = "attach"

	// Unset marks an optional numeric constraint as not requested.
	Unset = -1

	// DefaultCoreFormat is the informational core file format.
	DefaultCoreFormat = "normal"
)

var (
	// ErrInvalidDistribution is returned when a Distribution value is not recognized.
	ErrInvalidDistribution = errors.New("invalid distribution type")
	// ErrInvalidRunMode is returned when a RunMode value is not recognized.
	ErrInvalidRunMode = errors.New("invalid run mode")
	// ErrEnvironment is the sentinel error wrapped by EnvironmentError.
	ErrEnvironment = errors.New("unusable process environment")
)

type (
	// Distribution is the policy for laying tasks out over nodes.
	Distribution string

	// InvalidDistributionError is returned when a Distribution value is not recognized.
	// It wraps ErrInvalidDistribution for errors.Is() compatibility.
	InvalidDistributionError struct {
		Value Distribution
	}

	// IOMode is the redirection policy of one standard stream.
	IOMode string

	// RunMode selects what the invocation does with its allocation.
	RunMode string

	// InvalidRunModeError is returned when a RunMode value is not recognized.
	InvalidRunModeError struct {
		Value RunMode
	}

	// IOSpec is a stream redirection exactly as the user wrote it. It is stored
	// verbatim and interpreted on read through Mode and Template.
	IOSpec string

	// EnvironmentError reports that the process identity or working directory
	// could not be resolved. It is always fatal.
	EnvironmentError struct {
		Op  string
		Err error
	}

	// Record is the resolved launch configuration. Each resolution layer takes
	// a Record by value and returns a new one; use Clone before mutating the
	// RemoteCommand slice of a shared Record.
	Record struct {
		ProgramName string `toml:"program"`
		User        string `toml:"user"`
		UID         int    `toml:"uid"`
		WorkingDir  string `toml:"cwd"`

		ProcessCount   int          `toml:"nprocs"`
		CPUsPerProcess int          `toml:"cpus_per_task"`
		NodeCount      int          `toml:"nodes"`
		Partition      string       `toml:"partition,omitempty"`
		JobName        string       `toml:"job_name"`
		Distribution   Distribution `toml:"distribution"`

		Stdout IOSpec `toml:"output,omitempty"`
		Stdin  IOSpec `toml:"input,omitempty"`
		Stderr IOSpec `toml:"error,omitempty"`

		CoreFormat string `toml:"core_format"`
		Verbosity  int    `toml:"verbose"`
		DebugLevel int    `toml:"debug"`

		LabelOutput bool `toml:"label"`
		Overcommit  bool `toml:"overcommit"`
		Immediate   bool `toml:"immediate"`

		Constraints     string `toml:"constraint,omitempty"`
		Contiguous      bool   `toml:"contiguous"`
		NodeList        string `toml:"nodelist,omitempty"`
		NoAllocate      bool   `toml:"no_allocate"`
		MinCPUsPerNode  int    `toml:"mincpus"`
		MinRealMemoryMB int    `toml:"mem_mb"`
		MinTmpDiskMB    int    `toml:"tmp_mb"`

		Mode          RunMode  `toml:"mode"`
		AttachJobID   string   `toml:"attach,omitempty"`
		RemoteCommand []string `toml:"remote_command"`
	}
)

// Error implements the error interface for InvalidDistributionError.
func (e *InvalidDistributionError) Error() string {
	return fmt.Sprintf("invalid distribution type %q (valid: block, cyclic)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidDistributionError) Unwrap() error { return ErrInvalidDistribution }

// String returns the string representation of the Distribution.
func (d Distribution) String() string { return string(d) }

// IsValid returns whether the Distribution may be stored in a Record.
// DistributionUnknown is a parser result, not a storable value.
func (d Distribution) IsValid() (bool, []error) {
	switch d {
	case DistributionBlock, DistributionCyclic:
		return true, nil
	default:
		return false, []error{&InvalidDistributionError{Value: d}}
	}
}

// String returns the string representation of the IOMode.
func (m IOMode) String() string { return string(m) }

// UsesFile reports whether the mode redirects to a file template.
func (m IOMode) UsesFile() bool {
	return m == IOModeSingleFile || m == IOModePerTaskFile
}

// Error implements the error interface for InvalidRunModeError.
func (e *InvalidRunModeError) Error() string {
	return fmt.Sprintf("invalid run mode %q (valid: normal, allocate, attach)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidRunModeError) Unwrap() error { return ErrInvalidRunMode }

// String returns the string representation of the RunMode.
func (m RunMode) String() string { return string(m) }

// IsValid returns whether the RunMode is one of the defined modes.
func (m RunMode) IsValid() (bool, []error) {
	switch m {
	case RunModeNormal, RunModeAllocate, RunModeAttach:
		return true, nil
	default:
		return false, []error{&InvalidRunModeError{Value: m}}
	}
}

// String returns the spec as written.
func (s IOSpec) String() string { return string(s) }

// Mode interprets the spec. The empty spec is IOModeNormal.
func (s IOSpec) Mode() IOMode {
	mode, _ := ParseIOSpec(string(s))
	return mode
}

// Template returns the file name template of a file mode, without the
// per-task '%' marker. It is empty for the normal and suppressed modes.
func (s IOSpec) Template() string {
	_, tmpl := ParseIOSpec(string(s))
	return tmpl
}

// Error implements the error interface for EnvironmentError.
func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("cannot %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause. ErrEnvironment is matched through Is.
func (e *EnvironmentError) Unwrap() error { return e.Err }

// Is reports whether target is ErrEnvironment.
func (e *EnvironmentError) Is(target error) bool { return target == ErrEnvironment }

// Clone returns a copy of the Record that shares no mutable state with r.
func (r Record) Clone() Record {
	r.RemoteCommand = slices.Clone(r.RemoteCommand)
	return r
}

// ConstraintsGiven reports whether any resource-shape constraint is set.
func (r Record) ConstraintsGiven() bool {
	return r.Constraints != "" ||
		r.MinCPUsPerNode != Unset ||
		r.MinRealMemoryMB != Unset ||
		r.MinTmpDiskMB != Unset ||
		r.Contiguous ||
		r.NodeList != ""
}

// TotalCPUs returns the number of cpus requested across all processes.
func (r Record) TotalCPUs() int {
	return r.ProcessCount * r.CPUsPerProcess
}
