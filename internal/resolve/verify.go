// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"

	"github.com/jobrun/jobrun/internal/config"
)

type (
	// Export is an environment assignment derived from the resolved record.
	Export struct {
		Name  string
		Value string
	}

	// Verification is the result of Verify. Record carries the reconciled
	// counts; it must not be used when Violations is non-empty.
	Verification struct {
		Record     config.Record
		Violations []*Violation
		Warnings   []string
		Exports    []Export
	}
)

// Err returns a *VerificationError when any rule failed.
func (v Verification) Err() error {
	if len(v.Violations) == 0 {
		return nil
	}
	return &VerificationError{Violations: v.Violations}
}

// Verify runs every cross-field rule against rec and collects all
// violations. It does not mutate rec or the process environment.
func Verify(rec config.Record, explicit Explicit) Verification {
	out := Verification{Record: rec.Clone()}
	out.checkEnums()
	rules := rulesFor(rec.Mode)

	if !rules.allows(categoryShape) {
		out.checkNoShape(explicit)
	}
	if !rules.allows(categoryConstraints) {
		out.checkNoConstraints()
	}
	if !rules.allows(categoryShape) {
		return out
	}

	if rules.exportsIO {
		out.Exports = ioExports(rec)
	}
	if rules.requiresCommand && len(rec.RemoteCommand) == 0 {
		out.violate("remote-command", FieldRemoteCommand, "must supply remote command")
	}

	if rec.ProcessCount <= 0 {
		out.violate("process-count", FieldProcessCount,
			fmt.Sprintf("%s: invalid number of processes (-n %d)", rec.ProgramName, rec.ProcessCount))
	}
	if rec.CPUsPerProcess <= 0 {
		out.violate("cpus-per-task", FieldCPUsPerProcess,
			fmt.Sprintf("%s: invalid number of cpus per process (-c %d)", rec.ProgramName, rec.CPUsPerProcess))
	}
	if rec.NodeCount < 0 {
		out.violate("node-count", FieldNodeCount,
			fmt.Sprintf("%s: invalid number of nodes (-N %d)", rec.ProgramName, rec.NodeCount))
	}
	if rec.NoAllocate && rec.NodeList == "" {
		out.violate("no-allocate", FieldNoAllocate, "--no-allocate (-Z) requires --nodelist (-w)")
	}

	out.reconcile(explicit)
	return out
}

func (v *Verification) violate(rule string, field Field, msg string) {
	v.Violations = append(v.Violations, &Violation{Rule: rule, Field: field, Message: msg})
}

// checkEnums rejects records that were not built by the resolution layers,
// which never store an unknown mode or distribution.
func (v *Verification) checkEnums() {
	if ok, errs := v.Record.Mode.IsValid(); !ok {
		v.violate("run-mode", FieldMode, errs[0].Error())
	}
	if ok, errs := v.Record.Distribution.IsValid(); !ok {
		v.violate("distribution", FieldDistribution, errs[0].Error())
	}
}

func (v *Verification) checkNoShape(explicit Explicit) {
	mode := v.Record.Mode
	if explicit.NodeCount {
		v.violate("attach-shape", FieldNodeCount, fmt.Sprintf("do not specify --nodes (-N) with %s mode", mode))
	}
	if explicit.CPUsPerProcess {
		v.violate("attach-shape", FieldCPUsPerProcess, fmt.Sprintf("do not specify --cpus-per-task (-c) with %s mode", mode))
	}
	if explicit.ProcessCount {
		v.violate("attach-shape", FieldProcessCount, fmt.Sprintf("do not specify --nprocs (-n) with %s mode", mode))
	}
}

func (v *Verification) checkNoConstraints() {
	rec := v.Record
	if !rec.ConstraintsGiven() {
		return
	}
	checks := []struct {
		set   bool
		field Field
		flag  string
	}{
		{rec.Constraints != "", FieldConstraints, "--constraint (-C)"},
		{rec.MinCPUsPerNode != config.Unset, FieldMinCPUs, "--mincpus"},
		{rec.MinRealMemoryMB != config.Unset, FieldMinMemory, "--mem"},
		{rec.MinTmpDiskMB != config.Unset, FieldMinTmpDisk, "--tmp"},
		{rec.Contiguous, FieldContiguous, "--contiguous"},
		{rec.NodeList != "", FieldNodeList, "--nodelist (-w)"},
	}
	for _, c := range checks {
		if c.set {
			v.violate("attach-constraint", c.field, fmt.Sprintf("do not specify constraint %s with %s mode", c.flag, rec.Mode))
		}
	}
}

// reconcile derives the process count from an explicit node count, and
// shrinks the node count when fewer processes than nodes were requested.
func (v *Verification) reconcile(explicit Explicit) {
	rec := &v.Record
	switch {
	case explicit.NodeCount && !explicit.ProcessCount:
		rec.ProcessCount = rec.NodeCount
	case explicit.NodeCount && explicit.ProcessCount && rec.ProcessCount < rec.NodeCount:
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"can't run %d processes on %d nodes, setting nnodes to %d",
			rec.ProcessCount, rec.NodeCount, rec.ProcessCount))
		rec.NodeCount = rec.ProcessCount
	}
}

// ioExports returns the stream redirections a spawned shell should inherit.
// Only file modes are exported; per-task templates get their '%' back.
func ioExports(rec config.Record) []Export {
	streams := []struct {
		name string
		spec config.IOSpec
	}{
		{EnvStdoutMode, rec.Stdout},
		{EnvStderrMode, rec.Stderr},
		{EnvStdinMode, rec.Stdin},
	}

	var exports []Export
	for _, s := range streams {
		switch s.spec.Mode() {
		case config.IOModeSingleFile:
			exports = append(exports, Export{Name: s.name, Value: s.spec.Template()})
		case config.IOModePerTaskFile:
			exports = append(exports, Export{Name: s.name, Value: s.spec.Template() + "%"})
		}
	}
	return exports
}
