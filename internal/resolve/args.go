// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jobrun/jobrun/internal/cliscan"
	"github.com/jobrun/jobrun/internal/config"
)

// Field names the record field an option changed.
const (
	FieldNone           Field = ""
	FieldProcessCount   Field = "nprocs"
	FieldCPUsPerProcess Field = "cpus_per_task"
	FieldNodeCount      Field = "nodes"
	FieldPartition      Field = "partition"
	FieldWorkingDir     Field = "cwd"
	FieldImmediate      Field = "immediate"
	FieldOvercommit     Field = "overcommit"
	FieldLabelOutput    Field = "label"
	FieldDistribution   Field = "distribution"
	FieldJobName        Field = "job_name"
	FieldStdout         Field = "output"
	FieldStdin          Field = "input"
	FieldStderr         Field = "error"
	FieldVerbosity      Field = "verbose"
	FieldDebugLevel     Field = "debug"
	FieldMode           Field = "mode"
	FieldMinCPUs        Field = "mincpus"
	FieldMinMemory      Field = "mem"
	FieldMinTmpDisk     Field = "tmp"
	FieldConstraints    Field = "constraint"
	FieldContiguous     Field = "contiguous"
	FieldNodeList       Field = "nodelist"
	FieldNoAllocate     Field = "no_allocate"
	FieldRemoteCommand  Field = "remote_command"
	FieldReportFormat   Field = "print_options"
)

// Report formats selectable with --print-options.
const (
	ReportNone ReportFormat = ""
	ReportText ReportFormat = "text"
	ReportTOML ReportFormat = "toml"
)

var errBadSize = errors.New("expected a number of megabytes with an optional M or G suffix")

type (
	// Field names the record field an option changed.
	Field string

	// ReportFormat selects how the resolved record is printed.
	ReportFormat string

	// Change is the result of applying one option: which field it set and
	// the value as given.
	Change struct {
		Field Field
		Value string
	}

	// Explicit records which counts were given on the command line. It is
	// resolution state and never part of the Record.
	Explicit struct {
		ProcessCount   bool
		NodeCount      bool
		CPUsPerProcess bool
	}

	// Arguments is the outcome of command-line resolution.
	Arguments struct {
		Record       config.Record
		Explicit     Explicit
		ReportFormat ReportFormat
	}

	// ModeSelection is the outcome of pass 1.
	ModeSelection struct {
		Mode        config.RunMode
		AttachJobID string
		// flag is the option that selected a non-normal mode.
		flag string
	}

	// CommandLine resolves one argument vector in two passes that share the
	// same immutable tokens and one cursor, rewound between passes.
	CommandLine struct {
		tokens     cliscan.Tokens[Tag]
		cursor     *cliscan.Cursor[Tag]
		selection  ModeSelection
		discovered bool
	}
)

// NewCommandLine scans argv once against Options.
func NewCommandLine(programName string, argv []string) *CommandLine {
	tokens := cliscan.Parse(programName, Options, argv)
	return &CommandLine{tokens: tokens, cursor: tokens.Cursor()}
}

// DiscoverMode is pass 1. It only looks at help, version, attach and
// allocate. Help and version win over everything else, including a mode
// conflict; between the two the first one given wins.
func (c *CommandLine) DiscoverMode() (ModeSelection, error) {
	if c.discovered {
		return c.selection, nil
	}

	c.cursor.Reset()
	sel := ModeSelection{Mode: config.RunModeNormal}
	var conflict error

	for ev, ok := c.cursor.Next(); ok; ev, ok = c.cursor.Next() {
		switch ev.Option.Tag {
		case TagHelp:
			if ev.Bool() {
				return ModeSelection{}, ErrHelpRequested
			}
		case TagVersion:
			if ev.Bool() {
				return ModeSelection{}, ErrVersionRequested
			}
		case TagAttach:
			conflict = selectMode(&sel, config.RunModeAttach, ev, conflict)
			sel.AttachJobID = ev.Value
		case TagAllocate:
			if ev.Bool() {
				conflict = selectMode(&sel, config.RunModeAllocate, ev, conflict)
			}
		}
	}

	if conflict != nil {
		return ModeSelection{}, conflict
	}
	if sel.Mode != config.RunModeAttach {
		sel.AttachJobID = ""
	}
	c.selection, c.discovered = sel, true
	return sel, nil
}

// Apply is pass 2. It rewinds the cursor, applies every option to rec in
// command-line order and collects the remote command. Pass 1 runs first if
// it has not already.
func (c *CommandLine) Apply(rec config.Record, logger *slog.Logger) (Arguments, error) {
	sel, err := c.DiscoverMode()
	if err != nil {
		return Arguments{}, err
	}

	out := rec.Clone()
	out.Mode = sel.Mode
	out.AttachJobID = sel.AttachJobID

	logger.Debug("command line scanned", "options", c.tokens.Len(), "mode", sel.Mode.String())
	c.cursor.Reset()
	res := Arguments{}
	for ev, ok := c.cursor.Next(); ok; ev, ok = c.cursor.Next() {
		change, err := dispatch(&out, ev)
		if err != nil {
			return Arguments{}, err
		}
		switch change.Field {
		case FieldProcessCount:
			res.Explicit.ProcessCount = true
		case FieldNodeCount:
			res.Explicit.NodeCount = true
		case FieldCPUsPerProcess:
			res.Explicit.CPUsPerProcess = true
		case FieldReportFormat:
			res.ReportFormat = ReportFormat(change.Value)
		}
		if change.Field != FieldNone {
			logger.Debug("option applied", "option", ev.Name(), "field", string(change.Field), "value", change.Value)
		}
	}

	if err := c.tokens.Err(); err != nil {
		return Arguments{}, &BadArgumentError{Err: err}
	}

	out.RemoteCommand = c.tokens.Rest()
	res.Record = out
	return res, nil
}

func selectMode(sel *ModeSelection, mode config.RunMode, ev Event, conflict error) error {
	if conflict != nil {
		return conflict
	}
	if sel.Mode != config.RunModeNormal && sel.Mode != mode {
		return &ModeConflictError{First: sel.flag, Second: ev.Name()}
	}
	sel.Mode = mode
	sel.flag = ev.Name()
	return nil
}

// dispatch applies one option to rec and reports what changed.
//
//nolint:gocyclo // one case per option
func dispatch(rec *config.Record, ev Event) (Change, error) {
	value := ev.Value
	change := func(f Field) (Change, error) { return Change{Field: f, Value: value}, nil }

	switch ev.Option.Tag {
	case TagNprocs:
		rec.ProcessCount = ev.Int()
		return change(FieldProcessCount)
	case TagCPUsPerTask:
		rec.CPUsPerProcess = ev.Int()
		return change(FieldCPUsPerProcess)
	case TagNodes:
		rec.NodeCount = ev.Int()
		return change(FieldNodeCount)
	case TagPartition:
		rec.Partition = value
		return change(FieldPartition)
	case TagChdir:
		rec.WorkingDir = value
		return change(FieldWorkingDir)
	case TagImmediate:
		rec.Immediate = ev.Bool()
		return change(FieldImmediate)
	case TagOvercommit:
		rec.Overcommit = ev.Bool()
		return change(FieldOvercommit)
	case TagLabel:
		rec.LabelOutput = ev.Bool()
		return change(FieldLabelOutput)
	case TagDistribution:
		// An empty value is rejected, unlike a literal prefix match where ""
		// would select cyclic.
		d := config.ParseDistribution(value)
		if d == config.DistributionUnknown {
			return Change{}, &InvalidValueError{
				Option: ev.Name(),
				Value:  value,
				Err:    &config.InvalidDistributionError{Value: config.Distribution(value)},
			}
		}
		rec.Distribution = d
		return change(FieldDistribution)
	case TagJobName:
		rec.JobName = value
		return change(FieldJobName)
	case TagOutput:
		rec.Stdout = config.IOSpec(value)
		return change(FieldStdout)
	case TagInput:
		rec.Stdin = config.IOSpec(value)
		return change(FieldStdin)
	case TagError:
		rec.Stderr = config.IOSpec(value)
		return change(FieldStderr)
	case TagVerbose:
		rec.Verbosity++
		return change(FieldVerbosity)
	case TagDebug:
		rec.DebugLevel++
		return change(FieldDebugLevel)
	case TagAllocate, TagAttach:
		// Resolved in pass 1.
		return change(FieldMode)
	case TagMinCPUs:
		n := ev.Int()
		if n < 0 {
			return Change{}, &InvalidValueError{Option: ev.Name(), Value: value}
		}
		rec.MinCPUsPerNode = n
		return change(FieldMinCPUs)
	case TagMem:
		n, err := parseSizeOption(ev)
		if err != nil {
			return Change{}, err
		}
		rec.MinRealMemoryMB = n
		return change(FieldMinMemory)
	case TagTmp:
		n, err := parseSizeOption(ev)
		if err != nil {
			return Change{}, err
		}
		rec.MinTmpDiskMB = n
		return change(FieldMinTmpDisk)
	case TagConstraint:
		rec.Constraints = value
		return change(FieldConstraints)
	case TagContiguous:
		rec.Contiguous = ev.Bool()
		return change(FieldContiguous)
	case TagNodeList:
		rec.NodeList = value
		return change(FieldNodeList)
	case TagNoAllocate:
		rec.NoAllocate = ev.Bool()
		return change(FieldNoAllocate)
	case TagPrintOptions:
		format := ReportFormat(strings.ToLower(value))
		if format != ReportText && format != ReportTOML {
			return Change{}, &InvalidValueError{
				Option: ev.Name(),
				Value:  value,
				Err:    fmt.Errorf("valid formats: %s, %s", ReportText, ReportTOML),
			}
		}
		return Change{Field: FieldReportFormat, Value: string(format)}, nil
	default:
		// Help and version never reach pass 2 when set.
		return Change{}, nil
	}
}

func parseSizeOption(ev Event) (int, error) {
	n := config.ParseSize(ev.Value)
	if n < 0 {
		return 0, &InvalidValueError{
			Option: ev.Name(),
			Value:  ev.Value,
			Err:    errBadSize,
		}
	}
	return n, nil
}

// Count returns how many times the option tagged tag was given.
func (c *CommandLine) Count(tag Tag) int {
	n := 0
	cursor := c.tokens.Cursor()
	for ev, ok := cursor.Next(); ok; ev, ok = cursor.Next() {
		if ev.Option.Tag == tag {
			n++
		}
	}
	return n
}

// RequestedVerbosity returns the larger of the -v count and the debug level
// (SLURM_DEBUG plus the -d count). It is used to configure logging before
// resolution starts; malformed input counts as zero.
func RequestedVerbosity(programName string, argv []string, env Environment) int {
	cl := NewCommandLine(programName, argv)
	debug := cl.Count(TagDebug)
	if v, ok := env.LookupEnv(EnvDebug); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			debug += n
		}
	}
	return max(cl.Count(TagVerbose), debug)
}
