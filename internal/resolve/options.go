// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"github.com/jobrun/jobrun/internal/cliscan"
)

// Tag identifies a recognized command-line option.
const (
	TagNprocs Tag = iota + 1
	TagCPUsPerTask
	TagNodes
	TagPartition
	TagChdir
	TagImmediate
	TagOvercommit
	TagLabel
	TagDistribution
	TagJobName
	TagOutput
	TagInput
	TagError
	TagVerbose
	TagDebug
	TagAllocate
	TagAttach
	TagMinCPUs
	TagMem
	TagTmp
	TagConstraint
	TagContiguous
	TagNodeList
	TagNoAllocate
	TagHelp
	TagVersion
	TagPrintOptions
)

// Synopsis is the first line of the usage text. The program name is
// substituted by the caller.
const Synopsis = "Usage: %s [OPTIONS...] executable [args...]"

type (
	// Tag identifies a recognized command-line option.
	Tag int

	// Option is one entry of the command-line option table.
	Option = cliscan.Option[Tag]

	// Event is one recognized option occurrence.
	Event = cliscan.Event[Tag]
)

// Options is the command-line option table, in usage order.
var Options = cliscan.Table[Tag]{
	{
		Title: "Parallel run options",
		Options: []Option{
			{Long: "nprocs", Short: "n", Arity: cliscan.ArgInt, Tag: TagNprocs, ArgName: "nprocs",
				Help: "number of processes to run"},
			{Long: "cpus-per-task", Short: "c", Arity: cliscan.ArgInt, Tag: TagCPUsPerTask, ArgName: "ncpus",
				Help: "number of cpus required per process"},
			{Long: "nodes", Short: "N", Arity: cliscan.ArgInt, Tag: TagNodes, ArgName: "nnodes",
				Help: "number of nodes on which to run"},
			{Long: "partition", Short: "p", Arity: cliscan.ArgString, Tag: TagPartition, ArgName: "partition",
				Help: "partition requested"},
			{Long: "chdir", Short: "D", Arity: cliscan.ArgString, Tag: TagChdir, ArgName: "path",
				Help: "change remote current working directory"},
			{Long: "immediate", Short: "I", Arity: cliscan.ArgNone, Tag: TagImmediate,
				Help: "exit if resources are not immediately available"},
			{Long: "overcommit", Short: "O", Arity: cliscan.ArgNone, Tag: TagOvercommit,
				Help: "overcommit resources"},
			{Long: "label", Short: "l", Arity: cliscan.ArgNone, Tag: TagLabel,
				Help: "prepend task number to lines of stdout/err"},
			{Long: "distribution", Short: "m", Arity: cliscan.ArgString, Tag: TagDistribution, ArgName: "type",
				Help: "distribution method for processes (type = block|cyclic)"},
			{Long: "job-name", Short: "J", Arity: cliscan.ArgString, Tag: TagJobName, ArgName: "jobname",
				Help: "name of job"},
			{Long: "output", Short: "o", Arity: cliscan.ArgString, Tag: TagOutput, ArgName: "out",
				Help: "location of stdout redirection"},
			{Long: "input", Short: "i", Arity: cliscan.ArgString, Tag: TagInput, ArgName: "in",
				Help: "location of stdin redirection"},
			{Long: "error", Short: "e", Arity: cliscan.ArgString, Tag: TagError, ArgName: "err",
				Help: "location of stderr redirection"},
			{Long: "verbose", Short: "v", Arity: cliscan.ArgCount, Tag: TagVerbose,
				Help: "verbose operation (repeat for more detail)"},
			{Long: "debug", Short: "d", Arity: cliscan.ArgCount, Tag: TagDebug,
				Help: "enable debug (repeat for more detail)"},
		},
	},
	{
		Title: "Allocate only",
		Options: []Option{
			{Long: "allocate", Short: "A", Arity: cliscan.ArgNone, Tag: TagAllocate,
				Help: "allocate resources and spawn a shell"},
		},
	},
	{
		Title: "Attach to running job",
		Options: []Option{
			{Long: "attach", Short: "a", Arity: cliscan.ArgString, Tag: TagAttach, ArgName: "id",
				Help: "attach to running job with job id = id"},
		},
	},
	{
		Title: "Constraint options",
		Options: []Option{
			{Long: "mincpus", Arity: cliscan.ArgInt, Tag: TagMinCPUs, ArgName: "n",
				Help: "minimum number of cpus per node"},
			{Long: "mem", Arity: cliscan.ArgString, Tag: TagMem, ArgName: "MB",
				Help: "minimum amount of real memory (suffix M or G)"},
			{Long: "tmp", Arity: cliscan.ArgString, Tag: TagTmp, ArgName: "MB",
				Help: "minimum amount of temp disk (suffix M or G)"},
			{Long: "constraint", Short: "C", Arity: cliscan.ArgString, Tag: TagConstraint, ArgName: "list",
				Help: "specify a list of constraints"},
			{Long: "contiguous", Arity: cliscan.ArgNone, Tag: TagContiguous,
				Help: "demand a contiguous range of nodes"},
			{Long: "nodelist", Short: "w", Arity: cliscan.ArgString, Tag: TagNodeList, ArgName: "hosts",
				Help: "request a specific list of hosts"},
			{Long: "no-allocate", Short: "Z", Arity: cliscan.ArgNone, Tag: TagNoAllocate,
				Help: "don't allocate nodes (requires --nodelist)"},
		},
	},
	{
		Title: "Other options",
		Options: []Option{
			{Long: "help", Short: "h", Arity: cliscan.ArgNone, Tag: TagHelp,
				Help: "show this help message"},
			{Long: "version", Short: "V", Arity: cliscan.ArgNone, Tag: TagVersion,
				Help: "output version information and exit"},
			{Long: "print-options", Arity: cliscan.ArgOptional, Tag: TagPrintOptions, ArgName: "format",
				Implied: string(ReportText), Help: "print the resolved options (format = text|toml)"},
		},
	},
}
