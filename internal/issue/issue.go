// SPDX-License-Identifier: MPL-2.0

package issue

import "github.com/charmbracelet/glamour"

// Id identifies a catalog entry.
type Id int

const (
	EnvironmentFailedId Id = iota + 1
	ConfigLoadFailedId
	ModeConflictId
	BadArgumentId
	InvalidValueId
	MissingRemoteCommandId
	AttachShapeId
	VerificationFailedId
)

// Issue is a Markdown explanation of one class of launch failure.
type Issue struct {
	id    Id
	mdMsg string
}

func (i *Issue) Id() Id {
	return i.id
}

// Render formats the entry for a terminal with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.mdMsg, stylePath)
}

var (
	render = glamour.Render

	environmentFailedIssue = &Issue{
		id: EnvironmentFailedId,
		mdMsg: `
# Cannot determine who is launching the job!

jobrun resolves the invoking user and the current working directory before
reading any option. One of them could not be read.

## Things you can try:
- Check that your user has an entry in the password database:
~~~
$ id
~~~
- Check that the current directory still exists and is readable:
~~~
$ ls -ld "$PWD"
~~~
- Change to a directory you own and retry`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the defaults file!

The defaults file could not be read or does not match the schema.

## Things you can try:
- Check the CUE syntax of the file
- Only these keys are allowed: ` + "`nprocs`, `cpus_per_task`, `nodes`, `partition`, `job_name`, `distribution`, `label`, `overcommit`, `immediate`, `output`, `input`, `error`" + `
- Unset ` + "`JOBRUN_CONFIG`" + ` to fall back to the per-user defaults file

## Example defaults file:
~~~cue
nprocs:       4
partition:    "batch"
distribution: "cyclic"
output:       "job.%"
~~~`,
	}

	modeConflictIssue = &Issue{
		id: ModeConflictId,
		mdMsg: `
# Conflicting run modes!

` + "`--attach`" + ` joins a running job and ` + "`--allocate`" + ` reserves new resources.
A launch can do only one of them.

## Things you can try:
- Remove ` + "`--allocate (-A)`" + ` to attach to the running job
- Remove ` + "`--attach (-a)`" + ` to allocate a new shell`,
	}

	badArgumentIssue = &Issue{
		id: BadArgumentId,
		mdMsg: `
# Unrecognized command line!

An option is unknown or is missing its value.

## Things you can try:
- List every option:
~~~
$ jobrun --help
~~~
- Put ` + "`--`" + ` before the remote command if its arguments start with a dash:
~~~
$ jobrun -n 4 -- ./app -n 10
~~~`,
	}

	invalidValueIssue = &Issue{
		id: InvalidValueId,
		mdMsg: `
# Invalid option value!

## Accepted forms:
- ` + "`--distribution`" + `: a prefix of ` + "`block`" + ` or ` + "`cyclic`" + `
- ` + "`--mem`, `--tmp`" + `: megabytes, optionally suffixed with ` + "`M`" + ` or ` + "`G`" + ` (e.g. ` + "`512M`, `2G`" + `)
- ` + "`--mincpus`" + `: a non-negative integer
- ` + "`--print-options`" + `: ` + "`text`" + ` or ` + "`toml`",
	}

	missingRemoteCommandIssue = &Issue{
		id: MissingRemoteCommandId,
		mdMsg: `
# No remote command!

A normal launch runs a program on the allocated nodes, so it needs one.

## Things you can try:
- Name the program after the options:
~~~
$ jobrun -n 4 hostname
~~~
- Use ` + "`--allocate (-A)`" + ` to get an interactive shell instead`,
	}

	attachShapeIssue = &Issue{
		id: AttachShapeId,
		mdMsg: `
# Attach takes no resource options!

The job you attach to already has its nodes. Process, node and cpu counts
and constraints cannot be given with ` + "`--attach (-a)`" + `.

## Things you can try:
- Drop ` + "`-n`, `-N`, `-c`" + ` and the constraint options
- Launch a new job instead of attaching`,
	}

	verificationFailedIssue = &Issue{
		id: VerificationFailedId,
		mdMsg: `
# The options do not fit together!

Every problem found is listed above.

## Things you can try:
- Process and cpu counts must be at least 1, node counts at least 0
- ` + "`--no-allocate (-Z)`" + ` needs an explicit ` + "`--nodelist (-w)`" + `
- Show what jobrun resolved:
~~~
$ jobrun --print-options -n 2 hostname
~~~`,
	}

	issues = map[Id]*Issue{
		environmentFailedIssue.Id():    environmentFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		modeConflictIssue.Id():         modeConflictIssue,
		badArgumentIssue.Id():          badArgumentIssue,
		invalidValueIssue.Id():         invalidValueIssue,
		missingRemoteCommandIssue.Id(): missingRemoteCommandIssue,
		attachShapeIssue.Id():          attachShapeIssue,
		verificationFailedIssue.Id():   verificationFailedIssue,
	}
)

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
