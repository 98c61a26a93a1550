// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/jobrun/jobrun/internal/config"
	"github.com/jobrun/jobrun/internal/resolve"
	"github.com/jobrun/jobrun/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type runParams struct {
	ProgramName string
	Args        []string
	Stdout      io.Writer
	Stderr      io.Writer
	Env         resolve.Environment
	Host        config.Host
	Defaults    config.LoadOptions
	Setenv      func(key, value string) error
	// Launcher receives the verified request. Nil prints it.
	Launcher Launcher
}

func newRootCmd(programName string) *cobra.Command {
	return &cobra.Command{
		Use:   programName + " [OPTIONS...] executable [args...]",
		Short: "Resolve and launch a parallel job",
		Long: TitleStyle.Render(programName) + SubtitleStyle.Render(" - launch client for parallel jobs") + `

Options are resolved from built-in defaults, the defaults file
($JOBRUN_CONFIG or the per-user config.cue), SLURM_* environment
variables and the command line, in that order.

Run '` + programName + ` --help' for the full option list.`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), runParams{
				ProgramName: programName,
				Args:        args,
				Stdout:      cmd.OutOrStdout(),
				Stderr:      cmd.ErrOrStderr(),
				Env:         resolve.OSEnvironment{},
				Host:        config.OSHost{},
				Setenv:      os.Setenv,
			})
		},
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the jobrun command line and exits the process.
// This is called by main.main().
func Execute() {
	programName := filepath.Base(os.Args[0])
	if err := fang.Execute(
		context.Background(),
		newRootCmd(programName),
		fang.WithVersion(getVersionString()),
		fang.WithoutManpage(),
		fang.WithoutCompletions(),
		fang.WithErrorHandler(handleError),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// handleError prints errors that run has not already reported.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// run resolves one invocation and hands the result to the launcher. Every
// failure is reported to p.Stderr before an *ExitError is returned; only
// resolution failures carry the usage summary.
func run(ctx context.Context, p runParams) error {
	logger := newLogger(p.Stderr, p.ProgramName, resolve.RequestedVerbosity(p.ProgramName, p.Args, p.Env))

	out, err := resolve.Resolve(ctx, resolve.Inputs{
		Host:        p.Host,
		Env:         p.Env,
		ProgramName: p.ProgramName,
		Args:        p.Args,
		Defaults:    p.Defaults,
		Logger:      logger,
	})
	switch {
	case errors.Is(err, resolve.ErrHelpRequested):
		renderUsage(p.Stdout, p.ProgramName)
		return nil
	case errors.Is(err, resolve.ErrVersionRequested):
		fmt.Fprintf(p.Stdout, "%s %s\n", p.ProgramName, getVersionString())
		return nil
	case err != nil:
		renderFailure(p.Stderr, p.ProgramName, err, resolve.RequestedVerbosity(p.ProgramName, p.Args, p.Env), true)
		return &ExitError{Code: types.ExitFailure, Err: err}
	}
	renderWarnings(p.Stderr, out.Warnings)

	if err := applyExports(out.Exports, p.Setenv, logger); err != nil {
		renderFailure(p.Stderr, p.ProgramName, err, out.Record.Verbosity, false)
		return &ExitError{Code: types.ExitFailure, Err: err}
	}

	launcher := p.Launcher
	if launcher == nil {
		launcher = &reportLauncher{stdout: p.Stdout, stderr: p.Stderr, logger: logger}
	}
	if err := launcher.Launch(ctx, out); err != nil {
		renderFailure(p.Stderr, p.ProgramName, err, out.Record.Verbosity, false)
		return &ExitError{Code: types.ExitFailure, Err: err}
	}
	return nil
}
