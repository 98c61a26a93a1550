// SPDX-License-Identifier: MPL-2.0

// Package resolve turns defaults, the defaults file, SLURM_* environment
// variables and the command line into one verified config.Record.
//
// Every layer takes the previous Record by value and returns a new one, so
// precedence is the order in which Resolve composes them:
//
//	defaults -> defaults file -> environment -> command line -> Verify
//
// The command line is scanned once and walked twice. Pass 1 settles help,
// version and the run mode before anything else is read; pass 2 applies
// every option in order.
package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobrun/jobrun/internal/config"
	"github.com/jobrun/jobrun/pkg/types"
)

type (
	// Inputs are everything a resolution reads.
	Inputs struct {
		Host config.Host
		Env  Environment
		// ProgramName is the basename of argv[0].
		ProgramName string
		// Args is argv without the program name.
		Args []string
		// Defaults selects the defaults file. JOBRUN_CONFIG in Env is used
		// when Defaults.ConfigFilePath is empty.
		Defaults config.LoadOptions
		// Provider loads the defaults file. Nil uses config.NewProvider.
		Provider config.Provider
		// Logger receives environment warnings and debug traces. Nil uses slog.Default.
		Logger *slog.Logger
	}

	// Outcome is a verified resolution.
	Outcome struct {
		Record   config.Record
		Explicit Explicit
		Exports  []Export
		// Warnings are for the user; the caller prints them.
		Warnings     []string
		ReportFormat ReportFormat
	}

	// layer is one step of the precedence chain.
	layer func(config.Record) (config.Record, error)
)

// Resolve runs the full precedence chain. It returns ErrHelpRequested or
// ErrVersionRequested when either flag is present, before any other input is
// read. Identical inputs produce identical outcomes.
func Resolve(ctx context.Context, in Inputs) (Outcome, error) {
	logger := in.Logger
	if logger == nil {
		logger = slog.Default()
	}
	env := in.Env
	if env == nil {
		env = OSEnvironment{}
	}
	provider := in.Provider
	if provider == nil {
		provider = config.NewProvider()
	}

	cl := NewCommandLine(in.ProgramName, in.Args)
	if _, err := cl.DiscoverMode(); err != nil {
		return Outcome{}, err
	}

	var args Arguments
	layers := []layer{
		func(config.Record) (config.Record, error) {
			rec, err := config.NewDefault(in.Host)
			rec.ProgramName = in.ProgramName
			return rec, err
		},
		func(rec config.Record) (config.Record, error) {
			fd, err := provider.Load(ctx, loadOptions(in.Defaults, env))
			if err != nil {
				return rec, err
			}
			return fd.Apply(rec), nil
		},
		func(rec config.Record) (config.Record, error) {
			return ApplyEnvironment(rec, env, logger), nil
		},
		func(rec config.Record) (config.Record, error) {
			var err error
			args, err = cl.Apply(rec, logger)
			return args.Record, err
		},
	}

	var rec config.Record
	for _, apply := range layers {
		var err error
		if rec, err = apply(rec); err != nil {
			return Outcome{}, err
		}
	}

	v := Verify(rec, args.Explicit)
	for _, w := range v.Warnings {
		logger.Debug("options reconciled", "warning", w)
	}
	if err := v.Err(); err != nil {
		return Outcome{}, err
	}

	logger.Debug("options verified",
		"mode", v.Record.Mode.String(),
		"nprocs", v.Record.ProcessCount,
		"nodes", v.Record.NodeCount)

	return Outcome{
		Record:       v.Record,
		Explicit:     args.Explicit,
		Exports:      v.Exports,
		Warnings:     v.Warnings,
		ReportFormat: args.ReportFormat,
	}, nil
}

func loadOptions(opts config.LoadOptions, env Environment) config.LoadOptions {
	if opts.ConfigFilePath != "" {
		return opts
	}
	if path, ok := env.LookupEnv(config.ConfigFileEnv); ok && path != "" {
		opts.ConfigFilePath = types.FilesystemPath(path)
	}
	return opts
}

// String renders an export as a shell-style assignment.
func (e Export) String() string { return fmt.Sprintf("%s=%s", e.Name, e.Value) }
