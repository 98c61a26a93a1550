// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jobrun/jobrun/internal/report"
	"github.com/jobrun/jobrun/internal/resolve"
)

type (
	// Launcher receives a verified launch request.
	Launcher interface {
		Launch(ctx context.Context, req resolve.Outcome) error
	}

	// reportLauncher prints the request instead of submitting it. Job
	// submission lives outside this repository.
	reportLauncher struct {
		stdout io.Writer
		stderr io.Writer
		logger *slog.Logger
	}
)

// Launch prints the record in the requested format; without --print-options
// the text listing goes to stderr at verbosity 1 and above.
func (l *reportLauncher) Launch(_ context.Context, req resolve.Outcome) error {
	rec := req.Record

	var err error
	switch req.ReportFormat {
	case resolve.ReportTOML:
		err = report.TOML(l.stdout, rec)
	case resolve.ReportText:
		err = report.Text(l.stdout, rec)
	default:
		if rec.Verbosity > 0 {
			err = report.Text(l.stderr, rec)
		}
	}
	if err != nil {
		return fmt.Errorf("print options: %w", err)
	}

	l.logger.Info("launch request ready",
		"mode", rec.Mode.String(),
		"nprocs", rec.ProcessCount,
		"nodes", rec.NodeCount,
		"command", report.Command(rec.RemoteCommand))
	return nil
}

// applyExports sets the derived environment so a spawned shell inherits it.
func applyExports(exports []resolve.Export, setenv func(key, value string) error, logger *slog.Logger) error {
	for _, e := range exports {
		if err := setenv(e.Name, e.Value); err != nil {
			return fmt.Errorf("export %s: %w", e.Name, err)
		}
		logger.Info("exported", "name", e.Name, "value", e.Value)
	}
	return nil
}
