// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/jobrun/jobrun/internal/config"
)

var errNegativeLevel = errors.New("debug level must not be negative")

type (
	// Environment provides read access to environment variables.
	Environment interface {
		LookupEnv(key string) (string, bool)
	}

	// OSEnvironment reads the process environment.
	OSEnvironment struct{}

	// MapEnvironment is a fixed environment, used for tests and replays.
	MapEnvironment map[string]string

	envVar struct {
		name  string
		apply func(rec *config.Record, value string) error
	}
)

// environmentTable lists every recognized variable with its target field.
var environmentTable = []envVar{
	{name: EnvDebug, apply: setDebugLevel},
	{name: "SLURM_NPROCS", apply: setInt(func(r *config.Record) *int { return &r.ProcessCount })},
	{name: "SLURM_CPUS_PER_TASK", apply: setInt(func(r *config.Record) *int { return &r.CPUsPerProcess })},
	{name: "SLURM_NNODES", apply: setInt(func(r *config.Record) *int { return &r.NodeCount })},
	{name: "SLURM_PARTITION", apply: func(r *config.Record, v string) error { r.Partition = v; return nil }},
	{name: EnvStdinMode, apply: func(r *config.Record, v string) error { r.Stdin = config.IOSpec(v); return nil }},
	{name: EnvStdoutMode, apply: func(r *config.Record, v string) error { r.Stdout = config.IOSpec(v); return nil }},
	{name: EnvStderrMode, apply: func(r *config.Record, v string) error { r.Stderr = config.IOSpec(v); return nil }},
	{name: "SLURM_DISTRIBUTION", apply: setDistribution},
}

// Environment variables with a second reader: the stream modes are written
// back by the allocate-mode exports and the debug level sets up logging.
const (
	EnvDebug      = "SLURM_DEBUG"
	EnvStdinMode  = "SLURM_STDINMODE"
	EnvStdoutMode = "SLURM_STDOUTMODE"
	EnvStderrMode = "SLURM_STDERRMODE"
)

// LookupEnv implements Environment.
func (OSEnvironment) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

// LookupEnv implements Environment.
func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// ApplyEnvironment overlays the recognized SLURM_* variables onto rec.
// A malformed value is logged at warn level and the prior value is kept.
func ApplyEnvironment(rec config.Record, env Environment, logger *slog.Logger) config.Record {
	out := rec.Clone()
	for _, ev := range environmentTable {
		value, ok := env.LookupEnv(ev.name)
		if !ok {
			continue
		}
		next := out
		if err := ev.apply(&next, value); err != nil {
			logger.Warn("ignoring environment variable", "name", ev.name, "value", value, "error", err)
			continue
		}
		out = next
	}
	return out
}

func setInt(field func(*config.Record) *int) func(*config.Record, string) error {
	return func(rec *config.Record, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
		*field(rec) = n
		return nil
	}
}

func setDebugLevel(rec *config.Record, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%q is not an integer", value)
	}
	if n < 0 {
		return errNegativeLevel
	}
	rec.DebugLevel = n
	return nil
}

func setDistribution(rec *config.Record, value string) error {
	d := config.ParseDistribution(value)
	if d == config.DistributionUnknown {
		return &config.InvalidDistributionError{Value: config.Distribution(value)}
	}
	rec.Distribution = d
	return nil
}
