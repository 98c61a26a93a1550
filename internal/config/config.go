// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/jobrun/jobrun/internal/issue"
	"github.com/jobrun/jobrun/pkg/cueutil"
	"github.com/jobrun/jobrun/pkg/platform"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "jobrun"
	// ConfigFileName is the name of the defaults file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the defaults file extension.
	ConfigFileExt = "cue"
	// ConfigFileEnv names the environment variable that forces a defaults file.
	ConfigFileEnv = "JOBRUN_CONFIG"
)

//go:embed config_schema.cue
var configSchema string

// FileDefaults holds the keys present in a defaults file. A nil field was not
// set by the file and leaves the Record untouched.
type FileDefaults struct {
	ProcessCount   *int    `mapstructure:"nprocs"`
	CPUsPerProcess *int    `mapstructure:"cpus_per_task"`
	NodeCount      *int    `mapstructure:"nodes"`
	Partition      *string `mapstructure:"partition"`
	JobName        *string `mapstructure:"job_name"`
	Distribution   *string `mapstructure:"distribution"`
	LabelOutput    *bool   `mapstructure:"label"`
	Overcommit     *bool   `mapstructure:"overcommit"`
	Immediate      *bool   `mapstructure:"immediate"`
	Stdout         *string `mapstructure:"output"`
	Stdin          *string `mapstructure:"input"`
	Stderr         *string `mapstructure:"error"`
}

// Apply overlays the file's keys onto rec and returns the result.
func (fd *FileDefaults) Apply(rec Record) Record {
	out := rec.Clone()
	if fd == nil {
		return out
	}

	setInt(&out.ProcessCount, fd.ProcessCount)
	setInt(&out.CPUsPerProcess, fd.CPUsPerProcess)
	setInt(&out.NodeCount, fd.NodeCount)
	setString(&out.Partition, fd.Partition)
	setString(&out.JobName, fd.JobName)
	setBool(&out.LabelOutput, fd.LabelOutput)
	setBool(&out.Overcommit, fd.Overcommit)
	setBool(&out.Immediate, fd.Immediate)

	// The schema restricts distribution to block or cyclic.
	if fd.Distribution != nil {
		if d := ParseDistribution(*fd.Distribution); d != DistributionUnknown {
			out.Distribution = d
		}
	}
	if fd.Stdout != nil {
		out.Stdout = IOSpec(*fd.Stdout)
	}
	if fd.Stdin != nil {
		out.Stdin = IOSpec(*fd.Stdin)
	}
	if fd.Stderr != nil {
		out.Stderr = IOSpec(*fd.Stderr)
	}
	return out
}

func setInt(dst, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// ConfigDir returns the jobrun configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven defaults loading. It returns the
// decoded keys and the path they came from ("" when no file was found).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*FileDefaults, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load defaults canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		path := opts.ConfigFilePath.String()
		if !fileExists(path) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load defaults file").
				WithResource(path).
				WithSuggestions(
					"Verify the path in "+ConfigFileEnv+" is correct",
					"Unset "+ConfigFileEnv+" to use the per-user defaults file",
				).
				Wrap(fmt.Errorf("defaults file not found: %s", path)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", invalidFileError(path, err)
		}
		resolvedPath = path
	} else {
		cfgDir := opts.ConfigDirPath.String()
		if cfgDir == "" {
			dir, err := ConfigDir()
			if err != nil {
				return nil, "", err
			}
			cfgDir = dir
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", invalidFileError(cuePath, err)
			}
			resolvedPath = cuePath
		}
		// No defaults file is not an error.
	}

	var fd FileDefaults
	if err := v.Unmarshal(&fd); err != nil {
		return nil, "", fmt.Errorf("failed to parse defaults file: %w", err)
	}

	return &fd, resolvedPath, nil
}

func invalidFileError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load defaults file").
		WithResource(path).
		WithSuggestions(
			"Check that the file contains valid CUE syntax",
			"Only nprocs, cpus_per_task, nodes, partition, job_name, distribution, label, overcommit, immediate, output, input and error may be set",
		).
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Defaults
// schema, and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read defaults file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile defaults schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Defaults"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge defaults: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
