// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
)

type (
	// Host is the process identity the Default Initializer reads from.
	Host interface {
		// CurrentUser returns the invoking user's login name and numeric id.
		CurrentUser() (name string, uid int, err error)
		// Getwd returns the current working directory.
		Getwd() (string, error)
	}

	// OSHost reads identity and working directory from the running process.
	OSHost struct{}
)

// CurrentUser looks up the invoking user.
func (OSHost) CurrentUser() (string, int, error) {
	u, err := user.Current()
	if err != nil {
		return "", 0, err
	}
	if u.Username == "" {
		return "", 0, errors.New("empty user name")
	}
	return u.Username, os.Getuid(), nil
}

// Getwd returns the process working directory.
func (OSHost) Getwd() (string, error) {
	return os.Getwd()
}

// NewDefault returns the baseline Record for the invoking process. Failing to
// resolve the user or to read the working directory is an EnvironmentError.
func NewDefault(host Host) (Record, error) {
	name, uid, err := host.CurrentUser()
	if err != nil {
		return Record{}, &EnvironmentError{Op: "resolve invoking user", Err: err}
	}

	cwd, err := host.Getwd()
	if err != nil {
		return Record{}, &EnvironmentError{Op: "determine working directory", Err: err}
	}
	if err := readableDir(cwd); err != nil {
		return Record{}, &EnvironmentError{Op: "read working directory", Err: err}
	}

	return Record{
		User:            name,
		UID:             uid,
		WorkingDir:      cwd,
		ProcessCount:    1,
		CPUsPerProcess:  1,
		NodeCount:       0, // unconstrained
		Distribution:    DistributionBlock,
		CoreFormat:      DefaultCoreFormat,
		MinCPUsPerNode:  Unset,
		MinRealMemoryMB: Unset,
		MinTmpDiskMB:    Unset,
		Mode:            RunModeNormal,
	}, nil
}

func readableDir(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", path)
	}
	return nil
}
