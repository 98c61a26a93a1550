// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobrun/jobrun/pkg/types"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit defaults-file loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific file when set.
		// A forced file that does not exist is an error.
		ConfigFilePath types.FilesystemPath
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath types.FilesystemPath
	}

	// InvalidLoadOptionsError is returned when LoadOptions has invalid fields.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// Provider loads the defaults file from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*FileDefaults, error)
	}

	fileProvider struct{}
)

// Validate checks the non-empty path fields. Empty fields mean "use the
// platform lookup" and are always valid.
func (o LoadOptions) Validate() error {
	var errs []error
	for _, p := range []types.FilesystemPath{o.ConfigFilePath, o.ConfigDirPath} {
		if p == "" {
			continue
		}
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidLoadOptionsError.
func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

// NewProvider creates a defaults-file provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads the defaults file from the requested source. A missing file in
// the platform config directory yields empty FileDefaults.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*FileDefaults, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	fd, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return fd, nil
}
